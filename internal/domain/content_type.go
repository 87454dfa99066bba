package domain

// ContentType tags the kind of study material a session, response, or
// learning gap refers to.
type ContentType string

// Supported content type values.
const (
	ContentTypeCuecard      ContentType = "cuecard"
	ContentTypeMCQ          ContentType = "mcq"
	ContentTypeOpenQuestion ContentType = "open_question"
)

// Valid reports whether the content type is one of the supported values.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeCuecard, ContentTypeMCQ, ContentTypeOpenQuestion:
		return true
	default:
		return false
	}
}
