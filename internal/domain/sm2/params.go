package sm2

import "github.com/gawdwnn/studyloopai-sub005/internal/domain"

// Params defines all configurable parameters for the scheduling algorithm.
// The defaults reproduce the historical behavior (20-point incorrect penalty,
// 3s/8s quality thresholds); deployments can tune them through configuration
// rather than code changes.
type Params struct {
	// Ease factor limits and default, in 100x integer encoding.
	MinEaseFactor     int
	MaxEaseFactor     int
	DefaultEaseFactor int

	// Flat ease penalty applied on an incorrect answer.
	IncorrectPenalty int

	// Fixed intervals for the first and second successful reviews.
	FirstInterval  int
	SecondInterval int

	// Response time thresholds separating quality 5 / 4 / 3 answers.
	FastAnswerMs int
	SlowAnswerMs int
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero values keep the default.
type ParamsConfig struct {
	MinEaseFactor     int
	MaxEaseFactor     int
	DefaultEaseFactor int
	IncorrectPenalty  int
	FirstInterval     int
	SecondInterval    int
	FastAnswerMs      int
	SlowAnswerMs      int
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:     domain.MinEaseFactor,
		MaxEaseFactor:     domain.MaxEaseFactor,
		DefaultEaseFactor: domain.DefaultEaseFactor,

		IncorrectPenalty: 20,

		// SM-2 convention: the second successful interval is fixed at six
		// days regardless of ease factor.
		FirstInterval:  1,
		SecondInterval: 6,

		FastAnswerMs: 3000,
		SlowAnswerMs: 8000,
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.MaxEaseFactor > 0 {
		params.MaxEaseFactor = config.MaxEaseFactor
	}
	if config.DefaultEaseFactor > 0 {
		params.DefaultEaseFactor = config.DefaultEaseFactor
	}
	if config.IncorrectPenalty > 0 {
		params.IncorrectPenalty = config.IncorrectPenalty
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.FastAnswerMs > 0 {
		params.FastAnswerMs = config.FastAnswerMs
	}
	if config.SlowAnswerMs > 0 {
		params.SlowAnswerMs = config.SlowAnswerMs
	}

	return params
}
