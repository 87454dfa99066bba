package sm2

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaultParams(t *testing.T) {
	params := NewDefaultParams()

	assert.Equal(t, 130, params.MinEaseFactor)
	assert.Equal(t, 350, params.MaxEaseFactor)
	assert.Equal(t, 250, params.DefaultEaseFactor)
	assert.Equal(t, 20, params.IncorrectPenalty)
	assert.Equal(t, 1, params.FirstInterval)
	assert.Equal(t, 6, params.SecondInterval)
	assert.Equal(t, 3000, params.FastAnswerMs)
	assert.Equal(t, 8000, params.SlowAnswerMs)
}

func TestNewParamsOverrides(t *testing.T) {
	params := NewParams(ParamsConfig{
		IncorrectPenalty: 30,
		FastAnswerMs:     2000,
	})

	assert.Equal(t, 30, params.IncorrectPenalty)
	assert.Equal(t, 2000, params.FastAnswerMs)

	// Zero values keep defaults.
	assert.Equal(t, 130, params.MinEaseFactor)
	assert.Equal(t, 6, params.SecondInterval)
	assert.Equal(t, 8000, params.SlowAnswerMs)
}
