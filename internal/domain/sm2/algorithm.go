// Package sm2 implements the SuperMemo-2 variant that schedules cuecard
// reviews. The functions here are pure: they compute the next interval and
// ease factor from a review outcome and never touch storage.
package sm2

import "math"

// nextInterval determines the new review interval in days.
//
// Behavior:
//   - An incorrect answer fully resets the interval to the first interval,
//     regardless of the current state.
//   - The first successful review uses the fixed first interval (1 day).
//   - The second successful review uses the fixed second interval (6 days),
//     independent of ease factor - a deliberate SM-2 convention.
//   - Later reviews multiply the current interval by the ease factor
//     (integer-encoded as 100x) and round to the nearest day.
func nextInterval(currentInterval, easeFactor int, isCorrect bool, params *Params) int {
	if !isCorrect {
		return params.FirstInterval
	}

	if currentInterval == 0 {
		return params.FirstInterval
	}

	if currentInterval == params.FirstInterval {
		return params.SecondInterval
	}

	return int(math.Round(float64(currentInterval) * float64(easeFactor) / 100.0))
}

// qualityFromResponseTime derives an SM-2 quality score (3-5) from how fast
// the user answered correctly. Faster answers signal stronger recall.
func qualityFromResponseTime(responseTimeMs int, params *Params) int {
	switch {
	case responseTimeMs < params.FastAnswerMs:
		return 5
	case responseTimeMs < params.SlowAnswerMs:
		return 4
	default:
		return 3
	}
}

// nextEaseFactor determines the new ease factor (100x integer encoding).
//
// Behavior:
//   - An incorrect answer applies the flat penalty, floored at the minimum.
//   - A correct answer derives a quality score from the response time and
//     applies the SM-2 adjustment 0.1 - (5-q)*(0.08 + (5-q)*0.02), scaled
//     to the integer encoding and clamped to [min, max].
func nextEaseFactor(currentEase int, isCorrect bool, responseTimeMs int, params *Params) int {
	if !isCorrect {
		newEase := currentEase - params.IncorrectPenalty
		if newEase < params.MinEaseFactor {
			newEase = params.MinEaseFactor
		}
		return newEase
	}

	quality := qualityFromResponseTime(responseTimeMs, params)
	miss := float64(5 - quality)
	adjustment := 0.1 - miss*(0.08+miss*0.02)

	newEase := currentEase + int(math.Round(adjustment*100))
	if newEase < params.MinEaseFactor {
		newEase = params.MinEaseFactor
	}
	if newEase > params.MaxEaseFactor {
		newEase = params.MaxEaseFactor
	}
	return newEase
}
