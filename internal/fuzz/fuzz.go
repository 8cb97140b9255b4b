package fuzz

import (
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Score bounds
const (
	MinScore = 0
	MaxScore = 100
)

// Score computes the partial-ratio similarity between query and text on a
// 0-100 scale: the best alignment of query against any window of text of
// equal or greater length. Longer candidate text does not penalize the
// score, so a one-word query still matches inside a full description.
//
// Empty text scores 0. Callers are expected to pass already case-folded
// input; Score does no normalization of its own. Pure and deterministic.
func Score(query, text string) int {
	if query == "" || text == "" {
		return MinScore
	}

	score := fuzzy.PartialRatio(query, text)

	// PartialRatio stays in [0, 100] for sane inputs; clamp anyway so the
	// contract holds for any upstream library behavior.
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
