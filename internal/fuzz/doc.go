// Package fuzz provides the approximate string similarity score used by task
// search ranking.
//
// The score is a fuzzy "partial ratio": edit-distance similarity of the query
// against the best-aligned substring window of the candidate text. It is not
// a substring check; minor typos and partial phrase matches still score
// highly:
//
//	fuzz.Score("report", "monthly report")  // 100 - exact window
//	fuzz.Score("reprot", "monthly report")  // high - one transposition
//	fuzz.Score("report", "")                // 0
//
// Scores are integers in [0, 100].
package fuzz
