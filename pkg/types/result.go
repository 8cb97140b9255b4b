package types

// SearchResult represents a single ranked search result.
//
// Scores are an internal ranking detail and are not carried here: a result
// served from cache has no score to report, only its position.
type SearchResult struct {
	TaskID int64
	Rank   int // Position in result set (1-based)
	Task   *Task
}

// Validate checks if the search result is valid
func (sr *SearchResult) Validate() error {
	if sr.TaskID == 0 {
		return ErrInvalidTaskID
	}

	if sr.Rank < 1 {
		return ErrInvalidRank
	}

	if sr.Task == nil {
		return ErrMissingTask
	}

	return nil
}
