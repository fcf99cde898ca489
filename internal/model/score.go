package model

// ScoreResult is the structured output of the answer-scoring engine.
// All four scores are in [0, 100] and Suggestions is never empty.
type ScoreResult struct {
	Communication int
	Correctness   int
	Completeness  int
	Overall       int
	Suggestions   []string

	WordCount       int
	SentenceCount   int
	MatchedKeywords int
	TotalKeywords   int
}

// Feedback converts the score into a feedback row for the given response.
func (s ScoreResult) Feedback(responseID int64) Feedback {
	return Feedback{
		ResponseID:    responseID,
		Communication: s.Communication,
		Correctness:   s.Correctness,
		Completeness:  s.Completeness,
		Overall:       s.Overall,
		Suggestions:   s.Suggestions,
	}
}
