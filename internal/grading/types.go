package grading

// Request is one typed answer against one question.
type Request struct {
	QuestionID string
	Prompt     string
	Expected   string
	Choices    []string
	Match      string
	Answer     string
}

// Result carries the boolean correctness signal the scheduler consumes,
// plus detail for the feedback view.
type Result struct {
	QuestionID string
	Correct    bool
	Expected   string
	Given      string
	// Distance is the edit distance for fuzzy matches, -1 otherwise.
	Distance int
}
