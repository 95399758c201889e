package review

import "time"

const (
	initialEaseFactor = 2.5
	minEaseFactor     = 1.3
	easeReward        = 0.1
	easePenalty       = 0.2
)

// ItemProgress is the per-item scheduling record. JSON field names match
// the persisted blob layout and must stay stable.
type ItemProgress struct {
	ItemID            string     `json:"itemId"`
	EaseFactor        float64    `json:"easeFactor"`
	Interval          int        `json:"interval"`
	Repetitions       int        `json:"repetitions"`
	NextReviewDate    *time.Time `json:"nextReviewDate"`
	LastReviewDate    *time.Time `json:"lastReviewDate"`
	TimesAnswered     int        `json:"timesAnswered"`
	TimesCorrect      int        `json:"timesCorrect"`
	TimesIncorrect    int        `json:"timesIncorrect"`
	Streak            int        `json:"streak"`
	IsMarkedForReview bool       `json:"isMarkedForReview"`
	IsMastered        bool       `json:"isMastered"`
	ReviewNote        string     `json:"reviewNote,omitempty"`
	ReviewImage       string     `json:"reviewImage,omitempty"`
}

// StudySession is an immutable record of one completed study run.
// The engine appends these and never reads them back into scheduling.
type StudySession struct {
	Date            time.Time `json:"date"`
	QuestionCount   int       `json:"questionCount"`
	CorrectCount    int       `json:"correctCount"`
	IncorrectCount  int       `json:"incorrectCount"`
	DurationSeconds int       `json:"durationSeconds"`
}

// Ledger is the aggregate root: per-item records, the session log, and
// process-wide counters. The aggregate counters are maintained on their
// own rather than recomputed from records, so they survive per-item
// resets.
type Ledger struct {
	Progress               map[string]ItemProgress `json:"progress"`
	Sessions               []StudySession          `json:"sessions"`
	LastStudyDate          *time.Time              `json:"lastStudyDate"`
	TotalQuestionsAnswered int                     `json:"totalQuestionsAnswered"`
	TotalCorrect           int                     `json:"totalCorrect"`
	TotalIncorrect         int                     `json:"totalIncorrect"`
}

func NewLedger() *Ledger {
	return &Ledger{
		Progress: map[string]ItemProgress{},
		Sessions: []StudySession{},
	}
}

// defaultProgress is the record an item receives the first time it is
// answered or marked. Never-answered items have no record at all.
func defaultProgress(itemID string) ItemProgress {
	return ItemProgress{
		ItemID:     itemID,
		EaseFactor: initialEaseFactor,
	}
}

// getOrDefault returns the stored record for itemID or a fresh default.
func (l *Ledger) getOrDefault(itemID string) ItemProgress {
	if p, ok := l.Progress[itemID]; ok {
		return p
	}
	return defaultProgress(itemID)
}
