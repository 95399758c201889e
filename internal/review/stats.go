package review

import (
	"math"
	"time"
)

// Stats is the dashboard summary over all stored records. Totals come
// from the ledger counters rather than being recomputed from records,
// so they stay accurate after individual records are deleted.
type Stats struct {
	TotalAnswered   int
	TotalCorrect    int
	TotalIncorrect  int
	Accuracy        int
	MasteredCount   int
	StrugglingCount int
	MarkedCount     int
	LastStudyDate   *time.Time
}

func (l *Ledger) Stats() Stats {
	s := Stats{
		TotalAnswered:  l.TotalQuestionsAnswered,
		TotalCorrect:   l.TotalCorrect,
		TotalIncorrect: l.TotalIncorrect,
		LastStudyDate:  l.LastStudyDate,
	}
	if s.TotalAnswered > 0 {
		s.Accuracy = int(math.Round(100 * float64(s.TotalCorrect) / float64(s.TotalAnswered)))
	}
	for _, p := range l.Progress {
		if p.IsMastered {
			s.MasteredCount++
		}
		if isStruggling(p) {
			s.StrugglingCount++
		}
		if p.IsMarkedForReview {
			s.MarkedCount++
		}
	}
	return s
}
