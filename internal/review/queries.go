package review

import "time"

// The query layer partitions a caller-supplied candidate list. The
// engine never enumerates "all items" on its own; the catalog owns that
// list. Every function preserves the input order.

// DueItems returns candidates with no record or whose next review date
// has arrived.
func (l *Ledger) DueItems(itemIDs []string, now time.Time) []string {
	return filter(itemIDs, func(p ItemProgress, ok bool) bool {
		if !ok {
			return true
		}
		return p.NextReviewDate == nil || !p.NextReviewDate.After(now)
	}, l)
}

// MarkedItems returns candidates flagged for review.
func (l *Ledger) MarkedItems(itemIDs []string) []string {
	return filter(itemIDs, func(p ItemProgress, ok bool) bool {
		return ok && p.IsMarkedForReview
	}, l)
}

// NewItems returns candidates that have never been recorded.
func (l *Ledger) NewItems(itemIDs []string) []string {
	return filter(itemIDs, func(p ItemProgress, ok bool) bool {
		return !ok
	}, l)
}

// MasteredItems returns candidates currently in the mastered state.
func (l *Ledger) MasteredItems(itemIDs []string) []string {
	return filter(itemIDs, func(p ItemProgress, ok bool) bool {
		return ok && p.IsMastered
	}, l)
}

// StrugglingItems returns candidates missed at least twice with no
// active streak.
func (l *Ledger) StrugglingItems(itemIDs []string) []string {
	return filter(itemIDs, func(p ItemProgress, ok bool) bool {
		return ok && isStruggling(p)
	}, l)
}

// CorrectlyAnsweredItems returns candidates answered correctly at least
// once that still carry an active streak.
func (l *Ledger) CorrectlyAnsweredItems(itemIDs []string) []string {
	return filter(itemIDs, func(p ItemProgress, ok bool) bool {
		return ok && p.TimesCorrect > 0 && p.Streak > 0
	}, l)
}

func isStruggling(p ItemProgress) bool {
	return p.TimesIncorrect >= 2 && p.Streak == 0
}

func filter(itemIDs []string, keep func(p ItemProgress, ok bool) bool, l *Ledger) []string {
	out := make([]string, 0, len(itemIDs))
	for _, id := range itemIDs {
		p, ok := l.Progress[id]
		if keep(p, ok) {
			out = append(out, id)
		}
	}
	return out
}
