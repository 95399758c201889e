package review

import (
	"context"
	"math"
	"time"
)

// Engine owns all mutation of a single ledger. It assumes one logical
// writer at a time; concurrent sessions over the same ledger are
// unsupported and may clobber each other's last write.
type Engine struct {
	ledger *Ledger
	saver  Saver
	logger Logger
	now    func() time.Time
}

func NewEngine(ledger *Ledger, saver Saver, logger Logger) *Engine {
	if ledger == nil {
		ledger = NewLedger()
	}
	return &Engine{
		ledger: ledger,
		saver:  saver,
		logger: logger,
		now:    time.Now,
	}
}

// Ledger exposes the current ledger for the query layer. Callers must
// not mutate it.
func (e *Engine) Ledger() *Ledger { return e.ledger }

// RecordAnswer scores one answer event with an SM-2 variant and returns
// the updated record. Unknown item IDs are created with defaults first;
// there is no "item not found" here.
func (e *Engine) RecordAnswer(ctx context.Context, itemID string, wasCorrect bool) ItemProgress {
	now := e.now()
	p := e.ledger.getOrDefault(itemID)

	if wasCorrect {
		p.Repetitions++
		p.Streak++
		switch {
		case p.Repetitions == 1:
			p.Interval = 1
		case p.Repetitions == 2:
			p.Interval = 3
		default:
			// Interval grows by the ease factor as it stood before
			// this answer's reward.
			p.Interval = int(math.Round(float64(p.Interval) * p.EaseFactor))
		}
		p.EaseFactor = math.Max(minEaseFactor, p.EaseFactor+easeReward)
	} else {
		p.Repetitions = 0
		p.Interval = 0
		p.Streak = 0
		p.EaseFactor = math.Max(minEaseFactor, p.EaseFactor-easePenalty)
	}

	next := now.AddDate(0, 0, p.Interval)
	p.NextReviewDate = &next
	p.LastReviewDate = &now

	p.TimesAnswered++
	if wasCorrect {
		p.TimesCorrect++
	} else {
		p.TimesIncorrect++
	}

	// Recomputed on every answer, never sticky: a wrong answer zeroes
	// the streak and drops mastery with it.
	p.IsMastered = p.TimesCorrect >= 3 && p.Streak >= 2 && p.EaseFactor >= 2.3

	e.ledger.Progress[itemID] = p
	e.ledger.TotalQuestionsAnswered++
	if wasCorrect {
		e.ledger.TotalCorrect++
	} else {
		e.ledger.TotalIncorrect++
	}
	e.ledger.LastStudyDate = &now

	e.persist(ctx, "record_answer")
	return p
}

// ToggleMarkForReview flips the review flag. Unmarking clears the note
// and image in the same update; annotations do not outlive the flag.
func (e *Engine) ToggleMarkForReview(ctx context.Context, itemID string) ItemProgress {
	p := e.ledger.getOrDefault(itemID)
	p.IsMarkedForReview = !p.IsMarkedForReview
	if !p.IsMarkedForReview {
		p.ReviewNote = ""
		p.ReviewImage = ""
	}
	e.ledger.Progress[itemID] = p
	e.persist(ctx, "toggle_mark")
	return p
}

// SetReviewNote overwrites the annotation fields unconditionally. It
// does not set the review flag.
func (e *Engine) SetReviewNote(ctx context.Context, itemID, note, image string) ItemProgress {
	p := e.ledger.getOrDefault(itemID)
	p.ReviewNote = note
	p.ReviewImage = image
	e.ledger.Progress[itemID] = p
	e.persist(ctx, "set_review_note")
	return p
}

// ResetItemProgress deletes the item's record entirely; queries treat
// the item as new again. Aggregate counters are intentionally left
// untouched.
func (e *Engine) ResetItemProgress(ctx context.Context, itemID string) {
	delete(e.ledger.Progress, itemID)
	e.persist(ctx, "reset_item")
}

// ResetAllProgress replaces the ledger with an empty one. Interactive
// confirmation is the caller's job, not the engine's.
func (e *Engine) ResetAllProgress(ctx context.Context) {
	e.ledger = NewLedger()
	e.persist(ctx, "reset_all")
}

// RecordSession appends one study session to the log.
func (e *Engine) RecordSession(ctx context.Context, session StudySession) {
	e.ledger.Sessions = append(e.ledger.Sessions, session)
	e.persist(ctx, "record_session")
}

// persist writes the ledger through to the store. Write failures are
// logged and swallowed: the in-memory ledger stays authoritative for
// the rest of the process, at the cost of losing unsaved mutations on
// the next load.
func (e *Engine) persist(ctx context.Context, op string) {
	if e.saver == nil {
		return
	}
	if err := e.saver.SaveLedger(ctx, e.ledger); err != nil && e.logger != nil {
		e.logger.Error("ledger save failed", map[string]any{"op": op, "error": err.Error()})
	}
}
