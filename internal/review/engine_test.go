package review

import (
	"context"
	"errors"
	"testing"
	"time"
)

type captureSaver struct {
	saves int
	err   error
	last  *Ledger
}

func (s *captureSaver) SaveLedger(_ context.Context, ledger *Ledger) error {
	s.saves++
	s.last = ledger
	return s.err
}

type captureLogger struct {
	infos  []string
	errors []string
}

func (l *captureLogger) Info(msg string, _ map[string]any)  { l.infos = append(l.infos, msg) }
func (l *captureLogger) Error(msg string, _ map[string]any) { l.errors = append(l.errors, msg) }

func testEngine(t *testing.T) (*Engine, *captureSaver) {
	t.Helper()
	saver := &captureSaver{}
	e := NewEngine(nil, saver, &captureLogger{})
	e.now = func() time.Time {
		return time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	}
	return e, saver
}

func TestIntervalAndEaseTrajectory(t *testing.T) {
	e, _ := testEngine(t)
	ctx := context.Background()

	wantIntervals := []int{1, 3, 8}
	wantEase := []float64{2.6, 2.7, 2.8}
	for i := range wantIntervals {
		p := e.RecordAnswer(ctx, "q-subclavian-line", true)
		if p.Interval != wantIntervals[i] {
			t.Fatalf("answer %d: interval = %d, want %d", i+1, p.Interval, wantIntervals[i])
		}
		if diff := p.EaseFactor - wantEase[i]; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("answer %d: ease = %v, want %v", i+1, p.EaseFactor, wantEase[i])
		}
	}
}

func TestWrongAnswerResetsSchedule(t *testing.T) {
	e, _ := testEngine(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		e.RecordAnswer(ctx, "q1", true)
	}
	p := e.RecordAnswer(ctx, "q1", false)
	if p.Repetitions != 0 || p.Interval != 0 || p.Streak != 0 {
		t.Fatalf("expected full reset, got reps=%d interval=%d streak=%d", p.Repetitions, p.Interval, p.Streak)
	}
	// 2.5 + 4*0.1 - 0.2 = 2.7
	if diff := p.EaseFactor - 2.7; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("ease after penalty = %v, want 2.7", p.EaseFactor)
	}
	if p.NextReviewDate == nil || !p.NextReviewDate.Equal(*p.LastReviewDate) {
		t.Fatalf("interval 0 should schedule the item immediately")
	}
}

func TestEaseFactorNeverDropsBelowFloor(t *testing.T) {
	e, _ := testEngine(t)
	ctx := context.Background()

	var p ItemProgress
	for i := 0; i < 20; i++ {
		p = e.RecordAnswer(ctx, "q1", false)
		if p.EaseFactor < minEaseFactor {
			t.Fatalf("ease %v fell below %v after %d wrong answers", p.EaseFactor, minEaseFactor, i+1)
		}
	}
	if diff := p.EaseFactor - minEaseFactor; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("ease should settle at the floor, got %v", p.EaseFactor)
	}
}

func TestCounterInvariants(t *testing.T) {
	e, _ := testEngine(t)
	ctx := context.Background()

	answers := []struct {
		id      string
		correct bool
	}{
		{"a", true}, {"a", false}, {"a", true},
		{"b", false}, {"b", false},
		{"c", true}, {"c", true}, {"c", true},
	}
	for _, a := range answers {
		e.RecordAnswer(ctx, a.id, a.correct)
	}

	l := e.Ledger()
	sumAnswered, sumCorrect, sumIncorrect := 0, 0, 0
	for id, p := range l.Progress {
		if p.TimesAnswered != p.TimesCorrect+p.TimesIncorrect {
			t.Fatalf("item %s: answered=%d correct=%d incorrect=%d", id, p.TimesAnswered, p.TimesCorrect, p.TimesIncorrect)
		}
		sumAnswered += p.TimesAnswered
		sumCorrect += p.TimesCorrect
		sumIncorrect += p.TimesIncorrect
	}
	if l.TotalQuestionsAnswered != sumAnswered || l.TotalCorrect != sumCorrect || l.TotalIncorrect != sumIncorrect {
		t.Fatalf("aggregates diverged: ledger=(%d,%d,%d) sum=(%d,%d,%d)",
			l.TotalQuestionsAnswered, l.TotalCorrect, l.TotalIncorrect, sumAnswered, sumCorrect, sumIncorrect)
	}
	if l.LastStudyDate == nil {
		t.Fatalf("expected lastStudyDate to be set")
	}
}

func TestMasteryIsRecomputedNotSticky(t *testing.T) {
	e, _ := testEngine(t)
	ctx := context.Background()

	var p ItemProgress
	for i := 0; i < 3; i++ {
		p = e.RecordAnswer(ctx, "q1", true)
	}
	if !p.IsMastered {
		t.Fatalf("expected mastery after 3 correct answers, got %+v", p)
	}
	p = e.RecordAnswer(ctx, "q1", false)
	if p.IsMastered {
		t.Fatalf("a wrong answer must drop mastery (streak resets to 0)")
	}
}

func TestToggleMarkForReviewClearsAnnotations(t *testing.T) {
	e, _ := testEngine(t)
	ctx := context.Background()

	p := e.ToggleMarkForReview(ctx, "q1")
	if !p.IsMarkedForReview {
		t.Fatalf("first toggle should mark")
	}
	e.SetReviewNote(ctx, "q1", "verify landmark before insertion", "data:image/png;base64,xyz")

	p = e.ToggleMarkForReview(ctx, "q1")
	if p.IsMarkedForReview {
		t.Fatalf("second toggle should unmark")
	}
	if p.ReviewNote != "" || p.ReviewImage != "" {
		t.Fatalf("unmarking must clear annotations, got note=%q image=%q", p.ReviewNote, p.ReviewImage)
	}
}

func TestSetReviewNoteDoesNotSetFlag(t *testing.T) {
	e, _ := testEngine(t)
	p := e.SetReviewNote(context.Background(), "q1", "check sterile field", "")
	if p.IsMarkedForReview {
		t.Fatalf("setting a note must not mark the item")
	}
	if p.ReviewNote != "check sterile field" {
		t.Fatalf("note not stored: %q", p.ReviewNote)
	}
}

func TestResetItemProgressKeepsAggregates(t *testing.T) {
	e, _ := testEngine(t)
	ctx := context.Background()

	e.RecordAnswer(ctx, "q1", true)
	e.RecordAnswer(ctx, "q1", false)
	e.ResetItemProgress(ctx, "q1")

	l := e.Ledger()
	if _, ok := l.Progress["q1"]; ok {
		t.Fatalf("record should be deleted")
	}
	if l.TotalQuestionsAnswered != 2 || l.TotalCorrect != 1 || l.TotalIncorrect != 1 {
		t.Fatalf("aggregate counters must survive a per-item reset, got (%d,%d,%d)",
			l.TotalQuestionsAnswered, l.TotalCorrect, l.TotalIncorrect)
	}
	if got := l.NewItems([]string{"q1"}); len(got) != 1 {
		t.Fatalf("reset item should be new again, got %v", got)
	}
}

func TestResetAllProgressMatchesFreshLedger(t *testing.T) {
	e, _ := testEngine(t)
	ctx := context.Background()
	now := e.now()

	e.RecordAnswer(ctx, "q1", true)
	e.ToggleMarkForReview(ctx, "q2")
	e.RecordSession(ctx, StudySession{Date: now, QuestionCount: 1, CorrectCount: 1})
	e.ResetAllProgress(ctx)

	fresh := NewLedger()
	ids := []string{"q1", "q2", "q3"}
	got := e.Ledger()
	if len(got.Progress) != 0 || len(got.Sessions) != 0 || got.LastStudyDate != nil {
		t.Fatalf("reset ledger not empty: %+v", got)
	}
	if got.TotalQuestionsAnswered != 0 || got.TotalCorrect != 0 || got.TotalIncorrect != 0 {
		t.Fatalf("counters not zeroed")
	}
	for i, q := range [][]string{got.DueItems(ids, now), got.NewItems(ids), got.MarkedItems(ids)} {
		want := [][]string{fresh.DueItems(ids, now), fresh.NewItems(ids), fresh.MarkedItems(ids)}[i]
		if len(q) != len(want) {
			t.Fatalf("query %d differs from fresh ledger: got %v want %v", i, q, want)
		}
	}
}

func TestEveryMutationWritesThrough(t *testing.T) {
	e, saver := testEngine(t)
	ctx := context.Background()

	e.RecordAnswer(ctx, "q1", true)
	e.ToggleMarkForReview(ctx, "q1")
	e.SetReviewNote(ctx, "q1", "n", "")
	e.ResetItemProgress(ctx, "q1")
	e.RecordSession(ctx, StudySession{})
	e.ResetAllProgress(ctx)

	if saver.saves != 6 {
		t.Fatalf("expected 6 write-throughs, got %d", saver.saves)
	}
	if saver.last != e.Ledger() {
		t.Fatalf("saver must receive the live ledger")
	}
}

func TestSaveFailureIsLoggedAndSwallowed(t *testing.T) {
	saver := &captureSaver{err: errors.New("disk full")}
	logger := &captureLogger{}
	e := NewEngine(nil, saver, logger)
	e.now = func() time.Time { return time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC) }

	p := e.RecordAnswer(context.Background(), "q1", true)
	if p.TimesAnswered != 1 {
		t.Fatalf("in-memory ledger must stay authoritative after a failed save")
	}
	if len(logger.errors) != 1 {
		t.Fatalf("expected one logged save failure, got %v", logger.errors)
	}
}
