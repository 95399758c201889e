package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/atalib94/procedure-tracker-sub001/internal/catalog"
	"github.com/atalib94/procedure-tracker-sub001/internal/grading"
	"github.com/atalib94/procedure-tracker-sub001/internal/review"
	"github.com/atalib94/procedure-tracker-sub001/internal/state"
	"github.com/atalib94/procedure-tracker-sub001/internal/telemetry"
)

// ErrResetNotConfirmed gates the full-ledger wipe behind an explicit
// confirmation from the boundary (flag, prompt). The engine itself
// never asks.
var ErrResetNotConfirmed = errors.New("reset of all progress requires confirmation")

var ErrNoActiveSession = errors.New("no active study session")

// App wires the store, catalog, grader and scheduling engine together.
// One App owns one ledger; two Apps over the same data directory will
// clobber each other's last write (single-writer model).
type App struct {
	cfg    Config
	logger *telemetry.JSONLogger
	store  Store
	grader *grading.DefaultGrader
	engine *review.Engine
	banks  []catalog.Bank

	session *Session
	now     func() time.Time
}

// Session is the state of one study run over a queue of questions.
type Session struct {
	ID        string
	BankID    string
	Mode      StudyMode
	StartedAt time.Time
	Queue     []catalog.Question
	Pos       int
	Correct   int
	Incorrect int
}

// Done reports whether every queued question has been answered.
func (s *Session) Done() bool { return s.Pos >= len(s.Queue) }

func New(ctx context.Context, cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}

	logger, err := telemetry.NewJSONLogger(cfg.LogPath)
	if err != nil {
		return nil, err
	}

	store, err := state.NewSQLite(filepath.Join(cfg.DataDir, "state.db"), logger)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	ledger, err := store.LoadLedger(ctx)
	if err != nil {
		return nil, err
	}

	banks, err := catalog.NewLoader().LoadBanks(ctx, cfg.BanksDir)
	if err != nil {
		return nil, fmt.Errorf("load banks from %s: %w", cfg.BanksDir, err)
	}

	a := &App{
		cfg:    cfg,
		logger: logger,
		store:  store,
		grader: grading.NewGrader(cfg.Study.FuzzyDistance),
		engine: review.NewEngine(ledger, store, logger),
		banks:  banks,
		now:    time.Now,
	}
	logger.Info("app ready", map[string]any{
		"banks":   len(banks),
		"tracked": len(ledger.Progress),
	})
	return a, nil
}

func (a *App) Banks() []catalog.Bank { return a.banks }

func (a *App) Bank(bankID string) (catalog.Bank, error) {
	return catalog.NewLoader().FindBank(a.banks, bankID)
}

func (a *App) Stats() review.Stats { return a.engine.Ledger().Stats() }

// Partition returns the bank's question IDs filtered by mode, in bank
// order and without session caps. The CLI listing commands use this.
func (a *App) Partition(bankID string, mode StudyMode) ([]string, error) {
	bank, err := a.Bank(bankID)
	if err != nil {
		return nil, err
	}
	ids := bank.QuestionIDs()
	l := a.engine.Ledger()
	switch mode {
	case ModeNew:
		return l.NewItems(ids), nil
	case ModeMarked:
		return l.MarkedItems(ids), nil
	case ModeStruggling:
		return l.StrugglingItems(ids), nil
	case ModeAll:
		return ids, nil
	default:
		return l.DueItems(ids, a.now()), nil
	}
}

// StartSession builds a capped queue for the given bank and mode. In
// due mode, never-seen questions are additionally capped so a fresh
// install does not front-load the entire bank into one sitting.
func (a *App) StartSession(ctx context.Context, bankID string, mode StudyMode) (*Session, error) {
	bank, err := a.Bank(bankID)
	if err != nil {
		return nil, err
	}
	ids, err := a.Partition(bankID, mode)
	if err != nil {
		return nil, err
	}

	if mode == ModeDue {
		ids = capNewItems(ids, a.engine.Ledger(), a.cfg.Study.MaxNew)
	}
	if len(ids) > a.cfg.Study.MaxQuestions {
		ids = ids[:a.cfg.Study.MaxQuestions]
	}

	queue := make([]catalog.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := bank.Question(id); ok {
			queue = append(queue, q)
		}
	}

	a.session = &Session{
		ID:        uuid.NewString(),
		BankID:    bankID,
		Mode:      mode,
		StartedAt: a.now(),
		Queue:     queue,
	}
	if err := a.store.SaveSettings(ctx, map[string]string{
		"last_bank":       bankID,
		"last_study_mode": string(mode),
	}); err != nil {
		a.logger.Error("settings save failed", map[string]any{"error": err.Error()})
	}
	a.logger.Info("session started", map[string]any{
		"session": a.session.ID,
		"bank":    bankID,
		"mode":    string(mode),
		"queued":  len(queue),
	})
	return a.session, nil
}

// LastUsed reports the bank and mode of the previous session, if any.
func (a *App) LastUsed(ctx context.Context) (string, StudyMode, error) {
	settings, err := a.store.LoadSettings(ctx)
	if err != nil {
		return "", "", err
	}
	return settings["last_bank"], NormalizeStudyMode(settings["last_study_mode"]), nil
}

func capNewItems(ids []string, l *review.Ledger, maxNew int) []string {
	out := make([]string, 0, len(ids))
	allowed := maxNew
	for _, id := range ids {
		if _, seen := l.Progress[id]; !seen {
			if allowed == 0 {
				continue
			}
			allowed--
		}
		out = append(out, id)
	}
	return out
}

// CurrentQuestion returns the question awaiting an answer.
func (a *App) CurrentQuestion() (catalog.Question, error) {
	if a.session == nil {
		return catalog.Question{}, ErrNoActiveSession
	}
	if a.session.Done() {
		return catalog.Question{}, fmt.Errorf("session queue exhausted")
	}
	return a.session.Queue[a.session.Pos], nil
}

// SubmitAnswer grades the current question, feeds the boolean outcome
// to the scheduler and advances the queue.
func (a *App) SubmitAnswer(ctx context.Context, answer string) (grading.Result, review.ItemProgress, error) {
	q, err := a.CurrentQuestion()
	if err != nil {
		return grading.Result{}, review.ItemProgress{}, err
	}
	res := a.grader.Grade(grading.Request{
		QuestionID: q.QuestionID,
		Prompt:     q.Prompt,
		Expected:   q.Answer,
		Choices:    q.Choices,
		Match:      q.Match,
		Answer:     answer,
	})
	progress := a.engine.RecordAnswer(ctx, q.QuestionID, res.Correct)

	a.session.Pos++
	if res.Correct {
		a.session.Correct++
	} else {
		a.session.Incorrect++
	}
	return res, progress, nil
}

// FinishSession appends the session record to the ledger log and
// closes the session. Safe to call with zero answered questions.
func (a *App) FinishSession(ctx context.Context) (review.StudySession, error) {
	if a.session == nil {
		return review.StudySession{}, ErrNoActiveSession
	}
	s := a.session
	now := a.now()
	record := review.StudySession{
		Date:            now,
		QuestionCount:   s.Correct + s.Incorrect,
		CorrectCount:    s.Correct,
		IncorrectCount:  s.Incorrect,
		DurationSeconds: int(now.Sub(s.StartedAt).Seconds()),
	}
	a.engine.RecordSession(ctx, record)
	a.logger.Info("session finished", map[string]any{
		"session":   s.ID,
		"answered":  record.QuestionCount,
		"correct":   record.CorrectCount,
		"incorrect": record.IncorrectCount,
	})
	a.session = nil
	return record, nil
}

func (a *App) ToggleMark(ctx context.Context, questionID string) review.ItemProgress {
	return a.engine.ToggleMarkForReview(ctx, questionID)
}

func (a *App) SetNote(ctx context.Context, questionID, note, image string) review.ItemProgress {
	return a.engine.SetReviewNote(ctx, questionID, note, image)
}

func (a *App) ResetQuestion(ctx context.Context, questionID string) {
	a.engine.ResetItemProgress(ctx, questionID)
}

// ResetAll wipes the ledger. The confirmed flag must come from an
// explicit user action at the boundary.
func (a *App) ResetAll(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrResetNotConfirmed
	}
	a.engine.ResetAllProgress(ctx)
	a.logger.Info("all progress reset", nil)
	return nil
}

func (a *App) Close() error {
	var first error
	if err := a.store.Close(); err != nil {
		first = err
	}
	if err := a.logger.Close(); err != nil && first == nil {
		first = err
	}
	return first
}
