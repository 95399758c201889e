package state

import (
	"bytes"
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/atalib94/procedure-tracker-sub001/internal/review"
	"github.com/atalib94/procedure-tracker-sub001/internal/telemetry"
)

func newTestStore(t *testing.T) (*SQLiteStore, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	store, err := NewSQLite(filepath.Join(t.TempDir(), "state.db"), telemetry.NewWriterLogger(&buf))
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return store, &buf
}

func TestLoadLedgerAbsentStartsEmpty(t *testing.T) {
	store, buf := newTestStore(t)
	ledger, err := store.LoadLedger(context.Background())
	if err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	if len(ledger.Progress) != 0 || len(ledger.Sessions) != 0 || ledger.LastStudyDate != nil {
		t.Fatalf("expected empty ledger, got %+v", ledger)
	}
	// An absent blob is the normal first run, not a recovery.
	if buf.Len() != 0 {
		t.Fatalf("unexpected log output: %s", buf.String())
	}
}

func TestLedgerRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	now := time.Date(2026, time.April, 2, 8, 30, 0, 0, time.UTC)
	next := now.AddDate(0, 0, 3)
	ledger := review.NewLedger()
	ledger.Progress["q-chest-tube"] = review.ItemProgress{
		ItemID:            "q-chest-tube",
		EaseFactor:        2.7,
		Interval:          3,
		Repetitions:       2,
		NextReviewDate:    &next,
		LastReviewDate:    &now,
		TimesAnswered:     4,
		TimesCorrect:      3,
		TimesIncorrect:    1,
		Streak:            2,
		IsMarkedForReview: true,
		ReviewNote:        "confirm placement on x-ray",
		ReviewImage:       "data:image/png;base64,abc",
	}
	ledger.Sessions = append(ledger.Sessions, review.StudySession{
		Date:            now,
		QuestionCount:   10,
		CorrectCount:    8,
		IncorrectCount:  2,
		DurationSeconds: 340,
	})
	ledger.LastStudyDate = &now
	ledger.TotalQuestionsAnswered = 4
	ledger.TotalCorrect = 3
	ledger.TotalIncorrect = 1

	if err := store.SaveLedger(ctx, ledger); err != nil {
		t.Fatalf("save ledger: %v", err)
	}
	got, err := store.LoadLedger(ctx)
	if err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	if !reflect.DeepEqual(got, ledger) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, ledger)
	}
}

func TestSaveOverwritesWholeBlob(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first := review.NewLedger()
	first.Progress["a"] = review.ItemProgress{ItemID: "a", EaseFactor: 2.5, TimesAnswered: 1, TimesCorrect: 1}
	if err := store.SaveLedger(ctx, first); err != nil {
		t.Fatalf("save first: %v", err)
	}

	second := review.NewLedger()
	second.Progress["b"] = review.ItemProgress{ItemID: "b", EaseFactor: 2.5, TimesAnswered: 1, TimesIncorrect: 1}
	if err := store.SaveLedger(ctx, second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	got, err := store.LoadLedger(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := got.Progress["a"]; ok {
		t.Fatalf("old blob leaked through a full overwrite")
	}
	if _, ok := got.Progress["b"]; !ok {
		t.Fatalf("expected record from latest save")
	}
}

func TestMalformedBlobFallsBackToEmptyLedger(t *testing.T) {
	cases := []struct {
		name string
		blob string
	}{
		{"not json", `{{{`},
		{"missing progress map", `{"sessions":[],"totalCorrect":2}`},
		{"null progress map", `{"progress":null}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, buf := newTestStore(t)
			ctx := context.Background()
			if _, err := store.db.ExecContext(ctx,
				`INSERT INTO app_state(key, value) VALUES(?, ?)`, ledgerKey, tc.blob); err != nil {
				t.Fatalf("seed blob: %v", err)
			}
			ledger, err := store.LoadLedger(ctx)
			if err != nil {
				t.Fatalf("load must not fail on a bad blob: %v", err)
			}
			if len(ledger.Progress) != 0 {
				t.Fatalf("expected empty ledger, got %+v", ledger)
			}
			if !strings.Contains(buf.String(), "discarded") {
				t.Fatalf("recovery should be logged, got: %s", buf.String())
			}
		})
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveSettings(ctx, map[string]string{"study_mode": "due", "max_new": "10"}); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	if err := store.SaveSettings(ctx, map[string]string{"study_mode": "struggling"}); err != nil {
		t.Fatalf("update settings: %v", err)
	}
	got, err := store.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if got["study_mode"] != "struggling" || got["max_new"] != "10" {
		t.Fatalf("unexpected settings: %#v", got)
	}
}
