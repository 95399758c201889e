package state

import (
	"context"

	"github.com/atalib94/procedure-tracker-sub001/internal/review"
)

type Store interface {
	EnsureSchema(ctx context.Context) error
	LoadLedger(ctx context.Context) (*review.Ledger, error)
	SaveLedger(ctx context.Context, ledger *review.Ledger) error
	SaveSettings(ctx context.Context, values map[string]string) error
	LoadSettings(ctx context.Context) (map[string]string, error)
	Close() error
}
