package review

import "context"

// Saver persists the full ledger after every successful mutation.
// Implementations overwrite the whole blob; there are no deltas.
type Saver interface {
	SaveLedger(ctx context.Context, ledger *Ledger) error
}

// Logger is the subset of the telemetry logger the engine needs.
type Logger interface {
	Info(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}
