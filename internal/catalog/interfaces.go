package catalog

import "context"

type Loader interface {
	LoadBanks(ctx context.Context, root string) ([]Bank, error)
	FindBank(banks []Bank, bankID string) (Bank, error)
}
