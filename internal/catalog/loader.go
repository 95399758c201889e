package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

type FSLoader struct{}

func NewLoader() *FSLoader { return &FSLoader{} }

// LoadBanks reads every <root>/<dir>/bank.yaml. Directories without a
// bank.yaml are skipped, so the root can hold other material.
func (l *FSLoader) LoadBanks(ctx context.Context, root string) ([]Bank, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	banks := make([]Bank, 0)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}
		bankPath := filepath.Join(root, entry.Name())
		bankYAML := filepath.Join(bankPath, "bank.yaml")
		if _, err := os.Stat(bankYAML); err != nil {
			continue
		}
		bank, err := readBank(bankYAML)
		if err != nil {
			return nil, fmt.Errorf("load bank %s: %w", bankPath, err)
		}
		bank.Path = bankPath
		applyBankDefaults(&bank)
		banks = append(banks, bank)
	}

	sort.Slice(banks, func(i, j int) bool { return banks[i].BankID < banks[j].BankID })
	return banks, nil
}

func (l *FSLoader) FindBank(banks []Bank, bankID string) (Bank, error) {
	for _, b := range banks {
		if b.BankID == bankID {
			return b, nil
		}
	}
	return Bank{}, fmt.Errorf("bank %q not found", bankID)
}

func readBank(path string) (Bank, error) {
	var bank Bank
	b, err := os.ReadFile(path)
	if err != nil {
		return bank, err
	}
	if err := yaml.Unmarshal(b, &bank); err != nil {
		return bank, err
	}
	if err := bank.Validate(); err != nil {
		return bank, err
	}
	return bank, nil
}

func applyBankDefaults(bank *Bank) {
	for i := range bank.Questions {
		if bank.Questions[i].Match == "" {
			bank.Questions[i].Match = MatchFold
		}
	}
}
