package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	clog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/atalib94/procedure-tracker-sub001/internal/app"
	"github.com/atalib94/procedure-tracker-sub001/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		clog.Error(err.Error())
		os.Exit(1)
	}
}

type rootFlags struct {
	dataDir  string
	banksDir string
	logPath  string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "proctrack",
		Short:         "Spaced-repetition trainer for bedside procedures",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "progress database directory")
	root.PersistentFlags().StringVar(&flags.banksDir, "banks-dir", "", "question bank directory")
	root.PersistentFlags().StringVar(&flags.logPath, "log", "", "telemetry log path")

	root.AddCommand(newStudyCmd(flags))
	root.AddCommand(newListCmd(flags))
	root.AddCommand(newStatsCmd(flags))
	root.AddCommand(newBanksCmd(flags))
	root.AddCommand(newMarkCmd(flags))
	root.AddCommand(newNoteCmd(flags))
	root.AddCommand(newResetCmd(flags))
	return root
}

func loadApp(ctx context.Context, flags *rootFlags) (*app.App, error) {
	cfg, err := app.FromEnv()
	if err != nil {
		return nil, err
	}
	if flags.dataDir != "" {
		cfg.DataDir = flags.dataDir
	}
	if flags.banksDir != "" {
		cfg.BanksDir = flags.banksDir
	}
	if flags.logPath != "" {
		cfg.LogPath = flags.logPath
	}
	return app.New(ctx, cfg)
}

// defaultBank picks the bank when the user has exactly one installed,
// falling back to the bank of the previous session.
func defaultBank(ctx context.Context, a *app.App, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	banks := a.Banks()
	if len(banks) == 1 {
		return banks[0].BankID, nil
	}
	if last, _, err := a.LastUsed(ctx); err == nil && last != "" {
		if _, err := a.Bank(last); err == nil {
			return last, nil
		}
	}
	ids := make([]string, 0, len(banks))
	for _, b := range banks {
		ids = append(ids, b.BankID)
	}
	return "", fmt.Errorf("choose a bank: %s", strings.Join(ids, ", "))
}

func newStudyCmd(flags *rootFlags) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "study [bank]",
		Short: "Run a study session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.Close()

			bankID, err := defaultBank(cmd.Context(), a, args)
			if err != nil {
				return err
			}
			session, err := a.StartSession(cmd.Context(), bankID, app.NormalizeStudyMode(mode))
			if err != nil {
				return err
			}
			if len(session.Queue) == 0 {
				fmt.Println("nothing to review right now")
				return nil
			}

			model := ui.NewStudyModel(a, len(session.Queue), ui.DefaultTheme())
			_, err = tea.NewProgram(model).Run()
			return err
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "due", "due|new|marked|struggling|all")
	return cmd
}

func newListCmd(flags *rootFlags) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "list [bank]",
		Short: "List questions in a partition (due, new, marked, ...)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.Close()

			bankID, err := defaultBank(cmd.Context(), a, args)
			if err != nil {
				return err
			}
			m := app.NormalizeStudyMode(mode)
			ids, err := a.Partition(bankID, m)
			if err != nil {
				return err
			}
			fmt.Print(ui.RenderIDList(string(m), ids, ui.DefaultTheme()))
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "due", "due|new|marked|struggling|all")
	return cmd
}

func newStatsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.Close()
			fmt.Print(ui.RenderStats(a.Stats(), ui.DefaultTheme()))
			return nil
		},
	}
}

func newBanksCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "banks",
		Short: "List installed question banks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.Close()
			for _, b := range a.Banks() {
				fmt.Printf("%s\t%s\t%d questions\n", b.BankID, b.Name, len(b.Questions))
			}
			return nil
		},
	}
}

func newMarkCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mark <question-id>",
		Short: "Toggle a question's review flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.Close()
			p := a.ToggleMark(cmd.Context(), args[0])
			if p.IsMarkedForReview {
				fmt.Printf("%s flagged for review\n", args[0])
			} else {
				fmt.Printf("%s unflagged (note cleared)\n", args[0])
			}
			return nil
		},
	}
}

func newNoteCmd(flags *rootFlags) *cobra.Command {
	var image string
	cmd := &cobra.Command{
		Use:   "note <question-id> <text>",
		Short: "Attach a note to a question",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.Close()
			a.SetNote(cmd.Context(), args[0], args[1], image)
			fmt.Printf("note saved on %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&image, "image", "", "image reference to store with the note")
	return cmd
}

func newResetCmd(flags *rootFlags) *cobra.Command {
	var all, yes bool
	cmd := &cobra.Command{
		Use:   "reset [question-id]",
		Short: "Reset one question's progress, or everything with --all",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.Close()

			if all {
				if err := a.ResetAll(cmd.Context(), yes); err != nil {
					return fmt.Errorf("%w (pass --yes to confirm)", err)
				}
				fmt.Println("all progress reset")
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("give a question id or --all")
			}
			a.ResetQuestion(cmd.Context(), args[0])
			fmt.Printf("%s reset\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "reset the entire ledger")
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm destructive reset")
	return cmd
}
