package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"quizshow/internal/app"
	"quizshow/internal/config"
	"quizshow/internal/logging"
	"quizshow/internal/transport/plain"
	"quizshow/internal/transport/tui"
)

// NewPlayCmd builds the subcommand that runs one game session.
func NewPlayCmd(configPath *string) *cobra.Command {
	var (
		bankName string
		uiMode   string
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the quiz",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), *configPath, bankName, uiMode, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&bankName, "bank", "", "question bank name (default from config)")
	cmd.Flags().StringVar(&uiMode, "ui", "auto", "ui mode: auto|live|plain")
	return cmd
}

func runPlay(ctx context.Context, configPath, bankName, uiMode string, stdin io.Reader, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	decision, err := resolveUIMode(uiMode, stdin, stdout)
	if err != nil {
		return err
	}
	if decision.warning != "" {
		fmt.Fprintln(os.Stderr, decision.warning)
	}

	// The full-screen UI owns the terminal, so logs go to the file or nowhere.
	logger, closeLog, err := logging.New(logging.Options{
		App:     "quizshow",
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Console: !decision.useLive,
	})
	if err != nil {
		return err
	}
	defer closeLog()
	ctx = logging.IntoContext(ctx, logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	supply, err := buildSupply(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer supply.Close()

	if bankName == "" {
		bankName = cfg.Bank.Name
	}
	// The bank is supplied once; the game only reads it.
	bank, err := app.LoadBank(ctx, supply.banks, bankName)
	if err != nil {
		return err
	}
	logger.Info().Str("bank", bank.Name).Int("questions", bank.Size()).Msg("bank loaded")

	rules := app.DefaultRules().WithSeconds(cfg.Game.Seconds())
	game, err := app.NewGame(bank, app.Options{Rules: rules, Logger: logger})
	if err != nil {
		return err
	}
	defer game.Close()
	app.RecordResults(ctx, game, supply.results, nil)
	recent := supply.recent(ctx, bank.Name, logger)

	if decision.useLive {
		title := bank.Title
		if title == "" {
			title = bank.Name
		}
		return tui.Run(ctx, game, tui.Options{Title: title, Rules: rules, Recent: recent})
	}
	repl := plain.New(game, stdout)
	repl.Recent = recent
	return repl.Run(ctx, stdin)
}
