package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"

	"quizshow/internal/app"
	"quizshow/internal/config"
	"quizshow/internal/domain"
	"quizshow/internal/infra/file"
	"quizshow/internal/infra/postgres"
	"quizshow/internal/logging"
)

// NewBankCmd groups question bank maintenance commands.
func NewBankCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Inspect and import question banks",
	}
	cmd.AddCommand(newBankImportCmd(configPath))
	cmd.AddCommand(newBankShowCmd(configPath))
	cmd.AddCommand(newBankExportCmd(configPath))
	cmd.AddCommand(newBankListCmd(configPath))
	return cmd
}

func newBankImportCmd(configPath *string) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Validate a YAML bank and store it in Postgres",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			ctx, closeLog, err := commandContext(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeLog()

			store, closeStore, err := openBankStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()
			return importBank(ctx, store, args[0], name)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "store the bank under this name")
	return cmd
}

func newBankShowCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Print round sizes and question ids of a bank",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bank, err := loadConfiguredBank(cmd.Context(), *configPath, args)
			if err != nil {
				return err
			}
			writeBankSummary(cmd.OutOrStdout(), bank)
			return nil
		},
	}
}

func newBankExportCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "export [name]",
		Short: "Write a bank as YAML to stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bank, err := loadConfiguredBank(cmd.Context(), *configPath, args)
			if err != nil {
				return err
			}
			data, err := file.EncodeBank(bank)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newBankListCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List banks stored in Postgres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			ctx, closeLog, err := commandContext(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeLog()
			store, closeStore, err := openBankStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()
			names, err := store.ListBanks(ctx)
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

// bankSaver is the write side of postgres.BankStore.
type bankSaver interface {
	SaveBank(ctx context.Context, bank domain.Bank) error
}

// importBank reads a YAML bank from path, renames it when name is set and
// stores it.
func importBank(ctx context.Context, store bankSaver, path, name string) error {
	bank, err := file.ReadBank(path)
	if err != nil {
		return err
	}
	if name != "" {
		bank.Name = name
	}
	if bank.Name == "" {
		return errors.New("bank has no name; set name in the file or pass --name")
	}
	if err := store.SaveBank(ctx, bank); err != nil {
		return err
	}
	logger := logging.FromContext(ctx)
	logger.Info().Str("bank", bank.Name).Int("questions", bank.Size()).Msg("bank imported")
	return nil
}

func loadConfiguredBank(ctx context.Context, configPath string, args []string) (domain.Bank, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return domain.Bank{}, err
	}
	ctx, closeLog, err := commandContext(ctx, cfg)
	if err != nil {
		return domain.Bank{}, err
	}
	defer closeLog()

	name := cfg.Bank.Name
	if len(args) == 1 {
		name = args[0]
	}
	supply, err := buildSupply(ctx, cfg, logging.FromContext(ctx))
	if err != nil {
		return domain.Bank{}, err
	}
	defer supply.Close()
	return app.LoadBank(ctx, supply.banks, name)
}

func openBankStore(ctx context.Context, cfg config.Config) (*postgres.BankStore, func(), error) {
	if cfg.Postgres.URL == "" {
		return nil, nil, errors.New("postgres url not configured")
	}
	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	return postgres.NewBankStore(pool), pool.Close, nil
}

func writeBankSummary(w io.Writer, bank domain.Bank) {
	title := bank.Title
	if title == "" {
		title = bank.Name
	}
	fmt.Fprintf(w, "%s (%s): %d questions\n", title, bank.Name, bank.Size())
	rules := app.DefaultRules()
	for n := 1; n <= domain.RoundCount; n++ {
		qs := bank.Round(n)
		ids := make([]string, len(qs))
		for i, q := range qs {
			ids[i] = fmt.Sprint(q.QuestionID())
		}
		fmt.Fprintf(w, "  round %d %-22s %2d questions: %s\n", n, rules.Round(n).Title, len(qs), strings.Join(ids, ", "))
	}
}
