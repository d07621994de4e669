package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"quizshow/internal/config"
	"quizshow/internal/logging"
)

// NewScoresCmd prints recent results kept in Redis.
func NewScoresCmd(configPath *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "scores [bank]",
		Short: "List recent results for a bank",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Redis.Addr == "" {
				return errors.New("redis addr not configured; results are only kept in memory")
			}
			ctx, closeLog, err := commandContext(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeLog()

			supply, err := buildSupply(ctx, cfg, logging.FromContext(ctx))
			if err != nil {
				return err
			}
			defer supply.Close()

			bank := cfg.Bank.Name
			if len(args) == 1 {
				bank = args[0]
			}
			results, err := supply.results.RecentResults(ctx, bank, limit)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no results for %s\n", bank)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FINISHED\tSCORE\tPERCENT\tGRADE")
			for _, r := range results {
				fmt.Fprintf(w, "%s\t%d/%d\t%d%%\t%s\n",
					r.FinishedAt.Local().Format("2006-01-02 15:04"), r.Score, r.Possible, r.Percent, r.Grade)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", recentResults, "number of results to show")
	return cmd
}
