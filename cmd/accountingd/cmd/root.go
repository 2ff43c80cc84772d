// Package cmd implements the accountingd admin CLI: a trimmed-down cobra
// tree (no blockchain node, no genesis/keys/tx subcommands) exposing the
// keeper's admin read queries and reconcile against a snapshot file. The
// admin websocket feed, by contrast, only streams audit entries live.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"

	"github.com/openalpha/casino-core/ledger"
	"github.com/openalpha/casino-core/x/accounting/keeper"
	"github.com/openalpha/casino-core/x/accounting/types"
)

var snapshotPath string

// NewRootCmd constructs the accountingd root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "accountingd",
		Short: "accountingd - admin CLI for the casino accounting core",
		Long: `accountingd operates against a JSON state snapshot produced by the
accounting core (see keeper.SaveSnapshot), offering the admin read
queries (health, balances, LP positions, pending withdrawals, orphaned
funds) and reconcile.`,
	}

	rootCmd.PersistentFlags().StringVar(&snapshotPath, "snapshot", "accounting-snapshot.json", "path to the JSON state snapshot")

	rootCmd.AddCommand(
		healthCmd(),
		listBalancesCmd(),
		listLPCmd(),
		listPendingCmd(),
		orphanedFundsCmd(),
		reconcileCmd(),
	)

	return rootCmd
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadKeeper reconstructs a Keeper from the configured snapshot file,
// backed by a simulated ledger whose custody balance is seeded with the
// snapshot's pool reserve (the snapshot records no ledger balance), so
// HealthCheck offline reports user balances and pending withdrawals as
// uncovered by the ledger.
func loadKeeper() (*keeper.Keeper, error) {
	snap, err := keeper.LoadSnapshot(snapshotPath)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	sim := ledger.NewSim(map[types.Principal]types.Amount{
		"self": snap.Pool.Reserve,
	})
	k := keeper.New(snap.Config, sim, ledger.SystemClock{}, log.NewLogger(os.Stderr), nil)
	k.Restore(snap)
	return k, nil
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Print the admin solvency/health report",
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := loadKeeper()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			report, err := k.HealthCheck(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"status=%s reserve=%d user_balances=%d pending=%d excess=%d solvent=%t\n",
				report.HealthStatus, report.Reserve, report.TotalUserBalances,
				report.PendingCount, report.Excess, report.IsSolvent)
			return nil
		},
	}
}

func listBalancesCmd() *cobra.Command {
	var offset, limit int
	c := &cobra.Command{
		Use:   "list-balances",
		Short: "List user balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := loadKeeper()
			if err != nil {
				return err
			}
			for _, e := range k.ListUserBalances(types.Page{Offset: offset, Limit: limit}) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", e.Principal, e.Balance)
			}
			return nil
		},
	}
	c.Flags().IntVar(&offset, "offset", 0, "page offset")
	c.Flags().IntVar(&limit, "limit", types.MaxPaginationLimit, "page limit")
	return c
}

func listLPCmd() *cobra.Command {
	var offset, limit int
	c := &cobra.Command{
		Use:   "list-lp",
		Short: "List LP share positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := loadKeeper()
			if err != nil {
				return err
			}
			for _, e := range k.ListLPPositions(types.Page{Offset: offset, Limit: limit}) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d shares\n", e.Principal, e.Shares)
			}
			return nil
		},
	}
	c.Flags().IntVar(&offset, "offset", 0, "page offset")
	c.Flags().IntVar(&limit, "limit", types.MaxPaginationLimit, "page limit")
	return c
}

func listPendingCmd() *cobra.Command {
	var offset, limit int
	c := &cobra.Command{
		Use:   "list-pending",
		Short: "List pending withdrawals, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := loadKeeper()
			if err != nil {
				return err
			}
			for _, e := range k.ListPendingWithdrawals(types.Page{Offset: offset, Limit: limit}) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\tcreated_at=%d\n", e.Principal, e.Kind, e.Amount, e.CreatedAtNs)
			}
			return nil
		},
	}
	c.Flags().IntVar(&offset, "offset", 0, "page offset")
	c.Flags().IntVar(&limit, "limit", types.MaxPaginationLimit, "page limit")
	return c
}

func orphanedFundsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orphaned-funds",
		Short: "Report funds abandoned via AbandonWithdrawal",
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := loadKeeper()
			if err != nil {
				return err
			}
			report := k.OrphanedFunds()
			fmt.Fprintf(cmd.OutOrStdout(), "total_abandoned=%d count=%d\n", report.TotalAbandoned, report.Count)
			for _, e := range report.Entries {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\t%d\n", e.Principal, e.Balance)
			}
			return nil
		},
	}
}

func reconcileCmd() *cobra.Command {
	var admin, principal, reason string
	var amount uint64
	var credit bool
	c := &cobra.Command{
		Use:   "reconcile",
		Short: "Manually adjust a principal's balance and record the reason in the audit log",
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := loadKeeper()
			if err != nil {
				return err
			}
			if err := k.Reconcile(types.Principal(admin), types.Principal(principal), types.Amount(amount), credit, reason); err != nil {
				return err
			}
			return keeper.SaveSnapshot(snapshotPath, k.Export())
		},
	}
	c.Flags().StringVar(&admin, "admin", "", "admin principal authorizing this reconcile")
	c.Flags().StringVar(&principal, "principal", "", "principal to adjust")
	c.Flags().Uint64Var(&amount, "amount", 0, "amount to credit (with --credit=false only recorded in the audit entry)")
	c.Flags().BoolVar(&credit, "credit", false, "whether to force-credit amount to principal")
	c.Flags().StringVar(&reason, "reason", "", "audit trail reason")
	_ = c.MarkFlagRequired("admin")
	_ = c.MarkFlagRequired("principal")
	_ = c.MarkFlagRequired("reason")
	return c
}
