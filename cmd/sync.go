package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"improved-initiative/core/account"
	"improved-initiative/feature/libraries"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dryRunSync bool
	yesConfirm bool
)

// syncCmd pushes local items the account has not seen.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push unsynced local items to the account",
	Long: `Loads every library, compares local items with the sync ledger and
pushes the ones the account has not seen, in batches.

Examples:
  # Show what would be pushed
  sync --dry-run

  # Push without the confirmation prompt
  sync --yes`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&dryRunSync, "dry-run", false, "Only report what would be pushed")
	syncCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm the push (non-interactive)")
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	e, err := loadEnv()
	if err != nil {
		return err
	}
	l := e.log
	e.wire(ctx)
	defer e.drain()

	client := e.deps.Account
	if client == nil {
		return account.ErrNotConfigured
	}

	// Load without the account so the bootstrap does not push on its own.
	deps := e.deps
	deps.Account = nil
	libs := libraries.New(deps)
	libraries.NewBootstrap(libs, deps, e.cfg.Sync.BatchSize).Run(ctx)

	targets := make([]account.Target, 0, len(libs.Collections()))
	for _, c := range libs.Collections() {
		targets = append(targets, c.AccountTarget())
	}

	reconciler := account.NewReconciler(client, deps.Store, l)
	l.Info("Planning account sync...")
	plan, err := reconciler.BuildPlan(ctx, targets)
	if err != nil {
		return fmt.Errorf("failed to plan account sync: %w", err)
	}
	printSyncPlan(l, plan)

	if len(plan.Actions) == 0 {
		l.Info("Everything is already synced.")
		return nil
	}
	if dryRunSync {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}
	if !confirm(fmt.Sprintf("push %d items to the account", len(plan.Actions))) {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	summary, err := reconciler.ApplyPlan(ctx, plan, account.Options{
		Confirmed: true,
		BatchSize: e.cfg.Sync.BatchSize,
	}, func(p account.Progress) {
		l.Info("Pushed batch", zap.String("kind", p.Slug), zap.Int("done", p.Done), zap.Int("total", p.Total))
	})
	if err != nil {
		return fmt.Errorf("failed to apply account sync: %w", err)
	}
	l.Info("Account sync finished", zap.Int("pushed", summary.Pushed), zap.Int("failed", summary.Failed))
	if summary.Failed > 0 {
		return fmt.Errorf("%d items were not pushed", summary.Failed)
	}
	return nil
}

func printSyncPlan(l *zap.Logger, plan *account.Plan) {
	s := plan.Summary
	l.Info("Account sync plan",
		zap.Int("candidates", s.Candidates),
		zap.Int("already_synced", s.AlreadySynced),
		zap.Int("to_push", s.ToPush),
	)

	maxShow := min(5, len(plan.Actions))
	for _, a := range plan.Actions[:maxShow] {
		l.Info("Sample action",
			zap.String("type", string(a.Type)),
			zap.String("kind", a.Slug),
			zap.String("id", a.ID),
			zap.String("reason", a.Reason),
		)
	}
	if len(plan.Actions) > maxShow {
		l.Info("Additional actions not shown", zap.Int("count", len(plan.Actions)-maxShow))
	}
}

// confirm prompts on stdin unless --yes was given.
func confirm(what string) bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("\nType 'yes' to %s: ", what)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
