package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"bookreview-backend/internal/infrastructure/queue"
	"bookreview-backend/internal/shared"
	"bookreview-backend/pkg/container"
)

var (
	// Sales flags
	bookIDFlag string
	enqueue    bool
)

var salesCmd = &cobra.Command{
	Use:   "sales",
	Short: "Maintain denormalized sales totals",
}

var salesRecomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Recompute total_sales from the sales rows",
	Long: `Recompute books.total_sales from the sales rows.

Examples:
  catalogctl sales recompute                 # Every book, inline
  catalogctl sales recompute --book <uuid>   # One book
  catalogctl sales recompute --enqueue       # Hand the full run to the worker`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if enqueue {
			return enqueueReconcile(ctx, cmd, container.RedisClientOpt(cfg.Redis))
		}

		cfg.Database.AutoMigrate = false
		cfg.Search.Async = false
		c, err := container.NewContainer(cfg)
		if err != nil {
			return err
		}
		defer c.Cleanup()

		if bookIDFlag != "" {
			bookID, err := uuid.Parse(bookIDFlag)
			if err != nil {
				return fmt.Errorf("invalid --book: %w", err)
			}
			total, err := c.SaleService.RecomputeBook(ctx, bookID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "book %s: total_sales = %d\n", bookID, total)
			return nil
		}

		changed, err := c.SaleService.ReconcileAll(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "reconciled, %d book totals changed\n", changed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(salesCmd)
	salesCmd.AddCommand(salesRecomputeCmd)

	salesRecomputeCmd.Flags().StringVar(&bookIDFlag, "book", "", "Recompute a single book")
	salesRecomputeCmd.Flags().BoolVar(&enqueue, "enqueue", false, "Enqueue a reconcile task instead of running inline")
	salesRecomputeCmd.MarkFlagsMutuallyExclusive("book", "enqueue")
}

func enqueueReconcile(ctx context.Context, cmd *cobra.Command, opt asynq.RedisClientOpt) error {
	client := queue.NewClient(opt)
	defer client.Close()

	task, err := queue.NewTask(shared.TypeReconcileSaleTotals, shared.ReconcileSaleTotalsPayload{Trigger: "manual"})
	if err != nil {
		return err
	}

	info, err := client.EnqueueContext(ctx, task, asynq.Queue(shared.QueueMaintenance), asynq.MaxRetry(1))
	if err != nil {
		return fmt.Errorf("enqueue reconcile: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "enqueued task %s on %s\n", info.ID, info.Queue)
	return nil
}
