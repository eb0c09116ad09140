// Package alerts exposes alert triage from the command line: listing open
// alerts, resolving one, and bulk resolution with automatic or manual
// assignment.
package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	alertsvc "innkeep/internal/application/alert/services"
	alertuc "innkeep/internal/application/alert/usecases"
	"innkeep/internal/application/allocation/services"
	allocuc "innkeep/internal/application/allocation/usecases"
	"innkeep/internal/infrastructure/cache"
	"innkeep/internal/infrastructure/config"
	"innkeep/internal/infrastructure/database"
	"innkeep/internal/infrastructure/repository"
	"innkeep/internal/shared/biztime"
	"innkeep/internal/shared/db"
	"innkeep/internal/shared/logger"
)

var (
	limit      int
	offset     int
	alertID    uint
	alertIDs   []uint
	action     string
	roomID     uint
	strategy   string
	resolvedBy string
	notes      string
	dismiss    bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Inspect and resolve allocation alerts",
	}

	cmd.AddCommand(
		newListCommand(),
		newResolveCommand(),
		newBulkResolveCommand(),
	)

	return cmd
}

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List unresolved alerts, most urgent first",
		RunE:  runList,
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum alerts to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset into the result set")

	return cmd
}

func newResolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve or dismiss one alert",
		RunE:  runResolve,
	}

	cmd.Flags().UintVar(&alertID, "id", 0, "Alert ID (required)")
	cmd.Flags().StringVar(&resolvedBy, "by", "", "Resolver name (required)")
	cmd.Flags().StringVar(&notes, "notes", "", "Resolution notes")
	cmd.Flags().BoolVar(&dismiss, "dismiss", false, "Dismiss without an assignment")
	cmd.MarkFlagRequired("id")
	cmd.MarkFlagRequired("by")

	return cmd
}

func newBulkResolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulk-resolve",
		Short: "Apply one action to a batch of alerts",
		Long:  `Apply auto_assign, manual_assign, or dismiss to a batch of alerts. Each alert is handled independently; failures are reported per item.`,
		RunE:  runBulkResolve,
	}

	cmd.Flags().UintSliceVar(&alertIDs, "ids", nil, "Alert IDs (required)")
	cmd.Flags().StringVar(&action, "action", alertuc.BulkActionAutoAssign, "Action: auto_assign, manual_assign, or dismiss")
	cmd.Flags().UintVar(&roomID, "room", 0, "Room ID for manual_assign")
	cmd.Flags().StringVar(&strategy, "strategy", "", "Scoring strategy for auto_assign")
	cmd.Flags().StringVar(&resolvedBy, "by", "", "Actor name (required)")
	cmd.Flags().StringVar(&notes, "notes", "", "Resolution notes")
	cmd.MarkFlagRequired("ids")
	cmd.MarkFlagRequired("by")

	return cmd
}

type bulkDeps struct {
	list    *alertuc.ListAlertsUseCase
	resolve *alertuc.ResolveAlertUseCase
	bulk    *alertuc.BulkResolveUseCase
}

func initEnv(ctx context.Context) (*bulkDeps, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := biztime.Init(cfg.Allocation.PropertyTimezone); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize property timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	cleanup := func() {
		redisClient.Close()
		database.Close()
	}

	gormDB := database.Get()
	tm := db.NewTransactionManager(gormDB)

	allocRepo := repository.NewAllocationRepository(tm)
	blockRepo := repository.NewBlockRepository(gormDB)
	alertRepo := repository.NewAlertRepository(gormDB)
	prefRepo := repository.NewPreferenceRepository(gormDB)
	bookingReader := repository.NewBookingReader(gormDB)
	roomReader := repository.NewRoomReader(gormDB)

	snapshotCache := cache.NewAvailabilityCache(redisClient,
		time.Duration(cfg.Allocation.AvailabilityCacheTTLSecond)*time.Second)
	availability := services.NewAvailabilityMapService(allocRepo, blockRepo, roomReader, snapshotCache, log)
	locks := services.NewRoomLocks()

	assignRoom := allocuc.NewAssignRoomUseCase(
		allocRepo, blockRepo, alertRepo, bookingReader, roomReader, locks, snapshotCache, log)
	bridge := alertsvc.NewAssignmentBridge(assignRoom, availability, bookingReader, prefRepo, log)

	return &bulkDeps{
		list:    alertuc.NewListAlertsUseCase(alertRepo, log),
		resolve: alertuc.NewResolveAlertUseCase(alertRepo, log),
		bulk:    alertuc.NewBulkResolveUseCase(alertRepo, bridge, log),
	}, cleanup, nil
}

func runList(cmd *cobra.Command, args []string) error {
	deps, cleanup, err := initEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := deps.list.Execute(cmd.Context(), alertuc.ListAlertsCommand{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%d unresolved alert(s), showing %d:\n", result.Total, len(result.Alerts))
	for _, a := range result.Alerts {
		fmt.Printf("  #%d booking=%d severity=%s type=%s level=%d open_since=%s\n",
			a.AlertID, a.BookingID, a.Severity, a.AlertType, a.EscalationLevel,
			a.CreatedAt.Format(time.RFC3339))
	}
	return nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	deps, cleanup, err := initEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := deps.resolve.Execute(cmd.Context(), alertuc.ResolveAlertCommand{
		AlertID:    alertID,
		ResolvedBy: resolvedBy,
		Notes:      notes,
		Dismiss:    dismiss,
	})
	if err != nil {
		return err
	}

	fmt.Printf("alert #%d (booking %d) resolved\n", result.AlertID, result.BookingID)
	return nil
}

func runBulkResolve(cmd *cobra.Command, args []string) error {
	deps, cleanup, err := initEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := deps.bulk.Execute(cmd.Context(), alertuc.BulkResolveCommand{
		AlertIDs:   alertIDs,
		Action:     action,
		RoomID:     roomID,
		Strategy:   strategy,
		ResolvedBy: resolvedBy,
		Notes:      notes,
	})
	if err != nil {
		return err
	}

	fmt.Printf("resolved %d, failed %d\n", result.Resolved, result.Failed)
	for _, item := range result.Items {
		switch {
		case !item.Success:
			fmt.Printf("  #%d failed: %s\n", item.AlertID, item.Error)
		case item.AllocationID != 0:
			fmt.Printf("  #%d ok (allocation %d)\n", item.AlertID, item.AllocationID)
		default:
			fmt.Printf("  #%d ok\n", item.AlertID)
		}
	}
	return nil
}
