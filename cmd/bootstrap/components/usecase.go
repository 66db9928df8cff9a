package components

import (
	"kardus/internal/domain/pricing"
	"kardus/internal/pkg/clock"
	"kardus/internal/pkg/config"
	"kardus/internal/pkg/receipt"
	"kardus/internal/usecase/commands"
	"kardus/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewDefaultPriceTable,
	NewReceiptIssuer,
)

// NewDefaultPriceTable builds the platform fallback table used whenever
// a collector has not quoted a pair.
func NewDefaultPriceTable(cfg config.Config) *pricing.Table {
	return pricing.DefaultTable(
		cfg.Pricing.DefaultThickPerKg,
		cfg.Pricing.DefaultThinPerKg,
		cfg.Pricing.DefaultUsedPerKg,
	)
}

func NewReceiptIssuer(cfg config.Config) (commands.ReceiptIssuer, error) {
	return receipt.NewGenerator(cfg.Receipt.NodeID)
}

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewSettlementService,
		commands.NewSubmissionUseCase,
		commands.NewPriceUseCase,
		commands.NewTransactionUseCase,
		commands.NewInventoryUseCase,
		commands.NewNotificationUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewSubmissionQueries,
		queries.NewPriceQueries,
		queries.NewTransactionQueries,
		queries.NewInventoryQueries,
		queries.NewNotificationQueries,
		queries.NewDashboardQueries,
	),
)
