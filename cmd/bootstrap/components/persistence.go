package components

import (
	"kardus/internal/infra/readstore"
	"kardus/internal/infra/uow"
	"kardus/internal/usecase/commands"
	"kardus/internal/usecase/queries"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	uowModule,
	readstoreModule,
)

// NewPostgresUoW already returns the shared.UnitOfWork interface.
var uowModule = fx.Provide(
	uow.NewPostgresUoW,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Submission
		fx.Annotate(
			readstore.NewSubmissionReadStore,
			fx.As(new(queries.SubmissionReadStore)),
			fx.As(new(commands.SubmissionReads)),
		),
		// Price
		fx.Annotate(
			readstore.NewPriceReadStore,
			fx.As(new(queries.PriceReadStore)),
			fx.As(new(commands.PriceReads)),
		),
		// Transaction
		fx.Annotate(
			readstore.NewTransactionReadStore,
			fx.As(new(queries.TransactionReadStore)),
			fx.As(new(commands.TransactionReads)),
		),
		// Inventory
		fx.Annotate(
			readstore.NewInventoryReadStore,
			fx.As(new(queries.InventoryReadStore)),
			fx.As(new(commands.InventoryReads)),
		),
		// Notification
		fx.Annotate(
			readstore.NewNotificationReadStore,
			fx.As(new(queries.NotificationReadStore)),
		),
		// Dashboard
		fx.Annotate(
			readstore.NewDashboardReadStore,
			fx.As(new(queries.DashboardReadStore)),
		),
	),
)
