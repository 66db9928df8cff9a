package components

import (
	"kardus/internal/handler"
	"kardus/internal/handler/api"
	"kardus/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewSubmissionHandler,
		api.NewPriceHandler,
		api.NewTransactionHandler,
		api.NewInventoryHandler,
		api.NewNotificationHandler,
		api.NewDashboardHandler,
		api.NewEventStreamHandler,
		middleware.NewAuthMiddleware,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(
	submissions *api.SubmissionHandler,
	prices *api.PriceHandler,
	transactions *api.TransactionHandler,
	inventory *api.InventoryHandler,
	notifications *api.NotificationHandler,
	dashboard *api.DashboardHandler,
	events *api.EventStreamHandler,
) handler.Handlers {
	return handler.Handlers{
		Submissions:   submissions,
		Prices:        prices,
		Transactions:  transactions,
		Inventory:     inventory,
		Notifications: notifications,
		Dashboard:     dashboard,
		Events:        events,
	}
}
