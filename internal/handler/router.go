package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"kardus/internal/handler/api"
	"kardus/internal/handler/middleware"
	"kardus/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Submissions   *api.SubmissionHandler
	Prices        *api.PriceHandler
	Transactions  *api.TransactionHandler
	Inventory     *api.InventoryHandler
	Notifications *api.NotificationHandler
	Dashboard     *api.DashboardHandler
	Events        *api.EventStreamHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, h, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.MetricsMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		prices := apiGroup.Group("/prices")
		{
			addRoutes(prices, []route{
				{Method: http.MethodGet, Path: "/estimate", Handler: h.Prices.Estimate},
				{Method: http.MethodGet, Path: "/collectors/:collector_id", Handler: h.Prices.ListActive},
			})

			priceWrites := prices.Group("")
			priceWrites.Use(authMiddleware.RequireAuth())
			addRoutes(priceWrites, []route{
				{Method: http.MethodPut, Path: "", Handler: h.Prices.SetPrice},
				{Method: http.MethodPut, Path: "/table", Handler: h.Prices.ReplaceTable},
				{Method: http.MethodGet, Path: "/history", Handler: h.Prices.History},
			})
		}

		submissions := apiGroup.Group("/submissions")
		submissions.Use(authMiddleware.RequireAuth())
		{
			addRoutes(submissions, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Submissions.Create},
				{Method: http.MethodGet, Path: "", Handler: h.Submissions.ListMine},
				{Method: http.MethodGet, Path: "/pending", Handler: h.Submissions.ListPending},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Submissions.Get},
				{Method: http.MethodPut, Path: "/:id", Handler: h.Submissions.Update},
				{Method: http.MethodPost, Path: "/:id/schedule", Handler: h.Submissions.Schedule},
				{Method: http.MethodPost, Path: "/:id/complete", Handler: h.Submissions.Complete},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Submissions.Cancel},
			})
		}

		transactions := apiGroup.Group("/transactions")
		transactions.Use(authMiddleware.RequireAuth())
		{
			addRoutes(transactions, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Transactions.CreateAdHoc},
				{Method: http.MethodGet, Path: "", Handler: h.Transactions.ListMine},
				{Method: http.MethodGet, Path: "/by-submission/:submission_id", Handler: h.Transactions.GetBySubmission},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Transactions.Get},
				{Method: http.MethodPatch, Path: "/:id/payment", Handler: h.Transactions.UpdatePaymentStatus},
			})
		}

		inventory := apiGroup.Group("/inventory")
		inventory.Use(authMiddleware.RequireAuth())
		{
			addRoutes(inventory, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Inventory.Create},
				{Method: http.MethodGet, Path: "", Handler: h.Inventory.ListMine},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Inventory.Get},
				{Method: http.MethodPatch, Path: "/:id", Handler: h.Inventory.Update},
			})
		}

		notifications := apiGroup.Group("/notifications")
		notifications.Use(authMiddleware.RequireAuth())
		{
			addRoutes(notifications, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Notifications.ListMine},
				{Method: http.MethodGet, Path: "/unread-count", Handler: h.Notifications.CountUnread},
				{Method: http.MethodPost, Path: "/read-all", Handler: h.Notifications.MarkAllRead},
				{Method: http.MethodPost, Path: "/:id/read", Handler: h.Notifications.MarkRead},
			})
		}

		dashboard := apiGroup.Group("/dashboard")
		dashboard.Use(authMiddleware.RequireAuth())
		{
			addRoutes(dashboard, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Dashboard.Get},
			})
		}

		eventsGroup := apiGroup.Group("/events")
		eventsGroup.Use(authMiddleware.RequireAuth())
		{
			addRoutes(eventsGroup, []route{
				{Method: http.MethodGet, Path: "/:entity", Handler: h.Events.Stream},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
