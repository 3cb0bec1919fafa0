package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"universe-backend/application/commands/bus"
	querybus "universe-backend/application/queries/bus"
	"universe-backend/infrastructure/config"
	"universe-backend/interfaces/http/rest/handlers"
	"universe-backend/interfaces/http/rest/middleware"
)

// Router creates and configures the HTTP router
type Router struct {
	commandBus    *bus.CommandBus
	queryBus      *querybus.QueryBus
	authenticator *middleware.Authenticator
	cfg           *config.Config
	logger        *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	authenticator *middleware.Authenticator,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus:    commandBus,
		queryBus:      queryBus,
		authenticator: authenticator,
		cfg:           cfg,
		logger:        logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.universe.dev"},
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.authenticator.Middleware())

		accountHandler := handlers.NewAccountHandler(rt.commandBus, rt.queryBus, rt.logger)
		nodeHandler := handlers.NewNodeHandler(rt.commandBus, rt.queryBus, rt.logger)
		ledgerHandler := handlers.NewLedgerHandler(rt.commandBus, rt.queryBus, rt.logger)

		r.Get("/me", accountHandler.GetMe)

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", accountHandler.RegisterAccount)
			r.Get("/", accountHandler.GetAccount) // ?username= lookup
			r.Get("/{accountID}", accountHandler.GetAccount)
		})

		r.Route("/nodes", func(r chi.Router) {
			r.Post("/", nodeHandler.CreateNode)
			r.Get("/", nodeHandler.GetFeed)
			r.Get("/{nodeID}", nodeHandler.GetNode)
			r.Delete("/{nodeID}", nodeHandler.DeleteNode)
			r.Post("/{nodeID}/tips", ledgerHandler.TipNode)
		})

		r.Post("/transfers", ledgerHandler.CreateTransfer)
		r.Get("/transactions", ledgerHandler.ListTransactions)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
