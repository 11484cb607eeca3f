package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"insightmap-backend/application/commands/bus"
	querybus "insightmap-backend/application/queries/bus"
	"insightmap-backend/infrastructure/config"
	"insightmap-backend/interfaces/http/rest/handlers"
	"insightmap-backend/interfaces/http/rest/middleware"
	"insightmap-backend/pkg/auth"
)

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	config     *config.Config
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		config:     cfg,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() (http.Handler, error) {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.insightmap.app"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	authMiddleware, err := rt.authMiddleware()
	if err != nil {
		return nil, err
	}

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(authMiddleware)

		mapHandler := handlers.NewMapHandler(rt.commandBus, rt.queryBus, rt.logger)
		connectionHandler := handlers.NewConnectionHandler(rt.commandBus, rt.queryBus, rt.logger)
		insightHandler := handlers.NewInsightHandler(rt.commandBus, rt.queryBus, rt.logger)
		analyticsHandler := handlers.NewAnalyticsHandler(rt.queryBus, rt.logger)
		presenceHandler := handlers.NewPresenceHandler(rt.commandBus, rt.queryBus, rt.logger)
		activityHandler := handlers.NewActivityHandler(rt.queryBus, rt.logger)
		commentHandler := handlers.NewCommentHandler(rt.commandBus, rt.queryBus, rt.logger)
		votingHandler := handlers.NewVotingHandler(rt.commandBus, rt.queryBus, rt.logger)
		sortingHandler := handlers.NewSortingHandler(rt.commandBus, rt.queryBus, rt.logger)
		notificationHandler := handlers.NewNotificationHandler(rt.commandBus, rt.queryBus, rt.logger)

		// Project-scoped endpoints
		r.Route("/projects/{projectID}", func(r chi.Router) {
			r.Post("/maps", mapHandler.CreateMap)
			r.Get("/maps", mapHandler.ListMaps)
			r.Get("/maps/current", mapHandler.GetCurrentMap)

			r.Post("/insights", insightHandler.CreateInsight)
			r.Get("/insights", insightHandler.ListInsights)

			r.Post("/voting-sessions", votingHandler.CreateSession)
			r.Get("/voting-sessions", votingHandler.ListSessions)
		})

		// Map-scoped endpoints
		r.Route("/maps/{mapID}", func(r chi.Router) {
			r.Get("/", mapHandler.GetMap)

			r.Post("/groups", mapHandler.AddGroup)
			r.Put("/groups", mapHandler.ReplaceGroups)
			r.Route("/groups/{groupID}", func(r chi.Router) {
				r.Put("/position", mapHandler.MoveGroup)
				r.Put("/title", mapHandler.RenameGroup)
				r.Delete("/", mapHandler.RemoveGroup)

				r.Post("/insights", mapHandler.AddInsightToGroup)
				r.Delete("/insights/{insightID}", mapHandler.RemoveInsightFromGroup)
				r.Put("/insights/order", mapHandler.ReorderInsights)

				r.Get("/connections", connectionHandler.ListGroupConnections)
				r.Post("/comments", commentHandler.AddComment)
			})

			r.Post("/insights", mapHandler.CreateIndependentInsight)

			r.Post("/connections", connectionHandler.CreateConnection)
			r.Get("/connections", connectionHandler.ListConnections)
			r.Put("/connections/{connectionID}", connectionHandler.UpdateConnection)
			r.Delete("/connections/{connectionID}", connectionHandler.DeleteConnection)

			r.Get("/analytics", analyticsHandler.GetMapAnalytics)
			r.Get("/activity", activityHandler.GetActivity)

			r.Put("/presence", presenceHandler.UpsertPresence)
			r.Get("/presence", presenceHandler.GetPresence)
			r.Delete("/presence/{userID}", presenceHandler.RemovePresence)

			r.Post("/typing/start", presenceHandler.StartTyping)
			r.Post("/typing/stop", presenceHandler.StopTyping)
			r.Get("/typing", presenceHandler.GetTypingUsers)

			r.Get("/comments", commentHandler.ListComments)
			r.Put("/comments/{commentID}/resolve", commentHandler.ResolveComment)

			r.Post("/sorting-sessions", sortingHandler.StartSession)
			r.Get("/sorting-sessions/active", sortingHandler.GetActiveSession)
		})

		// Insight endpoints
		r.Delete("/insights/{insightID}", insightHandler.DeleteInsight)

		// Voting session endpoints
		r.Route("/voting-sessions/{sessionID}", func(r chi.Router) {
			r.Post("/close", votingHandler.CloseSession)
			r.Post("/votes", votingHandler.CastVote)
			r.Get("/results", votingHandler.GetResults)
		})

		// Sorting session endpoints
		r.Route("/sorting-sessions/{sessionID}", func(r chi.Router) {
			r.Put("/phase", sortingHandler.UpdatePhase)
			r.Put("/timer", sortingHandler.UpdateTimer)
		})

		// Notification endpoints
		r.Get("/notifications", notificationHandler.ListNotifications)
		r.Put("/notifications/{notificationID}/read", notificationHandler.MarkRead)
	})

	return router, nil
}

// authMiddleware picks the request authentication strategy. Behind API
// Gateway the authorizer has already validated the token, so the Lambda
// build trusts the forwarded identity headers instead of re-validating.
func (rt *Router) authMiddleware() (func(http.Handler) http.Handler, error) {
	if rt.config.IsLambda {
		return middleware.AuthenticateForLambda(), nil
	}

	validator, err := auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: rt.config.JWTSecret,
		Issuer:    rt.config.JWTIssuer,
		Audience:  []string{"insightmap"},
	})
	if err != nil {
		return nil, err
	}

	return middleware.Authenticate(validator, rt.logger), nil
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
