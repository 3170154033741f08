package rest

import (
	"net/http"
	"time"

	"fortunasbet-api/application/commands/bus"
	querybus "fortunasbet-api/application/queries/bus"
	"fortunasbet-api/interfaces/http/rest/handlers"
	"fortunasbet-api/interfaces/http/rest/middleware"
	"fortunasbet-api/pkg/auth"
	pkgerrors "fortunasbet-api/pkg/errors"
	"fortunasbet-api/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RequestTimeout bounds each request. API Gateway gives up after 30 seconds.
const RequestTimeout = 29 * time.Second

// Router creates and configures the HTTP router
type Router struct {
	commandBus     *bus.CommandBus
	queryBus       *querybus.QueryBus
	validator      auth.TokenValidator
	limiter        auth.RateLimiter
	errorHandler   *pkgerrors.ErrorHandler
	recorder       observability.RequestRecorder
	allowedOrigins []string
	logger         *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	validator auth.TokenValidator,
	limiter auth.RateLimiter,
	errorHandler *pkgerrors.ErrorHandler,
	recorder observability.RequestRecorder,
	allowedOrigins []string,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus:     commandBus,
		queryBus:       queryBus,
		validator:      validator,
		limiter:        limiter,
		errorHandler:   errorHandler,
		recorder:       recorder,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.recorder != nil {
		router.Use(middleware.Metrics(rt.recorder))
	}
	router.Use(rt.errorHandler.Middleware)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(chimiddleware.Timeout(RequestTimeout))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errorHandler.HandleStatus(w, r, http.StatusNotFound, "Route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rt.errorHandler.HandleStatus(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	roomHandler := handlers.NewRoomHandler(rt.commandBus, rt.queryBus, rt.errorHandler, rt.logger)
	membershipHandler := handlers.NewMembershipHandler(rt.commandBus, rt.queryBus, rt.errorHandler, rt.logger)
	userHandler := handlers.NewUserHandler(rt.commandBus, rt.queryBus, rt.errorHandler, rt.logger)

	// Public endpoints
	router.Get("/fortunasbet/", handlers.Health)
	router.Get("/room/get_valid_leagues", roomHandler.ListValidLeagues)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.validator, rt.limiter, rt.errorHandler, rt.logger))
		r.Use(middleware.CaptureUser)

		r.Route("/room", func(r chi.Router) {
			r.Post("/create_room", roomHandler.CreateRoom)
			r.Get("/get_room/{room_id}", roomHandler.GetRoom)
			r.Put("/edit_room/{room_id}", roomHandler.EditRoom)
			r.Delete("/delete_room/{room_id}", roomHandler.DeleteRoom)
			r.Get("/get_all_rooms", roomHandler.ListRooms)
			r.Get("/get_room_audit/{room_id}", roomHandler.GetRoomAudit)
		})

		r.Route("/membership", func(r chi.Router) {
			r.Post("/create_membership_request", membershipHandler.CreateMembershipRequest)
			r.Get("/get_all_membership_request", membershipHandler.ListMembershipRequests)
			r.Get("/get_admin_requests/{room_id}", membershipHandler.GetAdminRequests)
			r.Put("/edit_membership_requests", membershipHandler.RespondMembership)
			r.Get("/get_room_members/{room_id}", membershipHandler.GetRoomMembers)
			r.Put("/change_member_status", membershipHandler.ChangeMemberStatus)
			r.Post("/invite_user", membershipHandler.InviteUser)
		})

		r.Route("/user", func(r chi.Router) {
			r.Get("/get_requestors_profile", userHandler.GetRequestorsProfile)
			r.Put("/update_user_profile", userHandler.UpdateUserProfile)
			r.Get("/get_user_profile/{user_id}", userHandler.GetUserProfile)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/get_notifications", userHandler.GetNotifications)
			r.Put("/acknowledge_notification/{notification_id}", userHandler.AcknowledgeNotification)
		})
	})

	return router
}
