package http

import (
	"net/http"

	"github.com/RouteClouds/Health-Care-Management-System/internal/delivery/http/handler"
	"github.com/RouteClouds/Health-Care-Management-System/internal/delivery/http/middleware"
	"github.com/RouteClouds/Health-Care-Management-System/pkg/response"

	"github.com/gorilla/mux"
)

type Router struct {
	router                  *mux.Router
	authHandler             *handler.AuthHandler
	doctorHandler           *handler.DoctorHandler
	appointmentHandler      *handler.AppointmentHandler
	auditLogHandler         *handler.AuditLogHandler
	healthHandler           *handler.HealthHandler
	metricsHandler          http.Handler
	authMiddleware          *middleware.AuthMiddleware
	corsMiddleware          *middleware.CORSMiddleware
	rateLimitMiddleware     *middleware.RateLimitMiddleware
	observabilityMiddleware *middleware.ObservabilityMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	doctorHandler *handler.DoctorHandler,
	appointmentHandler *handler.AppointmentHandler,
	auditLogHandler *handler.AuditLogHandler,
	healthHandler *handler.HealthHandler,
	metricsHandler http.Handler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	observabilityMiddleware *middleware.ObservabilityMiddleware,
) *Router {
	return &Router{
		router:                  mux.NewRouter(),
		authHandler:             authHandler,
		doctorHandler:           doctorHandler,
		appointmentHandler:      appointmentHandler,
		auditLogHandler:         auditLogHandler,
		healthHandler:           healthHandler,
		metricsHandler:          metricsHandler,
		authMiddleware:          authMiddleware,
		corsMiddleware:          corsMiddleware,
		rateLimitMiddleware:     rateLimitMiddleware,
		observabilityMiddleware: observabilityMiddleware,
	}
}

// Setup registers every route and wraps the router in CORS, so preflights on
// any path are answered before routing.
func (r *Router) Setup() http.Handler {
	r.router.Use(r.observabilityMiddleware.Handle)

	r.router.HandleFunc("/health", r.healthHandler.Check).Methods(http.MethodGet)
	r.router.Handle("/metrics", r.metricsHandler).Methods(http.MethodGet)

	api := r.router.PathPrefix("/api").Subrouter()

	// Auth routes (public, rate limited)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.Handle("/register", r.rateLimitMiddleware.Handle(http.HandlerFunc(r.authHandler.Register))).Methods(http.MethodPost)
	auth.Handle("/login", r.rateLimitMiddleware.Handle(http.HandlerFunc(r.authHandler.Login))).Methods(http.MethodPost)

	// Auth routes (protected)
	auth.Handle("/profile", r.authMiddleware.Authenticate(http.HandlerFunc(r.authHandler.GetProfile))).Methods(http.MethodGet)
	auth.Handle("/logout", r.authMiddleware.Authenticate(http.HandlerFunc(r.authHandler.Logout))).Methods(http.MethodPost)

	// Doctor directory (public). Fixed paths are registered before /{id}.
	doctors := api.PathPrefix("/doctors").Subrouter()
	doctors.HandleFunc("", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	doctors.HandleFunc("/", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	doctors.HandleFunc("/stats", r.doctorHandler.GetStats).Methods(http.MethodGet)
	doctors.HandleFunc("/departments/all", r.doctorHandler.GetDepartments).Methods(http.MethodGet)
	doctors.HandleFunc("/department/{code}", r.doctorHandler.GetDepartmentDoctors).Methods(http.MethodGet)
	doctors.HandleFunc("/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)

	// Appointments
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.HandleFunc("/availability/{doctorId}/{date}", r.appointmentHandler.GetAvailability).Methods(http.MethodGet)

	protected := appointments.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)
	protected.HandleFunc("", r.appointmentHandler.GetMyAppointments).Methods(http.MethodGet)
	protected.HandleFunc("", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)
	protected.HandleFunc("/{id}", r.appointmentHandler.UpdateAppointment).Methods(http.MethodPut)
	protected.HandleFunc("/{id}", r.appointmentHandler.CancelAppointment).Methods(http.MethodDelete)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	r.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.NotFound(w, "Route "+req.URL.Path+" not found")
	})
	r.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	return r.corsMiddleware.Handle(r.router)
}
