package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fintrack/fintrack-be/internal/api/handlers"
	"github.com/fintrack/fintrack-be/internal/metrics"
	"github.com/fintrack/fintrack-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	categoryService services.CategoryServiceProvider,
	expenseService services.ExpenseServiceProvider,
	userService services.UserServiceProvider,
	eventService services.EventServiceProvider,
	corsOrigin string,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	userHandler := handlers.NewUserHandler(userService)
	eventHandler := handlers.NewEventHandler(eventService)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("Welcome to the finance tracker API"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.GetAll)
			r.Post("/", categoryHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", categoryHandler.Update)
				r.Delete("/", categoryHandler.Delete)
			})
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", expenseHandler.GetAll)
			r.Post("/", expenseHandler.Create)
			r.Get("/filter", expenseHandler.Filter)
			r.Get("/category-totals", expenseHandler.CategoryTotals)
			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", expenseHandler.Update)
				r.Delete("/", expenseHandler.Delete)
			})
		})

		r.Get("/users", userHandler.GetAll)
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)

		r.Get("/events", eventHandler.GetRecent)
	})

	return r
}
