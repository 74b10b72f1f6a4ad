package api

import (
	"time"

	"github.com/St1cky1/task-manager/internal/api/handlers"
	appmiddleware "github.com/St1cky1/task-manager/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewRouter(taskService handlers.ITaskService, health handlers.IHealthChecker, log *zap.Logger, requestTimeout time.Duration) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(appmiddleware.Logger(log))

	taskHandler := handlers.NewTaskHandler(taskService, log)
	healthHandler := handlers.NewHealthHandler(health, log)

	// без авторизации, для проб оркестратора
	r.Get("/health", healthHandler.Check)

	r.Route("/tasks", func(r chi.Router) {
		r.Use(appmiddleware.RequireToken)

		r.Get("/", taskHandler.GetAllTasks)
		r.Post("/", taskHandler.CreateTask)
		r.Get("/deleted", taskHandler.GetDeletedTasks)
		r.Get("/deleted/user/{userId}", taskHandler.GetDeletedTasksByUserId)
		r.Get("/user/{userId}", taskHandler.GetTasksByUserId)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", taskHandler.GetTaskById)
			r.Put("/", taskHandler.UpdateTask)
			r.Delete("/", taskHandler.DeleteTask)
		})
	})

	return r
}
