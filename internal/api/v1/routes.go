package v1

import (
	"taskflow-backend/internal/api/v1/handlers"
	"taskflow-backend/internal/middleware"
	"taskflow-backend/internal/repository"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, store *repository.Store, cache *redis.Client, secret []byte) {
	auth := &handlers.AuthHandler{Store: store, Secret: secret}
	lists := &handlers.ListHandler{Store: store, Cache: cache}
	tasks := &handlers.TaskHandler{Store: store, Cache: cache}

	api := app.Group("/api")
	useToken := middleware.Auth(secret)

	// Auth
	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", auth.Register)
	authRoutes.Post("/login", auth.Login)
	authRoutes.Get("/me", useToken, auth.Me)

	// List
	listRoutes := api.Group("/lists", useToken)
	listRoutes.Get("/", lists.Index)
	listRoutes.Get("/:id", lists.Show)
	listRoutes.Post("/", lists.Create)
	listRoutes.Put("/:id", lists.Update)
	listRoutes.Delete("/:id", lists.Delete)

	// Task
	taskRoutes := api.Group("/tasks", useToken)
	taskRoutes.Get("/", tasks.Index)
	taskRoutes.Get("/list/:listId", tasks.ByList)
	taskRoutes.Get("/:id", tasks.Show)
	taskRoutes.Post("/", tasks.Create)
	taskRoutes.Put("/:id", tasks.Update)
	taskRoutes.Delete("/:id", tasks.Delete)
}
