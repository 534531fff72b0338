package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contact-sync/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sync      *SyncHandler
	JWTSecret string
	JWTIssuer string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Sincronización (requiere Bearer Token con rol admin)
	syncGroup := api.Group("/sync", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer), RequireRole(jwt.RoleAdmin))
	syncGroup.Post("/runs", deps.Sync.Run)
	syncGroup.Get("/runs", deps.Sync.List)
	syncGroup.Get("/runs/:id", deps.Sync.GetByID)
}
