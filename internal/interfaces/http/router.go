package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Medistore-api/internal/application/auth"
	"github.com/jhoicas/Medistore-api/internal/application/profile"
	"github.com/jhoicas/Medistore-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.UseCase
	ProfileSvc *profile.Service
	CategoryUC *usecase.CategoryUseCase
	ProductUC  *usecase.ProductUseCase
	OrderUC    *usecase.OrderUseCase
	MessageUC  *usecase.MessageUseCase
	Receipt    ReceiptGenerator
	JWTSecret  string
}

// Router registra las rutas de la API. Tres niveles de acceso:
//   - público: catálogo, registro/login, creación de pedidos y mensajes
//   - autenticado: perfil propio y pedidos propios
//   - admin: escrituras de catálogo, gestión de pedidos, buzón y perfiles
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Health (público, para probes)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/logout", AuthMiddleware(deps.JWTSecret), authHandler.Logout)

	// Catálogo (público; solo filas activas para quien no es admin)
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := api.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)

	productHandler := NewProductHandler(deps.ProductUC)
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Pedidos: creación pública (sesión opcional), lecturas con sesión
	orderHandler := NewOrderHandler(deps.OrderUC, deps.Receipt)
	orders := api.Group("/orders")
	orders.Post("/", OptionalAuth(deps.JWTSecret), orderHandler.Create)
	orders.Get("/", AuthMiddleware(deps.JWTSecret), orderHandler.List)
	orders.Get("/:id", AuthMiddleware(deps.JWTSecret), orderHandler.GetByID)

	// Mensajes de contacto: inserción pública
	messageHandler := NewMessageHandler(deps.MessageUC)
	api.Post("/messages", messageHandler.Create)

	// Perfil propio (autenticado)
	profileHandler := NewProfileHandler(deps.ProfileSvc)
	profileGroup := api.Group("/profile", AuthMiddleware(deps.JWTSecret))
	profileGroup.Get("/", profileHandler.Me)
	profileGroup.Put("/", profileHandler.Update)

	// Back office (admin resuelto contra DB, no contra el claim del token)
	admin := api.Group("/admin", AuthMiddleware(deps.JWTSecret), RequireAdmin(deps.ProfileSvc))

	adminCategories := admin.Group("/categories")
	adminCategories.Post("/", categoryHandler.Create)
	adminCategories.Put("/:id", categoryHandler.Update)
	adminCategories.Delete("/:id", categoryHandler.Delete)

	adminProducts := admin.Group("/products")
	adminProducts.Post("/", productHandler.Create)
	adminProducts.Put("/:id", productHandler.Update)
	adminProducts.Delete("/:id", productHandler.Delete)
	adminProducts.Get("/", productHandler.List)       // incluye inactivos
	adminProducts.Get("/:id", productHandler.GetByID) // incluye inactivos

	adminOrders := admin.Group("/orders")
	adminOrders.Get("/", orderHandler.List)
	adminOrders.Get("/:id", orderHandler.GetByID)
	adminOrders.Put("/:id/status", orderHandler.UpdateStatus)
	adminOrders.Get("/:id/receipt", orderHandler.Receipt)

	adminMessages := admin.Group("/messages")
	adminMessages.Get("/", messageHandler.List)
	adminMessages.Get("/:id", messageHandler.GetByID)
	adminMessages.Put("/:id/read", messageHandler.MarkRead)
	adminMessages.Post("/:id/reply", messageHandler.Reply)
	adminMessages.Delete("/:id", messageHandler.Delete)

	adminProfiles := admin.Group("/profiles")
	adminProfiles.Get("/", profileHandler.List)
	adminProfiles.Post("/promote", profileHandler.Promote)
}
