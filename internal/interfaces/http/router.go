package http

import (
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Configs       ConfigService
	Products      ProductService
	Batches       BatchService
	Distributions DistributionService
	Placements    PlacementService
	Alerts        AlertService
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", FacilityMiddleware(deps.JWTSecret))

	facilityHandler := NewFacilityHandler(deps.Configs)
	api.Get("/facility/config", facilityHandler.GetConfig)
	api.Get("/facility/config/primary-key", facilityHandler.GetPrimaryKey)
	api.Post("/facility/config/reload", facilityHandler.Reload)
	api.Get("/facility/features/:name", facilityHandler.GetFeature)
	api.Put("/facilities/:id/config", facilityHandler.PutConfig)

	// Rutas estáticas antes de /:id
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.Products, deps.Batches, deps.Configs)
	distributionHandler := NewDistributionHandler(deps.Distributions, deps.Placements)
	products.Post("/validate", productHandler.Validate)
	products.Post("/distribute", distributionHandler.Distribute)
	products.Get("/batches", productHandler.Batches)
	products.Get("/batches/report", productHandler.BatchReport)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/:id/placements", RequireCapability(CapabilityPlacement, deps.Configs), distributionHandler.Place)

	alerts := api.Group("/alerts")
	alertHandler := NewAlertHandler(deps.Alerts)
	alerts.Get("/low-stock", alertHandler.LowStock)
	alerts.Get("/expiring", alertHandler.Expiring)
}
