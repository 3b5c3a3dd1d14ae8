package routes

import (
	"github.com/gofiber/fiber/v2"

	"gridrate-backend/controllers"
)

func Register(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api.Get("/seasons", controllers.GetSeasons)
	api.Get("/seasons/:season", controllers.GetSeasonOverview)
	api.Get("/seasons/:season/drivers", controllers.GetDriverSeasonStats)
	api.Get("/seasons/:season/constructors", controllers.GetConstructorStandings)
	api.Get("/seasons/:season/headtohead", controllers.GetHeadToHead)

	api.Get("/ratings/:season", controllers.GetSeasonRatings)
	api.Put("/ratings/:season/races/:round", controllers.SaveRaceRatings)
	api.Put("/ratings/:season/quick", controllers.SaveQuickRatings)
	api.Get("/ratings/:season/averages", controllers.GetAverages)
	api.Get("/ratings/:season/matrix", controllers.GetMatrix)
	api.Get("/ratings/:season/export", controllers.ExportRatings)
	api.Post("/ratings/import", controllers.ImportRatings)
	api.Delete("/ratings/:season", controllers.ClearSeasonRatings)
}
