package controllers

import (
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"gridrate-backend/models"
	"gridrate-backend/ratings"
)

type SaveRaceRatingsRequest struct {
	RaceName string                `json:"raceName"`
	Date     string                `json:"date"`
	Ratings  []models.DriverRating `json:"ratings"`
}

type SaveQuickRatingsRequest struct {
	Ratings []models.DriverRating `json:"ratings"`
}

func validateEntries(entries []models.DriverRating) string {
	if len(entries) == 0 {
		return "ratings list must not be empty"
	}
	for _, e := range entries {
		if strings.TrimSpace(e.DriverID) == "" || strings.TrimSpace(e.ConstructorID) == "" {
			return "every rating needs driverId and constructorId"
		}
		if !ratings.ValidRating(e.Rating) {
			return fmt.Sprintf("rating %v for %s must be between 0.5 and 10 in 0.5 steps (or 0 for unrated)", e.Rating, e.DriverID)
		}
	}
	return ""
}

// GET /api/ratings/:season
func GetSeasonRatings(c *fiber.Ctx) error {
	season, ok := seasonParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "season must be a 4-digit year"})
	}
	sr, err := Ratings.SeasonRatings(c.Context(), season)
	if err != nil {
		log.Println("load season ratings failed:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load ratings"})
	}
	return c.JSON(sr)
}

// PUT /api/ratings/:season/races/:round
func SaveRaceRatings(c *fiber.Ctx) error {
	season, ok := seasonParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "season must be a 4-digit year"})
	}
	round := strings.TrimSpace(c.Params("round"))
	if round == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "round is required"})
	}

	var req SaveRaceRatingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if msg := validateEntries(req.Ratings); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	if err := Ratings.SaveRaceRatings(c.Context(), season, round, req.RaceName, req.Date, req.Ratings); err != nil {
		log.Println("save race ratings failed:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save ratings"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PUT /api/ratings/:season/quick
func SaveQuickRatings(c *fiber.Ctx) error {
	season, ok := seasonParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "season must be a 4-digit year"})
	}

	var req SaveQuickRatingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if msg := validateEntries(req.Ratings); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	if err := Ratings.SaveQuickRatings(c.Context(), season, req.Ratings); err != nil {
		log.Println("save quick ratings failed:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save ratings"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /api/ratings/:season/averages
func GetAverages(c *fiber.Ctx) error {
	season, ok := seasonParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "season must be a 4-digit year"})
	}
	out, err := Ratings.CalculateAverages(c.Context(), season)
	if err != nil {
		log.Println("calculate averages failed:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute averages"})
	}
	return c.JSON(out)
}

// GET /api/ratings/:season/matrix
func GetMatrix(c *fiber.Ctx) error {
	season, ok := seasonParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "season must be a 4-digit year"})
	}
	out, err := Ratings.RaceByRaceMatrix(c.Context(), season)
	if err != nil {
		log.Println("build matrix failed:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build matrix"})
	}
	return c.JSON(out)
}

// GET /api/ratings/:season/export
func ExportRatings(c *fiber.Ctx) error {
	season, ok := seasonParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "season must be a 4-digit year"})
	}
	doc, err := Ratings.Export(c.Context(), season)
	if err != nil {
		log.Println("export ratings failed:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to export ratings"})
	}
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="ratings-%s.json"`, season))
	return c.JSON(doc)
}

// POST /api/ratings/import
func ImportRatings(c *fiber.Ctx) error {
	result, err := Ratings.Import(c.Context(), c.Body())
	if err != nil {
		log.Println("import ratings failed:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store imported ratings"})
	}
	if !result.Success {
		return c.Status(fiber.StatusBadRequest).JSON(result)
	}
	return c.JSON(result)
}

// DELETE /api/ratings/:season
func ClearSeasonRatings(c *fiber.Ctx) error {
	season, ok := seasonParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "season must be a 4-digit year"})
	}
	if err := Ratings.ClearSeason(c.Context(), season); err != nil {
		log.Println("clear season ratings failed:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to clear ratings"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
