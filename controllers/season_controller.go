package controllers

import (
	"log"
	"regexp"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"

	"gridrate-backend/ergast"
	"gridrate-backend/headtohead"
	"gridrate-backend/models"
)

var reSeason = regexp.MustCompile(`^\d{4}$`)

func seasonParam(c *fiber.Ctx) (string, bool) {
	season := strings.TrimSpace(c.Params("season"))
	return season, reSeason.MatchString(season)
}

// providerError maps a fetch failure to a response. Rate limiting gets its
// own status so the frontend can show a retry banner instead of "no data".
func providerError(c *fiber.Ctx, err error) error {
	log.Println("provider fetch failed:", err)
	if ergast.IsRateLimit(err) {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Rate limited by the data provider, try again shortly"})
	}
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to fetch data from provider"})
}

// GET /api/seasons
func GetSeasons(c *fiber.Ctx) error {
	seasons, err := Ergast.Seasons(c.Context())
	if err != nil {
		return providerError(c, err)
	}
	return c.JSON(seasons)
}

// GET /api/seasons/:season
// Full season bundle: schedule, results, standings, round map, columns.
// Partial failures are reported per dataset in "unavailable" instead of
// failing the whole view.
func GetSeasonOverview(c *fiber.Ctx) error {
	season, ok := seasonParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "season must be a 4-digit year"})
	}
	return c.JSON(Stats.FetchSeasonData(c.Context(), season))
}

// GET /api/seasons/:season/drivers
func GetDriverSeasonStats(c *fiber.Ctx) error {
	season, ok := seasonParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "season must be a 4-digit year"})
	}
	out, err := Stats.DriverSeasonStats(c.Context(), season)
	if err != nil {
		return providerError(c, err)
	}
	return c.JSON(out)
}

// GET /api/seasons/:season/constructors
func GetConstructorStandings(c *fiber.Ctx) error {
	season, ok := seasonParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "season must be a 4-digit year"})
	}
	out, err := Stats.ConstructorStandings(c.Context(), season)
	if err != nil {
		return providerError(c, err)
	}
	return c.JSON(out)
}

// GET /api/seasons/:season/headtohead?driverA=...&driverB=...&constructorId=...
func GetHeadToHead(c *fiber.Ctx) error {
	season, ok := seasonParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "season must be a 4-digit year"})
	}
	driverA := strings.TrimSpace(c.Query("driverA"))
	driverB := strings.TrimSpace(c.Query("driverB"))
	constructorID := strings.TrimSpace(c.Query("constructorId"))
	if driverA == "" || driverB == "" || constructorID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "driverA, driverB and constructorId query params are required"})
	}
	if driverA == driverB {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "driverA and driverB must differ"})
	}

	// Results and qualifying are independent suspension points; fetch both
	// at once and fail only if both are useless.
	var (
		wg       sync.WaitGroup
		results  []models.RaceResult
		quali    []models.QualifyingResult
		resErr   error
		qualiErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		results, resErr = Ergast.SeasonResults(c.Context(), season)
	}()
	go func() {
		defer wg.Done()
		quali, qualiErr = Ergast.SeasonQualifying(c.Context(), season)
	}()
	wg.Wait()

	if resErr != nil && qualiErr != nil {
		return providerError(c, resErr)
	}
	if resErr != nil {
		log.Println("head-to-head: race results unavailable:", resErr)
	}
	if qualiErr != nil {
		log.Println("head-to-head: qualifying unavailable:", qualiErr)
	}

	return c.JSON(headtohead.Compute(driverA, driverB, constructorID, results, quali))
}
