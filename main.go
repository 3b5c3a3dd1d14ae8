package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"gridrate-backend/controllers"
	"gridrate-backend/database"
	"gridrate-backend/ergast"
	"gridrate-backend/ratings"
	"gridrate-backend/routes"
	"gridrate-backend/stats"
	"gridrate-backend/store"
)

func main() {
	// Load env vars from .env file
	if os.Getenv("RENDER") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Println("No .env file found, continuing with system environment variables")
		}
	}

	cacheStore := buildCacheStore()
	ratingsStore := buildRatingsStore()

	client := ergast.New(os.Getenv("ERGAST_BASE_URL"), cacheStore)
	service := stats.New(client)
	repo := ratings.NewRepository(ratingsStore)
	controllers.Setup(client, service, repo)

	if os.Getenv("WARM_CURRENT_SEASON") == "true" {
		startCacheWarmer(service)
	}

	port := os.Getenv("PORT")
	if port == "" {
		log.Fatal("PORT environment variable not set")
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Setup routes
	routes.Register(app)

	// Start server
	log.Println("Server running on port " + port)
	log.Fatal(app.Listen(":" + port))
}

// buildCacheStore picks the provider-cache backing: Redis when configured,
// in-memory otherwise.
func buildCacheStore() store.Store {
	if os.Getenv("REDIS_URL") != "" {
		database.ConnectRedis()
		return store.NewRedisStore(database.Redis)
	}
	log.Println("REDIS_URL not set, provider cache is in-memory only")
	return store.NewMemoryStore()
}

// buildRatingsStore picks the ratings backing: Postgres when configured,
// in-memory otherwise (ratings are then lost on restart).
func buildRatingsStore() store.Store {
	if os.Getenv("DATABASE_URL") != "" {
		database.ConnectDB()
		pg := store.NewPostgresStore(database.DB)
		if err := pg.EnsureSchema(context.Background()); err != nil {
			log.Fatal("Failed to prepare ratings schema:", err)
		}
		return pg
	}
	log.Println("DATABASE_URL not set, ratings are in-memory only")
	return store.NewMemoryStore()
}

// startCacheWarmer re-fetches the current season on an interval so the
// short-TTL cache stays warm for the common view.
func startCacheWarmer(service *stats.Service) {
	c := cron.New()
	_, err := c.AddFunc("@every 10m", func() {
		season := strconv.Itoa(time.Now().Year())
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		data := service.FetchSeasonData(ctx, season)
		log.Printf("cache warm for season %s: %d races, %d results, unavailable=%v",
			season, len(data.Races), len(data.Results), data.Unavailable)
	})
	if err != nil {
		log.Fatal("Failed to schedule cache warmer:", err)
	}
	c.Start()
	log.Println("Cache warmer scheduled for the current season")
}
