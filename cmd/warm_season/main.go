// warm_season pre-fetches one season's datasets into the provider cache so
// the API serves it without hitting the rate-limited provider. Run with the
// season year as the only argument, e.g. `warm_season 2024`.
package main

import (
	"context"
	"log"
	"os"
	"regexp"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"gridrate-backend/ergast"
	"gridrate-backend/stats"
	"gridrate-backend/store"
)

func main() {
	if os.Getenv("RENDER") == "" {
		_ = godotenv.Load()
	}

	if len(os.Args) != 2 || !regexp.MustCompile(`^\d{4}$`).MatchString(os.Args[1]) {
		log.Fatal("usage: warm_season <year>")
	}
	season := os.Args[1]

	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		log.Fatal("REDIS_URL is not set; warming an in-memory cache would be pointless")
	}
	redisClient := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("redis not reachable: %v", err)
	}

	client := ergast.New(os.Getenv("ERGAST_BASE_URL"), store.NewRedisStore(redisClient))
	service := stats.New(client)

	started := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	data := service.FetchSeasonData(ctx, season)
	if len(data.Unavailable) > 0 {
		log.Printf("season %s warmed with gaps: %v", season, data.Unavailable)
	}
	log.Printf("season %s warmed in %s: %d races, %d results, %d sprint rows, %d qualifying rows, %d drivers, %d constructors",
		season, time.Since(started).Round(time.Millisecond),
		len(data.Races), len(data.Results), len(data.Sprints), len(data.Qualifying),
		len(data.DriverStandings), len(data.ConstructorStandings))
}
