package stats

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gridrate-backend/ergast"
	"gridrate-backend/store"
)

func newSeasonDataService(baseURL string) *Service {
	client := ergast.New(baseURL, store.NewMemoryStore())
	client.SetRetryPolicy(ergast.RetryPolicy{MaxRetries: 1, BaseDelay: time.Millisecond})
	return New(client)
}

func writeEnvelope(w http.ResponseWriter, table string) {
	fmt.Fprintf(w, `{"MRData":{"total":"1",%s}}`, table)
}

// seasonDatasetHandler serves minimal valid documents for every 2023 season
// endpoint, with per-endpoint failure modes switchable by path suffix.
func seasonDatasetHandler(failures map[string]int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for suffix, status := range failures {
			if strings.HasSuffix(r.URL.Path, suffix) {
				w.WriteHeader(status)
				return
			}
		}
		switch {
		case strings.HasSuffix(r.URL.Path, "/2023.json"):
			writeEnvelope(w, `"RaceTable":{"Races":[{"season":"2023","round":"1","raceName":"Bahrain Grand Prix","date":"2023-03-05"}]}`)
		case strings.HasSuffix(r.URL.Path, "/results.json"):
			writeEnvelope(w, `"RaceTable":{"Races":[{"season":"2023","round":"1","Results":[{"position":"1","positionText":"1","points":"25","Driver":{"driverId":"max"},"Constructor":{"constructorId":"red_bull"}}]}]}`)
		case strings.HasSuffix(r.URL.Path, "/sprint.json"):
			writeEnvelope(w, `"RaceTable":{"Races":[{"season":"2023","round":"1","SprintResults":[{"position":"2","positionText":"2","points":"7","Driver":{"driverId":"max"},"Constructor":{"constructorId":"red_bull"}}]}]}`)
		case strings.HasSuffix(r.URL.Path, "/qualifying.json"):
			writeEnvelope(w, `"RaceTable":{"Races":[{"season":"2023","round":"1","QualifyingResults":[{"position":"1","Driver":{"driverId":"max"},"Constructor":{"constructorId":"red_bull"}}]}]}`)
		case strings.HasSuffix(r.URL.Path, "/driverStandings.json"):
			writeEnvelope(w, `"StandingsTable":{"StandingsLists":[{"DriverStandings":[{"position":"1","points":"25","wins":"1","Driver":{"driverId":"max","givenName":"Max","familyName":"Verstappen"},"Constructors":[{"constructorId":"red_bull","name":"Red Bull"}]}]}]}`)
		case strings.HasSuffix(r.URL.Path, "/constructorStandings.json"):
			writeEnvelope(w, `"StandingsTable":{"StandingsLists":[{"ConstructorStandings":[{"position":"1","points":"32","wins":"1","Constructor":{"constructorId":"red_bull","name":"Red Bull"}}]}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestFetchSeasonDataLabelsFailedDatasetsIndependently(t *testing.T) {
	// One dataset is rate-limited past its retries, another fails outright;
	// the remaining four must still arrive, each labeled by its own cause.
	srv := httptest.NewServer(seasonDatasetHandler(map[string]int{
		"/qualifying.json": http.StatusTooManyRequests,
		"/results.json":    http.StatusInternalServerError,
	}))
	defer srv.Close()

	service := newSeasonDataService(srv.URL)
	data := service.FetchSeasonData(context.Background(), "2023")

	if len(data.Unavailable) != 2 {
		t.Fatalf("expected exactly 2 unavailable datasets, got %v", data.Unavailable)
	}
	if got := data.Unavailable["qualifying"]; got != ReasonRateLimited {
		t.Fatalf("a 429-exhausted dataset must be labeled %q, got %q", ReasonRateLimited, got)
	}
	if got := data.Unavailable["results"]; got != ReasonUnavailable {
		t.Fatalf("a 5xx dataset must be labeled %q, got %q", ReasonUnavailable, got)
	}

	if len(data.Races) != 1 {
		t.Fatalf("races must survive sibling failures, got %d", len(data.Races))
	}
	if len(data.Sprints) != 1 {
		t.Fatalf("sprints must survive sibling failures, got %d", len(data.Sprints))
	}
	if len(data.DriverStandings) != 1 || len(data.ConstructorStandings) != 1 {
		t.Fatalf("standings must survive sibling failures: %d drivers, %d constructors",
			len(data.DriverStandings), len(data.ConstructorStandings))
	}
	if len(data.Qualifying) != 0 || len(data.Results) != 0 {
		t.Fatalf("failed datasets must be empty, got %d qualifying, %d results",
			len(data.Qualifying), len(data.Results))
	}

	// Derived views are still built from what did arrive.
	if len(data.RaceColumns) != 1 {
		t.Fatalf("race columns must be built from the fetched schedule, got %+v", data.RaceColumns)
	}
	entry, ok := data.RaceByRound["max"]["1"]
	if !ok || !entry.SprintOnly || entry.Points != 7 {
		t.Fatalf("sprint data must still feed the round map: %+v ok=%v", entry, ok)
	}
}

func TestFetchSeasonDataAllDatasetsHealthy(t *testing.T) {
	srv := httptest.NewServer(seasonDatasetHandler(nil))
	defer srv.Close()

	service := newSeasonDataService(srv.URL)
	data := service.FetchSeasonData(context.Background(), "2023")

	if data.Unavailable != nil {
		t.Fatalf("a fully fetched season must have no unavailable map, got %v", data.Unavailable)
	}
	if len(data.Results) != 1 || len(data.Qualifying) != 1 {
		t.Fatalf("expected every dataset populated: %d results, %d qualifying",
			len(data.Results), len(data.Qualifying))
	}
	entry := data.RaceByRound["max"]["1"]
	if entry.SprintOnly || entry.Points != 32 {
		t.Fatalf("weekend points must merge race and sprint: %+v", entry)
	}
}
