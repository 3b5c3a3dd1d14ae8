package ergast

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"gridrate-backend/models"
	"gridrate-backend/store"
)

const (
	DefaultBaseURL = "https://api.jolpi.ca/ergast/f1"

	// The provider returns at most 100 records per page.
	pageSize = 100
)

// Client fetches season, race, qualifying and standings documents from the
// remote statistics provider. It shields callers from pagination and
// rate-limiting: every page request goes through the read-through cache and
// a bounded retry-with-backoff on HTTP 429.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *Cache
	retry      RetryPolicy
	sleep      func(context.Context, time.Duration) error
}

func New(baseURL string, s store.Store) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		cache: NewCache(s),
		retry: DefaultRetryPolicy(),
		sleep: sleepContext,
	}
}

// sleepContext waits out a backoff delay but wakes early on cancellation.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Cache exposes the client's cache, mainly so callers can tune TTLs.
func (c *Client) Cache() *Cache {
	return c.cache
}

// SetRetryPolicy overrides the default rate-limit retry policy.
func (c *Client) SetRetryPolicy(p RetryPolicy) {
	c.retry = p
}

// Seasons lists every championship season the provider knows about.
func (c *Client) Seasons(ctx context.Context) ([]models.Season, error) {
	var out []models.Season
	err := c.forEachPage(ctx, "seasons.json", "", func(m mrData) int {
		if m.SeasonTable == nil {
			return 0
		}
		for _, s := range m.SeasonTable.Seasons {
			out = append(out, models.Season{Season: s.Season, URL: s.URL})
		}
		return len(m.SeasonTable.Seasons)
	})
	return out, err
}

// SeasonRaces returns the race schedule for a season.
func (c *Client) SeasonRaces(ctx context.Context, season string) ([]models.Race, error) {
	var out []models.Race
	err := c.forEachPage(ctx, season+".json", season, func(m mrData) int {
		if m.RaceTable == nil {
			return 0
		}
		for _, r := range m.RaceTable.Races {
			out = append(out, r.toRace())
		}
		return len(m.RaceTable.Races)
	})
	return out, err
}

// SeasonResults returns every race result of the season, all rounds
// concatenated.
func (c *Client) SeasonResults(ctx context.Context, season string) ([]models.RaceResult, error) {
	return c.collectResults(ctx, season+"/results.json", season, false)
}

// RoundResults returns the results of a single round.
func (c *Client) RoundResults(ctx context.Context, season, round string) ([]models.RaceResult, error) {
	return c.collectResults(ctx, season+"/"+round+"/results.json", season, false)
}

// SeasonSprints returns every sprint result of the season. Sprint rows share
// the race result shape; sprint and race points for a round are additive.
func (c *Client) SeasonSprints(ctx context.Context, season string) ([]models.RaceResult, error) {
	return c.collectResults(ctx, season+"/sprint.json", season, true)
}

func (c *Client) collectResults(ctx context.Context, endpoint, season string, sprint bool) ([]models.RaceResult, error) {
	var out []models.RaceResult
	err := c.forEachPage(ctx, endpoint, season, func(m mrData) int {
		if m.RaceTable == nil {
			return 0
		}
		count := 0
		for _, race := range m.RaceTable.Races {
			rows := race.Results
			if sprint {
				rows = race.SprintResults
			}
			for _, res := range rows {
				out = append(out, res.toRaceResult(race.Season, race.Round))
			}
			count += len(rows)
		}
		return count
	})
	return out, err
}

// SeasonQualifying returns every qualifying result of the season.
func (c *Client) SeasonQualifying(ctx context.Context, season string) ([]models.QualifyingResult, error) {
	var out []models.QualifyingResult
	err := c.forEachPage(ctx, season+"/qualifying.json", season, func(m mrData) int {
		if m.RaceTable == nil {
			return 0
		}
		count := 0
		for _, race := range m.RaceTable.Races {
			for _, q := range race.QualifyingResults {
				out = append(out, q.toQualifyingResult(race.Season, race.Round))
			}
			count += len(race.QualifyingResults)
		}
		return count
	})
	return out, err
}

// DriverStandings fetches the season's driver standings. Standings fit in a
// single document, no pagination needed.
func (c *Client) DriverStandings(ctx context.Context, season string) ([]models.DriverStanding, error) {
	m, err := c.fetchSingle(ctx, season+"/driverStandings.json", season)
	if err != nil {
		return nil, err
	}
	var out []models.DriverStanding
	if m.StandingsTable != nil {
		for _, list := range m.StandingsTable.StandingsLists {
			for _, s := range list.DriverStandings {
				out = append(out, s.toDriverStanding())
			}
		}
	}
	return out, nil
}

// ConstructorStandings fetches the season's constructor standings.
func (c *Client) ConstructorStandings(ctx context.Context, season string) ([]models.ConstructorStanding, error) {
	m, err := c.fetchSingle(ctx, season+"/constructorStandings.json", season)
	if err != nil {
		return nil, err
	}
	var out []models.ConstructorStanding
	if m.StandingsTable != nil {
		for _, list := range m.StandingsTable.StandingsLists {
			for _, s := range list.ConstructorStandings {
				out = append(out, s.toConstructorStanding())
			}
		}
	}
	return out, nil
}

// forEachPage walks a paginated collection endpoint. Pages are fetched
// sequentially: one page's total is needed to know whether to request the
// next. The walk stops at offset >= total or on an empty page.
func (c *Client) forEachPage(ctx context.Context, endpoint, season string, handle func(mrData) int) error {
	offset := 0
	for {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(pageSize))
		query.Set("offset", strconv.Itoa(offset))

		body, err := c.fetchCached(ctx, endpoint, query, season)
		if err != nil {
			return err
		}

		var env apiEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return &FetchError{Endpoint: endpoint, Err: fmt.Errorf("decode response: %w", err)}
		}

		count := handle(env.MRData)
		total := parseIntOrZero(env.MRData.Total)
		offset += pageSize
		if count == 0 || offset >= total {
			return nil
		}
	}
}

func (c *Client) fetchSingle(ctx context.Context, endpoint, season string) (mrData, error) {
	body, err := c.fetchCached(ctx, endpoint, nil, season)
	if err != nil {
		return mrData{}, err
	}
	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return mrData{}, &FetchError{Endpoint: endpoint, Err: fmt.Errorf("decode response: %w", err)}
	}
	return env.MRData, nil
}

// fetchCached is the read-through path for one request. A fresh cache hit
// skips the network entirely. When the live fetch exhausts its rate-limit
// retries and any cached value exists, even expired, the stale value is
// served instead of the error.
func (c *Client) fetchCached(ctx context.Context, endpoint string, query url.Values, season string) ([]byte, error) {
	key := cacheKey(endpoint, query)

	if data, fresh, found := c.cache.Get(ctx, key); found && fresh {
		return data, nil
	}

	body, err := c.fetchPage(ctx, endpoint, query)
	if err != nil {
		if IsRateLimit(err) {
			if data, _, found := c.cache.Get(ctx, key); found {
				log.Println("serving stale cache for", endpoint)
				return data, nil
			}
		}
		return nil, err
	}

	c.cache.Put(ctx, key, body, season)
	return body, nil
}

// fetchPage performs one HTTP GET with the bounded retry-on-429 policy.
// Backoff suspends only this request; unrelated in-flight fetches are not
// blocked.
func (c *Client) fetchPage(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + "/" + endpoint
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
		if err != nil {
			return nil, &FetchError{Endpoint: endpoint, Err: err}
		}
		req.Header.Set("User-Agent", "gridrate-backend/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, &FetchError{Endpoint: endpoint, Err: err}
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			if attempt >= c.retry.MaxRetries {
				return nil, &RateLimitError{Endpoint: endpoint}
			}
			if err := c.sleep(ctx, c.retry.Delay(attempt+1)); err != nil {
				return nil, &FetchError{Endpoint: endpoint, Err: err}
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, &FetchError{Endpoint: endpoint, Status: resp.StatusCode}
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, &FetchError{Endpoint: endpoint, Err: err}
		}
		return body, nil
	}
}

func cacheKey(endpoint string, query url.Values) string {
	if len(query) == 0 {
		return endpoint
	}
	return endpoint + "?" + query.Encode()
}
