package stats

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"gridrate-backend/ergast"
	"gridrate-backend/models"
)

// Dataset labels used when part of a season view is missing. Rate-limited
// and genuinely-empty are different user-facing situations and are never
// conflated.
const (
	ReasonRateLimited = "rate_limited"
	ReasonUnavailable = "unavailable"
)

// Service turns raw provider documents into season-wide statistics views.
type Service struct {
	client *ergast.Client
	now    func() time.Time
}

func New(client *ergast.Client) *Service {
	return &Service{client: client, now: time.Now}
}

// DriverSeasonStats builds the per-driver season table. Standings are the
// authoritative source for position/points/wins; poles and podiums are
// derived by scanning qualifying and race results. A results or qualifying
// failure degrades to zero derived counts rather than failing the view.
func (s *Service) DriverSeasonStats(ctx context.Context, season string) ([]models.DriverSeasonStats, error) {
	standings, err := s.client.DriverStandings(ctx, season)
	if err != nil {
		return nil, err
	}

	var (
		wg      sync.WaitGroup
		results []models.RaceResult
		quali   []models.QualifyingResult
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		results, err = s.client.SeasonResults(ctx, season)
		if err != nil {
			log.Println("season results unavailable, poles/podiums degrade to zero:", err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		quali, err = s.client.SeasonQualifying(ctx, season)
		if err != nil {
			log.Println("season qualifying unavailable, poles degrade to zero:", err)
		}
	}()
	wg.Wait()

	return ComputeDriverSeasonStats(standings, results, quali), nil
}

// ComputeDriverSeasonStats merges standings with derived pole/podium counts.
// A driver present in standings but absent from the scans keeps zero counts;
// that is expected early in a season, not an error.
func ComputeDriverSeasonStats(standings []models.DriverStanding, results []models.RaceResult, quali []models.QualifyingResult) []models.DriverSeasonStats {
	poles := map[string]int{}
	podiums := map[string]int{}
	for _, st := range standings {
		poles[st.DriverID] = 0
		podiums[st.DriverID] = 0
	}

	for _, res := range results {
		if res.Position != nil && *res.Position >= 1 && *res.Position <= 3 {
			podiums[res.DriverID]++
		}
	}
	for _, q := range quali {
		if q.Position == 1 {
			poles[q.DriverID]++
		}
	}

	out := make([]models.DriverSeasonStats, 0, len(standings))
	for _, st := range standings {
		out = append(out, models.DriverSeasonStats{
			Position:        st.Position,
			DriverID:        st.DriverID,
			DriverName:      st.DriverName,
			ConstructorID:   st.ConstructorID,
			ConstructorName: st.ConstructorName,
			Points:          st.Points,
			Wins:            st.Wins,
			Poles:           poles[st.DriverID],
			Podiums:         podiums[st.DriverID],
		})
	}
	return out
}

// ConstructorStandings fetches the constructor standings and attributes
// derived poles/podiums by summing each constructor's drivers.
func (s *Service) ConstructorStandings(ctx context.Context, season string) ([]models.ConstructorStanding, error) {
	standings, err := s.client.ConstructorStandings(ctx, season)
	if err != nil {
		return nil, err
	}
	driverStats, err := s.DriverSeasonStats(ctx, season)
	if err != nil {
		log.Println("driver stats unavailable, constructor poles/podiums degrade to zero:", err)
		driverStats = nil
	}
	return MergeConstructorStats(standings, driverStats), nil
}

// MergeConstructorStats sums each driver's derived counts into their
// standings-listed constructor. A driver who changed teams mid-season has
// all counts attributed to the latest constructor in the standings snapshot.
func MergeConstructorStats(standings []models.ConstructorStanding, driverStats []models.DriverSeasonStats) []models.ConstructorStanding {
	poles := map[string]int{}
	podiums := map[string]int{}
	for _, d := range driverStats {
		poles[d.ConstructorID] += d.Poles
		podiums[d.ConstructorID] += d.Podiums
	}

	out := make([]models.ConstructorStanding, len(standings))
	for i, st := range standings {
		st.Poles = poles[st.ConstructorID]
		st.Podiums = podiums[st.ConstructorID]
		out[i] = st
	}
	return out
}

// RoundEntry is one cell of the interactive season table. Points are the
// full weekend (sprint + race). SprintOnly marks a sprint result without a
// main-race result: the race position is unknown, which is not the same
// thing as a DNF.
type RoundEntry struct {
	Position   *int    `json:"position"`
	Points     float64 `json:"points"`
	SprintOnly bool    `json:"sprintOnly,omitempty"`
}

// BuildRaceByRoundMap indexes results as driverId -> round -> entry,
// merging sprint points into the round's race entry.
func BuildRaceByRoundMap(results, sprints []models.RaceResult) map[string]map[string]RoundEntry {
	out := map[string]map[string]RoundEntry{}

	byDriver := func(driverID string) map[string]RoundEntry {
		m, ok := out[driverID]
		if !ok {
			m = map[string]RoundEntry{}
			out[driverID] = m
		}
		return m
	}

	for _, res := range results {
		byDriver(res.DriverID)[res.Round] = RoundEntry{
			Position: res.Position,
			Points:   res.Points,
		}
	}

	for _, spr := range sprints {
		rounds := byDriver(spr.DriverID)
		if entry, ok := rounds[spr.Round]; ok {
			entry.Points += spr.Points
			rounds[spr.Round] = entry
		} else {
			rounds[spr.Round] = RoundEntry{
				Points:     spr.Points,
				SprintOnly: true,
			}
		}
	}

	return out
}

// RaceColumn is a compact header for one completed race.
type RaceColumn struct {
	Round       string `json:"round"`
	Name        string `json:"name"`
	CountryCode string `json:"countryCode"`
}

// BuildRaceColumns keeps only races already run, in round order, with
// shortened names and flag codes.
func BuildRaceColumns(races []models.Race, now time.Time) []RaceColumn {
	out := make([]RaceColumn, 0, len(races))
	for _, r := range races {
		if !r.IsCompleted(now) {
			continue
		}
		out = append(out, RaceColumn{
			Round:       r.Round,
			Name:        ShortenRaceName(r.Name),
			CountryCode: CountryCode(r.Name),
		})
	}
	sort.Slice(out, func(i, j int) bool { return models.RoundLess(out[i].Round, out[j].Round) })
	return out
}

// SeasonData bundles every dataset one season view needs. Each dataset is
// fetched independently; a failure in one is recorded in Unavailable and
// never blocks the others.
type SeasonData struct {
	Season               string                           `json:"season"`
	Races                []models.Race                    `json:"races"`
	Results              []models.RaceResult              `json:"results"`
	Sprints              []models.RaceResult              `json:"sprints"`
	Qualifying           []models.QualifyingResult        `json:"qualifying"`
	DriverStandings      []models.DriverStanding          `json:"driverStandings"`
	ConstructorStandings []models.ConstructorStanding     `json:"constructorStandings"`
	RaceByRound          map[string]map[string]RoundEntry `json:"raceByRound"`
	RaceColumns          []RaceColumn                     `json:"raceColumns"`
	Unavailable          map[string]string                `json:"unavailable,omitempty"`
}

// FetchSeasonData fetches all season datasets concurrently as independent
// outcomes.
func (s *Service) FetchSeasonData(ctx context.Context, season string) SeasonData {
	data := SeasonData{Season: season, Unavailable: map[string]string{}}

	var wg sync.WaitGroup
	var mu sync.Mutex

	fail := func(dataset string, err error) {
		log.Printf("season %s: %s fetch failed: %v", season, dataset, err)
		reason := ReasonUnavailable
		if ergast.IsRateLimit(err) {
			reason = ReasonRateLimited
		}
		mu.Lock()
		data.Unavailable[dataset] = reason
		mu.Unlock()
	}

	wg.Add(6)
	go func() {
		defer wg.Done()
		races, err := s.client.SeasonRaces(ctx, season)
		if err != nil {
			fail("races", err)
			return
		}
		data.Races = races
	}()
	go func() {
		defer wg.Done()
		results, err := s.client.SeasonResults(ctx, season)
		if err != nil {
			fail("results", err)
			return
		}
		data.Results = results
	}()
	go func() {
		defer wg.Done()
		sprints, err := s.client.SeasonSprints(ctx, season)
		if err != nil {
			fail("sprints", err)
			return
		}
		data.Sprints = sprints
	}()
	go func() {
		defer wg.Done()
		quali, err := s.client.SeasonQualifying(ctx, season)
		if err != nil {
			fail("qualifying", err)
			return
		}
		data.Qualifying = quali
	}()
	go func() {
		defer wg.Done()
		standings, err := s.client.DriverStandings(ctx, season)
		if err != nil {
			fail("driverStandings", err)
			return
		}
		data.DriverStandings = standings
	}()
	go func() {
		defer wg.Done()
		standings, err := s.client.ConstructorStandings(ctx, season)
		if err != nil {
			fail("constructorStandings", err)
			return
		}
		data.ConstructorStandings = standings
	}()
	wg.Wait()

	data.RaceByRound = BuildRaceByRoundMap(data.Results, data.Sprints)
	data.RaceColumns = BuildRaceColumns(data.Races, s.now())
	if len(data.Unavailable) == 0 {
		data.Unavailable = nil
	}
	return data
}
