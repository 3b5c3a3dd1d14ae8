package ergast

import (
	"strconv"
	"strings"
	"time"

	"gridrate-backend/models"
)

// Raw response shapes for the provider's MRData envelope. Every numeric
// field arrives as a string and is normalized defensively before it enters
// the aggregation core: unparseable numbers become zero, a non-numeric
// position text becomes a nil position.

type apiEnvelope struct {
	MRData mrData `json:"MRData"`
}

type mrData struct {
	Total          string          `json:"total"`
	Limit          string          `json:"limit"`
	Offset         string          `json:"offset"`
	SeasonTable    *seasonTable    `json:"SeasonTable,omitempty"`
	RaceTable      *raceTable      `json:"RaceTable,omitempty"`
	StandingsTable *standingsTable `json:"StandingsTable,omitempty"`
}

type seasonTable struct {
	Seasons []apiSeason `json:"Seasons"`
}

type apiSeason struct {
	Season string `json:"season"`
	URL    string `json:"url"`
}

type raceTable struct {
	Races []apiRace `json:"Races"`
}

type apiRace struct {
	Season            string         `json:"season"`
	Round             string         `json:"round"`
	RaceName          string         `json:"raceName"`
	Date              string         `json:"date"`
	Time              string         `json:"time"`
	Circuit           apiCircuit     `json:"Circuit"`
	Results           []apiResult    `json:"Results,omitempty"`
	SprintResults     []apiResult    `json:"SprintResults,omitempty"`
	QualifyingResults []apiQualifying `json:"QualifyingResults,omitempty"`
}

type apiCircuit struct {
	CircuitName string `json:"circuitName"`
	Location    struct {
		Locality string `json:"locality"`
		Country  string `json:"country"`
	} `json:"Location"`
}

type apiDriver struct {
	DriverID   string `json:"driverId"`
	GivenName  string `json:"givenName"`
	FamilyName string `json:"familyName"`
}

type apiConstructor struct {
	ConstructorID string `json:"constructorId"`
	Name          string `json:"name"`
}

type apiResult struct {
	Position     string         `json:"position"`
	PositionText string         `json:"positionText"`
	Points       string         `json:"points"`
	Grid         string         `json:"grid"`
	Status       string         `json:"status"`
	Driver       apiDriver      `json:"Driver"`
	Constructor  apiConstructor `json:"Constructor"`
}

type apiQualifying struct {
	Position    string         `json:"position"`
	Driver      apiDriver      `json:"Driver"`
	Constructor apiConstructor `json:"Constructor"`
}

type standingsTable struct {
	StandingsLists []standingsList `json:"StandingsLists"`
}

type standingsList struct {
	Season               string                   `json:"season"`
	Round                string                   `json:"round"`
	DriverStandings      []apiDriverStanding      `json:"DriverStandings,omitempty"`
	ConstructorStandings []apiConstructorStanding `json:"ConstructorStandings,omitempty"`
}

type apiDriverStanding struct {
	Position     string           `json:"position"`
	Points       string           `json:"points"`
	Wins         string           `json:"wins"`
	Driver       apiDriver        `json:"Driver"`
	Constructors []apiConstructor `json:"Constructors"`
}

type apiConstructorStanding struct {
	Position    string         `json:"position"`
	Points      string         `json:"points"`
	Wins        string         `json:"wins"`
	Constructor apiConstructor `json:"Constructor"`
}

func (d apiDriver) fullName() string {
	return strings.TrimSpace(d.GivenName + " " + d.FamilyName)
}

func parseIntOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func parseFloatOrZero(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// classifiedPosition maps the provider's positionText to a nullable finishing
// position: only a numeric text counts as classified. "R" (retired), "D"
// (disqualified), "E", "W" and friends all become nil.
func classifiedPosition(r apiResult) *int {
	n, err := strconv.Atoi(strings.TrimSpace(r.PositionText))
	if err != nil {
		return nil
	}
	return &n
}

func (r apiRace) toRace() models.Race {
	return models.Race{
		Season: r.Season,
		Round:  r.Round,
		Name:   r.RaceName,
		Date:   parseRaceTime(r.Date, r.Time),
		Circuit: models.Circuit{
			Name:     r.Circuit.CircuitName,
			Locality: r.Circuit.Location.Locality,
			Country:  r.Circuit.Location.Country,
		},
	}
}

func parseRaceTime(date, clock string) time.Time {
	if clock != "" {
		if t, err := time.Parse("2006-01-02 15:04:05Z", date+" "+clock); err == nil {
			return t
		}
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (r apiResult) toRaceResult(season, round string) models.RaceResult {
	return models.RaceResult{
		Season:          season,
		Round:           round,
		DriverID:        r.Driver.DriverID,
		DriverName:      r.Driver.fullName(),
		ConstructorID:   r.Constructor.ConstructorID,
		ConstructorName: r.Constructor.Name,
		Position:        classifiedPosition(r),
		Points:          parseFloatOrZero(r.Points),
		Grid:            parseIntOrZero(r.Grid),
		Status:          r.Status,
	}
}

func (q apiQualifying) toQualifyingResult(season, round string) models.QualifyingResult {
	return models.QualifyingResult{
		Season:          season,
		Round:           round,
		DriverID:        q.Driver.DriverID,
		DriverName:      q.Driver.fullName(),
		ConstructorID:   q.Constructor.ConstructorID,
		ConstructorName: q.Constructor.Name,
		Position:        parseIntOrZero(q.Position),
	}
}

func (s apiDriverStanding) toDriverStanding() models.DriverStanding {
	st := models.DriverStanding{
		Position:   parseIntOrZero(s.Position),
		DriverID:   s.Driver.DriverID,
		DriverName: s.Driver.fullName(),
		Points:     parseFloatOrZero(s.Points),
		Wins:       parseIntOrZero(s.Wins),
	}
	// The standings snapshot lists constructors chronologically; the last
	// one is the driver's current association.
	if len(s.Constructors) > 0 {
		current := s.Constructors[len(s.Constructors)-1]
		st.ConstructorID = current.ConstructorID
		st.ConstructorName = current.Name
	}
	return st
}

func (s apiConstructorStanding) toConstructorStanding() models.ConstructorStanding {
	return models.ConstructorStanding{
		Position:      parseIntOrZero(s.Position),
		ConstructorID: s.Constructor.ConstructorID,
		Name:          s.Constructor.Name,
		Points:        parseFloatOrZero(s.Points),
		Wins:          parseIntOrZero(s.Wins),
	}
}
