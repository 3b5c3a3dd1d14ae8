// Package ratings persists and aggregates user-entered race performance
// ratings. It depends only on the key-value store, never on the network
// layer; driver and constructor names inside a rating are snapshots taken
// at save time.
package ratings

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"gridrate-backend/models"
	"gridrate-backend/store"
)

// Two independent key namespaces: per-race ratings and season-wide quick
// ratings. Clearing or importing one season never touches another.
const (
	raceRatingsPrefix  = "raceRatings:"
	quickRatingsPrefix = "quickRatings:"
)

const (
	MinRating     = 0.5
	MaxRating     = 10.0
	DefaultRating = 5.0
)

type Repository struct {
	store store.Store
}

func NewRepository(s store.Store) *Repository {
	return &Repository{store: s}
}

func raceRatingsKey(season string) string {
	return raceRatingsPrefix + season
}

func quickRatingsKey(season string) string {
	return quickRatingsPrefix + season
}

// ValidRating accepts the rating domain: zero (meaning "unrated", replaced
// on save) or [0.5, 10.0] in 0.5 increments.
func ValidRating(r float64) bool {
	if r == 0 {
		return true
	}
	if r < MinRating || r > MaxRating {
		return false
	}
	doubled := r * 2
	return doubled == math.Trunc(doubled)
}

// normalize substitutes the default for unrated entries.
func normalize(entries []models.DriverRating) []models.DriverRating {
	out := make([]models.DriverRating, len(entries))
	for i, e := range entries {
		if e.Rating == 0 {
			e.Rating = DefaultRating
		}
		out[i] = e
	}
	return out
}

// SeasonRatings loads a season's race-by-race ratings. A missing entry is an
// empty SeasonRatings, not an error.
func (r *Repository) SeasonRatings(ctx context.Context, season string) (models.SeasonRatings, error) {
	sr := models.SeasonRatings{Season: season, Races: []models.RaceRatings{}}
	raw, ok, err := r.store.Get(ctx, raceRatingsKey(season))
	if err != nil {
		return sr, fmt.Errorf("load season ratings: %w", err)
	}
	if !ok {
		return sr, nil
	}
	if err := json.Unmarshal([]byte(raw), &sr); err != nil {
		return models.SeasonRatings{Season: season, Races: []models.RaceRatings{}}, fmt.Errorf("decode season ratings: %w", err)
	}
	sr.Season = season
	if sr.Races == nil {
		sr.Races = []models.RaceRatings{}
	}
	return sr, nil
}

// SaveRaceRatings upserts one race's rating set by (season, round). The
// round's prior ratings are replaced wholesale, never merged, and completed
// is always set. The read-modify-write happens synchronously against the
// store with no intervening fetch, so a concurrent save to the same season
// cannot interleave a stale snapshot.
func (r *Repository) SaveRaceRatings(ctx context.Context, season, round, raceName, date string, entries []models.DriverRating) error {
	sr, err := r.SeasonRatings(ctx, season)
	if err != nil {
		return err
	}

	race := models.RaceRatings{
		Round:     round,
		RaceName:  raceName,
		Date:      date,
		Completed: true,
		Ratings:   normalize(entries),
	}

	replaced := false
	for i := range sr.Races {
		if sr.Races[i].Round == round {
			sr.Races[i] = race
			replaced = true
			break
		}
	}
	if !replaced {
		// Creation order, not round order.
		sr.Races = append(sr.Races, race)
	}

	return r.putJSON(ctx, raceRatingsKey(season), sr)
}

// QuickRatings loads the season-wide quick assessment, empty when absent.
func (r *Repository) QuickRatings(ctx context.Context, season string) ([]models.DriverRating, error) {
	raw, ok, err := r.store.Get(ctx, quickRatingsKey(season))
	if err != nil {
		return nil, fmt.Errorf("load quick ratings: %w", err)
	}
	if !ok {
		return []models.DriverRating{}, nil
	}
	var qr models.QuickRatings
	if err := json.Unmarshal([]byte(raw), &qr); err != nil {
		return nil, fmt.Errorf("decode quick ratings: %w", err)
	}
	if qr.Ratings == nil {
		qr.Ratings = []models.DriverRating{}
	}
	return qr.Ratings, nil
}

// SaveQuickRatings replaces the entire quick-rating list for the season.
func (r *Repository) SaveQuickRatings(ctx context.Context, season string, entries []models.DriverRating) error {
	qr := models.QuickRatings{
		Season:  season,
		Ratings: normalize(entries),
	}
	return r.putJSON(ctx, quickRatingsKey(season), qr)
}

// ClearSeason deletes both namespaces for one season only.
func (r *Repository) ClearSeason(ctx context.Context, season string) error {
	if err := r.store.Remove(ctx, raceRatingsKey(season)); err != nil {
		return fmt.Errorf("clear race ratings: %w", err)
	}
	if err := r.store.Remove(ctx, quickRatingsKey(season)); err != nil {
		return fmt.Errorf("clear quick ratings: %w", err)
	}
	return nil
}

func (r *Repository) putJSON(ctx context.Context, key string, v any) error {
	blob, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	if err := r.store.Set(ctx, key, string(blob)); err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}
	return nil
}
