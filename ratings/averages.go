package ratings

import (
	"context"
	"math"
	"sort"

	"gridrate-backend/models"
	"gridrate-backend/stats"
)

// stintKey identifies one driver+constructor pairing. Rating lists are only
// ever appended per stint, never merged across constructors.
type stintKey struct {
	driverID      string
	constructorID string
}

// CalculateAverages computes per-stint average ratings for a season, ordered
// by descending average. Completed race ratings are the primary source; with
// none present, each quick rating stands alone as a single-race row (never
// grouped, even for a repeated driver+constructor pairing); with neither, the
// result is empty.
func (r *Repository) CalculateAverages(ctx context.Context, season string) ([]models.AverageRating, error) {
	sr, err := r.SeasonRatings(ctx, season)
	if err != nil {
		return nil, err
	}

	byStint := map[stintKey]*models.AverageRating{}
	order := []stintKey{}

	haveCompleted := false
	for _, race := range sr.Races {
		if !race.Completed {
			continue
		}
		haveCompleted = true
		for _, entry := range race.Ratings {
			key := stintKey{entry.DriverID, entry.ConstructorID}
			avg, ok := byStint[key]
			if !ok {
				avg = &models.AverageRating{
					DriverID:        entry.DriverID,
					DriverName:      entry.DriverName,
					ConstructorID:   entry.ConstructorID,
					ConstructorName: entry.ConstructorName,
				}
				byStint[key] = avg
				order = append(order, key)
			}
			avg.Ratings = append(avg.Ratings, entry.Rating)
			avg.TotalRaces++
		}
	}

	var out []models.AverageRating
	if haveCompleted {
		out = make([]models.AverageRating, 0, len(order))
		for _, key := range order {
			avg := byStint[key]
			avg.Average = roundedMean(avg.Ratings)
			out = append(out, *avg)
		}
	} else {
		quick, err := r.QuickRatings(ctx, season)
		if err != nil {
			return nil, err
		}
		out = make([]models.AverageRating, 0, len(quick))
		for _, entry := range quick {
			out = append(out, models.AverageRating{
				DriverID:        entry.DriverID,
				DriverName:      entry.DriverName,
				ConstructorID:   entry.ConstructorID,
				ConstructorName: entry.ConstructorName,
				Ratings:         []float64{entry.Rating},
				TotalRaces:      1,
				Average:         roundedMean([]float64{entry.Rating}),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Average > out[j].Average })
	return out, nil
}

// roundedMean is the arithmetic mean rounded to two decimal places. The
// stored ratings list is the source of truth; the average is always
// recomputed from it.
func roundedMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return math.Round(sum/float64(len(values))*100) / 100
}

// MatrixRace is one column of the race-by-race table.
type MatrixRace struct {
	Round       string `json:"round"`
	Name        string `json:"name"`
	CountryCode string `json:"countryCode"`
}

// MatrixDriver is one row: a sparse round->rating map plus the overall
// average across the rounds this stint was rated.
type MatrixDriver struct {
	DriverID        string             `json:"driverId"`
	DriverName      string             `json:"driverName"`
	ConstructorID   string             `json:"constructorId"`
	ConstructorName string             `json:"constructorName"`
	Ratings         map[string]float64 `json:"ratings"`
	Average         float64            `json:"average"`
}

type Matrix struct {
	Races   []MatrixRace   `json:"races"`
	Drivers []MatrixDriver `json:"drivers"`
}

// RaceByRaceMatrix builds the round-ordered ratings table. Rows are keyed by
// driver+constructor stint, matching CalculateAverages, so a mid-season
// transfer shows as two rows here as well.
func (r *Repository) RaceByRaceMatrix(ctx context.Context, season string) (Matrix, error) {
	sr, err := r.SeasonRatings(ctx, season)
	if err != nil {
		return Matrix{}, err
	}

	races := make([]MatrixRace, 0, len(sr.Races))
	byStint := map[stintKey]*MatrixDriver{}
	order := []stintKey{}

	sorted := make([]models.RaceRatings, len(sr.Races))
	copy(sorted, sr.Races)
	sort.Slice(sorted, func(i, j int) bool { return models.RoundLess(sorted[i].Round, sorted[j].Round) })

	for _, race := range sorted {
		if !race.Completed {
			continue
		}
		races = append(races, MatrixRace{
			Round:       race.Round,
			Name:        stats.ShortenRaceName(race.RaceName),
			CountryCode: stats.CountryCode(race.RaceName),
		})
		for _, entry := range race.Ratings {
			key := stintKey{entry.DriverID, entry.ConstructorID}
			row, ok := byStint[key]
			if !ok {
				row = &MatrixDriver{
					DriverID:        entry.DriverID,
					DriverName:      entry.DriverName,
					ConstructorID:   entry.ConstructorID,
					ConstructorName: entry.ConstructorName,
					Ratings:         map[string]float64{},
				}
				byStint[key] = row
				order = append(order, key)
			}
			row.Ratings[race.Round] = entry.Rating
		}
	}

	drivers := make([]MatrixDriver, 0, len(order))
	for _, key := range order {
		row := byStint[key]
		values := make([]float64, 0, len(row.Ratings))
		for _, v := range row.Ratings {
			values = append(values, v)
		}
		row.Average = roundedMean(values)
		drivers = append(drivers, *row)
	}
	sort.SliceStable(drivers, func(i, j int) bool { return drivers[i].Average > drivers[j].Average })

	return Matrix{Races: races, Drivers: drivers}, nil
}
