package ratings

import (
	"context"
	"encoding/json"
	"testing"

	"gridrate-backend/models"
	"gridrate-backend/store"
)

func newTestRepo() *Repository {
	return NewRepository(store.NewMemoryStore())
}

func rating(driver, constructor string, value float64) models.DriverRating {
	return models.DriverRating{
		DriverID:        driver,
		DriverName:      driver,
		ConstructorID:   constructor,
		ConstructorName: constructor,
		Rating:          value,
	}
}

func TestValidRating(t *testing.T) {
	cases := []struct {
		value float64
		want  bool
	}{
		{0, true}, // unrated, replaced on save
		{0.5, true},
		{5.5, true},
		{10, true},
		{0.25, false},
		{7.3, false},
		{10.5, false},
		{-1, false},
	}
	for _, c := range cases {
		if got := ValidRating(c.value); got != c.want {
			t.Fatalf("ValidRating(%v) = %v, want %v", c.value, got, c.want)
		}
	}
}

func TestSaveRaceRatingsReplacesRoundWholesale(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()

	first := []models.DriverRating{rating("max", "red_bull", 9), rating("lewis", "mercedes", 7)}
	if err := repo.SaveRaceRatings(ctx, "2023", "1", "Bahrain Grand Prix", "2023-03-05", first); err != nil {
		t.Fatal(err)
	}
	// Re-save with lewis absent: his rating for the round must disappear.
	second := []models.DriverRating{rating("max", "red_bull", 8)}
	if err := repo.SaveRaceRatings(ctx, "2023", "1", "Bahrain Grand Prix", "2023-03-05", second); err != nil {
		t.Fatal(err)
	}

	sr, err := repo.SeasonRatings(ctx, "2023")
	if err != nil {
		t.Fatal(err)
	}
	if len(sr.Races) != 1 {
		t.Fatalf("re-saving a round must not add a race, got %d", len(sr.Races))
	}
	race := sr.Races[0]
	if !race.Completed {
		t.Fatal("saved race must be marked completed")
	}
	if len(race.Ratings) != 1 || race.Ratings[0].Rating != 8 {
		t.Fatalf("prior round ratings must be replaced, not merged: %+v", race.Ratings)
	}
}

func TestSaveRaceRatingsNormalizesUnrated(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()

	entries := []models.DriverRating{rating("lance", "aston_martin", 0)}
	if err := repo.SaveRaceRatings(ctx, "2023", "2", "Saudi Arabian Grand Prix", "2023-03-19", entries); err != nil {
		t.Fatal(err)
	}

	sr, err := repo.SeasonRatings(ctx, "2023")
	if err != nil {
		t.Fatal(err)
	}
	if got := sr.Races[0].Ratings[0].Rating; got != DefaultRating {
		t.Fatalf("unrated entry must become the default %v, got %v", DefaultRating, got)
	}
}

func TestSeasonRatingsMissingIsEmpty(t *testing.T) {
	repo := newTestRepo()
	sr, err := repo.SeasonRatings(context.Background(), "1998")
	if err != nil {
		t.Fatal(err)
	}
	if sr.Season != "1998" || len(sr.Races) != 0 {
		t.Fatalf("missing season must be empty, not an error: %+v", sr)
	}
}

func TestCalculateAveragesSplitsByStint(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()

	// Driver changes teams mid-season: two stints, averaged separately.
	r1 := []models.DriverRating{rating("nyck", "alphatauri", 8)}
	r2 := []models.DriverRating{rating("nyck", "alphatauri", 10)}
	r3 := []models.DriverRating{rating("nyck", "alpine", 6)}
	if err := repo.SaveRaceRatings(ctx, "2023", "1", "Bahrain Grand Prix", "2023-03-05", r1); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveRaceRatings(ctx, "2023", "2", "Saudi Arabian Grand Prix", "2023-03-19", r2); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveRaceRatings(ctx, "2023", "3", "Australian Grand Prix", "2023-04-02", r3); err != nil {
		t.Fatal(err)
	}

	avgs, err := repo.CalculateAverages(ctx, "2023")
	if err != nil {
		t.Fatal(err)
	}
	if len(avgs) != 2 {
		t.Fatalf("expected one row per stint, got %d", len(avgs))
	}
	// Descending by average: the alphatauri stint first.
	if avgs[0].ConstructorID != "alphatauri" || avgs[0].Average != 9 || avgs[0].TotalRaces != 2 {
		t.Fatalf("alphatauri stint wrong: %+v", avgs[0])
	}
	if avgs[1].ConstructorID != "alpine" || avgs[1].Average != 6 || avgs[1].TotalRaces != 1 {
		t.Fatalf("alpine stint wrong: %+v", avgs[1])
	}
}

func TestCalculateAveragesRounding(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()

	if err := repo.SaveRaceRatings(ctx, "2023", "1", "Bahrain Grand Prix", "2023-03-05",
		[]models.DriverRating{rating("fernando", "aston_martin", 8.5)}); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveRaceRatings(ctx, "2023", "2", "Saudi Arabian Grand Prix", "2023-03-19",
		[]models.DriverRating{rating("fernando", "aston_martin", 8)}); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveRaceRatings(ctx, "2023", "3", "Australian Grand Prix", "2023-04-02",
		[]models.DriverRating{rating("fernando", "aston_martin", 9)}); err != nil {
		t.Fatal(err)
	}

	avgs, err := repo.CalculateAverages(ctx, "2023")
	if err != nil {
		t.Fatal(err)
	}
	// (8.5+8+9)/3 = 8.5
	if avgs[0].Average != 8.5 {
		t.Fatalf("expected 8.5, got %v", avgs[0].Average)
	}

	// A repeating decimal rounds to two places.
	if err := repo.SaveRaceRatings(ctx, "2024", "1", "Bahrain Grand Prix", "2024-03-02",
		[]models.DriverRating{rating("oscar", "mclaren", 7)}); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveRaceRatings(ctx, "2024", "2", "Saudi Arabian Grand Prix", "2024-03-09",
		[]models.DriverRating{rating("oscar", "mclaren", 7)}); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveRaceRatings(ctx, "2024", "3", "Australian Grand Prix", "2024-03-24",
		[]models.DriverRating{rating("oscar", "mclaren", 8)}); err != nil {
		t.Fatal(err)
	}
	avgs, err = repo.CalculateAverages(ctx, "2024")
	if err != nil {
		t.Fatal(err)
	}
	if avgs[0].Average != 7.33 {
		t.Fatalf("expected 7.33, got %v", avgs[0].Average)
	}
}

func TestCalculateAveragesQuickFallback(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()

	quick := []models.DriverRating{rating("lando", "mclaren", 8.5), rating("george", "mercedes", 7)}
	if err := repo.SaveQuickRatings(ctx, "2023", quick); err != nil {
		t.Fatal(err)
	}

	avgs, err := repo.CalculateAverages(ctx, "2023")
	if err != nil {
		t.Fatal(err)
	}
	if len(avgs) != 2 {
		t.Fatalf("expected 2 rows from quick ratings, got %d", len(avgs))
	}
	if avgs[0].DriverID != "lando" || avgs[0].Average != 8.5 || avgs[0].TotalRaces != 1 {
		t.Fatalf("quick rating must count as one race: %+v", avgs[0])
	}
}

func TestCalculateAveragesQuickDuplicatesStaySeparate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()

	// Two quick entries for the same pairing: each is its own single-race
	// row, never merged into one averaged row.
	quick := []models.DriverRating{
		rating("max", "red_bull", 9),
		rating("max", "red_bull", 7),
	}
	if err := repo.SaveQuickRatings(ctx, "2023", quick); err != nil {
		t.Fatal(err)
	}

	avgs, err := repo.CalculateAverages(ctx, "2023")
	if err != nil {
		t.Fatal(err)
	}
	if len(avgs) != 2 {
		t.Fatalf("expected one row per quick entry, got %d", len(avgs))
	}
	if avgs[0].Average != 9 || avgs[0].TotalRaces != 1 {
		t.Fatalf("first row wrong: %+v", avgs[0])
	}
	if avgs[1].Average != 7 || avgs[1].TotalRaces != 1 {
		t.Fatalf("second row wrong: %+v", avgs[1])
	}
}

func TestCalculateAveragesPreferRaceOverQuick(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()

	if err := repo.SaveQuickRatings(ctx, "2023", []models.DriverRating{rating("max", "red_bull", 3)}); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveRaceRatings(ctx, "2023", "1", "Bahrain Grand Prix", "2023-03-05",
		[]models.DriverRating{rating("max", "red_bull", 10)}); err != nil {
		t.Fatal(err)
	}

	avgs, err := repo.CalculateAverages(ctx, "2023")
	if err != nil {
		t.Fatal(err)
	}
	if len(avgs) != 1 || avgs[0].Average != 10 {
		t.Fatalf("completed race ratings must win over quick ratings: %+v", avgs)
	}
}

func TestClearSeasonIsolation(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()

	if err := repo.SaveRaceRatings(ctx, "2023", "1", "Bahrain Grand Prix", "2023-03-05",
		[]models.DriverRating{rating("max", "red_bull", 9)}); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveQuickRatings(ctx, "2023", []models.DriverRating{rating("max", "red_bull", 9)}); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveRaceRatings(ctx, "2024", "1", "Bahrain Grand Prix", "2024-03-02",
		[]models.DriverRating{rating("max", "red_bull", 8)}); err != nil {
		t.Fatal(err)
	}

	if err := repo.ClearSeason(ctx, "2023"); err != nil {
		t.Fatal(err)
	}

	sr, err := repo.SeasonRatings(ctx, "2023")
	if err != nil {
		t.Fatal(err)
	}
	if len(sr.Races) != 0 {
		t.Fatalf("2023 race ratings survived the clear: %+v", sr.Races)
	}
	quick, err := repo.QuickRatings(ctx, "2023")
	if err != nil {
		t.Fatal(err)
	}
	if len(quick) != 0 {
		t.Fatalf("2023 quick ratings survived the clear: %+v", quick)
	}

	other, err := repo.SeasonRatings(ctx, "2024")
	if err != nil {
		t.Fatal(err)
	}
	if len(other.Races) != 1 {
		t.Fatalf("clearing 2023 must not touch 2024: %+v", other)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newTestRepo()

	if err := src.SaveRaceRatings(ctx, "2023", "1", "Bahrain Grand Prix", "2023-03-05",
		[]models.DriverRating{rating("max", "red_bull", 9.5), rating("lewis", "mercedes", 7)}); err != nil {
		t.Fatal(err)
	}
	if err := src.SaveQuickRatings(ctx, "2023", []models.DriverRating{rating("oscar", "mclaren", 8)}); err != nil {
		t.Fatal(err)
	}

	doc, err := src.Export(ctx, "2023")
	if err != nil {
		t.Fatal(err)
	}
	blob, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}

	dst := newTestRepo()
	result, err := dst.Import(ctx, blob)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success || result.RacesImported != 1 {
		t.Fatalf("import rejected a valid export: %+v", result)
	}

	sr, err := dst.SeasonRatings(ctx, "2023")
	if err != nil {
		t.Fatal(err)
	}
	if len(sr.Races) != 1 || len(sr.Races[0].Ratings) != 2 {
		t.Fatalf("race ratings did not round-trip: %+v", sr)
	}
	quick, err := dst.QuickRatings(ctx, "2023")
	if err != nil {
		t.Fatal(err)
	}
	if len(quick) != 1 || quick[0].DriverID != "oscar" {
		t.Fatalf("quick ratings did not round-trip: %+v", quick)
	}
}

func TestImportReplacesAbsentNamespaces(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()

	if err := repo.SaveQuickRatings(ctx, "2023", []models.DriverRating{rating("max", "red_bull", 9)}); err != nil {
		t.Fatal(err)
	}

	// Document carries race ratings but no quick section: the stored quick
	// ratings must be cleared, not preserved.
	doc := ExportDocument{
		Version: 1,
		Season:  "2023",
		RaceRatings: &models.SeasonRatings{
			Season: "2023",
			Races: []models.RaceRatings{{
				Round:     "1",
				RaceName:  "Bahrain Grand Prix",
				Completed: true,
				Ratings:   []models.DriverRating{rating("max", "red_bull", 9)},
			}},
		},
	}
	blob, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}

	result, err := repo.Import(ctx, blob)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success {
		t.Fatalf("import failed: %+v", result)
	}

	quick, err := repo.QuickRatings(ctx, "2023")
	if err != nil {
		t.Fatal(err)
	}
	if len(quick) != 0 {
		t.Fatalf("absent namespace must be cleared on import: %+v", quick)
	}
}

func TestImportRejectsWithoutMutation(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()

	if err := repo.SaveRaceRatings(ctx, "2023", "1", "Bahrain Grand Prix", "2023-03-05",
		[]models.DriverRating{rating("max", "red_bull", 9)}); err != nil {
		t.Fatal(err)
	}

	cases := []string{
		`not json at all`,
		`{"notSeason": true}`,
		`{"season":"2023","quickRatings":[{"driverId":"max","constructorId":"red_bull","rating":11}]}`,
	}
	for _, raw := range cases {
		result, err := repo.Import(ctx, []byte(raw))
		if err != nil {
			t.Fatalf("validation failures are results, not errors: %v", err)
		}
		if result.Success {
			t.Fatalf("import accepted invalid document %q", raw)
		}
		if result.Message == "" {
			t.Fatalf("rejection must carry a message: %+v", result)
		}
	}

	sr, err := repo.SeasonRatings(ctx, "2023")
	if err != nil {
		t.Fatal(err)
	}
	if len(sr.Races) != 1 {
		t.Fatalf("rejected imports must not mutate stored ratings: %+v", sr)
	}
}

func TestExportOmitsEmptySections(t *testing.T) {
	repo := newTestRepo()
	doc, err := repo.Export(context.Background(), "2023")
	if err != nil {
		t.Fatal(err)
	}
	if doc.RaceRatings != nil || doc.QuickRatings != nil {
		t.Fatalf("empty season must export empty sections: %+v", doc)
	}
	if doc.Season != "2023" || doc.Version != 1 {
		t.Fatalf("export header wrong: %+v", doc)
	}
}

func TestRaceByRaceMatrix(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()

	// Saved out of round order on purpose.
	if err := repo.SaveRaceRatings(ctx, "2023", "10", "British Grand Prix", "2023-07-09",
		[]models.DriverRating{rating("max", "red_bull", 9), rating("lando", "mclaren", 10)}); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveRaceRatings(ctx, "2023", "2", "Saudi Arabian Grand Prix", "2023-03-19",
		[]models.DriverRating{rating("max", "red_bull", 8)}); err != nil {
		t.Fatal(err)
	}

	matrix, err := repo.RaceByRaceMatrix(ctx, "2023")
	if err != nil {
		t.Fatal(err)
	}

	if len(matrix.Races) != 2 {
		t.Fatalf("expected 2 race columns, got %d", len(matrix.Races))
	}
	if matrix.Races[0].Round != "2" || matrix.Races[1].Round != "10" {
		t.Fatalf("columns must order numerically by round: %+v", matrix.Races)
	}
	if matrix.Races[0].Name != "Saudi Arabian" {
		t.Fatalf("expected shortened race name, got %q", matrix.Races[0].Name)
	}

	if len(matrix.Drivers) != 2 {
		t.Fatalf("expected 2 driver rows, got %d", len(matrix.Drivers))
	}
	// lando's single 10 outranks max's 8.5 average.
	if matrix.Drivers[0].DriverID != "lando" {
		t.Fatalf("rows must order by descending average: %+v", matrix.Drivers)
	}
	max := matrix.Drivers[1]
	if max.Ratings["2"] != 8 || max.Ratings["10"] != 9 {
		t.Fatalf("sparse round map wrong: %+v", max.Ratings)
	}
	if max.Average != 8.5 {
		t.Fatalf("expected row average 8.5, got %v", max.Average)
	}
}
