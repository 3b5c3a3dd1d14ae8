package ratings

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gridrate-backend/models"
)

const exportVersion = 1

// ExportDocument is the ratings interchange format. Only Season is required
// on import; version and timestamp are advisory.
type ExportDocument struct {
	Version      int                   `json:"version"`
	ExportedAt   time.Time             `json:"exportedAt"`
	Season       string                `json:"season"`
	RaceRatings  *models.SeasonRatings `json:"raceRatings,omitempty"`
	QuickRatings []models.DriverRating `json:"quickRatings,omitempty"`
}

// ImportResult is the structured outcome surfaced to the user.
type ImportResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	RacesImported int    `json:"racesImported"`
}

// Export serializes a season's full ratings bundle.
func (r *Repository) Export(ctx context.Context, season string) (ExportDocument, error) {
	doc := ExportDocument{
		Version:    exportVersion,
		ExportedAt: time.Now().UTC(),
		Season:     season,
	}

	sr, err := r.SeasonRatings(ctx, season)
	if err != nil {
		return ExportDocument{}, err
	}
	if len(sr.Races) > 0 {
		doc.RaceRatings = &sr
	}

	quick, err := r.QuickRatings(ctx, season)
	if err != nil {
		return ExportDocument{}, err
	}
	if len(quick) > 0 {
		doc.QuickRatings = quick
	}

	return doc, nil
}

// Import validates and applies an exported document. Validation happens
// before any write, so a rejected document leaves every season's stored
// ratings untouched. An accepted document fully replaces the target
// season's race and quick ratings; namespaces absent from the document are
// cleared, not preserved.
func (r *Repository) Import(ctx context.Context, raw []byte) (ImportResult, error) {
	var doc ExportDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ImportResult{Message: "Import failed: the file is not valid JSON."}, nil
	}
	if strings.TrimSpace(doc.Season) == "" {
		return ImportResult{Message: "Import failed: the document has no season field."}, nil
	}
	for _, entry := range collectEntries(doc) {
		if !ValidRating(entry.Rating) {
			return ImportResult{
				Message: fmt.Sprintf("Import failed: rating %.2f for %s is outside the allowed range.", entry.Rating, entry.DriverID),
			}, nil
		}
	}

	season := doc.Season
	racesImported := 0

	if doc.RaceRatings != nil {
		sr := *doc.RaceRatings
		sr.Season = season
		if sr.Races == nil {
			sr.Races = []models.RaceRatings{}
		}
		if err := r.putJSON(ctx, raceRatingsKey(season), sr); err != nil {
			return ImportResult{}, err
		}
		racesImported = len(sr.Races)
	} else if err := r.store.Remove(ctx, raceRatingsKey(season)); err != nil {
		return ImportResult{}, fmt.Errorf("replace race ratings: %w", err)
	}

	if doc.QuickRatings != nil {
		qr := models.QuickRatings{Season: season, Ratings: doc.QuickRatings}
		if err := r.putJSON(ctx, quickRatingsKey(season), qr); err != nil {
			return ImportResult{}, err
		}
	} else if err := r.store.Remove(ctx, quickRatingsKey(season)); err != nil {
		return ImportResult{}, fmt.Errorf("replace quick ratings: %w", err)
	}

	return ImportResult{
		Success:       true,
		Message:       fmt.Sprintf("Imported %d rated races for season %s.", racesImported, season),
		RacesImported: racesImported,
	}, nil
}

func collectEntries(doc ExportDocument) []models.DriverRating {
	var out []models.DriverRating
	if doc.RaceRatings != nil {
		for _, race := range doc.RaceRatings.Races {
			out = append(out, race.Ratings...)
		}
	}
	out = append(out, doc.QuickRatings...)
	return out
}
