package models

// DriverRating is a single user-entered rating. Driver and constructor names
// are snapshots captured at rating time and are not re-resolved later.
// Ratings live in [0.5, 10.0] in 0.5 increments; a zero rating means
// "unrated" and is substituted with the default on save.
type DriverRating struct {
	DriverID        string  `json:"driverId"`
	DriverName      string  `json:"driverName"`
	ConstructorID   string  `json:"constructorId"`
	ConstructorName string  `json:"constructorName"`
	Rating          float64 `json:"rating"`
}

// RaceRatings holds one race's worth of ratings plus a metadata snapshot of
// the race itself. Completed is set true on the first save for the round.
type RaceRatings struct {
	Round     string         `json:"round"`
	RaceName  string         `json:"raceName"`
	Date      string         `json:"date"`
	Completed bool           `json:"completed"`
	Ratings   []DriverRating `json:"ratings"`
}

// SeasonRatings lists a season's race ratings in creation order, which is
// not necessarily round order.
type SeasonRatings struct {
	Season string        `json:"season"`
	Races  []RaceRatings `json:"races"`
}

// QuickRatings is a single season-wide assessment used as a fallback when no
// per-race ratings exist.
type QuickRatings struct {
	Season  string         `json:"season"`
	Ratings []DriverRating `json:"ratings"`
}

// AverageRating is keyed by driver+constructor, not driver alone: a driver
// who changes teams mid-season averages each stint separately. Average is
// always recomputed from Ratings, never trusted from storage.
type AverageRating struct {
	DriverID        string    `json:"driverId"`
	DriverName      string    `json:"driverName"`
	ConstructorID   string    `json:"constructorId"`
	ConstructorName string    `json:"constructorName"`
	Ratings         []float64 `json:"ratings"`
	TotalRaces      int       `json:"totalRaces"`
	Average         float64   `json:"averageRating"`
}
