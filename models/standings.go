package models

// DriverStanding is a raw row from the driver standings endpoint. Position,
// points and wins come from the provider and are authoritative.
type DriverStanding struct {
	Position        int     `json:"position"`
	DriverID        string  `json:"driverId"`
	DriverName      string  `json:"driverName"`
	ConstructorID   string  `json:"constructorId"`
	ConstructorName string  `json:"constructorName"`
	Points          float64 `json:"points"`
	Wins            int     `json:"wins"`
}

// DriverSeasonStats combines the authoritative standings fields with pole
// and podium counts derived by scanning the season's qualifying and race
// results, since the standings endpoint does not expose those.
type DriverSeasonStats struct {
	Position        int     `json:"position"`
	DriverID        string  `json:"driverId"`
	DriverName      string  `json:"driverName"`
	ConstructorID   string  `json:"constructorId"`
	ConstructorName string  `json:"constructorName"`
	Points          float64 `json:"points"`
	Wins            int     `json:"wins"`
	Poles           int     `json:"poles"`
	Podiums         int     `json:"podiums"`
}

type ConstructorStanding struct {
	Position      int     `json:"position"`
	ConstructorID string  `json:"constructorId"`
	Name          string  `json:"name"`
	Points        float64 `json:"points"`
	Wins          int     `json:"wins"`
	Poles         int     `json:"poles"`
	Podiums       int     `json:"podiums"`
}
