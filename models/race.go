package models

import (
	"strconv"
	"time"
)

type Season struct {
	Season string `json:"season"`
	URL    string `json:"url"`
}

type Circuit struct {
	Name     string `json:"circuitName"`
	Locality string `json:"locality"`
	Country  string `json:"country"`
}

type Race struct {
	Season  string    `json:"season"`
	Round   string    `json:"round"`
	Name    string    `json:"raceName"`
	Date    time.Time `json:"date"`
	Circuit Circuit   `json:"circuit"`
}

// IsCompleted reports whether the race has already been run. This is derived
// from the schedule on every call, never stored. A race whose date failed to
// parse has a zero Date and is never considered completed.
func (r Race) IsCompleted(now time.Time) bool {
	return !r.Date.IsZero() && r.Date.Before(now)
}

// RaceResult is one classification row for a (race, driver). A nil Position
// is the only encoding for "not classified" (retired, disqualified,
// excluded, withdrew). It is never conflated with position 0. Sprint results
// share this shape.
type RaceResult struct {
	Season          string  `json:"season"`
	Round           string  `json:"round"`
	DriverID        string  `json:"driverId"`
	DriverName      string  `json:"driverName"`
	ConstructorID   string  `json:"constructorId"`
	ConstructorName string  `json:"constructorName"`
	Position        *int    `json:"position"`
	Points          float64 `json:"points"`
	Grid            int     `json:"grid"`
	Status          string  `json:"status"`
}

// QualifyingResult always carries a position; every entrant gets a grid slot.
type QualifyingResult struct {
	Season          string `json:"season"`
	Round           string `json:"round"`
	DriverID        string `json:"driverId"`
	DriverName      string `json:"driverName"`
	ConstructorID   string `json:"constructorId"`
	ConstructorName string `json:"constructorName"`
	Position        int    `json:"position"`
}

// RoundLess orders round identifiers numerically. Rounds are strings in the
// data model but compare as numbers ("10" sorts after "2").
func RoundLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA != nil || errB != nil {
		return a < b
	}
	return na < nb
}
