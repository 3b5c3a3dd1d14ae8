// Package headtohead compares two drivers who shared a constructor within a
// season.
package headtohead

import (
	"gridrate-backend/models"
)

type Result struct {
	DriverA       string `json:"driverA"`
	DriverB       string `json:"driverB"`
	ConstructorID string `json:"constructorId"`
	RaceWinsA     int    `json:"raceWinsA"`
	RaceWinsB     int    `json:"raceWinsB"`
	QualiWinsA    int    `json:"qualiWinsA"`
	QualiWinsB    int    `json:"qualiWinsB"`
	TotalRaces    int    `json:"totalRaces"`
	TotalQualis   int    `json:"totalQualis"`
}

// Compute tallies rounds where both drivers raced for constructorID.
//
// A race round counts only when both drivers have a classified (non-nil)
// finishing position: a retirement or disqualification by either driver
// drops the whole round, keeping the tally a pure when-both-finished pace
// metric. Qualifying rounds have no such exclusion since every entrant gets
// a grid position. Lower position wins; a tie counts for neither. The totals
// report counted rounds after exclusion, not the size of the shared round
// set.
func Compute(driverA, driverB, constructorID string, results []models.RaceResult, qualifying []models.QualifyingResult) Result {
	out := Result{DriverA: driverA, DriverB: driverB, ConstructorID: constructorID}

	raceA := map[string]*int{}
	raceB := map[string]*int{}
	rounds := map[string]bool{}
	for _, res := range results {
		if res.ConstructorID != constructorID {
			continue
		}
		switch res.DriverID {
		case driverA:
			raceA[res.Round] = res.Position
			rounds[res.Round] = true
		case driverB:
			raceB[res.Round] = res.Position
			rounds[res.Round] = true
		}
	}

	for round := range rounds {
		posA, okA := raceA[round]
		posB, okB := raceB[round]
		if !okA || !okB || posA == nil || posB == nil {
			continue
		}
		out.TotalRaces++
		if *posA < *posB {
			out.RaceWinsA++
		} else if *posB < *posA {
			out.RaceWinsB++
		}
	}

	qualiA := map[string]int{}
	qualiB := map[string]int{}
	qualiRounds := map[string]bool{}
	for _, q := range qualifying {
		if q.ConstructorID != constructorID {
			continue
		}
		switch q.DriverID {
		case driverA:
			qualiA[q.Round] = q.Position
			qualiRounds[q.Round] = true
		case driverB:
			qualiB[q.Round] = q.Position
			qualiRounds[q.Round] = true
		}
	}

	for round := range qualiRounds {
		posA, okA := qualiA[round]
		posB, okB := qualiB[round]
		if !okA || !okB {
			continue
		}
		out.TotalQualis++
		if posA < posB {
			out.QualiWinsA++
		} else if posB < posA {
			out.QualiWinsB++
		}
	}

	return out
}
