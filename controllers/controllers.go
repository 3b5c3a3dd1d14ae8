package controllers

import (
	"gridrate-backend/ergast"
	"gridrate-backend/ratings"
	"gridrate-backend/stats"
)

// Package-level handles, wired once from main before routes are registered.
var (
	Ergast  *ergast.Client
	Stats   *stats.Service
	Ratings *ratings.Repository
)

func Setup(client *ergast.Client, service *stats.Service, repo *ratings.Repository) {
	Ergast = client
	Stats = service
	Ratings = repo
}
