// Package service implements location resolution for the back office.
package service

import (
	"context"

	"workshop_backoffice/internal/locations/repository"
)

// Service resolves venue locations and their drink pricing.
type Service struct {
	repo repository.Repository
}

// New creates the locations service.
func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// Resolve returns active locations with nested drink items, filtered to an
// exact city match when city is non-empty.
func (s *Service) Resolve(ctx context.Context, city string) ([]repository.Location, error) {
	return s.repo.ListActive(ctx, city)
}

// Cities returns the distinct cities that have active locations.
func (s *Service) Cities(ctx context.Context) ([]string, error) {
	return s.repo.DistinctCities(ctx)
}

// GroupByCity groups resolved locations into city buckets, preserving the
// repository's city ordering.
func GroupByCity(locations []repository.Location) []CityGroup {
	var groups []CityGroup
	index := make(map[string]int)

	for _, location := range locations {
		pos, seen := index[location.City]
		if !seen {
			groups = append(groups, CityGroup{City: location.City})
			pos = len(groups) - 1
			index[location.City] = pos
		}
		groups[pos].Locations = append(groups[pos].Locations, location)
	}
	return groups
}

// CityGroup is a set of locations sharing a city.
type CityGroup struct {
	City      string
	Locations []repository.Location
}
