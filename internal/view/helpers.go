package view

import "github.com/fuelradar/backend-go/internal/models"

func containsID(stations []models.Station, id string) bool {
	for _, s := range stations {
		if s.ID == id {
			return true
		}
	}
	return false
}
