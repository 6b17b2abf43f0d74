package request_models

import "tripmap/internal/models/geo_models"

type DirectionsRequest struct {
	Origin      *geo_models.LatLng `json:"origin" binding:"required"`
	Destination *geo_models.LatLng `json:"destination" binding:"required"`
	// DRIVING | TRANSIT | WALKING | BICYCLING, defaults to TRANSIT
	Mode string `json:"mode"`
}
