package request_models

import "tripmap/internal/models/geo_models"

type PlaceSearchRequest struct {
	Query     string             `json:"query" binding:"required"`
	City      string             `json:"city,omitempty"`
	Proximity *geo_models.LatLng `json:"proximity,omitempty"`
}

type PlacePhotoRequest struct {
	Ref      string `form:"ref" binding:"required"`
	MaxWidth int    `form:"maxwidth"`
}
