package response_models

import "tripmap/internal/models/geo_models"

type DirectionsStep struct {
	InstructionHTML string `json:"instructionHtml"`
	DistanceText    string `json:"distanceText"`
	DurationText    string `json:"durationText"`
	TravelMode      string `json:"travelMode"`
}

type RouteSummary struct {
	DistanceText string           `json:"distanceText"`
	DurationText string           `json:"durationText"`
	StartAddress string           `json:"startAddress,omitempty"`
	EndAddress   string           `json:"endAddress,omitempty"`
	Steps        []DirectionsStep `json:"steps"`
}

type DirectionsResponse struct {
	Summary     RouteSummary       `json:"summary"`
	EncodedPath string             `json:"encodedPath,omitempty"`
	Bounds      *geo_models.Bounds `json:"bounds,omitempty"`
}

type DirectionsErrorResponse struct {
	Error        string `json:"error"`
	Status       string `json:"status,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}
