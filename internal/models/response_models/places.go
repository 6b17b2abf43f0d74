package response_models

type Place struct {
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	PlaceID     string   `json:"placeId"`
	Rating      *float64 `json:"rating,omitempty"`
	RatingCount *int     `json:"ratingCount,omitempty"`
	PhotoRef    string   `json:"photoRef,omitempty"`
}

type PlaceSearchResponse struct {
	Results []Place `json:"results"`
}

type Photo struct {
	ContentType string
	Data        []byte
}
