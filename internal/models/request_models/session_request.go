package request_models

import "tripmap/internal/models/response_models"

const (
	MapEventDaySelected       = "day_selected"
	MapEventMarkerClicked     = "marker_clicked"
	MapEventListItemClicked   = "list_item_clicked"
	MapEventMarkerDeselected  = "marker_deselected"
	MapEventSegmentClicked    = "segment_clicked"
	MapEventTravelModeChanged = "travel_mode_changed"
	MapEventSegmentClosed     = "segment_closed"
)

// MapEventRequest is a user interaction on the map or the itinerary list.
// Day is omitted (null) to select "all days".
type MapEventRequest struct {
	Type      string `json:"type" binding:"required"`
	Day       *int   `json:"day,omitempty"`
	Order     *int   `json:"order,omitempty"`
	SegmentID string `json:"segment_id,omitempty"`
	Mode      string `json:"mode,omitempty"`
}

type SetPlanRequest struct {
	Plan *response_models.Plan `json:"plan" binding:"required"`
}
