package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"tripmap/internal/models/request_models"
	"tripmap/internal/models/response_models"
	"tripmap/internal/services"
	"tripmap/pkg/utils"
)

type DirectionsController struct {
	directionsService services.DirectionsServiceInterface
}

func NewDirectionsController(directionsService services.DirectionsServiceInterface) *DirectionsController {
	return &DirectionsController{
		directionsService: directionsService,
	}
}

func (d *DirectionsController) GetDirections(c *gin.Context) {
	var req request_models.DirectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "origin and destination are required")
		return
	}

	route, err := d.directionsService.GetDirections(c.Request.Context(), req)
	if err != nil {
		if upstream, ok := utils.AsUpstreamError(err); ok {
			utils.RespondErrorWithData(c, http.StatusBadGateway, upstream.UserMessage(), response_models.DirectionsErrorResponse{
				Error:        "Directions status not OK",
				Status:       upstream.Status,
				ErrorMessage: upstream.Message,
			})
			return
		}
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, route, "")
}
