package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"tripmap/internal/models/request_models"
	"tripmap/internal/models/response_models"
	"tripmap/internal/services"
	"tripmap/pkg/utils"
)

type PlacesController struct {
	placesService services.PlacesServiceInterface
}

func NewPlacesController(placesService services.PlacesServiceInterface) *PlacesController {
	return &PlacesController{
		placesService: placesService,
	}
}

func (p *PlacesController) Search(c *gin.Context) {
	var req request_models.PlaceSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "query is required")
		return
	}

	places, err := p.placesService.SearchPlaces(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.PlaceSearchResponse{Results: places}, "")
}

// Photo streams the image bytes as-is, outside the JSON envelope.
func (p *PlacesController) Photo(c *gin.Context) {
	var req request_models.PlacePhotoRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.String(http.StatusBadRequest, "Missing photo reference")
		return
	}

	photo, err := p.placesService.FetchPhoto(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, photo.ContentType, photo.Data)
}
