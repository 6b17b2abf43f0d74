package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"tripmap/internal/models/request_models"
	"tripmap/internal/services"
	"tripmap/pkg/utils"
)

type WeatherController struct {
	weatherService services.WeatherServiceInterface
}

func NewWeatherController(weatherService services.WeatherServiceInterface) *WeatherController {
	return &WeatherController{
		weatherService: weatherService,
	}
}

func (w *WeatherController) GetForecast(c *gin.Context) {
	var req request_models.WeatherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "city is required")
		return
	}

	forecast, err := w.weatherService.GetForecast(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, forecast, forecast.Reason)
}
