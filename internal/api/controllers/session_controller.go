package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"tripmap/internal/models/request_models"
	"tripmap/internal/models/response_models"
	"tripmap/internal/services"
	"tripmap/pkg/utils"
)

type SessionController struct {
	sessionService services.MapSessionServiceInterface
}

func NewSessionController(sessionService services.MapSessionServiceInterface) *SessionController {
	return &SessionController{
		sessionService: sessionService,
	}
}

func (s *SessionController) Create(c *gin.Context) {
	id, err := s.sessionService.Create(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.SessionCreatedResponse{SessionID: id}, "Map session created")
}

func (s *SessionController) View(c *gin.Context) {
	view, err := s.sessionService.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, view, "")
}

func (s *SessionController) Delete(c *gin.Context) {
	if err := s.sessionService.Close(c.Param("id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Map session closed")
}

func (s *SessionController) SetPlan(c *gin.Context) {
	var req request_models.SetPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "plan is required")
		return
	}

	view, err := s.sessionService.SetPlan(c.Request.Context(), c.Param("id"), req.Plan)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, view, "")
}

func (s *SessionController) Dispatch(c *gin.Context) {
	var req request_models.MapEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "type is required")
		return
	}

	view, err := s.sessionService.Dispatch(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, view, "")
}
