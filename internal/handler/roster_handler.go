package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitplan/studio-api/internal/service"
	"github.com/fitplan/studio-api/pkg/response"
)

// RosterHandler exposes the loaded questionnaire rosters.
type RosterHandler struct {
	roster *service.RosterService
}

// NewRosterHandler constructs the handler.
func NewRosterHandler(roster *service.RosterService) *RosterHandler {
	return &RosterHandler{roster: roster}
}

// Get godoc
// @Summary Get the loaded rosters and category catalogue
// @Tags Roster
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /roster [get]
func (h *RosterHandler) Get(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.roster.Snapshot(), nil)
}

// Reload godoc
// @Summary Re-read the roster CSV files from disk
// @Tags Roster
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /roster/reload [post]
func (h *RosterHandler) Reload(c *gin.Context) {
	if err := h.roster.Load(); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.roster.Snapshot(), nil)
}
