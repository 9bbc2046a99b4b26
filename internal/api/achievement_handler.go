package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AwardAchievementInput DTO for recording a badge.
type AwardAchievementInput struct {
	Date string `json:"date" binding:"required"`
	Type string `json:"type"`
}

// ListAchievements handles GET /v1/kids/:id/achievements.
func (h *Handler) ListAchievements(c *gin.Context) {
	achievements, err := h.achievements.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, achievements)
}

// AwardAchievement handles POST /v1/kids/:id/achievements.
func (h *Handler) AwardAchievement(c *gin.Context) {
	var input AwardAchievementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.kids.Get(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	a, err := h.achievements.Award(c.Request.Context(), c.Param("id"), input.Date, input.Type)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}
