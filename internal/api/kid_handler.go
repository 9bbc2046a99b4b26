package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stanfish/kids-todo/internal/model"
	"github.com/stanfish/kids-todo/internal/store"
)

// CreateKidInput DTO for creating a kid profile.
type CreateKidInput struct {
	Name   string       `json:"name" binding:"required"`
	Avatar model.Avatar `json:"avatar"`
}

// UpdateKidInput DTO for a partial kid update.
type UpdateKidInput struct {
	Name   *string       `json:"name"`
	Avatar *model.Avatar `json:"avatar"`
}

// ListKids handles GET /v1/kids.
func (h *Handler) ListKids(c *gin.Context) {
	kids, err := h.kids.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, kids)
}

// CreateKid handles POST /v1/kids.
func (h *Handler) CreateKid(c *gin.Context) {
	var input CreateKidInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kid, err := h.kids.Create(c.Request.Context(), input.Name, input.Avatar)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, kid)
}

// UpdateKid handles PUT /v1/kids/:id.
func (h *Handler) UpdateKid(c *gin.Context) {
	var input UpdateKidInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.kids.Update(c.Request.Context(), c.Param("id"), store.KidUpdate{
		Name:   input.Name,
		Avatar: input.Avatar,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	kid, err := h.kids.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, kid)
}

// DeleteKid handles DELETE /v1/kids/:id, cascading to the kid's tasks and
// achievements.
func (h *Handler) DeleteKid(c *gin.Context) {
	if err := h.kids.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
