package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catechism/internal/news"
)

// ListNews handles GET /api/news (public): published items, newest first.
func (h *Handler) ListNews(c *gin.Context) {
	items, err := h.news.ListPublished(c.Request.Context())
	if err != nil {
		abortErr(c, err)
		return
	}
	if items == nil {
		items = []news.Announcement{}
	}
	c.JSON(http.StatusOK, items)
}

// CreateNews handles POST /api/news (teacher only).
func (h *Handler) CreateNews(c *gin.Context) {
	var req struct {
		Title     string `json:"title" binding:"required"`
		Content   string `json:"content" binding:"required"`
		Author    string `json:"author" binding:"required"`
		Published *bool  `json:"published"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	published := true
	if req.Published != nil {
		published = *req.Published
	}

	item, err := h.news.Create(c.Request.Context(), news.Announcement{
		Title:     req.Title,
		Content:   req.Content,
		Author:    req.Author,
		Published: published,
	})
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}
