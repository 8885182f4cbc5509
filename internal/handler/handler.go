// Package handler implements the /api HTTP surface.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"catechism/internal/accounts"
	"catechism/internal/attendance"
	"catechism/internal/config"
	"catechism/internal/grades"
	"catechism/internal/news"
	"catechism/internal/qr"
	"catechism/internal/roster"
)

// Handler holds everything the routes need.
type Handler struct {
	cfg        config.App
	students   *roster.Repository
	accounts   *accounts.Repository
	grades     *grades.Repository
	attendance *attendance.Service
	attRecords *attendance.Repository
	news       *news.Repository
}

// New wires a handler.
func New(cfg config.App, students *roster.Repository, accountsRepo *accounts.Repository, gradesRepo *grades.Repository, attSvc *attendance.Service, attRepo *attendance.Repository, newsRepo *news.Repository) *Handler {
	return &Handler{
		cfg:        cfg,
		students:   students,
		accounts:   accountsRepo,
		grades:     gradesRepo,
		attendance: attSvc,
		attRecords: attRepo,
		news:       newsRepo,
	}
}

// abortErr maps domain sentinels onto HTTP statuses. Every failure is
// terminal for the request; nothing retries.
func abortErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, roster.ErrNotFound), errors.Is(err, accounts.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, roster.ErrInvalidCredentials), errors.Is(err, accounts.ErrInvalidCredentials):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, qr.ErrInvalidPayload),
		errors.Is(err, grades.ErrInvalidScore),
		errors.Is(err, attendance.ErrInvalidStatus),
		errors.Is(err, attendance.ErrInvalidDate),
		errors.Is(err, roster.ErrDuplicatePhone),
		errors.Is(err, accounts.ErrDuplicateUsername):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
