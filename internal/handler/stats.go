package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"catechism/internal/attendance"
	"catechism/internal/seed"
)

// Overview handles GET /api/stats/overview (public): aggregate counters.
func (h *Handler) Overview(c *gin.Context) {
	ctx := c.Request.Context()

	totalStudents, err := h.students.Count(ctx)
	if err != nil {
		abortErr(c, err)
		return
	}
	totalTeachers, err := h.accounts.Count(ctx)
	if err != nil {
		abortErr(c, err)
		return
	}
	classes, err := h.students.Classes(ctx)
	if err != nil {
		abortErr(c, err)
		return
	}
	todayAttendance, err := h.attRecords.CountOn(ctx, attendance.DateKey(time.Now()))
	if err != nil {
		abortErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_students":   totalStudents,
		"total_teachers":   totalTeachers,
		"total_classes":    len(classes),
		"today_attendance": todayAttendance,
	})
}

// InitSampleData handles POST /api/init-sample-data: idempotent seeding,
// no-op once students exist.
func (h *Handler) InitSampleData(c *gin.Context) {
	seeded, err := seed.Run(c.Request.Context(), seed.Deps{
		Students: h.students,
		Accounts: h.accounts,
		Grades:   h.grades,
		News:     h.news,
	})
	if err != nil {
		abortErr(c, err)
		return
	}
	if !seeded {
		c.JSON(http.StatusOK, gin.H{"message": "Sample data already exists"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sample data initialized successfully"})
}
