package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catechism/internal/attendance"
	"catechism/internal/auth"
	"catechism/internal/metrics"
	"catechism/internal/qr"
)

type markAttendanceRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	Date      string `json:"date"`
	Status    string `json:"status"`
	Note      string `json:"note"`
}

// MarkAttendance handles POST /api/attendance (teacher only). Re-marking
// the same student on the same date overwrites the stored record.
func (h *Handler) MarkAttendance(c *gin.Context) {
	var req markAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, _ := auth.ClaimsFrom(c)
	rec, err := h.attendance.Mark(c.Request.Context(), attendance.MarkParams{
		StudentID:  req.StudentID,
		Date:       req.Date,
		Status:     req.Status,
		Method:     attendance.MethodManual,
		Note:       req.Note,
		RecordedBy: claims.Subject,
	})
	if err != nil {
		abortErr(c, err)
		return
	}
	metrics.AttendanceMarks.WithLabelValues(attendance.MethodManual).Inc()
	c.JSON(http.StatusOK, rec)
}

// ClassAttendance handles GET /api/attendance/class/:class?date= (teacher
// only). Returns the class roster and matching records side by side; the
// caller joins by student id.
func (h *Handler) ClassAttendance(c *gin.Context) {
	students, records, err := h.attendance.ClassSheet(c.Request.Context(), c.Param("class"), c.Query("date"))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students, "records": records})
}

// StudentAttendance handles GET /api/attendance/student/:id. Readable by
// teachers and by the matching parent.
func (h *Handler) StudentAttendance(c *gin.Context) {
	studentID := c.Param("id")

	claims, ok := auth.ClaimsFrom(c)
	if !ok || !auth.CanAccessStudent(claims, studentID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access to this student's attendance is not allowed"})
		return
	}

	records, err := h.attendance.StudentHistory(c.Request.Context(), studentID)
	if err != nil {
		abortErr(c, err)
		return
	}
	if records == nil {
		records = []attendance.Record{}
	}
	c.JSON(http.StatusOK, records)
}

// GenerateQR handles GET /api/qr-code/:id (teacher only): a scannable
// payload for the student as a base64 PNG data URI.
func (h *Handler) GenerateQR(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortErr(c, err)
		return
	}

	payload := qr.EncodePayload(student.ID, student.Name)
	png, err := qr.Image(payload, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "qr render failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"qr_code": qr.DataURI(png),
		"payload": payload,
		"student": student,
	})
}

// ScanQR handles POST /api/scan-qr (teacher only): decodes a scanned
// payload and checks the student in for today. A student already checked
// in today gets a distinct response and the stored record stays untouched.
func (h *Handler) ScanQR(c *gin.Context) {
	var req struct {
		Data string `json:"data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	studentID, err := qr.ParsePayload(req.Data)
	if err != nil {
		metrics.QRScans.WithLabelValues("invalid").Inc()
		abortErr(c, err)
		return
	}

	claims, _ := auth.ClaimsFrom(c)
	rec, created, err := h.attendance.CheckIn(c.Request.Context(), studentID, claims.Subject)
	if err != nil {
		metrics.QRScans.WithLabelValues("error").Inc()
		abortErr(c, err)
		return
	}

	if !created {
		metrics.QRScans.WithLabelValues("already_checked_in").Inc()
		c.JSON(http.StatusOK, gin.H{
			"message":            "Học sinh đã điểm danh hôm nay",
			"already_checked_in": true,
			"record":             rec,
		})
		return
	}

	metrics.QRScans.WithLabelValues("checked_in").Inc()
	metrics.AttendanceMarks.WithLabelValues(attendance.MethodQR).Inc()
	c.JSON(http.StatusOK, gin.H{
		"message":            "Điểm danh thành công",
		"already_checked_in": false,
		"record":             rec,
	})
}
