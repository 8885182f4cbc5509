package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"catechism/internal/auth"
	"catechism/internal/grades"
	"catechism/internal/roster"
)

type gradeReport struct {
	Student          *roster.Student        `json:"student"`
	Semester1        *grades.SemesterRecord `json:"semester_1"`
	Semester2        *grades.SemesterRecord `json:"semester_2"`
	Semester1Average float64                `json:"semester_1_average"`
	Semester2Average float64                `json:"semester_2_average"`
	FinalAverage     float64                `json:"final_average"`
	Status           string                 `json:"status"`
}

// StudentGrades handles GET /api/grades/student/:id. Readable by any
// teacher, or by the parent whose token belongs to this student.
func (h *Handler) StudentGrades(c *gin.Context) {
	studentID := c.Param("id")

	claims, ok := auth.ClaimsFrom(c)
	if !ok || !auth.CanAccessStudent(claims, studentID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access to this student's grades is not allowed"})
		return
	}

	student, err := h.students.Get(c.Request.Context(), studentID)
	if err != nil {
		abortErr(c, err)
		return
	}

	sem1, sem2, err := h.grades.Year(c.Request.Context(), studentID)
	if err != nil {
		abortErr(c, err)
		return
	}

	avg1 := grades.SemesterAverage(sem1)
	avg2 := grades.SemesterAverage(sem2)
	final := grades.FinalAverage(avg1, avg2)

	c.JSON(http.StatusOK, gradeReport{
		Student:          student,
		Semester1:        sem1,
		Semester2:        sem2,
		Semester1Average: grades.Round2(avg1),
		Semester2Average: grades.Round2(avg2),
		FinalAverage:     grades.Round2(final),
		Status:           grades.Status(final),
	})
}

// UpdateSemester handles PUT /api/grades/student/:id/semester/:n (teacher
// only): a partial update of component scores for one semester.
func (h *Handler) UpdateSemester(c *gin.Context) {
	semester, err := strconv.Atoi(c.Param("n"))
	if err != nil || (semester != 1 && semester != 2) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "semester must be 1 or 2"})
		return
	}

	var req grades.ScoreUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortErr(c, err)
		return
	}

	rec, err := h.grades.Upsert(c.Request.Context(), student.ID, semester, student.Name, student.ClassName, req)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
