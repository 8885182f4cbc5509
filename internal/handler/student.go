package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catechism/internal/roster"
)

type createStudentRequest struct {
	Name           string `json:"name" binding:"required"`
	ClassName      string `json:"class_name" binding:"required"`
	BirthDate      string `json:"birth_date"`
	Address        string `json:"address"`
	ParentName     string `json:"parent_name"`
	ParentPhone    string `json:"parent_phone"`
	ParentPassword string `json:"parent_password"`
}

// CreateStudent handles POST /api/students (teacher only).
func (h *Handler) CreateStudent(c *gin.Context) {
	var req createStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	student, err := h.students.Create(c.Request.Context(), roster.Student{
		Name:        req.Name,
		ClassName:   req.ClassName,
		BirthDate:   req.BirthDate,
		Address:     req.Address,
		ParentName:  req.ParentName,
		ParentPhone: req.ParentPhone,
	}, req.ParentPassword)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, student)
}

// UpdateStudent handles PUT /api/students/:id (teacher only).
func (h *Handler) UpdateStudent(c *gin.Context) {
	var req roster.Update
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	student, err := h.students.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, student)
}

// ListStudents handles GET /api/students?class_name=&search= (teacher only).
func (h *Handler) ListStudents(c *gin.Context) {
	students, err := h.students.List(c.Request.Context(), c.Query("class_name"), c.Query("search"))
	if err != nil {
		abortErr(c, err)
		return
	}
	if students == nil {
		students = []roster.Student{}
	}
	c.JSON(http.StatusOK, students)
}

// GetStudent handles GET /api/students/:id (teacher only).
func (h *Handler) GetStudent(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, student)
}
