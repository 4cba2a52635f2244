package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"employee-directory/internal/models"
	"employee-directory/internal/query"
	"employee-directory/internal/service"
	"employee-directory/internal/upload"
)

type EmployeeHandler struct {
	employees *service.EmployeeService
}

func NewEmployeeHandler(employees *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

// ListEmployees returns one filtered page of the caller's employees
// GET /api/employees?search=&gender=&designation=&course=&sortBy=&sortOrder=&page=&limit=
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	page, err := h.employees.List(c.Request.Context(), id, query.ParseCriteria(c.Request.URL.Query()))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// CreateEmployee
// POST /api/employees (multipart: fields, course as JSON array, image)
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	if err := parseForm(c); err != nil {
		_ = c.Error(err)
		return
	}

	in := models.EmployeeInput{
		Name:        c.PostForm("name"),
		Email:       c.PostForm("email"),
		Mobile:      c.PostForm("mobile"),
		Designation: c.PostForm("designation"),
		Gender:      c.PostForm("gender"),
	}
	if raw, ok := c.GetPostForm("course"); ok && raw != "" {
		course, err := service.ParseCourse(raw)
		if err != nil {
			_ = c.Error(err)
			return
		}
		in.Course = course
	}
	image, err := formImage(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	emp, err := h.employees.Create(c.Request.Context(), id, in, image)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, emp)
}

// GetEmployee
// GET /api/employees/:id
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	emp, err := h.employees.Get(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, emp)
}

// UpdateEmployee applies the fields present in the form; the image is optional.
// The body is read only once the record is known to belong to the caller.
// PUT /api/employees/:id
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	emp, err := h.employees.Update(c.Request.Context(), id, c.Param("id"), func() (models.EmployeePatch, *upload.File, error) {
		return decodePatch(c)
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, emp)
}

func decodePatch(c *gin.Context) (models.EmployeePatch, *upload.File, error) {
	var patch models.EmployeePatch
	if err := parseForm(c); err != nil {
		return patch, nil, err
	}
	patch.Name = optional(c, "name")
	patch.Email = optional(c, "email")
	patch.Mobile = optional(c, "mobile")
	patch.Designation = optional(c, "designation")
	patch.Gender = optional(c, "gender")
	if raw := optional(c, "course"); raw != nil {
		course, err := service.ParseCourse(*raw)
		if err != nil {
			return patch, nil, err
		}
		patch.Course = &course
	}
	image, err := formImage(c)
	if err != nil {
		return patch, nil, err
	}
	return patch, image, nil
}

// DeleteEmployee
// DELETE /api/employees/:id
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	if err := h.employees.Delete(c.Request.Context(), id, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully"})
}

func optional(c *gin.Context, field string) *string {
	v, ok := c.GetPostForm(field)
	if !ok {
		return nil
	}
	return &v
}
