package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/repository"
)

// DepartmentHandler manages academic departments.  Deleting a
// department also drops its courses.
type DepartmentHandler struct {
	Departments *repository.DepartmentRepo
	Courses     *repository.CourseRepo
}

func NewDepartmentHandler(d *repository.DepartmentRepo, c *repository.CourseRepo) *DepartmentHandler {
	return &DepartmentHandler{Departments: d, Courses: c}
}

type departmentReq struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// Create adds a department.
func (h *DepartmentHandler) Create(c echo.Context) error {
	var req departmentReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return badRequest(c, "name required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	d := &model.Department{Name: req.Name, Description: req.Description}
	if err := h.Departments.Create(ctx, d); err != nil {
		if repository.IsDuplicateKey(err) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "department name already exists"})
		}
		return internalError(c, "create department failed")
	}
	return c.JSON(http.StatusCreated, d)
}

// Get returns one department.
func (h *DepartmentHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Departments.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrDepartmentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "department not found"})
		}
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, d)
}

// List returns every department.
func (h *DepartmentHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Departments.ListAll(ctx)
	if err != nil {
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, out)
}

// Update rewrites name and description.
func (h *DepartmentHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req departmentReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Departments.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrDepartmentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "department not found"})
		}
		return internalError(c, "query failed")
	}
	if n := strings.TrimSpace(req.Name); n != "" {
		d.Name = n
	}
	if req.Description != nil {
		d.Description = req.Description
	}
	if err := h.Departments.Update(ctx, d); err != nil {
		if repository.IsDuplicateKey(err) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "department name already exists"})
		}
		return internalError(c, "update department failed")
	}
	return c.JSON(http.StatusOK, d)
}

// Delete removes a department and its courses.
func (h *DepartmentHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Departments.Delete(ctx, id); err != nil {
		if err == repository.ErrDepartmentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "department not found"})
		}
		return internalError(c, "delete department failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListCourses returns the courses a department offers.
func (h *DepartmentHandler) ListCourses(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Departments.GetByID(ctx, id); err != nil {
		if err == repository.ErrDepartmentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "department not found"})
		}
		return internalError(c, "query failed")
	}
	out, err := h.Courses.ListByDepartment(ctx, id)
	if err != nil {
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, out)
}
