package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/repository"
)

// CourseHandler manages the courses departments offer.
type CourseHandler struct {
	Courses     *repository.CourseRepo
	Departments *repository.DepartmentRepo
}

func NewCourseHandler(c *repository.CourseRepo, d *repository.DepartmentRepo) *CourseHandler {
	return &CourseHandler{Courses: c, Departments: d}
}

type courseReq struct {
	DepartmentID uint64  `json:"department_id"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
}

// Create adds a course to a department.
func (h *CourseHandler) Create(c echo.Context) error {
	var req courseReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.DepartmentID == 0 {
		return badRequest(c, "name/department_id required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Departments.GetByID(ctx, req.DepartmentID); err != nil {
		if err == repository.ErrDepartmentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "department not found"})
		}
		return internalError(c, "query failed")
	}

	course := &model.Course{
		DepartmentID: req.DepartmentID,
		Name:         req.Name,
		Description:  req.Description,
	}
	if err := h.Courses.Create(ctx, course); err != nil {
		return internalError(c, "create course failed")
	}
	return c.JSON(http.StatusCreated, course)
}

// Get returns one course.
func (h *CourseHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	course, err := h.Courses.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrCourseNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, course)
}

// List returns every course.
func (h *CourseHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Courses.ListAll(ctx)
	if err != nil {
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, out)
}

// Update rewrites department, name and description.
func (h *CourseHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req courseReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	course, err := h.Courses.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrCourseNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return internalError(c, "query failed")
	}
	if req.DepartmentID != 0 && req.DepartmentID != course.DepartmentID {
		if _, err := h.Departments.GetByID(ctx, req.DepartmentID); err != nil {
			if err == repository.ErrDepartmentNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "department not found"})
			}
			return internalError(c, "query failed")
		}
		course.DepartmentID = req.DepartmentID
	}
	if n := strings.TrimSpace(req.Name); n != "" {
		course.Name = n
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if err := h.Courses.Update(ctx, course); err != nil {
		return internalError(c, "update course failed")
	}
	return c.JSON(http.StatusOK, course)
}

// Delete removes a course.
func (h *CourseHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Courses.Delete(ctx, id); err != nil {
		if err == repository.ErrCourseNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return internalError(c, "delete course failed")
	}
	return c.NoContent(http.StatusNoContent)
}
