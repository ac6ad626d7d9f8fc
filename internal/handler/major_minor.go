package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/repository"
)

// MajorMinorHandler maintains the link between a student and their
// major/minor departments.  Both department references are validated
// against the departments table before a row is written.
type MajorMinorHandler struct {
	MajorMinors *repository.MajorMinorRepo
	Students    *repository.StudentRepo
	Departments *repository.DepartmentRepo
}

func NewMajorMinorHandler(m *repository.MajorMinorRepo, s *repository.StudentRepo, d *repository.DepartmentRepo) *MajorMinorHandler {
	return &MajorMinorHandler{MajorMinors: m, Students: s, Departments: d}
}

type majorMinorReq struct {
	StudentID         uint64  `json:"student_id"`
	MajorDepartmentID uint64  `json:"major_department_id"`
	MinorDepartmentID *uint64 `json:"minor_department_id"`
}

// checkRefs verifies the student and department references exist.  A
// missing reference writes the 404 response directly; callers detect
// that via c.Response().Committed.
func (h *MajorMinorHandler) checkRefs(c echo.Context, req majorMinorReq) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Students.GetByID(ctx, req.StudentID); err != nil {
		if err == repository.ErrStudentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		return internalError(c, "query failed")
	}
	if _, err := h.Departments.GetByID(ctx, req.MajorDepartmentID); err != nil {
		if err == repository.ErrDepartmentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "major department not found"})
		}
		return internalError(c, "query failed")
	}
	if req.MinorDepartmentID != nil {
		if _, err := h.Departments.GetByID(ctx, *req.MinorDepartmentID); err != nil {
			if err == repository.ErrDepartmentNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "minor department not found"})
			}
			return internalError(c, "query failed")
		}
	}
	return nil
}

// Create records a student's major and optional minor.
func (h *MajorMinorHandler) Create(c echo.Context) error {
	var req majorMinorReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.StudentID == 0 || req.MajorDepartmentID == 0 {
		return badRequest(c, "student_id/major_department_id required")
	}
	if err := h.checkRefs(c, req); err != nil {
		return err
	}
	if c.Response().Committed {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m := &model.StudentMajorMinor{
		StudentID:         req.StudentID,
		MajorDepartmentID: req.MajorDepartmentID,
		MinorDepartmentID: req.MinorDepartmentID,
	}
	if err := h.MajorMinors.Create(ctx, m); err != nil {
		return internalError(c, "create record failed")
	}
	return c.JSON(http.StatusCreated, m)
}

// Get returns one record.
func (h *MajorMinorHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.MajorMinors.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrMajorMinorNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "record not found"})
		}
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, m)
}

// List returns every record.
func (h *MajorMinorHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.MajorMinors.ListAll(ctx)
	if err != nil {
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, out)
}

// Update rewrites a record after validating the references again.
func (h *MajorMinorHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req majorMinorReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.MajorMinors.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrMajorMinorNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "record not found"})
		}
		return internalError(c, "query failed")
	}
	if req.StudentID != 0 {
		m.StudentID = req.StudentID
	}
	if req.MajorDepartmentID != 0 {
		m.MajorDepartmentID = req.MajorDepartmentID
	}
	if req.MinorDepartmentID != nil {
		m.MinorDepartmentID = req.MinorDepartmentID
	}
	check := majorMinorReq{
		StudentID:         m.StudentID,
		MajorDepartmentID: m.MajorDepartmentID,
		MinorDepartmentID: m.MinorDepartmentID,
	}
	if err := h.checkRefs(c, check); err != nil {
		return err
	}
	if c.Response().Committed {
		return nil
	}
	if err := h.MajorMinors.Update(ctx, m); err != nil {
		return internalError(c, "update record failed")
	}
	return c.JSON(http.StatusOK, m)
}

// Delete removes a record.
func (h *MajorMinorHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.MajorMinors.Delete(ctx, id); err != nil {
		if err == repository.ErrMajorMinorNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "record not found"})
		}
		return internalError(c, "delete record failed")
	}
	return c.NoContent(http.StatusNoContent)
}
