package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/config"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/repository"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/utils"
)

// StudentHandler exposes patron administration to librarians.
type StudentHandler struct {
	Cfg      config.Config
	Students *repository.StudentRepo
	Borrows  *repository.BorrowRepo
	Entries  *repository.EntryRepo
}

func NewStudentHandler(cfg config.Config, s *repository.StudentRepo, b *repository.BorrowRepo, e *repository.EntryRepo) *StudentHandler {
	return &StudentHandler{Cfg: cfg, Students: s, Borrows: b, Entries: e}
}

type studentReq struct {
	StudentID        string  `json:"student_id"`
	Password         string  `json:"password"`
	UniversityCardID string  `json:"university_card_id"`
	FirstName        string  `json:"first_name"`
	LastName         string  `json:"last_name"`
	Email            string  `json:"email"`
	PhoneNumber      *string `json:"phone_number"`
	Department       string  `json:"department"`
	Major            *string `json:"major"`
	MinorSubject     *string `json:"minor_subject"`
	YearLevel        *int    `json:"year_level"`
	RFIDUID          *string `json:"rfid_uid"`
}

// Register creates a student account.  The student number must be
// exactly 8 digits; the repository enforces the format.
func (h *StudentHandler) Register(c echo.Context) error {
	var req studentReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.StudentID = strings.TrimSpace(req.StudentID)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.StudentID == "" || req.Password == "" || req.Email == "" {
		return badRequest(c, "student_id/password/email required")
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return internalError(c, "hash password failed")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	st := &model.Student{
		StudentID:        req.StudentID,
		PasswordHash:     hash,
		UniversityCardID: strings.TrimSpace(req.UniversityCardID),
		FirstName:        strings.TrimSpace(req.FirstName),
		LastName:         strings.TrimSpace(req.LastName),
		Email:            req.Email,
		PhoneNumber:      req.PhoneNumber,
		Department:       strings.TrimSpace(req.Department),
		Major:            req.Major,
		MinorSubject:     req.MinorSubject,
		YearLevel:        req.YearLevel,
		RFIDUID:          req.RFIDUID,
		Role:             model.RoleStudent,
		Active:           true,
	}
	if err := h.Students.Create(ctx, st); err != nil {
		switch {
		case err == repository.ErrInvalidStudentID:
			return badRequest(c, err.Error())
		case repository.IsDuplicateKey(err):
			return c.JSON(http.StatusConflict, echo.Map{"error": "student already exists"})
		}
		return internalError(c, "create student failed")
	}
	return c.JSON(http.StatusCreated, st)
}

// Get returns one student by numeric ID.
func (h *StudentHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	st, err := h.Students.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrStudentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, st)
}

// List returns all students, newest first.
func (h *StudentHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Students.List(ctx)
	if err != nil {
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, out)
}

// Update overwrites mutable profile fields.  Student number and role
// are immutable after registration.
func (h *StudentHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req studentReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	st, err := h.Students.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrStudentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		return internalError(c, "query failed")
	}

	if v := strings.ToLower(strings.TrimSpace(req.Email)); v != "" {
		st.Email = v
	}
	if v := strings.TrimSpace(req.FirstName); v != "" {
		st.FirstName = v
	}
	if v := strings.TrimSpace(req.LastName); v != "" {
		st.LastName = v
	}
	if v := strings.TrimSpace(req.Department); v != "" {
		st.Department = v
	}
	if v := strings.TrimSpace(req.UniversityCardID); v != "" {
		st.UniversityCardID = v
	}
	if req.PhoneNumber != nil {
		st.PhoneNumber = req.PhoneNumber
	}
	if req.Major != nil {
		st.Major = req.Major
	}
	if req.MinorSubject != nil {
		st.MinorSubject = req.MinorSubject
	}
	if req.YearLevel != nil {
		st.YearLevel = req.YearLevel
	}
	if req.RFIDUID != nil {
		st.RFIDUID = req.RFIDUID
	}
	if req.Password != "" {
		hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
		if err != nil {
			return internalError(c, "hash password failed")
		}
		st.PasswordHash = hash
	}

	if err := h.Students.Update(ctx, st); err != nil {
		if repository.IsDuplicateKey(err) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email, card or rfid already in use"})
		}
		return internalError(c, "update student failed")
	}
	return c.JSON(http.StatusOK, st)
}

// SetActive suspends or restores a student account.  Suspended
// students can no longer log in, borrow or enter the library.
func (h *StudentHandler) SetActive(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req struct {
		Active bool `json:"active"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Students.SetActive(ctx, id, req.Active); err != nil {
		if err == repository.ErrStudentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		return internalError(c, "update failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "active": req.Active})
}

// BorrowHistory returns every loan of a student, newest first.
func (h *StudentHandler) BorrowHistory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Borrows.ListByStudent(ctx, id)
	if err != nil {
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, out)
}

// EntryHistory returns every library visit of a student.
func (h *StudentHandler) EntryHistory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Entries.ListByStudent(ctx, id)
	if err != nil {
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, out)
}
