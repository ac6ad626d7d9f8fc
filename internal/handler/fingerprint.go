package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/repository"
)

// DefaultRetentionDays is how long an enrolled fingerprint hash is kept
// when the consent form does not set its own retention period.
const DefaultRetentionDays = 365

// FingerprintHandler manages biometric enrolment.  Raw template data
// never touches the database: the handler hashes it immediately and
// stores only the digest.
type FingerprintHandler struct {
	Fingerprints *repository.FingerprintRepo
	Students     *repository.StudentRepo
}

func NewFingerprintHandler(f *repository.FingerprintRepo, s *repository.StudentRepo) *FingerprintHandler {
	return &FingerprintHandler{Fingerprints: f, Students: s}
}

type enrollReq struct {
	StudentID      uint64 `json:"student_id"`
	TemplateData   string `json:"template_data"` // base64 or vendor encoding, hashed verbatim
	FingerPosition string `json:"finger_position"`
	QualityScore   *int   `json:"quality_score"`
	RetentionDays  int    `json:"retention_days"`
}

type verifyReq struct {
	TemplateData string `json:"template_data"`
}

// templateHash digests template data the same way for enrolment and
// verification.
func templateHash(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// Enroll stores the hash of a captured fingerprint template together
// with consent metadata.
func (h *FingerprintHandler) Enroll(c echo.Context) error {
	var req enrollReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.StudentID == 0 || strings.TrimSpace(req.TemplateData) == "" {
		return badRequest(c, "student_id/template_data required")
	}
	position := strings.ToUpper(strings.TrimSpace(req.FingerPosition))
	if position == "" {
		position = "RIGHT_INDEX"
	}
	retention := req.RetentionDays
	if retention <= 0 {
		retention = DefaultRetentionDays
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Students.GetByID(ctx, req.StudentID); err != nil {
		if err == repository.ErrStudentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		return internalError(c, "lookup failed")
	}

	librarianID := authUserID(c)
	var enrolledBy *uint64
	if librarianID != 0 {
		enrolledBy = &librarianID
	}

	now := time.Now().UTC()
	rec := &model.FingerprintRecord{
		StudentID:        req.StudentID,
		TemplateHash:     templateHash(req.TemplateData),
		FingerPosition:   position,
		QualityScore:     req.QualityScore,
		ConsentDate:      now,
		RetentionEndDate: now.AddDate(0, 0, retention),
		EnrolledBy:       enrolledBy,
	}
	if err := h.Fingerprints.Create(ctx, rec); err != nil {
		if repository.IsDuplicateKey(err) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "fingerprint already enrolled"})
		}
		return internalError(c, "enroll failed")
	}
	return c.JSON(http.StatusCreated, rec)
}

// Verify matches a captured template against the enrolled hashes and
// returns the owning student on success.
func (h *FingerprintHandler) Verify(c echo.Context) error {
	var req verifyReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.TemplateData) == "" {
		return badRequest(c, "template_data required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rec, err := h.Fingerprints.GetByTemplateHash(ctx, templateHash(req.TemplateData))
	if err != nil {
		if err == repository.ErrFingerprintNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no match"})
		}
		return internalError(c, "lookup failed")
	}
	if time.Now().UTC().After(rec.RetentionEndDate) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no match"})
	}
	_ = h.Fingerprints.TouchVerified(ctx, rec.ID)

	st, err := h.Students.GetByID(ctx, rec.StudentID)
	if err != nil {
		return internalError(c, "lookup failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"matched": true, "student": st})
}

// ListForStudent returns a student's enrolled fingers.
func (h *FingerprintHandler) ListForStudent(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Fingerprints.ListByStudent(ctx, id)
	if err != nil {
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, out)
}

// Purge removes records whose retention period has ended.  The daily
// scheduler calls the same repository operation; this endpoint lets an
// admin run it on demand.
func (h *FingerprintHandler) Purge(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	n, err := h.Fingerprints.PurgeExpired(ctx, time.Now().UTC())
	if err != nil {
		return internalError(c, "purge failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"purged": n})
}
