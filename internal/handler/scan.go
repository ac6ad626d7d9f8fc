package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/config"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/queue"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/repository"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/service"
)

// ScanHandler serves the gate readers.  A scan carries a QR payload
// such as "LIBRARY_ENTRY" or "LIBRARY_EXIT" (the prefix is
// configurable), or an RFID card UID, and resolves to an entry or exit
// on the presence ledger.
type ScanHandler struct {
	Cfg      config.Config
	Presence *service.PresenceService
	Students *repository.StudentRepo
}

func NewScanHandler(cfg config.Config, p *service.PresenceService, s *repository.StudentRepo) *ScanHandler {
	return &ScanHandler{Cfg: cfg, Presence: p, Students: s}
}

type scanReq struct {
	Payload       string  `json:"payload"`        // QR payload, e.g. LIBRARY_ENTRY
	StudentNumber string  `json:"student_number"` // 8 digit student number
	RFIDUID       string  `json:"rfid_uid"`       // card UID, used when student_number absent
	ScanType      string  `json:"scan_type"`      // optional ENTRY/EXIT override
	Method        string  `json:"method"`         // entry method, defaults from identifiers
	CaptureRef    *string `json:"capture_ref"`
}

type scanResp struct {
	Direction string              `json:"direction"`
	Entry     *model.LibraryEntry `json:"entry"`
}

// Scan processes one gate read.  Direction is taken from the explicit
// scan_type when given, otherwise from the payload suffix.
func (h *ScanHandler) Scan(c echo.Context) error {
	var req scanReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	direction, err := h.direction(req)
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	st, err := h.resolveStudent(ctx, req)
	if err != nil {
		if err == repository.ErrStudentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		return internalError(c, "lookup failed")
	}

	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		if req.RFIDUID != "" {
			method = model.EntryMethodRFID
		} else {
			method = model.EntryMethodQR
		}
	}
	if !model.ValidEntryMethod(method) {
		return badRequest(c, "unknown entry method")
	}

	var entry *model.LibraryEntry
	switch direction {
	case "ENTRY":
		entry, err = h.Presence.RecordEntry(ctx, st.ID, method, req.CaptureRef, nil)
	case "EXIT":
		entry, err = h.Presence.RecordExit(ctx, st.ID, req.CaptureRef)
	}
	if err != nil {
		switch err {
		case service.ErrLibraryClosed:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "library is closed"})
		case service.ErrAlreadyInside:
			return c.JSON(http.StatusConflict, echo.Map{"error": "student already inside"})
		case service.ErrNoOpenEntry:
			return c.JSON(http.StatusConflict, echo.Map{"error": "no active entry found for student"})
		case repository.ErrStudentNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		return internalError(c, "scan failed")
	}

	h.publishGateScan(entry, st, direction, method, req.CaptureRef)

	status := http.StatusOK
	if direction == "ENTRY" {
		status = http.StatusCreated
	}
	return c.JSON(status, scanResp{Direction: direction, Entry: entry})
}

// direction resolves ENTRY or EXIT from the override or the payload.
func (h *ScanHandler) direction(req scanReq) (string, error) {
	if st := strings.ToUpper(strings.TrimSpace(req.ScanType)); st != "" {
		switch st {
		case "ENTRY", "EXIT":
			return st, nil
		}
		return "", errBadScanType
	}
	payload := strings.ToUpper(strings.TrimSpace(req.Payload))
	prefix := strings.ToUpper(h.Cfg.QRSecretValue)
	switch payload {
	case prefix + "_ENTRY":
		return "ENTRY", nil
	case prefix + "_EXIT":
		return "EXIT", nil
	}
	return "", errBadPayload
}

var (
	errBadScanType = errors.New("scan_type must be ENTRY or EXIT")
	errBadPayload  = errors.New("unrecognised scan payload")
)

// resolveStudent finds the student behind a scan, trying the student
// number first and the RFID UID second.
func (h *ScanHandler) resolveStudent(ctx context.Context, req scanReq) (*model.Student, error) {
	if n := strings.TrimSpace(req.StudentNumber); n != "" {
		return h.Students.GetByStudentID(ctx, n)
	}
	if uid := strings.TrimSpace(req.RFIDUID); uid != "" {
		return h.Students.GetByRFIDUID(ctx, uid)
	}
	return nil, repository.ErrStudentNotFound
}

// publishGateScan notifies the security log asynchronously.
func (h *ScanHandler) publishGateScan(entry *model.LibraryEntry, st *model.Student, direction, method string, captureRef *string) {
	if entry == nil {
		return
	}
	ev := queue.GateScanEvent{
		EntryID:       entry.ID,
		StudentID:     st.ID,
		StudentNumber: st.StudentID,
		Direction:     direction,
		Method:        method,
		ScannedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if captureRef != nil {
		ev.CaptureRef = *captureRef
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue.PublishGateScan(ctx, ev)
	}()
}
