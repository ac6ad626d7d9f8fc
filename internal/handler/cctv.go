package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/repository"
)

// CCTVHandler records and reviews camera event metadata.  Cameras (or
// the video pipeline in front of them) push events in; librarians
// search and review them.
type CCTVHandler struct {
	Events *repository.CCTVRepo
}

func NewCCTVHandler(events *repository.CCTVRepo) *CCTVHandler {
	return &CCTVHandler{Events: events}
}

type cctvEventReq struct {
	EventTime             *time.Time `json:"event_time"`
	EventType             string     `json:"event_type"`
	CameraID              string     `json:"camera_id"`
	Location              *string    `json:"location"`
	CaptureRef            *string    `json:"capture_ref"`
	LibraryEntryID        *uint64    `json:"library_entry_id"`
	StudentID             *uint64    `json:"student_id"`
	RecognitionConfidence *int       `json:"recognition_confidence"`
	Description           *string    `json:"description"`
}

// Create ingests one camera event.  Suspicious activity and emergency
// exits are flagged for review immediately.
func (h *CCTVHandler) Create(c echo.Context) error {
	var req cctvEventReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.EventType = strings.ToUpper(strings.TrimSpace(req.EventType))
	req.CameraID = strings.TrimSpace(req.CameraID)
	if req.CameraID == "" {
		return badRequest(c, "camera_id required")
	}
	if !model.ValidCCTVEventType(req.EventType) {
		return badRequest(c, "unknown event type")
	}

	eventTime := time.Now().UTC()
	if req.EventTime != nil {
		eventTime = req.EventTime.UTC()
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ev := &model.CCTVEvent{
		EventTime:             eventTime,
		EventType:             req.EventType,
		CameraID:              req.CameraID,
		Location:              req.Location,
		CaptureRef:            req.CaptureRef,
		LibraryEntryID:        req.LibraryEntryID,
		StudentID:             req.StudentID,
		RecognitionConfidence: req.RecognitionConfidence,
		Description:           req.Description,
		NeedsReview: req.EventType == model.CCTVSuspiciousActivity ||
			req.EventType == model.CCTVEmergencyExitUsed ||
			req.EventType == model.CCTVRestrictedAreaAccess,
	}
	if err := h.Events.Create(ctx, ev); err != nil {
		return internalError(c, "create event failed")
	}
	return c.JSON(http.StatusCreated, ev)
}

// Get returns one event.
func (h *CCTVHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, ev)
}

// Search filters events by camera, type and time window, all optional.
func (h *CCTVHandler) Search(c echo.Context) error {
	var start, end *time.Time
	if s := c.QueryParam("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return badRequest(c, "from must be RFC3339")
		}
		start = &t
	}
	if s := c.QueryParam("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return badRequest(c, "to must be RFC3339")
		}
		end = &t
	}
	eventType := strings.ToUpper(strings.TrimSpace(c.QueryParam("event_type")))
	if eventType != "" && !model.ValidCCTVEventType(eventType) {
		return badRequest(c, "unknown event type")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Events.Search(ctx, strings.TrimSpace(c.QueryParam("camera_id")), eventType, start, end)
	if err != nil {
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, out)
}

// ListNeedingReview returns unreviewed flagged events, oldest first.
func (h *CCTVHandler) ListNeedingReview(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Events.ListNeedingReview(ctx)
	if err != nil {
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, out)
}

type reviewReq struct {
	Notes *string `json:"notes"`
}

// Flag marks an event as needing review.
func (h *CCTVHandler) Flag(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req reviewReq
	_ = c.Bind(&req)

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Events.FlagForReview(ctx, id, req.Notes); err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return internalError(c, "flag failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "needs_review": true})
}

// Review closes the review of an event under the calling librarian.
func (h *CCTVHandler) Review(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req reviewReq
	_ = c.Bind(&req)

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Events.MarkReviewed(ctx, id, authUserID(c), req.Notes); err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return internalError(c, "review failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "needs_review": false})
}

// Delete removes event metadata, e.g. after the retention window.
func (h *CCTVHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Events.Delete(ctx, id); err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return internalError(c, "delete failed")
	}
	return c.NoContent(http.StatusNoContent)
}
