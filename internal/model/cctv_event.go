package model

import "time"

// CCTV event types recognised by the camera integration.
const (
	CCTVPersonDetected       = "PERSON_DETECTED"
	CCTVFaceRecognized       = "FACE_RECOGNIZED"
	CCTVEntryExit            = "ENTRY_EXIT"
	CCTVSuspiciousActivity   = "SUSPICIOUS_ACTIVITY"
	CCTVEmergencyExitUsed    = "EMERGENCY_EXIT_USED"
	CCTVRestrictedAreaAccess = "RESTRICTED_AREA_ACCESS"
)

// CCTVEvent is metadata about a camera capture, loosely linked to a
// library entry and/or a student when recognition succeeded.  The
// capture itself lives in external storage; CaptureRef points at it.
type CCTVEvent struct {
	ID                    uint64     `json:"id"`         // cctv_events.id
	EventTime             time.Time  `json:"event_time"` // cctv_events.event_time
	EventType             string     `json:"event_type"` // cctv_events.event_type
	CameraID              string     `json:"camera_id"`  // cctv_events.camera_id
	Location              *string    `json:"location,omitempty"`    // cctv_events.location (nullable)
	CaptureRef            *string    `json:"capture_ref,omitempty"` // cctv_events.capture_ref (nullable)
	LibraryEntryID        *uint64    `json:"library_entry_id,omitempty"` // cctv_events.library_entry_id (nullable)
	StudentID             *uint64    `json:"student_id,omitempty"`       // cctv_events.student_id (nullable)
	RecognitionConfidence *int       `json:"recognition_confidence,omitempty"` // cctv_events.recognition_confidence (nullable)
	NeedsReview           bool       `json:"needs_review"` // cctv_events.needs_review
	ReviewedBy            *uint64    `json:"reviewed_by,omitempty"`  // cctv_events.reviewed_by (nullable)
	ReviewTime            *time.Time `json:"review_time,omitempty"`  // cctv_events.review_time (nullable)
	ReviewNotes           *string    `json:"review_notes,omitempty"` // cctv_events.review_notes (nullable)
	Description           *string    `json:"description,omitempty"`  // cctv_events.description (nullable)
	CreatedAt             time.Time  `json:"created_at"` // cctv_events.created_at
	UpdatedAt             time.Time  `json:"updated_at"` // cctv_events.updated_at
}

// ValidCCTVEventType reports whether s names a known event type.
func ValidCCTVEventType(s string) bool {
	switch s {
	case CCTVPersonDetected, CCTVFaceRecognized, CCTVEntryExit,
		CCTVSuspiciousActivity, CCTVEmergencyExitUsed, CCTVRestrictedAreaAccess:
		return true
	}
	return false
}
