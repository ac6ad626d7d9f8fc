package model

import "time"

// FingerprintRecord stores the hash of an enrolled fingerprint template
// together with consent and retention metadata.  Raw template data is
// never persisted, only its SHA-256 hash.  Records past their
// RetentionEndDate are removed by the purge operation.
type FingerprintRecord struct {
	ID               uint64     `json:"id"`            // fingerprint_records.id
	StudentID        uint64     `json:"student_id"`    // fingerprint_records.student_id
	TemplateHash     string     `json:"template_hash"` // fingerprint_records.template_hash
	FingerPosition   string     `json:"finger_position"` // fingerprint_records.finger_position
	QualityScore     *int       `json:"quality_score,omitempty"` // fingerprint_records.quality_score (nullable)
	Verified         bool       `json:"verified"`      // fingerprint_records.verified
	LastVerifiedAt   *time.Time `json:"last_verified_at,omitempty"` // fingerprint_records.last_verified_at (nullable)
	ConsentDate      time.Time  `json:"consent_date"`  // fingerprint_records.consent_date
	RetentionEndDate time.Time  `json:"retention_end_date"` // fingerprint_records.retention_end_date
	EnrolledBy       *uint64    `json:"enrolled_by,omitempty"` // fingerprint_records.enrolled_by (nullable)
	CreatedAt        time.Time  `json:"created_at"`    // fingerprint_records.created_at
	UpdatedAt        time.Time  `json:"updated_at"`    // fingerprint_records.updated_at
}
