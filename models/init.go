package models

// BootstrapResponse defines the structure for the /api/init endpoint response.
type BootstrapResponse struct {
	UserType             string       `json:"user_type"` // "guest" or "lead"
	UserID               string       `json:"user_id"`
	CaptureLevel         CaptureLevel `json:"capture_level"` // 0 for guests without a lead record
	IsSoftMember         bool         `json:"is_soft_member"`
	AssessmentsStarted   int          `json:"assessments_started"`
	AssessmentsCompleted int          `json:"assessments_completed"`
}
