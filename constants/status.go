package constants

// User roles
const (
	RoleStudent = 0
	RoleMentor  = 1
	RoleAdmin   = 2
)

// User status
const (
	UserStatusInactive = 0
	UserStatusActive   = 1
)

// Submission status
const (
	SubmissionStatusPending  = "pending"
	SubmissionStatusReviewed = "reviewed"
)

// Review rating bounds
const (
	RatingMin = 1
	RatingMax = 10
)

// AI analysis limits
const (
	AIAnalysisDailyLimit     = 10
	AIAnalysisPerMinuteLimit = 20
)

// Auth endpoint rate limits (per minute)
const (
	RegisterPerMinuteLimit = 5
	LoginPerMinuteLimit    = 10
)

// RoleName maps role codes to the labels used in API payloads.
func RoleName(role int) string {
	switch role {
	case RoleStudent:
		return "student"
	case RoleMentor:
		return "mentor"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// RoleFromName maps a role label to its code, -1 when unknown.
func RoleFromName(name string) int {
	switch name {
	case "student":
		return RoleStudent
	case "mentor":
		return RoleMentor
	case "admin":
		return RoleAdmin
	default:
		return -1
	}
}
