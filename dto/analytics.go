package dto

// Analytics payloads keep the snake_case field names the dashboard frontend
// consumes.

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type MonthRating struct {
	Month  string  `json:"month"`
	Rating float64 `json:"rating"`
}

type GroupCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type RatingCount struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

type RoleCount struct {
	Role  string `json:"role"`
	Count int    `json:"count"`
}

type StudentSummary struct {
	TotalSubmissions     int     `json:"total_submissions"`
	TotalReviewsReceived int     `json:"total_reviews_received"`
	AvgRating            float64 `json:"avg_rating"`
	AvgReviewTimeDays    float64 `json:"avg_review_time_days"`
	TotalAIAnalyses      int     `json:"total_ai_analyses"`
}

type RecentSubmission struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Language    string `json:"language"`
	Status      string `json:"status"`
	ReviewCount int    `json:"review_count"`
	CreatedAt   string `json:"created_at"`
}

type StudentDashboard struct {
	Summary             StudentSummary     `json:"summary"`
	SubmissionsTimeline []MonthCount       `json:"submissions_timeline"`
	RatingTimeline      []MonthRating      `json:"rating_timeline"`
	LanguageBreakdown   []GroupCount       `json:"language_breakdown"`
	StatusBreakdown     []StatusCount      `json:"status_breakdown"`
	RecentActivity      []RecentSubmission `json:"recent_activity"`
}

type MentorSummary struct {
	TotalReviewsGiven       int     `json:"total_reviews_given"`
	StudentsHelped          int     `json:"students_helped"`
	AvgRatingGiven          float64 `json:"avg_rating_given"`
	AvgResponseTimeDays     float64 `json:"avg_response_time_days"`
	ReviewsThisMonth        int     `json:"reviews_this_month"`
	StudentsHelpedThisMonth int     `json:"students_helped_this_month"`
}

type RecentReview struct {
	ID              uint   `json:"id"`
	SubmissionTitle string `json:"submission_title"`
	StudentName     string `json:"student_name"`
	Rating          int    `json:"rating"`
	CreatedAt       string `json:"created_at"`
}

type MentorDashboard struct {
	Summary            MentorSummary  `json:"summary"`
	ReviewsTimeline    []MonthCount   `json:"reviews_timeline"`
	LanguageBreakdown  []GroupCount   `json:"language_breakdown"`
	RatingDistribution []RatingCount  `json:"rating_distribution"`
	RecentActivity     []RecentReview `json:"recent_activity"`
}

type AdminSummary struct {
	TotalSubmissions int `json:"total_submissions"`
	TotalReviews     int `json:"total_reviews"`
}

type TopStudent struct {
	Name        string `json:"name"`
	Submissions int    `json:"submissions"`
}

type TopMentor struct {
	Name    string `json:"name"`
	Reviews int    `json:"reviews"`
}

type AdminDashboard struct {
	Summary            AdminSummary `json:"summary"`
	UsersByRole        []RoleCount  `json:"users_by_role"`
	MostActiveStudents []TopStudent `json:"most_active_students"`
	MostActiveMentors  []TopMentor  `json:"most_active_mentors"`
}
