package dto

type AnalyzeRequest struct {
	Code        string `json:"code" binding:"required"`
	Language    string `json:"language" binding:"required,language"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type AIIssue struct {
	Line       *int   `json:"line"`
	Severity   string `json:"severity"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

// AIAnalysisResult is the provider's structured verdict.
type AIAnalysisResult struct {
	OverallScore int       `json:"overall_score"`
	Summary      string    `json:"summary"`
	Issues       []AIIssue `json:"issues"`
	AnalysisTime float64   `json:"analysis_time"`
}

type AnalyzeResponse struct {
	OverallScore           int       `json:"overall_score"`
	Summary                string    `json:"summary"`
	Issues                 []AIIssue `json:"issues"`
	AnalysisTime           float64   `json:"analysis_time"`
	RemainingAnalysesToday int       `json:"remaining_analyses_today"`
}

type QuotaStatus struct {
	TotalLimit     int    `json:"total_limit"`
	UsedToday      int    `json:"used_today"`
	RemainingToday int    `json:"remaining_today"`
	Date           string `json:"date"`
}
