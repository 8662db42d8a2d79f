package services

import (
	"math"
	"sort"
	"time"

	"codereview/constants"
	"codereview/dto"
	"codereview/models"

	"gorm.io/gorm"
)

// trailing window for the timeline charts
const timelineWindowDays = 180

// AnalyticsService computes the role-scoped dashboard summaries. Every view
// is recomputed from current data on each call; nothing is persisted. Now is
// injectable so month/day boundaries are deterministic in tests.
type AnalyticsService struct {
	DB    *gorm.DB
	Quota *QuotaService
	Now   func() time.Time
}

func NewAnalyticsService(db *gorm.DB, quota *QuotaService) *AnalyticsService {
	return &AnalyticsService{
		DB:    db,
		Quota: quota,
		Now:   time.Now,
	}
}

type reviewAtRow struct {
	Rating    int
	CreatedAt time.Time
}

type latencyRow struct {
	ReviewedAt  time.Time
	SubmittedAt time.Time
}

// StudentDashboard aggregates the caller's own submissions and the reviews
// they received.
func (s *AnalyticsService) StudentDashboard(userID uint) (dto.StudentDashboard, error) {
	windowStart := s.Now().UTC().AddDate(0, 0, -timelineWindowDays)

	var totalSubmissions int64
	if err := s.DB.Model(&models.Submission{}).
		Where("user_id = ?", userID).
		Count(&totalSubmissions).Error; err != nil {
		return dto.StudentDashboard{}, err
	}

	var totalReviews int64
	if err := s.DB.Model(&models.Review{}).
		Joins("JOIN submissions ON submissions.id = reviews.submission_id").
		Where("submissions.user_id = ?", userID).
		Count(&totalReviews).Error; err != nil {
		return dto.StudentDashboard{}, err
	}

	var submissionTimes []time.Time
	if err := s.DB.Model(&models.Submission{}).
		Where("user_id = ? AND created_at >= ?", userID, windowStart).
		Order("created_at ASC").
		Pluck("created_at", &submissionTimes).Error; err != nil {
		return dto.StudentDashboard{}, err
	}

	languages, err := s.submissionGroupCounts("language", "submissions.user_id = ?", userID)
	if err != nil {
		return dto.StudentDashboard{}, err
	}

	statuses := make([]dto.StatusCount, 0)
	if err := s.DB.Model(&models.Submission{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&statuses).Error; err != nil {
		return dto.StudentDashboard{}, err
	}

	var received []reviewAtRow
	if err := s.DB.Model(&models.Review{}).
		Select("reviews.rating AS rating, reviews.created_at AS created_at").
		Joins("JOIN submissions ON submissions.id = reviews.submission_id").
		Where("submissions.user_id = ?", userID).
		Scan(&received).Error; err != nil {
		return dto.StudentDashboard{}, err
	}

	var latencies []latencyRow
	if err := s.DB.Model(&models.Review{}).
		Select("reviews.created_at AS reviewed_at, submissions.created_at AS submitted_at").
		Joins("JOIN submissions ON submissions.id = reviews.submission_id").
		Where("submissions.user_id = ?", userID).
		Scan(&latencies).Error; err != nil {
		return dto.StudentDashboard{}, err
	}

	totalAI, err := s.Quota.TotalUsage(userID)
	if err != nil {
		return dto.StudentDashboard{}, err
	}

	recent, err := s.recentSubmissions(userID)
	if err != nil {
		return dto.StudentDashboard{}, err
	}

	return dto.StudentDashboard{
		Summary: dto.StudentSummary{
			TotalSubmissions:     int(totalSubmissions),
			TotalReviewsReceived: int(totalReviews),
			AvgRating:            round2(averageRating(received)),
			AvgReviewTimeDays:    round1(averageDays(latencies)),
			TotalAIAnalyses:      totalAI,
		},
		SubmissionsTimeline: monthlyCounts(submissionTimes),
		RatingTimeline:      monthlyRatings(received, windowStart),
		LanguageBreakdown:   languages,
		StatusBreakdown:     statuses,
		RecentActivity:      recent,
	}, nil
}

// MentorDashboard aggregates the reviews the caller has authored.
func (s *AnalyticsService) MentorDashboard(userID uint) (dto.MentorDashboard, error) {
	now := s.Now().UTC()
	windowStart := now.AddDate(0, 0, -timelineWindowDays)
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var totalReviews int64
	if err := s.DB.Model(&models.Review{}).
		Where("reviewer_id = ?", userID).
		Count(&totalReviews).Error; err != nil {
		return dto.MentorDashboard{}, err
	}

	var studentsHelped int64
	if err := s.DB.Model(&models.Review{}).
		Joins("JOIN submissions ON submissions.id = reviews.submission_id").
		Where("reviews.reviewer_id = ?", userID).
		Distinct("submissions.user_id").
		Count(&studentsHelped).Error; err != nil {
		return dto.MentorDashboard{}, err
	}

	var reviewTimes []time.Time
	if err := s.DB.Model(&models.Review{}).
		Where("reviewer_id = ? AND created_at >= ?", userID, windowStart).
		Order("created_at ASC").
		Pluck("created_at", &reviewTimes).Error; err != nil {
		return dto.MentorDashboard{}, err
	}

	languages, err := s.reviewedLanguageCounts(userID)
	if err != nil {
		return dto.MentorDashboard{}, err
	}

	var given []reviewAtRow
	if err := s.DB.Model(&models.Review{}).
		Select("rating, created_at").
		Where("reviewer_id = ?", userID).
		Scan(&given).Error; err != nil {
		return dto.MentorDashboard{}, err
	}

	distribution := make([]dto.RatingCount, 0)
	if err := s.DB.Model(&models.Review{}).
		Select("rating, COUNT(*) AS count").
		Where("reviewer_id = ?", userID).
		Group("rating").
		Order("rating ASC").
		Scan(&distribution).Error; err != nil {
		return dto.MentorDashboard{}, err
	}

	var latencies []latencyRow
	if err := s.DB.Model(&models.Review{}).
		Select("reviews.created_at AS reviewed_at, submissions.created_at AS submitted_at").
		Joins("JOIN submissions ON submissions.id = reviews.submission_id").
		Where("reviews.reviewer_id = ?", userID).
		Scan(&latencies).Error; err != nil {
		return dto.MentorDashboard{}, err
	}

	var reviewsThisMonth int64
	if err := s.DB.Model(&models.Review{}).
		Where("reviewer_id = ? AND created_at >= ?", userID, firstOfMonth).
		Count(&reviewsThisMonth).Error; err != nil {
		return dto.MentorDashboard{}, err
	}

	var studentsThisMonth int64
	if err := s.DB.Model(&models.Review{}).
		Joins("JOIN submissions ON submissions.id = reviews.submission_id").
		Where("reviews.reviewer_id = ? AND reviews.created_at >= ?", userID, firstOfMonth).
		Distinct("submissions.user_id").
		Count(&studentsThisMonth).Error; err != nil {
		return dto.MentorDashboard{}, err
	}

	recent, err := s.recentReviews(userID)
	if err != nil {
		return dto.MentorDashboard{}, err
	}

	return dto.MentorDashboard{
		Summary: dto.MentorSummary{
			TotalReviewsGiven:       int(totalReviews),
			StudentsHelped:          int(studentsHelped),
			AvgRatingGiven:          round2(averageRating(given)),
			AvgResponseTimeDays:     round1(averageDays(latencies)),
			ReviewsThisMonth:        int(reviewsThisMonth),
			StudentsHelpedThisMonth: int(studentsThisMonth),
		},
		ReviewsTimeline:    monthlyCounts(reviewTimes),
		LanguageBreakdown:  languages,
		RatingDistribution: distribution,
		RecentActivity:     recent,
	}, nil
}

// AdminDashboard aggregates platform-wide totals and top contributors.
func (s *AnalyticsService) AdminDashboard() (dto.AdminDashboard, error) {
	type roleRow struct {
		Role  int
		Count int
	}
	var roleRows []roleRow
	if err := s.DB.Model(&models.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Order("role ASC").
		Scan(&roleRows).Error; err != nil {
		return dto.AdminDashboard{}, err
	}
	usersByRole := make([]dto.RoleCount, 0, len(roleRows))
	for _, row := range roleRows {
		usersByRole = append(usersByRole, dto.RoleCount{
			Role:  constants.RoleName(row.Role),
			Count: row.Count,
		})
	}

	var totalSubmissions, totalReviews int64
	if err := s.DB.Model(&models.Submission{}).Count(&totalSubmissions).Error; err != nil {
		return dto.AdminDashboard{}, err
	}
	if err := s.DB.Model(&models.Review{}).Count(&totalReviews).Error; err != nil {
		return dto.AdminDashboard{}, err
	}

	topStudents := make([]dto.TopStudent, 0)
	if err := s.DB.Model(&models.User{}).
		Select("users.name AS name, COUNT(submissions.id) AS submissions").
		Joins("JOIN submissions ON submissions.user_id = users.id").
		Group("users.id, users.name").
		Order("COUNT(submissions.id) DESC, users.id ASC").
		Limit(5).
		Scan(&topStudents).Error; err != nil {
		return dto.AdminDashboard{}, err
	}

	topMentors := make([]dto.TopMentor, 0)
	if err := s.DB.Model(&models.User{}).
		Select("users.name AS name, COUNT(reviews.id) AS reviews").
		Joins("JOIN reviews ON reviews.reviewer_id = users.id").
		Group("users.id, users.name").
		Order("COUNT(reviews.id) DESC, users.id ASC").
		Limit(5).
		Scan(&topMentors).Error; err != nil {
		return dto.AdminDashboard{}, err
	}

	return dto.AdminDashboard{
		Summary: dto.AdminSummary{
			TotalSubmissions: int(totalSubmissions),
			TotalReviews:     int(totalReviews),
		},
		UsersByRole:        usersByRole,
		MostActiveStudents: topStudents,
		MostActiveMentors:  topMentors,
	}, nil
}

func (s *AnalyticsService) submissionGroupCounts(column string, cond string, args ...interface{}) ([]dto.GroupCount, error) {
	out := make([]dto.GroupCount, 0)
	err := s.DB.Model(&models.Submission{}).
		Select(column+" AS name, COUNT(*) AS count").
		Where(cond, args...).
		Group(column).
		Scan(&out).Error
	return out, err
}

func (s *AnalyticsService) reviewedLanguageCounts(reviewerID uint) ([]dto.GroupCount, error) {
	out := make([]dto.GroupCount, 0)
	err := s.DB.Model(&models.Review{}).
		Select("submissions.language AS name, COUNT(*) AS count").
		Joins("JOIN submissions ON submissions.id = reviews.submission_id").
		Where("reviews.reviewer_id = ?", reviewerID).
		Group("submissions.language").
		Scan(&out).Error
	return out, err
}

func (s *AnalyticsService) recentSubmissions(userID uint) ([]dto.RecentSubmission, error) {
	var submissions []models.Submission
	if err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(5).
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	recent := make([]dto.RecentSubmission, 0, len(submissions))
	for _, sub := range submissions {
		var reviewCount int64
		if err := s.DB.Model(&models.Review{}).
			Where("submission_id = ?", sub.ID).
			Count(&reviewCount).Error; err != nil {
			return nil, err
		}
		recent = append(recent, dto.RecentSubmission{
			ID:          sub.ID,
			Title:       sub.Title,
			Language:    sub.Language,
			Status:      sub.Status,
			ReviewCount: int(reviewCount),
			CreatedAt:   sub.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return recent, nil
}

func (s *AnalyticsService) recentReviews(reviewerID uint) ([]dto.RecentReview, error) {
	var reviews []models.Review
	if err := s.DB.Where("reviewer_id = ?", reviewerID).
		Order("created_at DESC").
		Limit(5).
		Find(&reviews).Error; err != nil {
		return nil, err
	}

	recent := make([]dto.RecentReview, 0, len(reviews))
	for _, review := range reviews {
		title := "Unknown"
		studentName := "Unknown"

		var submission models.Submission
		if err := s.DB.First(&submission, review.SubmissionID).Error; err == nil {
			title = submission.Title
			var student models.User
			if err := s.DB.First(&student, submission.UserID).Error; err == nil {
				studentName = student.Name
			}
		}

		recent = append(recent, dto.RecentReview{
			ID:              review.ID,
			SubmissionTitle: title,
			StudentName:     studentName,
			Rating:          review.Rating,
			CreatedAt:       review.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return recent, nil
}

// monthlyCounts collapses timestamps into sparse, chronologically ordered
// calendar-month buckets. Months without activity are omitted.
func monthlyCounts(times []time.Time) []dto.MonthCount {
	buckets := make(map[time.Time]int)
	for _, t := range times {
		t = t.UTC()
		buckets[time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)]++
	}

	keys := make([]time.Time, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	out := make([]dto.MonthCount, 0, len(keys))
	for _, k := range keys {
		out = append(out, dto.MonthCount{
			Month: k.Format("Jan 2006"),
			Count: buckets[k],
		})
	}
	return out
}

// monthlyRatings averages ratings per calendar month inside the window,
// sparse and chronological like monthlyCounts.
func monthlyRatings(rows []reviewAtRow, windowStart time.Time) []dto.MonthRating {
	type agg struct {
		sum   int
		count int
	}
	buckets := make(map[time.Time]*agg)
	for _, row := range rows {
		t := row.CreatedAt.UTC()
		if t.Before(windowStart) {
			continue
		}
		key := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		if buckets[key] == nil {
			buckets[key] = &agg{}
		}
		buckets[key].sum += row.Rating
		buckets[key].count++
	}

	keys := make([]time.Time, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	out := make([]dto.MonthRating, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		out = append(out, dto.MonthRating{
			Month:  k.Format("Jan 2006"),
			Rating: round2(float64(b.sum) / float64(b.count)),
		})
	}
	return out
}

func averageRating(rows []reviewAtRow) float64 {
	if len(rows) == 0 {
		return 0
	}
	sum := 0
	for _, row := range rows {
		sum += row.Rating
	}
	return float64(sum) / float64(len(rows))
}

// averageDays computes the mean review latency in days. No rows means 0,
// never an error.
func averageDays(rows []latencyRow) float64 {
	if len(rows) == 0 {
		return 0
	}
	var total float64
	for _, row := range rows {
		total += row.ReviewedAt.Sub(row.SubmittedAt).Hours() / 24
	}
	return total / float64(len(rows))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
