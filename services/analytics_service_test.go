package services

import (
	"testing"
	"time"

	"codereview/constants"
	"codereview/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestAnalyticsService(t *testing.T, now time.Time) *AnalyticsService {
	db := setupTestDB(t)
	quota := NewQuotaService(db)
	quota.Now = fixedClock(now)
	s := NewAnalyticsService(db, quota)
	s.Now = fixedClock(now)
	return s
}

func seedUser(t *testing.T, db *gorm.DB, name string, role int) models.User {
	t.Helper()
	user := models.User{
		Name:   name,
		Email:  name + "@example.com",
		Role:   role,
		Status: constants.UserStatusActive,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedSubmission(t *testing.T, db *gorm.DB, userID uint, language string, createdAt time.Time) models.Submission {
	t.Helper()
	sub := models.Submission{
		UserID:      userID,
		Title:       "submission",
		CodeContent: "print('hi')",
		Language:    language,
		Status:      constants.SubmissionStatusPending,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	require.NoError(t, db.Create(&sub).Error)
	return sub
}

func seedReview(t *testing.T, db *gorm.DB, submissionID, reviewerID uint, rating int, createdAt time.Time) models.Review {
	t.Helper()
	review := models.Review{
		SubmissionID:   submissionID,
		ReviewerID:     reviewerID,
		OverallComment: "looks fine",
		Rating:         rating,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
	require.NoError(t, db.Create(&review).Error)
	return review
}

func TestStudentDashboardZeroState(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s := newTestAnalyticsService(t, now)
	student := seedUser(t, s.DB, "alice", constants.RoleStudent)

	dash, err := s.StudentDashboard(student.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, dash.Summary.TotalSubmissions)
	assert.Equal(t, 0, dash.Summary.TotalReviewsReceived)
	assert.Zero(t, dash.Summary.AvgRating)
	assert.Zero(t, dash.Summary.AvgReviewTimeDays)
	assert.Equal(t, 0, dash.Summary.TotalAIAnalyses)

	// empty, never nil, so the JSON encodes [] instead of null
	assert.NotNil(t, dash.SubmissionsTimeline)
	assert.Empty(t, dash.SubmissionsTimeline)
	assert.NotNil(t, dash.RatingTimeline)
	assert.Empty(t, dash.RatingTimeline)
	assert.NotNil(t, dash.LanguageBreakdown)
	assert.NotNil(t, dash.StatusBreakdown)
	assert.NotNil(t, dash.RecentActivity)
}

func TestStudentDashboardAggregates(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s := newTestAnalyticsService(t, now)
	student := seedUser(t, s.DB, "alice", constants.RoleStudent)
	mentor := seedUser(t, s.DB, "bob", constants.RoleMentor)

	march := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	sub1 := seedSubmission(t, s.DB, student.ID, "go", march)
	seedSubmission(t, s.DB, student.ID, "go", march.AddDate(0, 0, 10))
	sub3 := seedSubmission(t, s.DB, student.ID, "python", time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC))

	// reviewed 2 days and 3 days after submission
	seedReview(t, s.DB, sub1.ID, mentor.ID, 7, sub1.CreatedAt.AddDate(0, 0, 2))
	seedReview(t, s.DB, sub3.ID, mentor.ID, 8, sub3.CreatedAt.AddDate(0, 0, 3))

	dash, err := s.StudentDashboard(student.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, dash.Summary.TotalSubmissions)
	assert.Equal(t, 2, dash.Summary.TotalReviewsReceived)
	assert.Equal(t, 7.5, dash.Summary.AvgRating)
	assert.Equal(t, 2.5, dash.Summary.AvgReviewTimeDays)

	require.Len(t, dash.SubmissionsTimeline, 2)
	assert.Equal(t, "Mar 2025", dash.SubmissionsTimeline[0].Month)
	assert.Equal(t, 2, dash.SubmissionsTimeline[0].Count)
	assert.Equal(t, "Apr 2025", dash.SubmissionsTimeline[1].Month)
	assert.Equal(t, 1, dash.SubmissionsTimeline[1].Count)

	require.Len(t, dash.RatingTimeline, 2)
	assert.Equal(t, "Mar 2025", dash.RatingTimeline[0].Month)
	assert.Equal(t, 7.0, dash.RatingTimeline[0].Rating)
	assert.Equal(t, "Apr 2025", dash.RatingTimeline[1].Month)
	assert.Equal(t, 8.0, dash.RatingTimeline[1].Rating)

	assert.Len(t, dash.RecentActivity, 3)
	// newest first
	assert.Equal(t, sub3.ID, dash.RecentActivity[0].ID)
	assert.Equal(t, 1, dash.RecentActivity[0].ReviewCount)
}

func TestStudentDashboardTimelineWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s := newTestAnalyticsService(t, now)
	student := seedUser(t, s.DB, "alice", constants.RoleStudent)

	// well outside the 180-day window
	seedSubmission(t, s.DB, student.ID, "go", time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC))
	seedSubmission(t, s.DB, student.ID, "go", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))

	dash, err := s.StudentDashboard(student.ID)
	require.NoError(t, err)

	// totals keep everything, the timeline only the recent window
	assert.Equal(t, 2, dash.Summary.TotalSubmissions)
	require.Len(t, dash.SubmissionsTimeline, 1)
	assert.Equal(t, "May 2025", dash.SubmissionsTimeline[0].Month)
}

func TestMentorDashboardMonthBoundary(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s := newTestAnalyticsService(t, now)
	student := seedUser(t, s.DB, "alice", constants.RoleStudent)
	other := seedUser(t, s.DB, "carol", constants.RoleStudent)
	mentor := seedUser(t, s.DB, "bob", constants.RoleMentor)

	sub1 := seedSubmission(t, s.DB, student.ID, "go", time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC))
	sub2 := seedSubmission(t, s.DB, other.ID, "rust", time.Date(2025, 5, 25, 0, 0, 0, 0, time.UTC))

	// 23:59 on May 31 is last month, midnight June 1 is this month
	seedReview(t, s.DB, sub1.ID, mentor.ID, 6, time.Date(2025, 5, 31, 23, 59, 0, 0, time.UTC))
	seedReview(t, s.DB, sub2.ID, mentor.ID, 9, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	dash, err := s.MentorDashboard(mentor.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, dash.Summary.TotalReviewsGiven)
	assert.Equal(t, 2, dash.Summary.StudentsHelped)
	assert.Equal(t, 1, dash.Summary.ReviewsThisMonth)
	assert.Equal(t, 1, dash.Summary.StudentsHelpedThisMonth)
	assert.Equal(t, 7.5, dash.Summary.AvgRatingGiven)

	require.Len(t, dash.RatingDistribution, 2)
	assert.Equal(t, 6, dash.RatingDistribution[0].Rating)
	assert.Equal(t, 9, dash.RatingDistribution[1].Rating)

	require.Len(t, dash.RecentActivity, 2)
	assert.Equal(t, "carol", dash.RecentActivity[0].StudentName)
}

func TestAdminDashboardTopContributors(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s := newTestAnalyticsService(t, now)

	alice := seedUser(t, s.DB, "alice", constants.RoleStudent)
	carol := seedUser(t, s.DB, "carol", constants.RoleStudent)
	mentor := seedUser(t, s.DB, "bob", constants.RoleMentor)
	seedUser(t, s.DB, "root", constants.RoleAdmin)

	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seedSubmission(t, s.DB, alice.ID, "go", base.AddDate(0, 0, i))
	}
	sub := seedSubmission(t, s.DB, carol.ID, "go", base)
	seedReview(t, s.DB, sub.ID, mentor.ID, 8, base.AddDate(0, 0, 1))

	dash, err := s.AdminDashboard()
	require.NoError(t, err)

	assert.Equal(t, 4, dash.Summary.TotalSubmissions)
	assert.Equal(t, 1, dash.Summary.TotalReviews)

	require.Len(t, dash.UsersByRole, 3)
	assert.Equal(t, "student", dash.UsersByRole[0].Role)
	assert.Equal(t, 2, dash.UsersByRole[0].Count)
	assert.Equal(t, "mentor", dash.UsersByRole[1].Role)
	assert.Equal(t, "admin", dash.UsersByRole[2].Role)

	require.Len(t, dash.MostActiveStudents, 2)
	assert.Equal(t, "alice", dash.MostActiveStudents[0].Name)
	assert.Equal(t, 3, dash.MostActiveStudents[0].Submissions)
	assert.Equal(t, "carol", dash.MostActiveStudents[1].Name)

	require.Len(t, dash.MostActiveMentors, 1)
	assert.Equal(t, "bob", dash.MostActiveMentors[0].Name)
	assert.Equal(t, 1, dash.MostActiveMentors[0].Reviews)
}

func TestMonthlyRatingsWindowAndRounding(t *testing.T) {
	windowStart := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []reviewAtRow{
		{Rating: 7, CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
		{Rating: 8, CreatedAt: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)},
		{Rating: 8, CreatedAt: time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)},
		{Rating: 1, CreatedAt: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)},
	}

	out := monthlyRatings(rows, windowStart)
	require.Len(t, out, 1)
	assert.Equal(t, "Feb 2025", out[0].Month)
	assert.Equal(t, 7.67, out[0].Rating)
}

func TestAverageDaysEmpty(t *testing.T) {
	assert.Zero(t, averageDays(nil))
	assert.Zero(t, averageRating(nil))
}
