package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"codereview/config"
	"codereview/constants"
	"codereview/controllers"
	"codereview/dto"
	"codereview/routes"
	"codereview/validator"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type stubAnalyzer struct {
	calls  int
	result dto.AIAnalysisResult
	err    error
}

func (s *stubAnalyzer) AnalyzeCode(ctx context.Context, req dto.AnalyzeRequest) (dto.AIAnalysisResult, error) {
	s.calls++
	if s.err != nil {
		return dto.AIAnalysisResult{}, s.err
	}
	return s.result, nil
}

type envelope struct {
	Code int             `json:"code"`
	Mess string          `json:"mess"`
	Data json.RawMessage `json:"data"`
}

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.MigrateDB(db))

	config.DB = db
	config.RedisClient = nil
	require.NoError(t, validator.RegisterCustomValidations())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	routes.SetupRoutes(router, nil)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func registerAndLogin(t *testing.T, router *gin.Engine, name, role string) string {
	t.Helper()

	email := name + "@example.com"
	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "secret1",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    email,
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.AccessToken)
	return data.AccessToken
}

func createSubmission(t *testing.T, router *gin.Engine, token string) uint {
	t.Helper()

	w, env := doJSON(t, router, http.MethodPost, "/api/v1/submissions", token, gin.H{
		"title":       "Binary search",
		"description": "First attempt",
		"codeContent": "func search() {}",
		"language":    "go",
		"tags":        []string{"algorithms"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var detail dto.SubmissionDetail
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	require.NotZero(t, detail.ID)
	return detail.ID
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	router := setupTestRouter(t)

	_ = registerAndLogin(t, router, "alice", "student")

	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     "alice2",
		"email":    "alice@example.com",
		"password": "secret1",
		"role":     "student",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	router := setupTestRouter(t)
	_ = registerAndLogin(t, router, "alice", "student")

	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrong-pass",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmissionRoleGate(t *testing.T) {
	router := setupTestRouter(t)
	mentorToken := registerAndLogin(t, router, "bob", "mentor")

	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/submissions", mentorToken, gin.H{
		"title":       "x",
		"codeContent": "y",
		"language":    "go",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/submissions", "", gin.H{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReviewFlow(t *testing.T) {
	router := setupTestRouter(t)
	studentToken := registerAndLogin(t, router, "alice", "student")
	mentorToken := registerAndLogin(t, router, "bob", "mentor")

	submissionID := createSubmission(t, router, studentToken)

	w, env := doJSON(t, router, http.MethodPost, "/api/v1/reviews", mentorToken, gin.H{
		"submissionId":   submissionID,
		"overallComment": "Solid work",
		"rating":         7,
		"annotations": []gin.H{
			{"lineNumber": 1, "commentText": "naming could be better"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var review dto.ReviewResponse
	require.NoError(t, json.Unmarshal(env.Data, &review))
	assert.Equal(t, 7, review.Rating)
	assert.Len(t, review.Annotations, 1)

	// reviewing again is a conflict
	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/reviews", mentorToken, gin.H{
		"submissionId":   submissionID,
		"overallComment": "again",
		"rating":         5,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// submission flipped to reviewed
	w, env = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/submissions/%d", submissionID), studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail dto.SubmissionDetail
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, constants.SubmissionStatusReviewed, detail.Status)
	require.Len(t, detail.Reviews, 1)

	// the student got a notification
	w, env = doJSON(t, router, http.MethodGet, "/api/v1/notifications", studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list dto.NotificationList
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 1, list.UnreadCount)
	require.Len(t, list.Notifications, 1)

	w, _ = doJSON(t, router, http.MethodPut,
		fmt.Sprintf("/api/v1/notifications/%d/read", list.Notifications[0].ID), studentToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	_, env = doJSON(t, router, http.MethodGet, "/api/v1/notifications", studentToken, nil)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 0, list.UnreadCount)
}

func TestReviewRatingBounds(t *testing.T) {
	router := setupTestRouter(t)
	studentToken := registerAndLogin(t, router, "alice", "student")
	mentorToken := registerAndLogin(t, router, "bob", "mentor")
	submissionID := createSubmission(t, router, studentToken)

	for _, rating := range []int{0, 11} {
		w, _ := doJSON(t, router, http.MethodPost, "/api/v1/reviews", mentorToken, gin.H{
			"submissionId":   submissionID,
			"overallComment": "x",
			"rating":         rating,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, "rating %d", rating)
	}
}

func TestAnalyticsRoleGates(t *testing.T) {
	router := setupTestRouter(t)
	studentToken := registerAndLogin(t, router, "alice", "student")
	mentorToken := registerAndLogin(t, router, "bob", "mentor")
	adminToken := registerAndLogin(t, router, "root", "admin")

	cases := []struct {
		path    string
		token   string
		expCode int
	}{
		{"/api/v1/analytics/student", studentToken, http.StatusOK},
		{"/api/v1/analytics/student", mentorToken, http.StatusForbidden},
		{"/api/v1/analytics/mentor", mentorToken, http.StatusOK},
		{"/api/v1/analytics/mentor", studentToken, http.StatusForbidden},
		{"/api/v1/analytics/admin", adminToken, http.StatusOK},
		{"/api/v1/analytics/admin", studentToken, http.StatusForbidden},
		{"/api/v1/analytics/admin", mentorToken, http.StatusForbidden},
	}
	for _, tc := range cases {
		w, _ := doJSON(t, router, http.MethodGet, tc.path, tc.token, nil)
		assert.Equal(t, tc.expCode, w.Code, tc.path)
	}
}

func TestStudentDashboardReflectsReview(t *testing.T) {
	router := setupTestRouter(t)
	studentToken := registerAndLogin(t, router, "alice", "student")
	mentorToken := registerAndLogin(t, router, "bob", "mentor")
	submissionID := createSubmission(t, router, studentToken)

	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/reviews", mentorToken, gin.H{
		"submissionId":   submissionID,
		"overallComment": "Solid",
		"rating":         7,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := doJSON(t, router, http.MethodGet, "/api/v1/analytics/student", studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var dash dto.StudentDashboard
	require.NoError(t, json.Unmarshal(env.Data, &dash))
	assert.Equal(t, 1, dash.Summary.TotalSubmissions)
	assert.Equal(t, 1, dash.Summary.TotalReviewsReceived)
	assert.Equal(t, 7.0, dash.Summary.AvgRating)
}

func TestAnalyzeQuotaLifecycle(t *testing.T) {
	router := setupTestRouter(t)
	studentToken := registerAndLogin(t, router, "alice", "student")

	stub := &stubAnalyzer{result: dto.AIAnalysisResult{
		OverallScore: 8,
		Summary:      "Fine.",
		Issues:       []dto.AIIssue{},
	}}
	controllers.SetAnalyzer(stub)

	body := gin.H{"code": "print(1)", "language": "python"}

	for i := 0; i < constants.AIAnalysisDailyLimit; i++ {
		w, env := doJSON(t, router, http.MethodPost, "/api/v1/ai/analyze", studentToken, body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp dto.AnalyzeResponse
		require.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, constants.AIAnalysisDailyLimit-i-1, resp.RemainingAnalysesToday)
		assert.Equal(t, 8, resp.OverallScore)
	}
	assert.Equal(t, constants.AIAnalysisDailyLimit, stub.calls)

	// the call over the limit never reaches the provider
	w, env := doJSON(t, router, http.MethodPost, "/api/v1/ai/analyze", studentToken, body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, constants.AIAnalysisDailyLimit, stub.calls)

	var quota dto.QuotaStatus
	require.NoError(t, json.Unmarshal(env.Data, &quota))
	assert.Equal(t, 0, quota.RemainingToday)

	// the ledger was not pushed past the cap
	w, env = doJSON(t, router, http.MethodGet, "/api/v1/ai/quota", studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &quota))
	assert.Equal(t, constants.AIAnalysisDailyLimit, quota.UsedToday)
	assert.Equal(t, 0, quota.RemainingToday)
}

func TestAnalyzeProviderFailureStillConsumesQuota(t *testing.T) {
	router := setupTestRouter(t)
	studentToken := registerAndLogin(t, router, "alice", "student")

	controllers.SetAnalyzer(&stubAnalyzer{err: fmt.Errorf("provider down")})

	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/ai/analyze", studentToken, gin.H{
		"code":     "print(1)",
		"language": "python",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w, env := doJSON(t, router, http.MethodGet, "/api/v1/ai/quota", studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var quota dto.QuotaStatus
	require.NoError(t, json.Unmarshal(env.Data, &quota))
	assert.Equal(t, 1, quota.UsedToday)
	assert.Equal(t, constants.AIAnalysisDailyLimit-1, quota.RemainingToday)
}

func TestAnalyzeRejectsBlankCode(t *testing.T) {
	router := setupTestRouter(t)
	studentToken := registerAndLogin(t, router, "alice", "student")

	stub := &stubAnalyzer{}
	controllers.SetAnalyzer(stub)

	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/ai/analyze", studentToken, gin.H{
		"code":     "   ",
		"language": "python",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, stub.calls)

	// a rejected request must not consume quota
	_, env := doJSON(t, router, http.MethodGet, "/api/v1/ai/quota", studentToken, nil)
	var quota dto.QuotaStatus
	require.NoError(t, json.Unmarshal(env.Data, &quota))
	assert.Equal(t, 0, quota.UsedToday)
}

func TestSubmissionListScoping(t *testing.T) {
	router := setupTestRouter(t)
	aliceToken := registerAndLogin(t, router, "alice", "student")
	carolToken := registerAndLogin(t, router, "carol", "student")
	mentorToken := registerAndLogin(t, router, "bob", "mentor")

	aliceSub := createSubmission(t, router, aliceToken)
	_ = createSubmission(t, router, carolToken)

	// students only see their own rows
	w, env := doJSON(t, router, http.MethodGet, "/api/v1/submissions", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []dto.SubmissionListItem
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, aliceSub, items[0].ID)
	assert.Nil(t, items[0].User)

	// mentors see everything with owner info
	w, env = doJSON(t, router, http.MethodGet, "/api/v1/submissions", mentorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Len(t, items, 2)
	require.NotNil(t, items[0].User)

	// a student cannot open someone else's submission
	w, _ = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/submissions/%d", aliceSub), carolToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTagsEndpoint(t *testing.T) {
	router := setupTestRouter(t)
	studentToken := registerAndLogin(t, router, "alice", "student")
	_ = createSubmission(t, router, studentToken)

	w, env := doJSON(t, router, http.MethodGet, "/api/v1/tags", studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tags []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tags))
	require.Len(t, tags, 1)
	assert.Equal(t, "algorithms", tags[0].Name)
}

func TestAdminUserManagement(t *testing.T) {
	router := setupTestRouter(t)
	_ = registerAndLogin(t, router, "alice", "student")
	adminToken := registerAndLogin(t, router, "root", "admin")

	w, env := doJSON(t, router, http.MethodGet, "/api/v1/users?role=student", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var users []dto.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &users))
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Name)

	w, _ = doJSON(t, router, http.MethodPut, "/api/v1/userStatus", adminToken, gin.H{
		"userId": users[0].ID,
		"status": constants.UserStatusInactive,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// deactivated accounts cannot log in
	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
