package controllers

import (
	"strconv"
	"strings"

	"codereview/config"
	"codereview/constants"
	"codereview/dto"
	apperrors "codereview/errors"
	"codereview/middleware"
	"codereview/models"
	"codereview/response"
	"codereview/utils"
	"codereview/validator"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/gin-gonic/gin"
	"github.com/schollz/closestmatch"
	"github.com/texttheater/golang-levenshtein/levenshtein"
	"gorm.io/gorm"
)

const tagCacheKey = "tags:all"

func normalizeString(input string) string {
	return strings.ToLower(strings.TrimSpace(unidecode.Unidecode(input)))
}

// fuzzySubmissionIDs matches a search phrase against submission titles.
// Exact substring hits always qualify, then closestmatch widens the net and
// levenshtein trims matches that drifted too far.
func fuzzySubmissionIDs(query string, candidates []models.Submission) []uint {
	normQuery := normalizeString(query)

	titles := make([]string, 0, len(candidates))
	byTitle := make(map[string][]uint, len(candidates))
	ids := make([]uint, 0)
	seen := make(map[uint]bool)

	for _, s := range candidates {
		normTitle := normalizeString(s.Title)
		titles = append(titles, normTitle)
		byTitle[normTitle] = append(byTitle[normTitle], s.ID)

		if strings.Contains(normTitle, normQuery) {
			if !seen[s.ID] {
				seen[s.ID] = true
				ids = append(ids, s.ID)
			}
		}
	}

	cm := closestmatch.New(titles, []int{2, 3, 4})
	for _, match := range cm.ClosestN(normQuery, 10) {
		distance := levenshtein.DistanceForStrings([]rune(normQuery), []rune(match), levenshtein.DefaultOptions)
		maxLen := len([]rune(match))
		if qLen := len([]rune(normQuery)); qLen > maxLen {
			maxLen = qLen
		}
		if maxLen == 0 || float64(distance)/float64(maxLen) > 0.6 {
			continue
		}
		for _, id := range byTitle[match] {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	return ids
}

func getOrCreateTags(names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		var tag models.Tag
		if err := config.DB.Where("name = ?", name).FirstOrCreate(&tag, models.Tag{Name: name}).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// CreateSubmission creates a code submission for the authenticated student.
func CreateSubmission(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	var input dto.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	title, err := validator.SanitizeText(input.Title, validator.MaxTitleLength)
	if err != nil {
		respondAppError(c, err)
		return
	}
	description, err := validator.SanitizeText(input.Description, validator.MaxDescriptionLength)
	if err != nil {
		respondAppError(c, err)
		return
	}
	if err := validator.ValidateCodeContent(input.CodeContent); err != nil {
		respondAppError(c, err)
		return
	}

	tags, err := getOrCreateTags(input.Tags)
	if err != nil {
		response.ServerError(c)
		return
	}

	submission := models.Submission{
		UserID:      userID,
		Title:       title,
		Description: description,
		CodeContent: input.CodeContent,
		Language:    strings.ToLower(input.Language),
		Status:      constants.SubmissionStatusPending,
		Tags:        tags,
	}
	if err := config.DB.Create(&submission).Error; err != nil {
		response.ServerError(c)
		return
	}

	invalidateTagCache()

	utils.LogInfo("Submission created: submission_id=%d, user_id=%d", submission.ID, userID)
	response.Created(c, toSubmissionDetail(submission))
}

// GetSubmissions lists submissions. Students see only their own, mentors
// and admins see everyone's along with the owner info.
func GetSubmissions(c *gin.Context) {
	userID, role, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := config.DB.Model(&models.Submission{})
	if role == constants.RoleStudent {
		query = query.Where("user_id = ?", userID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if language := c.Query("language"); language != "" {
		query = query.Where("language = ?", strings.ToLower(language))
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		var candidates []models.Submission
		if err := query.Session(&gorm.Session{}).Select("id", "title").Find(&candidates).Error; err != nil {
			response.ServerError(c)
			return
		}
		matched := fuzzySubmissionIDs(search, candidates)
		if len(matched) == 0 {
			response.SuccessWithPagination(c, make([]dto.SubmissionListItem, 0), page, limit, 0)
			return
		}
		query = query.Where("id IN ?", matched)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		response.ServerError(c)
		return
	}

	var submissions []models.Submission
	if err := query.Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&submissions).Error; err != nil {
		response.ServerError(c)
		return
	}

	counts, err := reviewCountsFor(submissions)
	if err != nil {
		response.ServerError(c)
		return
	}

	items := make([]dto.SubmissionListItem, 0, len(submissions))
	for _, s := range submissions {
		item := dto.SubmissionListItem{
			ID:          s.ID,
			Title:       s.Title,
			Language:    s.Language,
			Status:      s.Status,
			ReviewCount: counts[s.ID],
			CreatedAt:   s.CreatedAt,
		}
		if role != constants.RoleStudent {
			item.User = &dto.UserInfo{ID: s.User.ID, Name: s.User.Name, Avatar: s.User.Avatar}
		}
		items = append(items, item)
	}

	response.SuccessWithPagination(c, items, page, limit, int(total))
}

func reviewCountsFor(submissions []models.Submission) (map[uint]int, error) {
	counts := make(map[uint]int, len(submissions))
	if len(submissions) == 0 {
		return counts, nil
	}

	ids := make([]uint, 0, len(submissions))
	for _, s := range submissions {
		ids = append(ids, s.ID)
	}

	type countRow struct {
		SubmissionID uint
		Total        int
	}
	var rows []countRow
	err := config.DB.Model(&models.Review{}).
		Select("submission_id, COUNT(*) AS total").
		Where("submission_id IN ?", ids).
		Group("submission_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.SubmissionID] = row.Total
	}
	return counts, nil
}

// GetSubmissionDetail returns one submission with its reviews and tags.
func GetSubmissionDetail(c *gin.Context) {
	userID, role, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid submission id.")
		return
	}

	var submission models.Submission
	err = config.DB.
		Preload("User").
		Preload("Tags").
		Preload("Reviews.Reviewer").
		Preload("Reviews.Annotations").
		First(&submission, id).Error
	if err != nil {
		response.NotFound(c)
		return
	}

	if role == constants.RoleStudent && submission.UserID != userID {
		response.Forbidden(c)
		return
	}

	response.Success(c, toSubmissionDetail(submission))
}

// UpdateSubmission edits a pending submission. Only the owner may edit, and
// only while no review exists yet.
func UpdateSubmission(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid submission id.")
		return
	}

	var submission models.Submission
	if err := config.DB.First(&submission, id).Error; err != nil {
		response.NotFound(c)
		return
	}
	if submission.UserID != userID {
		response.Forbidden(c)
		return
	}
	if submission.Status != constants.SubmissionStatusPending {
		response.BadRequest(c, "Reviewed submissions can no longer be edited.")
		return
	}

	var input dto.UpdateSubmissionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		title, err := validator.SanitizeText(*input.Title, validator.MaxTitleLength)
		if err != nil {
			respondAppError(c, err)
			return
		}
		updates["title"] = title
	}
	if input.Description != nil {
		description, err := validator.SanitizeText(*input.Description, validator.MaxDescriptionLength)
		if err != nil {
			respondAppError(c, err)
			return
		}
		updates["description"] = description
	}
	if input.CodeContent != nil {
		if err := validator.ValidateCodeContent(*input.CodeContent); err != nil {
			respondAppError(c, err)
			return
		}
		updates["code_content"] = *input.CodeContent
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&submission).Updates(updates).Error; err != nil {
			response.ServerError(c)
			return
		}
	}

	response.Success(c, toSubmissionDetail(submission))
}

// DeleteSubmission removes a pending submission owned by the caller. Admins
// may remove any submission.
func DeleteSubmission(c *gin.Context) {
	userID, role, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid submission id.")
		return
	}

	var submission models.Submission
	if err := config.DB.First(&submission, id).Error; err != nil {
		response.NotFound(c)
		return
	}

	if role != constants.RoleAdmin {
		if submission.UserID != userID {
			response.Forbidden(c)
			return
		}
		if submission.Status != constants.SubmissionStatusPending {
			response.BadRequest(c, "Reviewed submissions can no longer be deleted.")
			return
		}
	}

	if err := config.DB.Model(&submission).Association("Tags").Clear(); err != nil {
		response.ServerError(c)
		return
	}
	if err := config.DB.Delete(&submission).Error; err != nil {
		response.ServerError(c)
		return
	}

	utils.LogInfo("Submission deleted: submission_id=%d, by_user_id=%d", submission.ID, userID)
	response.Success(c, gin.H{"message": "Submission deleted."})
}

func toSubmissionDetail(submission models.Submission) dto.SubmissionDetail {
	tags := make([]string, 0, len(submission.Tags))
	for _, tag := range submission.Tags {
		tags = append(tags, tag.Name)
	}

	reviews := make([]dto.ReviewResponse, 0, len(submission.Reviews))
	for _, review := range submission.Reviews {
		reviews = append(reviews, toReviewResponse(review))
	}

	return dto.SubmissionDetail{
		ID:          submission.ID,
		Title:       submission.Title,
		Description: submission.Description,
		CodeContent: submission.CodeContent,
		Language:    submission.Language,
		Status:      submission.Status,
		Tags:        tags,
		User: dto.UserInfo{
			ID:     submission.User.ID,
			Name:   submission.User.Name,
			Avatar: submission.User.Avatar,
		},
		Reviews:   reviews,
		CreatedAt: submission.CreatedAt,
		UpdatedAt: submission.UpdatedAt,
	}
}

func respondAppError(c *gin.Context, err error) {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		response.BadRequest(c, appErr.Message)
		return
	}
	response.BadRequest(c, err.Error())
}
