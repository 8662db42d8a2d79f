package services

import (
	"time"

	"codereview/dto"
	"codereview/errors"
	"codereview/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuotaService owns the AI analysis usage ledger: one row per (user, UTC
// day) with a counter that only ever goes up. Now is injectable so day
// boundaries are deterministic in tests.
type QuotaService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewQuotaService(db *gorm.DB) *QuotaService {
	return &QuotaService{
		DB:  db,
		Now: time.Now,
	}
}

// Today returns the current UTC calendar day in ledger format.
func (s *QuotaService) Today() string {
	return s.Now().UTC().Format("2006-01-02")
}

// GetOrCreateUsage returns the ledger row for (userID, day), creating it
// with count 0 when absent. The insert rides on the (user_id, date) unique
// index with ON CONFLICT DO NOTHING, so concurrent callers cannot create
// duplicates; the follow-up read returns whichever row won.
func (s *QuotaService) GetOrCreateUsage(userID uint, day string) (models.AIAnalysisUsage, error) {
	attempt := models.AIAnalysisUsage{UserID: userID, Date: day}
	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(&attempt).Error; err != nil {
		return models.AIAnalysisUsage{}, err
	}

	var usage models.AIAnalysisUsage
	if err := s.DB.Where("user_id = ? AND date = ?", userID, day).First(&usage).Error; err != nil {
		return models.AIAnalysisUsage{}, err
	}
	return usage, nil
}

// Increment adds one to the row's counter and refreshes its timestamp.
func (s *QuotaService) Increment(usage *models.AIAnalysisUsage) error {
	if err := s.DB.Model(usage).UpdateColumns(map[string]interface{}{
		"count":      gorm.Expr("count + 1"),
		"updated_at": s.Now().UTC(),
	}).Error; err != nil {
		return err
	}
	return s.DB.First(usage, usage.ID).Error
}

// CheckAndReserve consumes one analysis slot for today if the daily cap has
// not been reached. The check and the increment are a single conditional
// UPDATE guarded by count < limit, so two racing requests can never push the
// counter past the cap. When the cap is hit nothing is mutated and
// errors.ErrQuotaExceeded is returned with remaining 0.
func (s *QuotaService) CheckAndReserve(userID uint, limit int) (bool, int, error) {
	day := s.Today()
	if _, err := s.GetOrCreateUsage(userID, day); err != nil {
		return false, 0, err
	}

	res := s.DB.Model(&models.AIAnalysisUsage{}).
		Where("user_id = ? AND date = ? AND count < ?", userID, day, limit).
		Updates(map[string]interface{}{
			"count":      gorm.Expr("count + 1"),
			"updated_at": s.Now().UTC(),
		})
	if res.Error != nil {
		return false, 0, res.Error
	}
	if res.RowsAffected == 0 {
		return false, 0, errors.ErrQuotaExceeded
	}

	var after models.AIAnalysisUsage
	if err := s.DB.Where("user_id = ? AND date = ?", userID, day).First(&after).Error; err != nil {
		return true, 0, err
	}

	remaining := limit - after.Count
	if remaining < 0 {
		remaining = 0
	}
	return true, remaining, nil
}

// Status reports today's usage without consuming a slot. The day row is
// still lazily created so the caller always gets a concrete row back.
func (s *QuotaService) Status(userID uint, limit int) (dto.QuotaStatus, error) {
	day := s.Today()
	usage, err := s.GetOrCreateUsage(userID, day)
	if err != nil {
		return dto.QuotaStatus{}, err
	}

	remaining := limit - usage.Count
	if remaining < 0 {
		remaining = 0
	}
	return dto.QuotaStatus{
		TotalLimit:     limit,
		UsedToday:      usage.Count,
		RemainingToday: remaining,
		Date:           day,
	}, nil
}

// TotalUsage sums the user's counters across all days, for the student
// dashboard.
func (s *QuotaService) TotalUsage(userID uint) (int, error) {
	var total int64
	err := s.DB.Model(&models.AIAnalysisUsage{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(count), 0)").
		Scan(&total).Error
	return int(total), err
}
