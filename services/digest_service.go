package services

import (
	"time"

	"codereview/constants"
	"codereview/models"
	"codereview/services/logger"
	"codereview/services/notification"

	"gorm.io/gorm"
)

// stale threshold for the daily digest
const pendingDigestAge = 72 * time.Hour

// DigestService runs the daily mentor digest: it counts submissions that
// have sat in pending for too long, writes a Notification row for every
// active mentor and broadcasts over the websocket hub.
type DigestService struct {
	DB       *gorm.DB
	Notifier notification.Service
	Logger   logger.Logger
	Now      func() time.Time
}

type DigestServiceOptions struct {
	DB       *gorm.DB
	Notifier notification.Service
	Logger   logger.Logger
}

func NewDigestService(opts DigestServiceOptions) *DigestService {
	l := opts.Logger
	if l == nil {
		l = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &DigestService{
		DB:       opts.DB,
		Notifier: opts.Notifier,
		Logger:   l,
		Now:      time.Now,
	}
}

// RunDailyDigest executes one digest pass. It is a no-op when nothing is
// stale.
func (s *DigestService) RunDailyDigest() error {
	cutoff := s.Now().UTC().Add(-pendingDigestAge)

	var pendingCount int64
	if err := s.DB.Model(&models.Submission{}).
		Where("status = ? AND created_at < ?", constants.SubmissionStatusPending, cutoff).
		Count(&pendingCount).Error; err != nil {
		return err
	}
	if pendingCount == 0 {
		return nil
	}

	var mentors []models.User
	if err := s.DB.Where("role = ? AND status = ?", constants.RoleMentor, constants.UserStatusActive).
		Find(&mentors).Error; err != nil {
		return err
	}

	message := notification.DigestMessage(int(pendingCount))
	for _, mentor := range mentors {
		row := models.Notification{
			UserID:  mentor.ID,
			Message: message,
		}
		if err := s.DB.Create(&row).Error; err != nil {
			s.Logger.Error("Failed to store digest notification for user %d: %v", mentor.ID, err)
		}
	}

	if s.Notifier != nil {
		if err := s.Notifier.SendMessage(message); err != nil {
			s.Logger.Error("Failed to broadcast digest: %v", err)
		}
	}

	s.Logger.Info("Daily digest sent to %d mentors (%d stale submissions)", len(mentors), pendingCount)
	return nil
}
