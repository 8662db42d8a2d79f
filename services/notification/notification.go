package notification

import (
	"fmt"

	"github.com/olahol/melody"
)

// Service pushes notification messages to connected clients.
type Service interface {
	SendMessage(message string) error
}

type MelodyService struct {
	m *melody.Melody
}

func NewMelodyService(m *melody.Melody) *MelodyService {
	return &MelodyService{m: m}
}

func (s *MelodyService) SendMessage(message string) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	return s.m.Broadcast([]byte(message))
}

// ReviewMessage is the notification text a student sees when a mentor
// reviews their submission.
func ReviewMessage(submissionTitle string, rating int) string {
	return fmt.Sprintf("Your submission %q received a review (rating %d/10).", submissionTitle, rating)
}

// DigestMessage is the daily reminder text sent to mentors about stale
// pending submissions.
func DigestMessage(pendingCount int) string {
	return fmt.Sprintf("There are %d submissions waiting for review for more than 3 days.", pendingCount)
}
