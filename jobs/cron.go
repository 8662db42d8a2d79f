package jobs

import (
	"log"

	"github.com/robfig/cron/v3"
)

// DigestRunner is implemented by the service that produces the daily
// pending-review digest.
type DigestRunner interface {
	RunDailyDigest() error
}

var digestRunner DigestRunner

// SetDigestRunner injects the digest implementation before the scheduler
// starts.
func SetDigestRunner(runner DigestRunner) {
	digestRunner = runner
}

// InitCronJobs registers the scheduled jobs and starts the scheduler.
func InitCronJobs(c *cron.Cron) error {
	// 08:00 UTC daily
	_, err := c.AddFunc("0 8 * * *", func() {
		if digestRunner == nil {
			log.Println("Digest runner not configured, skipping daily digest")
			return
		}
		if err := digestRunner.RunDailyDigest(); err != nil {
			log.Printf("Daily digest failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	log.Println("Cron jobs initialized successfully")
	return nil
}
