package cron

import (
	"fmt"
	"time"

	"github.com/nkk09/Cmps271/model"
	"github.com/nkk09/Cmps271/services"
)

// CleanupExpiredOTPs hard-deletes OTP rows past their expiry. The OTP send
// path does this opportunistically too; the job guarantees expired
// credentials never linger when nobody is logging in. Rows still inside the
// send rate-limit window are retained so the limiter can keep counting them.
func (m *CronManager) CleanupExpiredOTPs() {
	jobName := "cleanup_expired_otps"

	now := time.Now().UTC()
	result := m.db.
		Where("expires_at <= ? AND created_at <= ?", now, now.Add(-services.OTPRateLimitWindow)).
		Delete(&model.OTP{})
	if result.Error != nil {
		m.logJobError(jobName, result.Error)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Deleted %d expired OTP records", result.RowsAffected))
}

// CleanupJobLogs trims cron job log rows older than 30 days
func (m *CronManager) CleanupJobLogs() {
	jobName := "cleanup_job_logs"

	cutoff := time.Now().AddDate(0, 0, -30)
	result := m.db.Where("created_at < ?", cutoff).Delete(&model.CronJobLog{})
	if result.Error != nil {
		m.logJobError(jobName, result.Error)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Deleted %d old job log rows", result.RowsAffected))
}
