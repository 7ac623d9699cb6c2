package services

import (
	"encoding/json"
	"time"

	"github.com/codecritic/codecritic/internal/models"
	"github.com/codecritic/codecritic/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

var auditDB *gorm.DB

// InitAuditLogger sets the database used by the audit log writers.
func InitAuditLogger(db *gorm.DB) {
	auditDB = db
}

func AuditInfo(module, action, message, userEmail, ip, userAgent string, extra interface{}) {
	writeAudit("info", module, action, message, userEmail, ip, userAgent, extra)
}

func AuditWarning(module, action, message, userEmail, ip, userAgent string, extra interface{}) {
	writeAudit("warning", module, action, message, userEmail, ip, userAgent, extra)
}

func AuditError(module, action, message, userEmail, ip, userAgent string, extra interface{}) {
	writeAudit("error", module, action, message, userEmail, ip, userAgent, extra)
}

func writeAudit(level, module, action, message, userEmail, ip, userAgent string, extra interface{}) {
	if auditDB == nil {
		return
	}

	var extraStr string
	if extra != nil {
		if b, err := json.Marshal(extra); err == nil {
			extraStr = string(b)
		}
	}

	entry := &models.SystemLog{
		Level:     level,
		Module:    module,
		Action:    action,
		Message:   message,
		UserEmail: userEmail,
		IP:        ip,
		UserAgent: userAgent,
		Extra:     extraStr,
		CreatedAt: time.Now(),
	}
	auditDB.Create(entry)
}

type SystemLogService struct {
	db *gorm.DB
}

func NewSystemLogService(db *gorm.DB) *SystemLogService {
	return &SystemLogService{db: db}
}

// CleanupOldLogs deletes audit entries older than retentionDays and
// returns the number removed.
func (s *SystemLogService) CleanupOldLogs(retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := s.db.Where("created_at < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}

// StartLogCleanupScheduler runs a nightly retention sweep over the audit
// log. retentionDays <= 0 disables cleanup. Returns the scheduler so the
// caller can stop it on shutdown.
func StartLogCleanupScheduler(db *gorm.DB, retentionDays int) *cron.Cron {
	if retentionDays <= 0 {
		logger.Info().Msg("audit log cleanup disabled (retention_days <= 0)")
		return nil
	}

	service := NewSystemLogService(db)
	runCleanup := func() {
		deleted, err := service.CleanupOldLogs(retentionDays)
		if err != nil {
			logger.Error().Err(err).Msg("audit log cleanup failed")
			return
		}
		if deleted > 0 {
			logger.Infof("audit log cleanup removed %d entries older than %d days", deleted, retentionDays)
		}
	}

	// Sweep once at startup, then nightly at 03:00.
	runCleanup()

	c := cron.New()
	if _, err := c.AddFunc("0 3 * * *", runCleanup); err != nil {
		logger.Error().Err(err).Msg("failed to schedule audit log cleanup")
		return nil
	}
	c.Start()

	logger.Infof("audit log cleanup scheduled, retention: %d days", retentionDays)
	return c
}
