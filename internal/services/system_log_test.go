package services

import (
	"testing"
	"time"

	"github.com/codecritic/codecritic/internal/models"
)

func TestWriteAudit(t *testing.T) {
	db := setupTestDB(t)
	InitAuditLogger(db)
	t.Cleanup(func() { InitAuditLogger(nil) })

	AuditInfo("auth", "login", "login succeeded", "alice@example.com", "127.0.0.1", "curl/8.0", map[string]int{"attempt": 1})

	var entry models.SystemLog
	if err := db.First(&entry).Error; err != nil {
		t.Fatalf("loading audit entry: %v", err)
	}
	if entry.Level != "info" || entry.Module != "auth" || entry.Action != "login" {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if entry.UserEmail != "alice@example.com" {
		t.Errorf("user_email = %q", entry.UserEmail)
	}
	if entry.Extra != `{"attempt":1}` {
		t.Errorf("extra = %q", entry.Extra)
	}
}

func TestWriteAudit_NoDatabaseIsNoop(t *testing.T) {
	InitAuditLogger(nil)

	// Must not panic.
	AuditError("review", "create", "boom", "", "", "", nil)
}

func TestCleanupOldLogs(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSystemLogService(db)

	stale := models.SystemLog{Level: "info", Module: "auth", Action: "login", CreatedAt: time.Now().AddDate(0, 0, -40)}
	fresh := models.SystemLog{Level: "info", Module: "auth", Action: "login", CreatedAt: time.Now().AddDate(0, 0, -5)}
	if err := db.Create(&stale).Error; err != nil {
		t.Fatalf("seeding stale entry: %v", err)
	}
	if err := db.Create(&fresh).Error; err != nil {
		t.Fatalf("seeding fresh entry: %v", err)
	}

	deleted, err := svc.CleanupOldLogs(30)
	if err != nil {
		t.Fatalf("CleanupOldLogs: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, expected 1", deleted)
	}

	var remaining int64
	db.Model(&models.SystemLog{}).Count(&remaining)
	if remaining != 1 {
		t.Errorf("remaining = %d, expected the fresh entry kept", remaining)
	}
}
