package repository

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/unihub-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var authRepoTestDBSeq int64

func setupAuthRepositoryTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_repo_test_%d?mode=memory&cache=shared", atomic.AddInt64(&authRepoTestDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.PendingSignup{}, &models.OTPCode{}, &models.PhoneOTPSession{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func TestPendingSignupUpsertLastWriteWins(t *testing.T) {
	db := setupAuthRepositoryTest(t)
	repo := NewPendingSignupRepository(db)

	first := &models.PendingSignup{
		Email:        "a@example.com",
		FirstName:    "Old",
		LastName:     "Name",
		PasswordHash: "hash-1",
		CreatedAt:    time.Now().Add(-time.Hour),
		UpdatedAt:    time.Now().Add(-time.Hour),
	}
	if err := repo.Upsert(first); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	second := &models.PendingSignup{
		Email:        "a@example.com",
		FirstName:    "New",
		LastName:     "Name",
		PasswordHash: "hash-2",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := repo.Upsert(second); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.PendingSignup{}).Where("email = ?", "a@example.com").Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("pending rows want 1 got %d", count)
	}

	got, err := repo.GetByEmail("a@example.com")
	if err != nil || got == nil {
		t.Fatalf("get by email failed: %v", err)
	}
	if got.FirstName != "New" || got.PasswordHash != "hash-2" {
		t.Fatalf("later write should win, got %+v", got)
	}
}

func TestPendingSignupGetByEmailMissing(t *testing.T) {
	db := setupAuthRepositoryTest(t)
	repo := NewPendingSignupRepository(db)

	got, err := repo.GetByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("get missing should not error: %v", err)
	}
	if got != nil {
		t.Fatalf("get missing want nil got %+v", got)
	}
}

func TestOTPCodeLatestOrdering(t *testing.T) {
	db := setupAuthRepositoryTest(t)
	repo := NewOTPCodeRepository(db)

	base := time.Now().Add(-time.Minute)
	codes := []string{"111111", "222222", "333333"}
	for i, code := range codes {
		record := &models.OTPCode{
			Email:     "a@example.com",
			Code:      code,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := repo.Create(record); err != nil {
			t.Fatalf("create code %s failed: %v", code, err)
		}
	}

	latest, err := repo.GetLatestByEmail("a@example.com")
	if err != nil || latest == nil {
		t.Fatalf("get latest failed: %v", err)
	}
	if latest.Code != "333333" {
		t.Fatalf("latest code want 333333 got %s", latest.Code)
	}

	// 重发不覆盖，旧行仍在库里
	var count int64
	if err := db.Model(&models.OTPCode{}).Where("email = ?", "a@example.com").Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("code rows want 3 got %d", count)
	}
}

func TestOTPCodeLatestTieBreakOnID(t *testing.T) {
	db := setupAuthRepositoryTest(t)
	repo := NewOTPCodeRepository(db)

	// created_at 相同时按 id 取后写入的行
	at := time.Now().Truncate(time.Second)
	for _, code := range []string{"111111", "222222"} {
		if err := repo.Create(&models.OTPCode{Email: "a@example.com", Code: code, CreatedAt: at}); err != nil {
			t.Fatalf("create code failed: %v", err)
		}
	}

	latest, err := repo.GetLatestByEmail("a@example.com")
	if err != nil || latest == nil {
		t.Fatalf("get latest failed: %v", err)
	}
	if latest.Code != "222222" {
		t.Fatalf("latest code want 222222 got %s", latest.Code)
	}
}

func TestOTPCodePurgeOlderThan(t *testing.T) {
	db := setupAuthRepositoryTest(t)
	repo := NewOTPCodeRepository(db)

	old := &models.OTPCode{Email: "a@example.com", Code: "111111", CreatedAt: time.Now().Add(-48 * time.Hour)}
	fresh := &models.OTPCode{Email: "a@example.com", Code: "222222", CreatedAt: time.Now()}
	for _, record := range []*models.OTPCode{old, fresh} {
		if err := repo.Create(record); err != nil {
			t.Fatalf("create code failed: %v", err)
		}
	}

	if err := repo.PurgeOlderThan(time.Now().Add(-24 * time.Hour)); err != nil {
		t.Fatalf("purge failed: %v", err)
	}

	var remaining []models.OTPCode
	if err := db.Find(&remaining).Error; err != nil {
		t.Fatalf("load remaining failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Code != "222222" {
		t.Fatalf("only fresh code should remain, got %+v", remaining)
	}
}

func TestPhoneOTPSessionUpsertOverwrites(t *testing.T) {
	db := setupAuthRepositoryTest(t)
	repo := NewPhoneOTPRepository(db)

	now := time.Now()
	if err := repo.UpsertSession(&models.PhoneOTPSession{Phone: "13800138000", SessionID: "session-1", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if err := repo.UpsertSession(&models.PhoneOTPSession{Phone: "13800138000", SessionID: "session-2", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	got, err := repo.GetByPhone("13800138000")
	if err != nil || got == nil {
		t.Fatalf("get by phone failed: %v", err)
	}
	if got.SessionID != "session-2" {
		t.Fatalf("session want session-2 got %s", got.SessionID)
	}

	var count int64
	if err := db.Model(&models.PhoneOTPSession{}).Where("phone = ?", "13800138000").Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("session rows want 1 got %d", count)
	}
}
