package services

import (
	"fmt"
	"testing"
	"time"

	"coinrush/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.UserProfile{},
		&models.Task{},
		&models.TaskClaim{},
		&models.Coupon{},
		&models.CouponRedemption{},
		&models.MiniGame{},
		&models.WithdrawalRequest{},
		&models.AppSettings{},
		&models.AdPlacement{},
		&models.OperatorSession{},
	))
	return db
}

func setSettings(t *testing.T, db *gorm.DB, mutate func(*models.AppSettings)) {
	t.Helper()
	settings, err := loadSettings(db)
	require.NoError(t, err)
	if mutate != nil {
		mutate(settings)
	}
	require.NoError(t, db.Save(settings).Error)
}

func createUser(t *testing.T, db *gorm.DB, ip string, coins int64) *models.UserProfile {
	t.Helper()
	profile := &models.UserProfile{
		IP:           ip,
		Coins:        coins,
		ReferralCode: newReferralCode(),
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

func createTask(t *testing.T, db *gorm.DB, id string, reward int64) *models.Task {
	t.Helper()
	task := &models.Task{
		ID:     id,
		Slug:   "task-" + id,
		Name:   "Task " + id,
		Reward: reward,
		Status: models.TaskStatusPublished,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func createCoupon(t *testing.T, db *gorm.DB, code string, reward int64, limit int, expires time.Time) *models.Coupon {
	t.Helper()
	coupon := &models.Coupon{
		ID:         uuid.NewString(),
		Code:       NormalizeCouponCode(code),
		Reward:     reward,
		UsageLimit: limit,
		ExpiresAt:  expires,
	}
	require.NoError(t, db.Create(coupon).Error)
	return coupon
}

func userCoins(t *testing.T, db *gorm.DB, ip string) int64 {
	t.Helper()
	var profile models.UserProfile
	require.NoError(t, db.First(&profile, "ip = ?", ip).Error)
	return profile.Coins
}
