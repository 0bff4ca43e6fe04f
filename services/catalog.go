package services

import (
	"errors"
	"log"
	"time"

	"coinrush/models"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// CatalogService owns the mutable collections: tasks, coupons, games and ad
// placements, plus the settings singleton and the seed data loaded into an
// empty store.
type CatalogService struct {
	DB *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db}
}

// loadSettings fetches the settings singleton, creating the default row if
// the store has never been written.
func loadSettings(tx *gorm.DB) (*models.AppSettings, error) {
	var settings models.AppSettings
	err := tx.First(&settings, "id = ?", 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.AppSettings{
			ID:              1,
			WithdrawEnabled: false,
			MinWithdraw:     100,
			DailyBonus:      10,
			ReferralBonus:   50,
		}
		if err := tx.Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *CatalogService) Settings() (*models.AppSettings, error) {
	return loadSettings(s.DB)
}

// Seed populates an empty store with the fixed starter catalog: three tasks,
// two games, default settings and one sample ad placement. Non-empty tables
// are left alone.
func (s *CatalogService) Seed() error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := loadSettings(tx); err != nil {
			return err
		}

		var taskCount int64
		if err := tx.Model(&models.Task{}).Count(&taskCount).Error; err != nil {
			return err
		}
		if taskCount == 0 {
			seedTasks := []models.Task{
				{ID: "1", Name: "Follow our Telegram", Description: "Join our official channel for latest updates.", Category: "Telegram", Reward: 50, Link: "https://t.me/example", Status: models.TaskStatusPublished},
				{ID: "2", Name: "Watch YouTube Video", Description: "Watch the full video to unlock rewards.", Category: "YouTube", Reward: 100, Link: "https://youtube.com", Status: models.TaskStatusPublished},
				{ID: "3", Name: "Visit our Partner Site", Description: "Check out our new partner website for 20 seconds.", Category: "Website visit", Reward: 30, Link: "https://google.com", Status: models.TaskStatusPublished},
			}
			for i := range seedTasks {
				seedTasks[i].Slug = slug.Make(seedTasks[i].Name)
			}
			if err := tx.Create(&seedTasks).Error; err != nil {
				return err
			}
		}

		var gameCount int64
		if err := tx.Model(&models.MiniGame{}).Count(&gameCount).Error; err != nil {
			return err
		}
		if gameCount == 0 {
			seedGames := []models.MiniGame{
				{ID: "g1", Name: "Gem Matcher", Type: models.GameTypeMatch, BaseReward: 10, Enabled: true},
				{ID: "g2", Name: "Speed Clicker", Type: models.GameTypePuzzle, BaseReward: 15, Enabled: true},
			}
			if err := tx.Create(&seedGames).Error; err != nil {
				return err
			}
		}

		var adCount int64
		if err := tx.Model(&models.AdPlacement{}).Count(&adCount).Error; err != nil {
			return err
		}
		if adCount == 0 {
			sample := models.AdPlacement{
				ID:       "ad1",
				Code:     `<div style="color: #666; font-size: 10px; text-align: center;">Sample Ad Banner</div>`,
				Location: models.AdLocationMain,
				Enabled:  true,
			}
			if err := tx.Create(&sample).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// PublishedTasks lists the tasks visible to users.
func (s *CatalogService) PublishedTasks() ([]models.Task, error) {
	var tasks []models.Task
	if err := s.DB.Where("status = ?", models.TaskStatusPublished).
		Order("created_at, id").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// EnabledGames lists the playable mini-games.
func (s *CatalogService) EnabledGames() ([]models.MiniGame, error) {
	var games []models.MiniGame
	if err := s.DB.Where("enabled = ?", true).Order("id").Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}

// GetGame returns a mini-game regardless of enabled state.
func (s *CatalogService) GetGame(id string) (*models.MiniGame, error) {
	var game models.MiniGame
	if err := s.DB.First(&game, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &game, nil
}

// AdsForLocation returns enabled placements targeting the location, plus the
// ones targeting all sections.
func (s *CatalogService) AdsForLocation(location string) ([]models.AdPlacement, error) {
	var ads []models.AdPlacement
	if err := s.DB.Where("enabled = ? AND (location = ? OR location = ?)",
		true, location, models.AdLocationAll).
		Order("created_at, id").
		Find(&ads).Error; err != nil {
		return nil, err
	}
	return ads, nil
}

// PublishDueTasks flips scheduled tasks whose publish time has passed to
// published. Returns how many were published.
func (s *CatalogService) PublishDueTasks() (int, error) {
	var tasks []models.Task
	now := time.Now()
	if err := s.DB.Where("status = ? AND publish_at <= ?", models.TaskStatusScheduled, now).
		Find(&tasks).Error; err != nil {
		return 0, err
	}

	published := 0
	for _, t := range tasks {
		t.Status = models.TaskStatusPublished
		t.PublishAt = nil
		if err := s.DB.Save(&t).Error; err != nil {
			log.Printf("[Scheduler] Failed to publish task %s: %v", t.ID, err)
			continue
		}
		published++
	}
	return published, nil
}

// PurgeStaleCoupons soft-deletes coupons whose expiry passed more than the
// retention window ago. Redemption rows stay for audit.
func (s *CatalogService) PurgeStaleCoupons(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	res := s.DB.Where("expires_at < ?", cutoff).Delete(&models.Coupon{})
	return res.RowsAffected, res.Error
}
