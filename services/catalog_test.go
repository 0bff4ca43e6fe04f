package services

import (
	"testing"
	"time"

	"coinrush/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)

	require.NoError(t, catalog.Seed())
	require.NoError(t, catalog.Seed())

	tasks, err := catalog.PublishedTasks()
	require.NoError(t, err)
	assert.Len(t, tasks, 3)
	assert.Equal(t, "follow-our-telegram", tasks[0].Slug)

	games, err := catalog.EnabledGames()
	require.NoError(t, err)
	assert.Len(t, games, 2)

	settings, err := catalog.Settings()
	require.NoError(t, err)
	assert.False(t, settings.WithdrawEnabled)
	assert.Equal(t, int64(100), settings.MinWithdraw)
	assert.Equal(t, int64(10), settings.DailyBonus)
	assert.Equal(t, int64(50), settings.ReferralBonus)

	var ads int64
	require.NoError(t, db.Model(&models.AdPlacement{}).Count(&ads).Error)
	assert.Equal(t, int64(1), ads)
}

func TestPublishDueTasks(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)

	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)
	require.NoError(t, db.Create(&models.Task{
		ID: "due", Slug: "due", Name: "Due", Reward: 10,
		Status: models.TaskStatusScheduled, PublishAt: &past,
	}).Error)
	require.NoError(t, db.Create(&models.Task{
		ID: "later", Slug: "later", Name: "Later", Reward: 10,
		Status: models.TaskStatusScheduled, PublishAt: &future,
	}).Error)
	require.NoError(t, db.Create(&models.Task{
		ID: "draft", Slug: "draft", Name: "Draft", Reward: 10,
		Status: models.TaskStatusDraft,
	}).Error)

	published, err := catalog.PublishDueTasks()
	require.NoError(t, err)
	assert.Equal(t, 1, published)

	var due models.Task
	require.NoError(t, db.First(&due, "id = ?", "due").Error)
	assert.Equal(t, models.TaskStatusPublished, due.Status)
	assert.Nil(t, due.PublishAt)

	var later models.Task
	require.NoError(t, db.First(&later, "id = ?", "later").Error)
	assert.Equal(t, models.TaskStatusScheduled, later.Status)

	visible, err := catalog.PublishedTasks()
	require.NoError(t, err)
	assert.Len(t, visible, 1)
}

func TestAdsForLocation(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)

	require.NoError(t, db.Create(&models.AdPlacement{ID: "a1", Location: models.AdLocationTasks, Enabled: true}).Error)
	require.NoError(t, db.Create(&models.AdPlacement{ID: "a2", Location: models.AdLocationAll, Enabled: true}).Error)
	require.NoError(t, db.Create(&models.AdPlacement{ID: "a3", Location: models.AdLocationTasks, Enabled: false}).Error)
	require.NoError(t, db.Create(&models.AdPlacement{ID: "a4", Location: models.AdLocationGames, Enabled: true}).Error)

	ads, err := catalog.AdsForLocation(models.AdLocationTasks)
	require.NoError(t, err)
	require.Len(t, ads, 2)
	ids := []string{ads[0].ID, ads[1].ID}
	assert.ElementsMatch(t, []string{"a1", "a2"}, ids)
}

func TestPurgeStaleCoupons(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)

	createCoupon(t, db, "ANCIENT", 10, 1, time.Now().Add(-60*24*time.Hour))
	createCoupon(t, db, "RECENT", 10, 1, time.Now().Add(-time.Hour))
	createCoupon(t, db, "LIVE", 10, 1, time.Now().Add(time.Hour))

	purged, err := catalog.PurgeStaleCoupons(30 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	var remaining int64
	require.NoError(t, db.Model(&models.Coupon{}).Count(&remaining).Error)
	assert.Equal(t, int64(2), remaining)
}

func TestGetGame(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	require.NoError(t, catalog.Seed())

	game, err := catalog.GetGame("g1")
	require.NoError(t, err)
	assert.Equal(t, "Gem Matcher", game.Name)

	_, err = catalog.GetGame("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
