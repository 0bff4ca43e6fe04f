package services

import (
	"testing"
	"time"

	"coinrush/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimTaskCreditsOnce(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	createUser(t, db, "1.2.3.4", 0)
	createTask(t, db, "t1", 50)

	task, err := ledger.ClaimTask("1.2.3.4", "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), task.Reward)
	assert.Equal(t, int64(50), userCoins(t, db, "1.2.3.4"))

	// second claim is a rejection, not a double credit
	_, err = ledger.ClaimTask("1.2.3.4", "t1")
	assert.ErrorIs(t, err, ErrAlreadyClaimed)
	assert.Equal(t, int64(50), userCoins(t, db, "1.2.3.4"))

	var claims int64
	require.NoError(t, db.Model(&models.TaskClaim{}).Where("task_id = ?", "t1").Count(&claims).Error)
	assert.Equal(t, int64(1), claims)
}

func TestClaimTaskUnknownOrUnpublished(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	createUser(t, db, "1.2.3.4", 0)

	_, err := ledger.ClaimTask("1.2.3.4", "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	draft := createTask(t, db, "t-draft", 50)
	draft.Status = models.TaskStatusDraft
	require.NoError(t, db.Save(draft).Error)

	_, err = ledger.ClaimTask("1.2.3.4", "t-draft")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int64(0), userCoins(t, db, "1.2.3.4"))
}

func TestClaimTaskTwoUsers(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	createUser(t, db, "1.1.1.1", 0)
	createUser(t, db, "2.2.2.2", 0)
	createTask(t, db, "t1", 30)

	_, err := ledger.ClaimTask("1.1.1.1", "t1")
	require.NoError(t, err)
	_, err = ledger.ClaimTask("2.2.2.2", "t1")
	require.NoError(t, err)

	ids, err := ledger.CompletedTaskIDs("1.1.1.1")
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, ids)
}

func TestDailyBonusOncePerCalendarDay(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	setSettings(t, db, nil) // default daily bonus 10
	createUser(t, db, "1.2.3.4", 0)

	bonus, err := ledger.ClaimDailyBonus("1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, int64(10), bonus)
	assert.Equal(t, int64(10), userCoins(t, db, "1.2.3.4"))

	_, err = ledger.ClaimDailyBonus("1.2.3.4")
	assert.ErrorIs(t, err, ErrAlreadyClaimed)
	assert.Equal(t, int64(10), userCoins(t, db, "1.2.3.4"))

	// roll the stored stamp back to yesterday: resets at midnight, not 24h
	yesterday := time.Now().AddDate(0, 0, -1)
	require.NoError(t, db.Model(&models.UserProfile{}).
		Where("ip = ?", "1.2.3.4").
		Update("last_daily_bonus", yesterday).Error)

	_, err = ledger.ClaimDailyBonus("1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, int64(20), userCoins(t, db, "1.2.3.4"))
}

func TestDailyBonusUsesConfiguredAmount(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	setSettings(t, db, func(s *models.AppSettings) { s.DailyBonus = 25 })
	createUser(t, db, "1.2.3.4", 0)

	bonus, err := ledger.ClaimDailyBonus("1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, int64(25), bonus)
}

func TestRedeemCouponCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	createUser(t, db, "1.2.3.4", 0)
	createCoupon(t, db, "ABC123", 500, 10, time.Now().Add(24*time.Hour))

	coupon, err := ledger.RedeemCoupon("1.2.3.4", "  abc123 ")
	require.NoError(t, err)
	assert.Equal(t, int64(500), coupon.Reward)
	assert.Equal(t, int64(500), userCoins(t, db, "1.2.3.4"))

	// same coupon under different casing is still the same coupon
	_, err = ledger.RedeemCoupon("1.2.3.4", "ABC123")
	assert.ErrorIs(t, err, ErrAlreadyClaimed)
	assert.Equal(t, int64(500), userCoins(t, db, "1.2.3.4"))
}

func TestRedeemCouponLimit(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	createUser(t, db, "1.1.1.1", 0)
	createUser(t, db, "2.2.2.2", 0)
	createUser(t, db, "3.3.3.3", 0)
	coupon := createCoupon(t, db, "LIMITED", 100, 2, time.Now().Add(24*time.Hour))

	_, err := ledger.RedeemCoupon("1.1.1.1", "LIMITED")
	require.NoError(t, err)
	_, err = ledger.RedeemCoupon("2.2.2.2", "LIMITED")
	require.NoError(t, err)

	var stored models.Coupon
	require.NoError(t, db.First(&stored, "id = ?", coupon.ID).Error)
	assert.Equal(t, 2, stored.UsedCount)

	var redemptions int64
	require.NoError(t, db.Model(&models.CouponRedemption{}).
		Where("coupon_id = ?", coupon.ID).Count(&redemptions).Error)
	assert.Equal(t, int64(2), redemptions)

	// fresh address, exhausted limit
	_, err = ledger.RedeemCoupon("3.3.3.3", "LIMITED")
	assert.ErrorIs(t, err, ErrLimitExceeded)
}

func TestRedeemCouponRejectionOrder(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	createUser(t, db, "1.2.3.4", 0)

	_, err := ledger.RedeemCoupon("1.2.3.4", "NOPE")
	assert.ErrorIs(t, err, ErrNotFound)

	// expiry is checked before the usage limit
	expired := createCoupon(t, db, "OLD", 100, 0, time.Now().Add(-time.Hour))
	_, err = ledger.RedeemCoupon("1.2.3.4", expired.Code)
	assert.ErrorIs(t, err, ErrExpired)

	assert.Equal(t, int64(0), userCoins(t, db, "1.2.3.4"))
}

func TestCreditGameReward(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	createUser(t, db, "1.2.3.4", 5)

	balance, err := ledger.CreditGameReward("1.2.3.4", 15)
	require.NoError(t, err)
	assert.Equal(t, int64(20), balance)

	_, err = ledger.CreditGameReward("1.2.3.4", -1)
	assert.Error(t, err)
	assert.Equal(t, int64(20), userCoins(t, db, "1.2.3.4"))

	_, err = ledger.CreditGameReward("9.9.9.9", 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRequestWithdrawalPreconditions(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	createUser(t, db, "1.2.3.4", 500)

	// withdrawals ship disabled by default
	setSettings(t, db, nil)
	_, err := ledger.RequestWithdrawal("1.2.3.4", "0xabc", 200)
	assert.ErrorIs(t, err, ErrWithdrawDisabled)

	setSettings(t, db, func(s *models.AppSettings) { s.WithdrawEnabled = true })

	_, err = ledger.RequestWithdrawal("1.2.3.4", "0xabc", 50)
	assert.ErrorIs(t, err, ErrBelowMinimum)

	_, err = ledger.RequestWithdrawal("1.2.3.4", "0xabc", 600)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	var count int64
	require.NoError(t, db.Model(&models.WithdrawalRequest{}).Count(&count).Error)
	assert.Equal(t, int64(0), count, "rejected requests must not be recorded")

	request, err := ledger.RequestWithdrawal("1.2.3.4", "0xabc", 200)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusPending, request.Status)
	// balance untouched until approval
	assert.Equal(t, int64(500), userCoins(t, db, "1.2.3.4"))
}

// Full journey: task -> daily bonus -> coupon -> withdrawal -> approval.
func TestRewardLifecycleScenario(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	admin := NewAdminService(db)
	setSettings(t, db, func(s *models.AppSettings) { s.WithdrawEnabled = true })

	ip := "7.7.7.7"
	createUser(t, db, ip, 0)
	createTask(t, db, "t1", 50)
	createCoupon(t, db, "BIGWIN", 500, 1, time.Now().Add(24*time.Hour))

	_, err := ledger.ClaimTask(ip, "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), userCoins(t, db, ip))

	_, err = ledger.ClaimDailyBonus(ip)
	require.NoError(t, err)
	assert.Equal(t, int64(60), userCoins(t, db, ip))

	coupon, err := ledger.RedeemCoupon(ip, "bigwin")
	require.NoError(t, err)
	assert.Equal(t, int64(560), userCoins(t, db, ip))

	var stored models.Coupon
	require.NoError(t, db.First(&stored, "id = ?", coupon.ID).Error)
	assert.Equal(t, 1, stored.UsedCount)

	request, err := ledger.RequestWithdrawal(ip, "0xdeadbeef", 560)
	require.NoError(t, err)
	assert.Equal(t, int64(560), userCoins(t, db, ip))

	approved, err := admin.ApproveWithdrawal(request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusApproved, approved.Status)
	assert.Equal(t, int64(0), userCoins(t, db, ip))
}
