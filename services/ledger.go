package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"coinrush/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerService applies credit/debit operations to user balances. Every
// operation is one read-modify-write transaction: the balance update and the
// matching claim row are never observable half-applied.
type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// creditCoins adds amount to a profile's balance inside tx.
func creditCoins(tx *gorm.DB, ip string, amount int64) error {
	res := tx.Model(&models.UserProfile{}).
		Where("ip = ?", ip).
		Update("coins", gorm.Expr("coins + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClaimTask credits a task's reward to the given IP exactly once. A second
// claim for the same (ip, task) pair is rejected, not double-credited.
func (s *LedgerService) ClaimTask(ip, taskID string) (*models.Task, error) {
	var task models.Task
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND status = ?", taskID, models.TaskStatusPublished).
			First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var claimed int64
		if err := tx.Model(&models.TaskClaim{}).
			Where("task_id = ? AND ip = ?", task.ID, ip).
			Count(&claimed).Error; err != nil {
			return err
		}
		if claimed > 0 {
			return ErrAlreadyClaimed
		}

		claim := models.TaskClaim{
			ID:     uuid.NewString(),
			TaskID: task.ID,
			IP:     ip,
			Reward: task.Reward,
		}
		if err := tx.Create(&claim).Error; err != nil {
			return err
		}
		return creditCoins(tx, ip, task.Reward)
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// sameCalendarDay compares by local date only, so the daily bonus resets at
// local midnight rather than 24h after the last claim.
func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}

// ClaimDailyBonus credits settings.DailyBonus at most once per calendar date.
func (s *LedgerService) ClaimDailyBonus(ip string) (int64, error) {
	var bonus int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		settings, err := loadSettings(tx)
		if err != nil {
			return err
		}

		var profile models.UserProfile
		if err := tx.First(&profile, "ip = ?", ip).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		now := time.Now()
		if profile.LastDailyBonus != nil && sameCalendarDay(*profile.LastDailyBonus, now) {
			return ErrAlreadyClaimed
		}

		bonus = settings.DailyBonus
		profile.Coins += bonus
		profile.LastDailyBonus = &now
		return tx.Save(&profile).Error
	})
	if err != nil {
		return 0, err
	}
	return bonus, nil
}

// NormalizeCouponCode is how codes are matched and stored: trimmed and
// uppercased, so redemption is case-insensitive.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// RedeemCoupon credits a coupon's reward once per IP. The precondition
// checks run in a fixed order — unknown code, expiry, usage limit, repeat
// use — and the first failure is the rejection surfaced to the caller.
func (s *LedgerService) RedeemCoupon(ip, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		normalized := NormalizeCouponCode(code)
		if normalized == "" {
			return ErrNotFound
		}
		if err := tx.Where("code = ?", normalized).First(&coupon).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if coupon.ExpiresAt.Before(time.Now()) {
			return ErrExpired
		}
		if coupon.UsedCount >= coupon.UsageLimit {
			return ErrLimitExceeded
		}

		var used int64
		if err := tx.Model(&models.CouponRedemption{}).
			Where("coupon_id = ? AND ip = ?", coupon.ID, ip).
			Count(&used).Error; err != nil {
			return err
		}
		if used > 0 {
			return ErrAlreadyClaimed
		}

		redemption := models.CouponRedemption{
			ID:       uuid.NewString(),
			CouponID: coupon.ID,
			IP:       ip,
			Reward:   coupon.Reward,
		}
		if err := tx.Create(&redemption).Error; err != nil {
			return err
		}

		coupon.UsedCount++
		if err := tx.Save(&coupon).Error; err != nil {
			return err
		}
		return creditCoins(tx, ip, coupon.Reward)
	})
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// CreditGameReward is an unconditional credit. The amount comes from the
// mini-game's own scoring; no upper bound is enforced at this layer.
func (s *LedgerService) CreditGameReward(ip string, amount int64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("negative game reward %d", amount)
	}
	var balance int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := creditCoins(tx, ip, amount); err != nil {
			return err
		}
		var profile models.UserProfile
		if err := tx.First(&profile, "ip = ?", ip).Error; err != nil {
			return err
		}
		balance = profile.Coins
		return nil
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// RequestWithdrawal creates a pending payout request. The balance is only
// checked here, not debited — the debit happens at approval time.
func (s *LedgerService) RequestWithdrawal(ip, address string, amount int64) (*models.WithdrawalRequest, error) {
	var request models.WithdrawalRequest
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		settings, err := loadSettings(tx)
		if err != nil {
			return err
		}
		if !settings.WithdrawEnabled {
			return ErrWithdrawDisabled
		}
		if amount < settings.MinWithdraw {
			return ErrBelowMinimum
		}

		var profile models.UserProfile
		if err := tx.First(&profile, "ip = ?", ip).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if profile.Coins < amount {
			return ErrInsufficientBalance
		}

		request = models.WithdrawalRequest{
			ID:      uuid.NewString(),
			IP:      ip,
			Address: address,
			Amount:  amount,
			Status:  models.WithdrawalStatusPending,
		}
		return tx.Create(&request).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// UserWithdrawals lists an IP's own payout requests, newest first.
func (s *LedgerService) UserWithdrawals(ip string) ([]models.WithdrawalRequest, error) {
	var requests []models.WithdrawalRequest
	if err := s.DB.Where("ip = ?", ip).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// CompletedTaskIDs returns the ids of tasks the IP has already claimed.
func (s *LedgerService) CompletedTaskIDs(ip string) ([]string, error) {
	var ids []string
	if err := s.DB.Model(&models.TaskClaim{}).
		Where("ip = ?", ip).
		Order("claimed_at").
		Pluck("task_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// UsedCouponIDs returns the ids of coupons the IP has already redeemed.
func (s *LedgerService) UsedCouponIDs(ip string) ([]string, error) {
	var ids []string
	if err := s.DB.Model(&models.CouponRedemption{}).
		Where("ip = ?", ip).
		Order("redeemed_at").
		Pluck("coupon_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
