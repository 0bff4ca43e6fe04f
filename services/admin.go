package services

import (
	"errors"

	"coinrush/models"

	"gorm.io/gorm"
)

// AdminService is the moderation surface: direct mutations over the shared
// records that bypass the normal earning preconditions. Operator authority
// is absolute in this model.
type AdminService struct {
	DB *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{DB: db}
}

// SetBlocked flips the blocked flag for an IP. A blocked user is refused at
// the entry point before any ledger operation runs.
func (s *AdminService) SetBlocked(ip string, blocked bool) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&profile, "ip = ?", ip).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		profile.IsBlocked = blocked
		return tx.Save(&profile).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// DeleteUser removes a profile outright, cascading over its claim rows so
// no orphaned membership survives: task claims are deleted and each coupon
// the user redeemed has its used count rolled back. Withdrawal requests are
// kept as payout history.
func (s *AdminService) DeleteUser(ip string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var profile models.UserProfile
		if err := tx.First(&profile, "ip = ?", ip).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var redemptions []models.CouponRedemption
		if err := tx.Where("ip = ?", ip).Find(&redemptions).Error; err != nil {
			return err
		}
		for _, r := range redemptions {
			if err := tx.Model(&models.Coupon{}).
				Where("id = ? AND used_count > 0", r.CouponID).
				Update("used_count", gorm.Expr("used_count - 1")).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("ip = ?", ip).Delete(&models.CouponRedemption{}).Error; err != nil {
			return err
		}
		if err := tx.Where("ip = ?", ip).Delete(&models.TaskClaim{}).Error; err != nil {
			return err
		}
		return tx.Delete(&profile).Error
	})
}

// ApproveWithdrawal moves a pending request to approved and debits the
// requester's balance in the same transaction. The balance is re-validated
// here: approving a stale request that would drive the balance negative is
// rejected instead.
func (s *AdminService) ApproveWithdrawal(id string) (*models.WithdrawalRequest, error) {
	var request models.WithdrawalRequest
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if request.Status != models.WithdrawalStatusPending {
			return ErrNotPending
		}

		var profile models.UserProfile
		if err := tx.First(&profile, "ip = ?", request.IP).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if profile.Coins < request.Amount {
			return ErrInsufficientBalance
		}

		profile.Coins -= request.Amount
		if err := tx.Save(&profile).Error; err != nil {
			return err
		}
		request.Status = models.WithdrawalStatusApproved
		return tx.Save(&request).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// RejectWithdrawal moves a pending request to rejected. No balance change —
// the user keeps those coins.
func (s *AdminService) RejectWithdrawal(id string) (*models.WithdrawalRequest, error) {
	var request models.WithdrawalRequest
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if request.Status != models.WithdrawalStatusPending {
			return ErrNotPending
		}
		request.Status = models.WithdrawalStatusRejected
		return tx.Save(&request).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// DashboardStats aggregates the admin analytics counters.
type DashboardStats struct {
	Users          int64 `json:"users"`
	CoinsInFlight  int64 `json:"coins_in_circulation"`
	PendingPayouts int64 `json:"pending_payouts"`
	TaskClaims     int64 `json:"task_claims"`
}

func (s *AdminService) Stats() (*DashboardStats, error) {
	var stats DashboardStats
	if err := s.DB.Model(&models.UserProfile{}).Count(&stats.Users).Error; err != nil {
		return nil, err
	}

	var circulation struct{ Total int64 }
	if err := s.DB.Model(&models.UserProfile{}).
		Select("COALESCE(SUM(coins), 0) AS total").
		Scan(&circulation).Error; err != nil {
		return nil, err
	}
	stats.CoinsInFlight = circulation.Total

	if err := s.DB.Model(&models.WithdrawalRequest{}).
		Where("status = ?", models.WithdrawalStatusPending).
		Count(&stats.PendingPayouts).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.TaskClaim{}).Count(&stats.TaskClaims).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// SetOperatorSession persists the admin login flag (row id 1). It survives
// restarts until an explicit logout.
func (s *AdminService) SetOperatorSession(loggedIn bool) error {
	session := models.OperatorSession{ID: 1, LoggedIn: loggedIn}
	return s.DB.Save(&session).Error
}

// OperatorLoggedIn reads the persisted session flag.
func (s *AdminService) OperatorLoggedIn() (bool, error) {
	var session models.OperatorSession
	err := s.DB.First(&session, "id = ?", 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return session.LoggedIn, nil
}
