package services

import (
	"errors"
	"log"
	"math/rand"
	"strings"

	"coinrush/models"

	"gorm.io/gorm"
)

const referralAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func newReferralCode() string {
	var b strings.Builder
	for i := 0; i < 6; i++ {
		b.WriteByte(referralAlphabet[rand.Intn(len(referralAlphabet))])
	}
	return b.String()
}

// IdentityService maps a caller's IP to its UserProfile, creating a default
// one on first contact. Absence is never an error — it is the creation
// trigger.
type IdentityService struct {
	DB *gorm.DB
}

func NewIdentityService(db *gorm.DB) *IdentityService {
	return &IdentityService{DB: db}
}

// Resolve returns the profile for ip. The second return value reports
// whether this is the address's welcome visit; the stored first-visit flag
// is flipped false in the same write so the welcome state fires exactly
// once. A non-empty refCode on first contact records the referrer and pays
// them the configured referral bonus.
func (s *IdentityService) Resolve(ip, refCode string) (*models.UserProfile, bool, error) {
	var profile models.UserProfile
	firstVisit := false

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&profile, "ip = ?", ip).Error
		if err == nil {
			if profile.IsFirstVisit {
				firstVisit = true
				profile.IsFirstVisit = false
				return tx.Save(&profile).Error
			}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		firstVisit = true
		profile = models.UserProfile{
			IP:           ip,
			Coins:        0,
			IsFirstVisit: false, // persisted false so the welcome fires once
			ReferralCode: newReferralCode(),
		}

		if code := strings.ToUpper(strings.TrimSpace(refCode)); code != "" {
			if err := s.applyReferral(tx, &profile, code); err != nil {
				return err
			}
		}

		return tx.Create(&profile).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &profile, firstVisit, nil
}

// applyReferral credits the owner of code and records the linkage on the new
// profile. Unknown or self-referencing codes are ignored silently — a bad
// referral link should not break sign-up.
func (s *IdentityService) applyReferral(tx *gorm.DB, profile *models.UserProfile, code string) error {
	var referrer models.UserProfile
	err := tx.Where("referral_code = ? AND ip <> ?", code, profile.IP).First(&referrer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	settings, err := loadSettings(tx)
	if err != nil {
		return err
	}

	profile.ReferredBy = &code
	if err := creditCoins(tx, referrer.IP, settings.ReferralBonus); err != nil {
		return err
	}
	log.Printf("Referral bonus of %d paid to %s for inviting %s", settings.ReferralBonus, referrer.IP, profile.IP)
	return nil
}

// Get fetches an existing profile without creating one.
func (s *IdentityService) Get(ip string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.DB.First(&profile, "ip = ?", ip).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}
