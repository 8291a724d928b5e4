package db

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveAccount upserts by email so reconnecting a calendar refreshes the
// stored tokens instead of creating a duplicate account.
func SaveAccount(account *Account) error {
	now := time.Now().UTC()
	account.UpdatedAt = now

	var existing Account
	result := DB.Where("email = ?", account.Email).First(&existing)
	if result.Error == gorm.ErrRecordNotFound {
		account.ID = newID()
		account.CreatedAt = now
	} else if result.Error != nil {
		return fmt.Errorf("SaveAccount: failed to look up account %s: %w", account.Email, result.Error)
	} else {
		account.ID = existing.ID
		account.CreatedAt = existing.CreatedAt
	}

	return DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "access_token", "refresh_token", "token_expiry", "calendar_id", "is_active", "updated_at"}),
	}).Create(account).Error
}

func GetAccount(id string) (*Account, error) {
	var account Account
	err := DB.Where("id = ?", id).First(&account).Error
	return &account, err
}

func DeactivateAccount(id string) error {
	return DB.Model(&Account{}).Where("id = ?", id).Updates(map[string]any{
		"is_active":  false,
		"updated_at": time.Now().UTC(),
	}).Error
}

// AccountStore is the account collaborator handed to the engine's processor.
type AccountStore struct{}

func (AccountStore) FindActive() ([]Account, error) {
	var accounts []Account
	err := DB.Where("is_active = ?", true).Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("FindActive: failed to fetch active accounts: %w", err)
	}
	return accounts, nil
}
