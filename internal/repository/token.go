package repository

import (
	"context"
	"errors"

	"bloghub/internal/auth"
	"bloghub/internal/models"

	"gorm.io/gorm"
)

// TokenRepository persists opaque auth tokens.
type TokenRepository interface {
	GetOrCreate(ctx context.Context, userID uint) (*models.AuthToken, error)
	GetByKey(ctx context.Context, key string) (*models.AuthToken, error)
	DeleteByUserID(ctx context.Context, userID uint) error
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository returns a new TokenRepository implementation.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

// GetOrCreate returns the user's existing token, minting one on first login.
func (r *tokenRepository) GetOrCreate(ctx context.Context, userID uint) (*models.AuthToken, error) {
	var token models.AuthToken
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&token).Error
	if err == nil {
		return &token, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewInternalError(err)
	}

	key, err := auth.GenerateOpaqueKey()
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	token = models.AuthToken{Key: key, UserID: userID}
	if err := r.db.WithContext(ctx).Create(&token).Error; err != nil {
		// Concurrent first logins can race; the existing row wins.
		if isUniqueConstraintError(err) {
			var existing models.AuthToken
			if gerr := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&existing).Error; gerr == nil {
				return &existing, nil
			}
		}
		return nil, models.NewInternalError(err)
	}
	return &token, nil
}

func (r *tokenRepository) GetByKey(ctx context.Context, key string) (*models.AuthToken, error) {
	var token models.AuthToken
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &token, nil
}

func (r *tokenRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.AuthToken{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
