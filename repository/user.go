package repository

import (
	"context"

	"github.com/tnqbao/gau-game-panel/entity"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, notFoundOr(err, "user %d not found", id)
	}
	return &user, nil
}

type SubuserRepository struct {
	db *gorm.DB
}

func NewSubuserRepository(db *gorm.DB) *SubuserRepository {
	return &SubuserRepository{db: db}
}

func (r *SubuserRepository) Exists(ctx context.Context, serverID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Subuser{}).
		Where("server_id = ? AND user_id = ?", serverID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
