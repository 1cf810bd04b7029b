package repository

import (
	"context"

	"github.com/tnqbao/gau-game-panel/entity"
	"gorm.io/gorm"
)

type NodeRepository struct {
	db *gorm.DB
}

func NewNodeRepository(db *gorm.DB) *NodeRepository {
	return &NodeRepository{db: db}
}

func (r *NodeRepository) GetByID(ctx context.Context, id uint) (*entity.Node, error) {
	var node entity.Node
	err := r.db.WithContext(ctx).First(&node, id).Error
	if err != nil {
		return nil, notFoundOr(err, "node %d not found", id)
	}
	return &node, nil
}
