package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-game-panel/apperror"
	"github.com/tnqbao/gau-game-panel/entity"
	"gorm.io/gorm"
)

// ServerRepository handles all database operations for the Server entity.
// Soft-deleted rows are excluded from every read unless Unscoped is used
// explicitly (Restore).
type ServerRepository struct {
	db *gorm.DB
}

func NewServerRepository(db *gorm.DB) *ServerRepository {
	return &ServerRepository{db: db}
}

func (r *ServerRepository) GetByID(ctx context.Context, id uint) (*entity.Server, error) {
	var server entity.Server
	err := r.db.WithContext(ctx).First(&server, id).Error
	if err != nil {
		return nil, notFoundOr(err, "server %d not found", id)
	}
	return &server, nil
}

func (r *ServerRepository) FindByUUIDShort(ctx context.Context, uuidShort string) (*entity.Server, error) {
	var server entity.Server
	err := r.db.WithContext(ctx).Where("uuid_short = ?", uuidShort).First(&server).Error
	if err != nil {
		return nil, notFoundOr(err, "server %s not found", uuidShort)
	}
	return &server, nil
}

func (r *ServerRepository) FindByUUID(ctx context.Context, id uuid.UUID) (*entity.Server, error) {
	var server entity.Server
	err := r.db.WithContext(ctx).Where("uuid = ?", id).First(&server).Error
	if err != nil {
		return nil, notFoundOr(err, "server %s not found", id)
	}
	return &server, nil
}

// SearchAccessible lists the servers a user owns or is a subuser of, or every
// server for a root admin. query matches name, uuid, short uuid or node name.
func (r *ServerRepository) SearchAccessible(ctx context.Context, userID uint, rootAdmin bool, query string) ([]entity.Server, error) {
	tx := r.db.WithContext(ctx).
		Model(&entity.Server{}).
		Preload("Owner").
		Preload("Node")

	if !rootAdmin {
		tx = tx.Where(
			"servers.owner_id = ? OR servers.id IN (?)",
			userID,
			r.db.Model(&entity.Subuser{}).Select("server_id").Where("user_id = ?", userID),
		)
	}

	if q := strings.TrimSpace(query); q != "" {
		pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
		tx = tx.Joins("LEFT JOIN nodes ON nodes.id = servers.node_id").
			Where(
				`LOWER(servers.name) LIKE ? ESCAPE '\' OR LOWER(servers.uuid_short) LIKE ? ESCAPE '\' OR LOWER(CAST(servers.uuid AS TEXT)) LIKE ? ESCAPE '\' OR LOWER(nodes.name) LIKE ? ESCAPE '\'`,
				pattern, pattern, pattern, pattern,
			)
	}

	var servers []entity.Server
	if err := tx.Order("servers.id ASC").Find(&servers).Error; err != nil {
		return nil, err
	}
	return servers, nil
}

func (r *ServerRepository) SetInstalled(ctx context.Context, id uint, state entity.InstallState) error {
	return r.updateColumn(ctx, id, "installed", state)
}

func (r *ServerRepository) SetSuspended(ctx context.Context, id uint, suspended bool) error {
	return r.updateColumn(ctx, id, "suspended", suspended)
}

// Delete tombstones the server; the row stays for Restore.
func (r *ServerRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entity.Server{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.NotFoundf("server %d not found", id)
	}
	return nil
}

func (r *ServerRepository) Restore(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Unscoped().
		Model(&entity.Server{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.NotFoundf("deleted server %d not found", id)
	}
	return nil
}

func (r *ServerRepository) updateColumn(ctx context.Context, id uint, column string, value any) error {
	result := r.db.WithContext(ctx).Model(&entity.Server{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.NotFoundf("server %d not found", id)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func notFoundOr(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFoundf(format, args...)
	}
	return err
}
