package repository

import (
	"github.com/tnqbao/gau-game-panel/infra"
	"gorm.io/gorm"
)

type Repository struct {
	ServerRepo  *ServerRepository
	NodeRepo    *NodeRepository
	UserRepo    *UserRepository
	SubuserRepo *SubuserRepository
}

var repository *Repository

func InitRepository(infra *infra.Infra) *Repository {
	if infra.Postgres == nil || infra.Postgres.DB == nil {
		panic("database connection is nil")
	}
	repository = newRepository(infra.Postgres.DB)
	return repository
}

func newRepository(db *gorm.DB) *Repository {
	return &Repository{
		ServerRepo:  NewServerRepository(db),
		NodeRepo:    NewNodeRepository(db),
		UserRepo:    NewUserRepository(db),
		SubuserRepo: NewSubuserRepository(db),
	}
}

func GetRepository() *Repository {
	if repository == nil {
		panic("repository not initialized")
	}
	return repository
}

func (r *Repository) BeginTransaction(db *gorm.DB) *gorm.DB {
	return db.Begin()
}

func (r *Repository) WithTransaction(tx *gorm.DB) *Repository {
	return newRepository(tx)
}
