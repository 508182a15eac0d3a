package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"backend/internal/models"
)

type RoleRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Role, error)
	GetByName(ctx context.Context, name string) (*models.Role, error)
	List(ctx context.Context) ([]models.Role, error)
}

type roleRepository struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func NewRoleRepository(db *sqlx.DB, log *logrus.Logger) RoleRepository {
	return &roleRepository{db: db, log: log}
}

func (r *roleRepository) GetByID(ctx context.Context, id int64) (*models.Role, error) {
	var role models.Role
	query := `SELECT id, name, description FROM roles WHERE id = $1`
	if err := r.db.GetContext(ctx, &role, query, id); err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	query := `SELECT id, name, description FROM roles WHERE name = $1`
	if err := r.db.GetContext(ctx, &role, query, name); err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) List(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	query := `SELECT id, name, description FROM roles ORDER BY id`
	if err := r.db.SelectContext(ctx, &roles, query); err != nil {
		return nil, err
	}
	return roles, nil
}
