package auth

import (
	"context"
	"strings"
)

// Repository abstracts admin lookup.
type Repository interface {
	GetByUsername(ctx context.Context, username string) (Admin, bool, error)
}

// StaticRepository serves admins declared in configuration.
type StaticRepository struct {
	admins map[string]Admin
}

// NewStaticRepository indexes admins by case-folded username.
func NewStaticRepository(admins []Admin) *StaticRepository {
	index := make(map[string]Admin, len(admins))
	for _, admin := range admins {
		key := strings.ToLower(strings.TrimSpace(admin.Username))
		if key == "" {
			continue
		}
		index[key] = admin
	}
	return &StaticRepository{admins: index}
}

func (r *StaticRepository) GetByUsername(_ context.Context, username string) (Admin, bool, error) {
	admin, ok := r.admins[strings.ToLower(strings.TrimSpace(username))]
	return admin, ok, nil
}

var _ Repository = (*StaticRepository)(nil)
