package pg

import (
	"context"
	"database/sql"
	"errors"

	"buildpro.org/internal/identity"
)

var _ identity.ProfileStore = (*Store)(nil)

// FindProfile looks up an account by username.
func (s *Store) FindProfile(ctx context.Context, username string) (*identity.StoredProfile, error) {
	p := &identity.StoredProfile{}
	err := s.db.QueryRowContext(ctx, `
		select user_id, username, password_hash, is_admin
		from profiles where username = $1
	`, username).Scan(&p.UserID, &p.Username, &p.PasswordHash, &p.IsAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, identity.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
