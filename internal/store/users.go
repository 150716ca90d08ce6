package store

import (
	"context"
	"errors"

	"example.com/socialmedia/internal/models"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, email, password_hash, bio, profile_picture, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.Bio, &u.ProfilePicture, &u.Created, &u.Updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func collectUsers(rows pgx.Rows) ([]models.User, error) {
	defer rows.Close()

	var res []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
			&u.Bio, &u.ProfilePicture, &u.Created, &u.Updated); err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

// --- User operations ---

// CreateUser inserts the user row and its role grants in one transaction.
// Duplicate username/email races surface as the signup conflict errors.
func (s *Store) CreateUser(ctx context.Context, user models.User, roles []string) error {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, bio, profile_picture, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.Bio, user.ProfilePicture, user.Created, user.Updated,
	)
	if err != nil {
		logg.Error("store", "Failed to create user (username anonymized)", err)
		return mapSignupConflict(err)
	}

	for _, role := range roles {
		_, err = tx.Exec(ctx, `
			INSERT INTO user_roles (user_id, role_id)
			SELECT $1, id FROM roles WHERE name = $2`,
			user.ID, role,
		)
		if err != nil {
			logg.Error("store", "Failed to grant role "+role, err)
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	logg.Info("store", "User created successfully (username anonymized)")
	return nil
}

// GetUserByID returns nil without an error when the user does not exist.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return scanUser(s.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(s.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(s.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		logg.Error("store", "Failed to list users", err)
		return nil, err
	}
	return collectUsers(rows)
}

// UpdateUser persists the mutable profile fields and updated_at.
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	_, err := s.Pool.Exec(ctx, `
		UPDATE users SET bio = $2, profile_picture = $3, updated_at = $4
		WHERE id = $1`,
		user.ID, user.Bio, user.ProfilePicture, user.Updated,
	)
	if err != nil {
		logg.Error("store", "Failed to update user (user_id anonymized)", err)
		return err
	}
	return nil
}

// DeleteUser removes the user row; posts, comments, likes, role grants
// and subscription edges go with it via ON DELETE CASCADE.
func (s *Store) DeleteUser(ctx context.Context, id string) (bool, error) {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		logg.Error("store", "Failed to delete user (user_id anonymized)", err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) GetUserRoles(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT r.name FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1 ORDER BY r.name`,
		userID,
	)
	if err != nil {
		logg.Error("store", "Failed to get user roles", err)
		return nil, err
	}
	defer rows.Close()

	var res []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		res = append(res, name)
	}
	return res, rows.Err()
}

// --- Subscription operations ---

// Subscribe adds a directed follow edge. The insert is idempotent: the
// primary key on (subscriber_id, target_id) dedupes concurrent duplicates
// and the affected-row count reports whether anything changed.
func (s *Store) Subscribe(ctx context.Context, subscriberID, targetID string) (bool, error) {
	tag, err := s.Pool.Exec(ctx, `
		INSERT INTO subscriptions (subscriber_id, target_id)
		VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		subscriberID, targetID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, models.NotFound("User", targetID)
		}
		logg.Error("store", "Failed to create subscription (user IDs anonymized)", err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) Unsubscribe(ctx context.Context, subscriberID, targetID string) (bool, error) {
	tag, err := s.Pool.Exec(ctx, `
		DELETE FROM subscriptions WHERE subscriber_id = $1 AND target_id = $2`,
		subscriberID, targetID,
	)
	if err != nil {
		logg.Error("store", "Failed to remove subscription (user IDs anonymized)", err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListSubscriptions returns the users this user follows.
func (s *Store) ListSubscriptions(ctx context.Context, userID string) ([]models.User, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT `+prefixedUserColumns+` FROM users u
		JOIN subscriptions sub ON sub.target_id = u.id
		WHERE sub.subscriber_id = $1 ORDER BY u.username`,
		userID,
	)
	if err != nil {
		logg.Error("store", "Failed to list subscriptions (user_id anonymized)", err)
		return nil, err
	}
	return collectUsers(rows)
}

// ListSubscribers returns the users following this user.
func (s *Store) ListSubscribers(ctx context.Context, userID string) ([]models.User, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT `+prefixedUserColumns+` FROM users u
		JOIN subscriptions sub ON sub.subscriber_id = u.id
		WHERE sub.target_id = $1 ORDER BY u.username`,
		userID,
	)
	if err != nil {
		logg.Error("store", "Failed to list subscribers (user_id anonymized)", err)
		return nil, err
	}
	return collectUsers(rows)
}

const prefixedUserColumns = `u.id, u.username, u.email, u.password_hash, u.bio, u.profile_picture, u.created_at, u.updated_at`
