package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	config "example.com/socialmedia/internal/init"
	"example.com/socialmedia/internal/logger"
	"example.com/socialmedia/internal/models"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var logg = logger.New()

// --- Interfaces ---

// PoolInterface is the slice of pgxpool.Pool the store uses.
type PoolInterface interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// StoreInterface is the persistence surface of the application. Lookups
// return (nil, nil) when the entity is absent; translating absence into a
// not-found failure is the service layer's job. Toggle operations report
// whether state actually changed.
type StoreInterface interface {
	// Users
	CreateUser(ctx context.Context, user models.User, roles []string) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id string) (bool, error)
	GetUserRoles(ctx context.Context, userID string) ([]string, error)

	// Subscriptions
	Subscribe(ctx context.Context, subscriberID, targetID string) (bool, error)
	Unsubscribe(ctx context.Context, subscriberID, targetID string) (bool, error)
	ListSubscriptions(ctx context.Context, userID string) ([]models.User, error)
	ListSubscribers(ctx context.Context, userID string) ([]models.User, error)

	// Posts
	CreatePost(ctx context.Context, post models.Post) error
	GetPost(ctx context.Context, id string) (*models.Post, error)
	GetPostCountingView(ctx context.Context, id string) (*models.Post, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	ListPostsByAuthor(ctx context.Context, userID string) ([]models.Post, error)
	GetFeed(ctx context.Context, userID string) ([]models.Post, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id string) (bool, error)
	LikePost(ctx context.Context, postID, userID string) (bool, error)
	UnlikePost(ctx context.Context, postID, userID string) (bool, error)

	// Comments
	CreateComment(ctx context.Context, comment models.Comment) error
	GetComment(ctx context.Context, id string) (*models.Comment, error)
	ListComments(ctx context.Context) ([]models.Comment, error)
	ListCommentsByPost(ctx context.Context, postID string) ([]models.Comment, error)
	UpdateComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, id string) (bool, error)
	LikeComment(ctx context.Context, commentID, userID string) (bool, error)
	UnlikeComment(ctx context.Context, commentID, userID string) (bool, error)

	Close()
}

// --- Store Implementation ---

type Store struct {
	Pool PoolInterface
}

// New connects to Postgres using the config package and runs pending
// migrations before handing out the pool.
func New(ctx context.Context) (StoreInterface, error) {
	cfg := config.Get()

	if err := runMigrations(cfg); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Postgres DSN: %w", err)
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.PostgresTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping Postgres: %w", err)
	}

	logg.Info("store", "Connected to Postgres (DSN anonymized)")
	return &Store{Pool: pool}, nil
}

// --- Migration runner ---

func runMigrations(cfg *config.Config) error {
	sourceURL := fmt.Sprintf("file://%s", cfg.MigrationsPath)
	// golang-migrate's pgx/v5 driver registers the pgx5:// scheme.
	dbURL := strings.Replace(cfg.PostgresDSN, "postgres://", "pgx5://", 1)

	m, err := migrate.New(sourceURL, dbURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration up failed: %w", err)
	}

	if err == migrate.ErrNoChange {
		logg.Info("store", "No new migrations to apply")
	} else {
		logg.Info("store", "Migrations applied successfully")
	}
	return nil
}

// Close gracefully closes the connection pool.
func (s *Store) Close() {
	if s.Pool != nil {
		s.Pool.Close()
		logg.Info("store", "Postgres pool closed")
	}
}

// --- Constraint violation mapping ---

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapSignupConflict turns unique-constraint violations from concurrent
// duplicate signups into the same errors the pre-insert checks produce.
func mapSignupConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		if strings.Contains(pgErr.ConstraintName, "email") {
			return models.ErrEmailInUse
		}
		return models.ErrUsernameTaken
	}
	return err
}

// isForeignKeyViolation reports whether an insert lost a race against the
// deletion of a referenced row.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
