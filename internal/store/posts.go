package store

import (
	"context"
	"errors"

	"example.com/socialmedia/internal/models"
	"github.com/jackc/pgx/v5"
)

const postColumns = `p.id, p.user_id, p.title, p.content, p.view_count,
	(SELECT count(*) FROM post_likes pl WHERE pl.post_id = p.id) AS like_count,
	p.created_at, p.updated_at`

func scanPost(row pgx.Row) (*models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Content,
		&p.ViewCount, &p.LikeCount, &p.Created, &p.Updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func collectPosts(rows pgx.Rows) ([]models.Post, error) {
	defer rows.Close()

	var res []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Content,
			&p.ViewCount, &p.LikeCount, &p.Created, &p.Updated); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

// --- Post operations ---

func (s *Store) CreatePost(ctx context.Context, post models.Post) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO posts (id, user_id, title, content, view_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, $5, $6)`,
		post.ID, post.AuthorID, post.Title, post.Content, post.Created, post.Updated,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.NotFound("User", post.AuthorID)
		}
		logg.Error("store", "Failed to add post", err)
		return err
	}

	logg.Info("store", "Post added to posts table (post content anonymized)")
	return nil
}

// GetPost returns the post without touching the view counter.
func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return scanPost(s.Pool.QueryRow(ctx,
		`SELECT `+postColumns+` FROM posts p WHERE p.id = $1`, id))
}

// GetPostCountingView bumps the view counter and returns the post with
// the incremented value. The single UPDATE keeps concurrent increments
// from losing updates; the engine's row lock serializes them.
func (s *Store) GetPostCountingView(ctx context.Context, id string) (*models.Post, error) {
	return scanPost(s.Pool.QueryRow(ctx, `
		WITH viewed AS (
			UPDATE posts SET view_count = view_count + 1
			WHERE id = $1
			RETURNING id, user_id, title, content, view_count, created_at, updated_at
		)
		SELECT p.id, p.user_id, p.title, p.content, p.view_count,
			(SELECT count(*) FROM post_likes pl WHERE pl.post_id = p.id) AS like_count,
			p.created_at, p.updated_at
		FROM viewed p`,
		id,
	))
}

func (s *Store) ListPosts(ctx context.Context) ([]models.Post, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT `+postColumns+` FROM posts p ORDER BY p.created_at DESC`)
	if err != nil {
		logg.Error("store", "Failed to list posts", err)
		return nil, err
	}
	return collectPosts(rows)
}

func (s *Store) ListPostsByAuthor(ctx context.Context, userID string) ([]models.Post, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT `+postColumns+` FROM posts p
		WHERE p.user_id = $1 ORDER BY p.created_at DESC`,
		userID,
	)
	if err != nil {
		logg.Error("store", "Failed to list posts by author (user_id anonymized)", err)
		return nil, err
	}
	return collectPosts(rows)
}

// GetFeed returns the user's own posts plus posts of everyone they
// subscribe to, newest first. Written as a single indexed query; the OR
// keeps a self-subscription from duplicating rows.
func (s *Store) GetFeed(ctx context.Context, userID string) ([]models.Post, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT `+postColumns+` FROM posts p
		WHERE p.user_id = $1
		   OR p.user_id IN (SELECT target_id FROM subscriptions WHERE subscriber_id = $1)
		ORDER BY p.created_at DESC`,
		userID,
	)
	if err != nil {
		logg.Error("store", "Failed to retrieve user feed (user_id anonymized)", err)
		return nil, err
	}
	return collectPosts(rows)
}

// UpdatePost persists title, content and updated_at; the owner column is
// never part of the statement.
func (s *Store) UpdatePost(ctx context.Context, post *models.Post) error {
	_, err := s.Pool.Exec(ctx, `
		UPDATE posts SET title = $2, content = $3, updated_at = $4
		WHERE id = $1`,
		post.ID, post.Title, post.Content, post.Updated,
	)
	if err != nil {
		logg.Error("store", "Failed to update post (post_id anonymized)", err)
		return err
	}
	return nil
}

// DeletePost removes the post; its comments and like rows cascade.
func (s *Store) DeletePost(ctx context.Context, id string) (bool, error) {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		logg.Error("store", "Failed to delete post (post_id anonymized)", err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// LikePost adds the user to the post's like set. The composite primary
// key makes the insert idempotent, including under concurrent duplicates;
// the affected-row count reports whether the set actually changed.
func (s *Store) LikePost(ctx context.Context, postID, userID string) (bool, error) {
	tag, err := s.Pool.Exec(ctx, `
		INSERT INTO post_likes (post_id, user_id)
		VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		postID, userID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, models.NotFound("Post", postID)
		}
		logg.Error("store", "Failed to like post (IDs anonymized)", err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) UnlikePost(ctx context.Context, postID, userID string) (bool, error) {
	tag, err := s.Pool.Exec(ctx, `
		DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`,
		postID, userID,
	)
	if err != nil {
		logg.Error("store", "Failed to unlike post (IDs anonymized)", err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
