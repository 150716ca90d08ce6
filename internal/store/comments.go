package store

import (
	"context"
	"errors"

	"example.com/socialmedia/internal/models"
	"github.com/jackc/pgx/v5"
)

const commentColumns = `c.id, c.post_id, c.user_id, c.content,
	(SELECT count(*) FROM comment_likes cl WHERE cl.comment_id = c.id) AS like_count,
	c.created_at, c.updated_at`

func scanComment(row pgx.Row) (*models.Comment, error) {
	var c models.Comment
	err := row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content,
		&c.LikeCount, &c.Created, &c.Updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func collectComments(rows pgx.Rows) ([]models.Comment, error) {
	defer rows.Close()

	var res []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content,
			&c.LikeCount, &c.Created, &c.Updated); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

// --- Comment operations ---

func (s *Store) CreateComment(ctx context.Context, comment models.Comment) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO comments (id, post_id, user_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		comment.ID, comment.PostID, comment.AuthorID, comment.Content,
		comment.Created, comment.Updated,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.NotFound("Post", comment.PostID)
		}
		logg.Error("store", "Failed to add comment", err)
		return err
	}

	logg.Info("store", "Comment added (comment content anonymized)")
	return nil
}

func (s *Store) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	return scanComment(s.Pool.QueryRow(ctx,
		`SELECT `+commentColumns+` FROM comments c WHERE c.id = $1`, id))
}

func (s *Store) ListComments(ctx context.Context) ([]models.Comment, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT `+commentColumns+` FROM comments c ORDER BY c.created_at DESC`)
	if err != nil {
		logg.Error("store", "Failed to list comments", err)
		return nil, err
	}
	return collectComments(rows)
}

func (s *Store) ListCommentsByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT `+commentColumns+` FROM comments c
		WHERE c.post_id = $1 ORDER BY c.created_at DESC`,
		postID,
	)
	if err != nil {
		logg.Error("store", "Failed to list comments by post (post_id anonymized)", err)
		return nil, err
	}
	return collectComments(rows)
}

func (s *Store) UpdateComment(ctx context.Context, comment *models.Comment) error {
	_, err := s.Pool.Exec(ctx, `
		UPDATE comments SET content = $2, updated_at = $3
		WHERE id = $1`,
		comment.ID, comment.Content, comment.Updated,
	)
	if err != nil {
		logg.Error("store", "Failed to update comment (comment_id anonymized)", err)
		return err
	}
	return nil
}

func (s *Store) DeleteComment(ctx context.Context, id string) (bool, error) {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		logg.Error("store", "Failed to delete comment (comment_id anonymized)", err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// LikeComment follows the same idempotent-toggle contract as LikePost.
func (s *Store) LikeComment(ctx context.Context, commentID, userID string) (bool, error) {
	tag, err := s.Pool.Exec(ctx, `
		INSERT INTO comment_likes (comment_id, user_id)
		VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		commentID, userID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, models.NotFound("Comment", commentID)
		}
		logg.Error("store", "Failed to like comment (IDs anonymized)", err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) UnlikeComment(ctx context.Context, commentID, userID string) (bool, error) {
	tag, err := s.Pool.Exec(ctx, `
		DELETE FROM comment_likes WHERE comment_id = $1 AND user_id = $2`,
		commentID, userID,
	)
	if err != nil {
		logg.Error("store", "Failed to unlike comment (IDs anonymized)", err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
