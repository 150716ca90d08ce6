package service

import (
	"context"
	"strings"
	"time"

	"example.com/socialmedia/internal/models"
	"example.com/socialmedia/internal/store"
	"github.com/google/uuid"
)

type CommentService struct {
	store store.StoreInterface
}

func NewCommentService(st store.StoreInterface) *CommentService {
	return &CommentService{store: st}
}

func validateCommentContent(content string) error {
	var v models.Validator
	if strings.TrimSpace(content) == "" {
		v.Fail("content", "must not be blank")
	}
	return v.Err()
}

func (s *CommentService) List(ctx context.Context) ([]models.Comment, error) {
	return s.store.ListComments(ctx)
}

func (s *CommentService) Get(ctx context.Context, id string) (*models.Comment, error) {
	comment, err := s.store.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, models.NotFound("Comment", id)
	}
	return comment, nil
}

func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	return s.store.ListCommentsByPost(ctx, postID)
}

// Create binds the comment to both its post and its author; both must
// exist.
func (s *CommentService) Create(ctx context.Context, postID, authorID, content string) (*models.Comment, error) {
	if err := validateCommentContent(content); err != nil {
		return nil, err
	}
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, authorID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	comment := models.Comment{
		ID:       uuid.NewString(),
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
		Created:  now,
		Updated:  now,
	}

	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	logg.Info("service/comments", "Comment created successfully (IDs anonymized)")
	return &comment, nil
}

// Update mutates content only; post and author bindings are immutable.
func (s *CommentService) Update(ctx context.Context, id, content string) (*models.Comment, error) {
	if err := validateCommentContent(content); err != nil {
		return nil, err
	}

	comment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	comment.Content = content
	comment.Updated = time.Now().UTC()

	if err := s.store.UpdateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, id string) error {
	deleted, err := s.store.DeleteComment(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NotFound("Comment", id)
	}
	logg.Info("service/comments", "Comment deleted (comment_id anonymized)")
	return nil
}

// Like and Unlike follow the same idempotent-toggle contract as posts.
func (s *CommentService) Like(ctx context.Context, commentID, userID string) (bool, error) {
	if _, err := s.Get(ctx, commentID); err != nil {
		return false, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return false, err
	}
	return s.store.LikeComment(ctx, commentID, userID)
}

func (s *CommentService) Unlike(ctx context.Context, commentID, userID string) (bool, error) {
	if _, err := s.Get(ctx, commentID); err != nil {
		return false, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return false, err
	}
	return s.store.UnlikeComment(ctx, commentID, userID)
}

func (s *CommentService) requireUser(ctx context.Context, id string) error {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return models.NotFound("User", id)
	}
	return nil
}

func (s *CommentService) requirePost(ctx context.Context, id string) error {
	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if post == nil {
		return models.NotFound("Post", id)
	}
	return nil
}
