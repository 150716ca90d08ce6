package service

import (
	"context"
	"strings"
	"time"

	"example.com/socialmedia/internal/models"
	"example.com/socialmedia/internal/store"
	"github.com/google/uuid"
)

type PostService struct {
	store store.StoreInterface
}

func NewPostService(st store.StoreInterface) *PostService {
	return &PostService{store: st}
}

func validatePostFields(title, content string) error {
	var v models.Validator
	if strings.TrimSpace(title) == "" {
		v.Fail("title", "must not be blank")
	} else if len(title) > 255 {
		v.Fail("title", "must be at most 255 characters")
	}
	if strings.TrimSpace(content) == "" {
		v.Fail("content", "must not be blank")
	}
	return v.Err()
}

func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	return s.store.ListPosts(ctx)
}

// Get returns the post by id and counts the view: every direct fetch
// increments the view counter by one. Not idempotent on purpose.
func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.store.GetPostCountingView(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NotFound("Post", id)
	}
	return post, nil
}

func (s *PostService) ListByAuthor(ctx context.Context, userID string) ([]models.Post, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListPostsByAuthor(ctx, userID)
}

// Feed returns the user's own posts plus posts of everyone they
// subscribe to, newest first.
func (s *PostService) Feed(ctx context.Context, userID string) ([]models.Post, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.GetFeed(ctx, userID)
}

// Create binds the post to the owning user given in the path; any owner
// supplied in the request body is ignored by the HTTP layer.
func (s *PostService) Create(ctx context.Context, authorID, title, content string) (*models.Post, error) {
	if err := validatePostFields(title, content); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, authorID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := models.Post{
		ID:       uuid.NewString(),
		AuthorID: authorID,
		Title:    title,
		Content:  content,
		Created:  now,
		Updated:  now,
	}

	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	logg.Info("service/posts", "Post created successfully (user_id anonymized)")
	return &post, nil
}

// Update mutates title and content only; the owner is immutable.
func (s *PostService) Update(ctx context.Context, id, title, content string) (*models.Post, error) {
	if err := validatePostFields(title, content); err != nil {
		return nil, err
	}

	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NotFound("Post", id)
	}

	post.Title = title
	post.Content = content
	post.Updated = time.Now().UTC()

	if err := s.store.UpdatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, id string) error {
	deleted, err := s.store.DeletePost(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NotFound("Post", id)
	}
	logg.Info("service/posts", "Post deleted (post_id anonymized)")
	return nil
}

// Like adds the user to the post's like set. Returns true when the set
// changed, false when the user had already liked the post.
func (s *PostService) Like(ctx context.Context, postID, userID string) (bool, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return false, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return false, err
	}
	return s.store.LikePost(ctx, postID, userID)
}

// Unlike removes the user from the like set. Returns false when the user
// had not liked the post.
func (s *PostService) Unlike(ctx context.Context, postID, userID string) (bool, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return false, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return false, err
	}
	return s.store.UnlikePost(ctx, postID, userID)
}

func (s *PostService) requireUser(ctx context.Context, id string) error {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return models.NotFound("User", id)
	}
	return nil
}

func (s *PostService) requirePost(ctx context.Context, id string) error {
	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if post == nil {
		return models.NotFound("Post", id)
	}
	return nil
}
