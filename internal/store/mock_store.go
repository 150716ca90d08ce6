package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"example.com/socialmedia/internal/models"
	"github.com/google/uuid"
)

// MockStore simulates the Postgres store for testing. It mirrors the real
// semantics: idempotent like/subscribe toggles, cascade on delete, and
// newest-first ordering.
type MockStore struct {
	mu sync.Mutex

	Users         map[string]models.User
	Roles         map[string][]string            // user id -> role names
	Subscriptions map[string]map[string]bool     // subscriber id -> target ids
	Posts         map[string]models.Post
	PostLikes     map[string]map[string]bool     // post id -> user ids
	Comments      map[string]models.Comment
	CommentLikes  map[string]map[string]bool     // comment id -> user ids

	ShouldFail bool // flag to simulate failures
}

// NewMock initializes a new mock store
func NewMock() *MockStore {
	return &MockStore{
		Users:         make(map[string]models.User),
		Roles:         make(map[string][]string),
		Subscriptions: make(map[string]map[string]bool),
		Posts:         make(map[string]models.Post),
		PostLikes:     make(map[string]map[string]bool),
		Comments:      make(map[string]models.Comment),
		CommentLikes:  make(map[string]map[string]bool),
	}
}

func (m *MockStore) Close() {}

var errMock = errors.New("mock: store failure")

// --- User operations ---

func (m *MockStore) CreateUser(ctx context.Context, user models.User, roles []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return errMock
	}
	for _, u := range m.Users {
		if u.Username == user.Username {
			return models.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return models.ErrEmailInUse
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	m.Users[user.ID] = user
	m.Roles[user.ID] = append([]string(nil), roles...)
	return nil
}

func (m *MockStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, errMock
	}
	if u, ok := m.Users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (m *MockStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, errMock
	}
	for _, u := range m.Users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *MockStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, errMock
	}
	for _, u := range m.Users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *MockStore) ListUsers(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, errMock
	}
	var res []models.User
	for _, u := range m.Users {
		res = append(res, u)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Created.After(res[j].Created) })
	return res, nil
}

func (m *MockStore) UpdateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return errMock
	}
	if u, ok := m.Users[user.ID]; ok {
		u.Bio = user.Bio
		u.ProfilePicture = user.ProfilePicture
		u.Updated = user.Updated
		m.Users[user.ID] = u
	}
	return nil
}

func (m *MockStore) DeleteUser(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return false, errMock
	}
	if _, ok := m.Users[id]; !ok {
		return false, nil
	}
	delete(m.Users, id)
	delete(m.Roles, id)
	delete(m.Subscriptions, id)
	for _, targets := range m.Subscriptions {
		delete(targets, id)
	}
	for postID, p := range m.Posts {
		if p.AuthorID == id {
			m.deletePostLocked(postID)
		}
	}
	for commentID, c := range m.Comments {
		if c.AuthorID == id {
			delete(m.Comments, commentID)
			delete(m.CommentLikes, commentID)
		}
	}
	for _, likes := range m.PostLikes {
		delete(likes, id)
	}
	for _, likes := range m.CommentLikes {
		delete(likes, id)
	}
	return true, nil
}

func (m *MockStore) GetUserRoles(ctx context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, errMock
	}
	return append([]string(nil), m.Roles[userID]...), nil
}

// --- Subscription operations ---

func (m *MockStore) Subscribe(ctx context.Context, subscriberID, targetID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return false, errMock
	}
	if m.Subscriptions[subscriberID] == nil {
		m.Subscriptions[subscriberID] = make(map[string]bool)
	}
	if m.Subscriptions[subscriberID][targetID] {
		return false, nil
	}
	m.Subscriptions[subscriberID][targetID] = true
	return true, nil
}

func (m *MockStore) Unsubscribe(ctx context.Context, subscriberID, targetID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return false, errMock
	}
	if !m.Subscriptions[subscriberID][targetID] {
		return false, nil
	}
	delete(m.Subscriptions[subscriberID], targetID)
	return true, nil
}

func (m *MockStore) ListSubscriptions(ctx context.Context, userID string) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, errMock
	}
	var res []models.User
	for targetID := range m.Subscriptions[userID] {
		if u, ok := m.Users[targetID]; ok {
			res = append(res, u)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Username < res[j].Username })
	return res, nil
}

func (m *MockStore) ListSubscribers(ctx context.Context, userID string) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, errMock
	}
	var res []models.User
	for subscriberID, targets := range m.Subscriptions {
		if targets[userID] {
			if u, ok := m.Users[subscriberID]; ok {
				res = append(res, u)
			}
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Username < res[j].Username })
	return res, nil
}

// --- Post operations ---

func (m *MockStore) CreatePost(ctx context.Context, post models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return errMock
	}
	if _, ok := m.Users[post.AuthorID]; !ok {
		return models.NotFound("User", post.AuthorID)
	}
	m.Posts[post.ID] = post
	return nil
}

func (m *MockStore) getPostLocked(id string) (*models.Post, bool) {
	p, ok := m.Posts[id]
	if !ok {
		return nil, false
	}
	p.LikeCount = int64(len(m.PostLikes[id]))
	return &p, true
}

func (m *MockStore) GetPost(ctx context.Context, id string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, errMock
	}
	p, ok := m.getPostLocked(id)
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (m *MockStore) GetPostCountingView(ctx context.Context, id string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, errMock
	}
	p, ok := m.Posts[id]
	if !ok {
		return nil, nil
	}
	p.ViewCount++
	m.Posts[id] = p
	p.LikeCount = int64(len(m.PostLikes[id]))
	return &p, nil
}

func (m *MockStore) postList(filter func(models.Post) bool) []models.Post {
	var res []models.Post
	for id, p := range m.Posts {
		if filter(p) {
			p.LikeCount = int64(len(m.PostLikes[id]))
			res = append(res, p)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Created.After(res[j].Created) })
	return res
}

func (m *MockStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, errMock
	}
	return m.postList(func(models.Post) bool { return true }), nil
}

func (m *MockStore) ListPostsByAuthor(ctx context.Context, userID string) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, errMock
	}
	return m.postList(func(p models.Post) bool { return p.AuthorID == userID }), nil
}

func (m *MockStore) GetFeed(ctx context.Context, userID string) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, errMock
	}
	return m.postList(func(p models.Post) bool {
		return p.AuthorID == userID || m.Subscriptions[userID][p.AuthorID]
	}), nil
}

func (m *MockStore) UpdatePost(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return errMock
	}
	if p, ok := m.Posts[post.ID]; ok {
		p.Title = post.Title
		p.Content = post.Content
		p.Updated = post.Updated
		m.Posts[post.ID] = p
	}
	return nil
}

func (m *MockStore) deletePostLocked(id string) {
	delete(m.Posts, id)
	delete(m.PostLikes, id)
	for commentID, c := range m.Comments {
		if c.PostID == id {
			delete(m.Comments, commentID)
			delete(m.CommentLikes, commentID)
		}
	}
}

func (m *MockStore) DeletePost(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return false, errMock
	}
	if _, ok := m.Posts[id]; !ok {
		return false, nil
	}
	m.deletePostLocked(id)
	return true, nil
}

func (m *MockStore) LikePost(ctx context.Context, postID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return false, errMock
	}
	if _, ok := m.Posts[postID]; !ok {
		return false, models.NotFound("Post", postID)
	}
	if m.PostLikes[postID] == nil {
		m.PostLikes[postID] = make(map[string]bool)
	}
	if m.PostLikes[postID][userID] {
		return false, nil
	}
	m.PostLikes[postID][userID] = true
	return true, nil
}

func (m *MockStore) UnlikePost(ctx context.Context, postID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return false, errMock
	}
	if !m.PostLikes[postID][userID] {
		return false, nil
	}
	delete(m.PostLikes[postID], userID)
	return true, nil
}

// --- Comment operations ---

func (m *MockStore) CreateComment(ctx context.Context, comment models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return errMock
	}
	if _, ok := m.Posts[comment.PostID]; !ok {
		return models.NotFound("Post", comment.PostID)
	}
	m.Comments[comment.ID] = comment
	return nil
}

func (m *MockStore) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, errMock
	}
	c, ok := m.Comments[id]
	if !ok {
		return nil, nil
	}
	c.LikeCount = int64(len(m.CommentLikes[id]))
	return &c, nil
}

func (m *MockStore) commentList(filter func(models.Comment) bool) []models.Comment {
	var res []models.Comment
	for id, c := range m.Comments {
		if filter(c) {
			c.LikeCount = int64(len(m.CommentLikes[id]))
			res = append(res, c)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Created.After(res[j].Created) })
	return res
}

func (m *MockStore) ListComments(ctx context.Context) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, errMock
	}
	return m.commentList(func(models.Comment) bool { return true }), nil
}

func (m *MockStore) ListCommentsByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, errMock
	}
	return m.commentList(func(c models.Comment) bool { return c.PostID == postID }), nil
}

func (m *MockStore) UpdateComment(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return errMock
	}
	if c, ok := m.Comments[comment.ID]; ok {
		c.Content = comment.Content
		c.Updated = comment.Updated
		m.Comments[comment.ID] = c
	}
	return nil
}

func (m *MockStore) DeleteComment(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return false, errMock
	}
	if _, ok := m.Comments[id]; !ok {
		return false, nil
	}
	delete(m.Comments, id)
	delete(m.CommentLikes, id)
	return true, nil
}

func (m *MockStore) LikeComment(ctx context.Context, commentID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return false, errMock
	}
	if _, ok := m.Comments[commentID]; !ok {
		return false, models.NotFound("Comment", commentID)
	}
	if m.CommentLikes[commentID] == nil {
		m.CommentLikes[commentID] = make(map[string]bool)
	}
	if m.CommentLikes[commentID][userID] {
		return false, nil
	}
	m.CommentLikes[commentID][userID] = true
	return true, nil
}

func (m *MockStore) UnlikeComment(ctx context.Context, commentID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return false, errMock
	}
	if !m.CommentLikes[commentID][userID] {
		return false, nil
	}
	delete(m.CommentLikes[commentID], userID)
	return true, nil
}
