package service

import (
	"context"
	"testing"

	"example.com/socialmedia/internal/models"
	"example.com/socialmedia/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeRoundTrip(t *testing.T) {
	m := store.NewMock()
	users := NewUserService(m)
	ctx := context.Background()

	almazID := seedMockUser(t, m, "almaz")
	nurID := seedMockUser(t, m, "nur")

	changed, err := users.Subscribe(ctx, almazID, nurID)
	require.NoError(t, err)
	assert.True(t, changed)

	// Repeat subscribe is an idempotent no-op.
	changed, err = users.Subscribe(ctx, almazID, nurID)
	require.NoError(t, err)
	assert.False(t, changed)

	subs, err := users.Subscriptions(ctx, almazID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, nurID, subs[0].ID)

	// The edge is directed: Nur follows nobody.
	subs, err = users.Subscriptions(ctx, nurID)
	require.NoError(t, err)
	assert.Empty(t, subs)

	followers, err := users.Subscribers(ctx, nurID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, almazID, followers[0].ID)

	changed, err = users.Unsubscribe(ctx, almazID, nurID)
	require.NoError(t, err)
	assert.True(t, changed)

	followers, err = users.Subscribers(ctx, nurID)
	require.NoError(t, err)
	assert.Empty(t, followers)

	// Unsubscribing again is a no-op; re-subscribing is allowed.
	changed, err = users.Unsubscribe(ctx, almazID, nurID)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = users.Subscribe(ctx, almazID, nurID)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestSubscribeUnknownUsers(t *testing.T) {
	m := store.NewMock()
	users := NewUserService(m)
	ctx := context.Background()

	almazID := seedMockUser(t, m, "almaz")

	_, err := users.Subscribe(ctx, almazID, "missing")
	assert.True(t, models.IsNotFound(err))

	_, err = users.Subscribe(ctx, "missing", almazID)
	assert.True(t, models.IsNotFound(err))
}

func TestUpdateProfileTouchesProfileFieldsOnly(t *testing.T) {
	m := store.NewMock()
	users := NewUserService(m)
	ctx := context.Background()

	id := seedMockUser(t, m, "almaz")

	updated, err := users.UpdateProfile(ctx, id, "bio text", "pic.png")
	require.NoError(t, err)

	assert.Equal(t, "bio text", updated.Bio)
	assert.Equal(t, "pic.png", updated.ProfilePicture)
	assert.Equal(t, "almaz", updated.Username)
	assert.Equal(t, "almaz@example.com", updated.Email)
}

func TestGetUserNotFound(t *testing.T) {
	m := store.NewMock()
	users := NewUserService(m)
	ctx := context.Background()

	_, err := users.GetByID(ctx, "missing")
	assert.True(t, models.IsNotFound(err))

	_, err = users.GetByUsername(ctx, "ghost")
	assert.True(t, models.IsNotFound(err))

	err = users.Delete(ctx, "missing")
	assert.True(t, models.IsNotFound(err))
}

func TestDeleteUserCascades(t *testing.T) {
	m := store.NewMock()
	users := NewUserService(m)
	posts := NewPostService(m)
	ctx := context.Background()

	almazID := seedMockUser(t, m, "almaz")
	nurID := seedMockUser(t, m, "nur")

	post, err := posts.Create(ctx, almazID, "Title", "Content")
	require.NoError(t, err)

	_, err = users.Subscribe(ctx, nurID, almazID)
	require.NoError(t, err)

	require.NoError(t, users.Delete(ctx, almazID))

	_, err = posts.Get(ctx, post.ID)
	assert.True(t, models.IsNotFound(err))

	subs, err := users.Subscriptions(ctx, nurID)
	require.NoError(t, err)
	assert.Empty(t, subs)
}
