package usecase

import (
	"context"
	"testing"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserProfile_GetAndUpdate(t *testing.T) {
	env := newTestEnv(t)
	user := testUser(entity.RoleClient)
	env.users.users[user.ID] = user

	events := NewAuthEvents()
	var seen []AuthEvent
	events.Subscribe(func(c AuthStateChange) { seen = append(seen, c.Event) })

	svc := NewUserService(env.repo, events, env.clock, env.log)
	ctx := context.Background()

	profile, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria Lopez", profile.FullName)

	name := "  Ana Lopez "
	updated, err := svc.UpdateProfile(ctx, user.ID, &request.UpdateProfileRequest{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ana Lopez", updated.FullName)
	assert.Equal(t, []AuthEvent{AuthUserUpdated}, seen)

	bad := "not a url"
	_, err = svc.UpdateProfile(ctx, user.ID, &request.UpdateProfileRequest{AvatarURL: &bad})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserDeleteAccount_RevokesSessions(t *testing.T) {
	env := newTestEnv(t)
	user := testUser(entity.RoleClient)
	env.users.users[user.ID] = user

	session := &entity.Session{
		Token:     uuid.New(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, env.sessions.Create(context.Background(), session))

	svc := NewUserService(env.repo, NewAuthEvents(), env.clock, env.log)
	require.NoError(t, svc.DeleteAccount(context.Background(), user.ID))

	assert.False(t, env.users.users[user.ID].IsActive)
	found, err := env.sessions.FindValidSession(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Nil(t, found)
}
