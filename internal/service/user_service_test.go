package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliptube/cliptube/internal/auth"
	"github.com/cliptube/cliptube/internal/domain"
	"github.com/cliptube/cliptube/internal/query"
)

func testTokenManager() *auth.TokenManager {
	return auth.NewTokenManager(auth.TokenManagerConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
		Issuer:        "cliptube-test",
	})
}

func newTestUserService() (*UserService, *mockSource, *mockBlobStore) {
	store, src := newMockStore()
	blobs := newMockBlobStore()
	svc := NewUserService(store, blobs, testTokenManager(), zerolog.Nop())
	return svc, src, blobs
}

func registerTestUser(t *testing.T, svc *UserService, userName, email string) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterInput{
		UserName: userName,
		Email:    email,
		FullName: "Test User",
		Password: "password123",
		Avatar:   &Upload{Reader: strings.NewReader("avatar-bytes"), ContentType: "image/png"},
	})
	require.NoError(t, err)
	return user
}

func TestUserServiceRegister(t *testing.T) {
	svc, _, _ := newTestUserService()
	ctx := context.Background()

	user := registerTestUser(t, svc, "Alice", "alice@example.com")
	assert.Equal(t, "alice", user.UserName)
	assert.NotEmpty(t, user.AvatarURL)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.True(t, domain.ValidID(user.ID))

	tests := map[string]struct {
		input   RegisterInput
		wantErr error
	}{
		"duplicate username": {
			input: RegisterInput{
				UserName: "alice", Email: "other@example.com", FullName: "Other",
				Password: "password123",
				Avatar:   &Upload{Reader: strings.NewReader("x"), ContentType: "image/png"},
			},
			wantErr: domain.ErrUserAlreadyExists,
		},
		"duplicate email": {
			input: RegisterInput{
				UserName: "bob", Email: "alice@example.com", FullName: "Bob",
				Password: "password123",
				Avatar:   &Upload{Reader: strings.NewReader("x"), ContentType: "image/png"},
			},
			wantErr: domain.ErrUserAlreadyExists,
		},
		"short password": {
			input: RegisterInput{
				UserName: "carol", Email: "carol@example.com", FullName: "Carol",
				Password: "short",
				Avatar:   &Upload{Reader: strings.NewReader("x"), ContentType: "image/png"},
			},
			wantErr: domain.ErrInvalidPassword,
		},
		"bad email": {
			input: RegisterInput{
				UserName: "carol", Email: "not-an-email", FullName: "Carol",
				Password: "password123",
				Avatar:   &Upload{Reader: strings.NewReader("x"), ContentType: "image/png"},
			},
			wantErr: domain.ErrInvalidEmail,
		},
		"missing avatar": {
			input: RegisterInput{
				UserName: "carol", Email: "carol@example.com", FullName: "Carol",
				Password: "password123",
			},
			wantErr: domain.ErrMissingField,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.input)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestUserServiceLogin(t *testing.T) {
	svc, _, _ := newTestUserService()
	ctx := context.Background()
	registerTestUser(t, svc, "alice", "alice@example.com")

	out, err := svc.Login(ctx, LoginInput{UserName: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Session.AccessToken)
	assert.NotEmpty(t, out.Session.RefreshToken)

	byEmail, err := svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, byEmail.User.ID)

	_, err = svc.Login(ctx, LoginInput{UserName: "alice", Password: "wrong-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{UserName: "nobody", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrMissingField)
}

func TestUserServiceRefreshRotation(t *testing.T) {
	svc, _, _ := newTestUserService()
	ctx := context.Background()
	registerTestUser(t, svc, "alice", "alice@example.com")

	out, err := svc.Login(ctx, LoginInput{UserName: "alice", Password: "password123"})
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, out.Session.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.Session.RefreshToken)

	// The pre-rotation token no longer matches the stored hash.
	_, err = svc.Refresh(ctx, out.Session.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrTokenMismatch)

	require.NoError(t, svc.Logout(ctx, out.User.ID))
	_, err = svc.Refresh(ctx, rotated.Session.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrTokenMismatch)

	_, err = svc.Refresh(ctx, "")
	assert.ErrorIs(t, err, auth.ErrMissingToken)

	_, err = svc.Refresh(ctx, "garbage-token")
	assert.Error(t, err)
}

func TestUserServiceChangePassword(t *testing.T) {
	svc, _, _ := newTestUserService()
	ctx := context.Background()
	user := registerTestUser(t, svc, "alice", "alice@example.com")

	err := svc.ChangePassword(ctx, user.ID, "wrong-password", "newpassword1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	err = svc.ChangePassword(ctx, user.ID, "password123", "short")
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "password123", "newpassword1"))

	_, err = svc.Login(ctx, LoginInput{UserName: "alice", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.Login(ctx, LoginInput{UserName: "alice", Password: "newpassword1"})
	assert.NoError(t, err)
}

func TestUserServiceUpdateAvatarReleasesOldBlob(t *testing.T) {
	svc, _, blobs := newTestUserService()
	ctx := context.Background()
	user := registerTestUser(t, svc, "alice", "alice@example.com")
	oldURL := user.AvatarURL

	updated, err := svc.UpdateAvatar(ctx, user.ID, Upload{
		Reader:      strings.NewReader("new-avatar"),
		ContentType: "image/png",
	})
	require.NoError(t, err)
	assert.NotEqual(t, oldURL, updated.AvatarURL)
	assert.Contains(t, blobs.deletedURLs(), oldURL)
}

func TestUserServiceChannelProfile(t *testing.T) {
	svc, src, _ := newTestUserService()
	ctx := context.Background()

	channel := registerTestUser(t, svc, "channel", "channel@example.com")
	fan := registerTestUser(t, svc, "fan", "fan@example.com")
	other := registerTestUser(t, svc, "other", "other@example.com")

	require.NoError(t, src.subs.Create(ctx, domain.NewSubscription(fan.ID, channel.ID)))
	require.NoError(t, src.subs.Create(ctx, domain.NewSubscription(other.ID, channel.ID)))
	require.NoError(t, src.subs.Create(ctx, domain.NewSubscription(channel.ID, other.ID)))

	profile, err := svc.ChannelProfile(ctx, fan.ID, "Channel")
	require.NoError(t, err)
	assert.Equal(t, "channel", profile["userName"])
	assert.Equal(t, int64(2), profile["subscribersCount"])
	assert.Equal(t, int64(1), profile["channelsSubscribedToCount"])
	assert.Equal(t, true, profile["isSubscribed"])

	anon, err := svc.ChannelProfile(ctx, "", "channel")
	require.NoError(t, err)
	assert.Equal(t, false, anon["isSubscribed"])

	_, err = svc.ChannelProfile(ctx, fan.ID, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserServiceWatchHistoryOrder(t *testing.T) {
	svc, src, _ := newTestUserService()
	ctx := context.Background()

	owner := registerTestUser(t, svc, "owner", "owner@example.com")
	viewer := registerTestUser(t, svc, "viewer", "viewer@example.com")

	v1 := domain.NewVideo(owner.ID, "u1", "t1", "First", "", 10)
	v2 := domain.NewVideo(owner.ID, "u2", "t2", "Second", "", 20)
	require.NoError(t, src.videos.Create(ctx, v1))
	require.NoError(t, src.videos.Create(ctx, v2))

	require.NoError(t, src.users.AddWatchHistory(ctx, viewer.ID, v2.ID))
	require.NoError(t, src.users.AddWatchHistory(ctx, viewer.ID, v1.ID))
	require.NoError(t, src.users.AddWatchHistory(ctx, viewer.ID, v2.ID))

	history, err := svc.WatchHistory(ctx, viewer.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, v2.ID, history[0]["id"])
	assert.Equal(t, v1.ID, history[1]["id"])

	ownerDoc, ok := history[0]["owner"].(query.Document)
	require.True(t, ok)
	assert.Equal(t, "owner", ownerDoc["userName"])
}
