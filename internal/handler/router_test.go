package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliptube/cliptube/internal/auth"
	"github.com/cliptube/cliptube/internal/cache/memory"
	"github.com/cliptube/cliptube/internal/repository/sqlite"
	"github.com/cliptube/cliptube/internal/service"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	ctx := context.Background()
	db, err := sqlite.NewDB(ctx, sqlite.DefaultConfig(":memory:"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(ctx))

	store := sqlite.NewStore(db)
	blobs := newFakeBlobStore()
	tokens := auth.NewTokenManager(auth.TokenManagerConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
		Issuer:        "cliptube-test",
	})

	c := memory.NewCache()
	t.Cleanup(c.Stop)
	views := service.NewViewCounter(store.Videos, c, time.Hour, zerolog.Nop())
	t.Cleanup(views.Stop)

	logger := zerolog.Nop()
	svcs := Services{
		Users:         service.NewUserService(store, blobs, tokens, logger),
		Videos:        service.NewVideoService(store, blobs, views, logger),
		Comments:      service.NewCommentService(store, logger),
		Likes:         service.NewLikeService(store, logger),
		Subscriptions: service.NewSubscriptionService(store, logger),
		Tweets:        service.NewTweetService(store, logger),
		Playlists:     service.NewPlaylistService(store, logger),
		Dashboard:     service.NewDashboardService(store, logger),
	}

	router := NewRouter(Config{MaxUploadSize: 32 << 20}, svcs, tokens, db, logger)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func registerAndLogin(t *testing.T, srv *httptest.Server, userName string) (accessToken string) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("userName", userName))
	require.NoError(t, mw.WriteField("email", userName+"@example.com"))
	require.NoError(t, mw.WriteField("fullName", "Test "+userName))
	require.NoError(t, mw.WriteField("password", "password123"))
	part, err := mw.CreateFormFile("avatar", "avatar.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/api/v1/users/register", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	loginBody, _ := json.Marshal(map[string]string{"userName": userName, "password": "password123"})
	resp, err = http.Post(srv.URL+"/api/v1/users/login", "application/json", bytes.NewReader(loginBody))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Data struct {
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Data.AccessToken)
	return out.Data.AccessToken
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeData(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out.Data
}

func TestRouterAuthRequired(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/videos/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "unauthorized request", body.Message)
}

func TestRouterTweetLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "author")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/tweets/", token, map[string]string{"content": "hello"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tweet := decodeData(t, resp)
	tweetID, _ := tweet["id"].(string)
	require.NotEmpty(t, tweetID)

	resp = doJSON(t, http.MethodPatch, srv.URL+"/api/v1/tweets/"+tweetID, token, map[string]string{"content": "edited"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	edited := decodeData(t, resp)
	assert.Equal(t, "edited", edited["content"])

	// A different user cannot delete it.
	otherToken := registerAndLogin(t, srv, "rival")
	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/tweets/"+tweetID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/tweets/"+tweetID, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/tweets/"+tweetID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestRouterSubscriptionToggle(t *testing.T) {
	srv := newTestServer(t)
	fanToken := registerAndLogin(t, srv, "fan")
	_ = registerAndLogin(t, srv, "channel")

	// Resolve the channel's ID via its public profile.
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/users/channel/channel", fanToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := decodeData(t, resp)
	channelID, _ := profile["id"].(string)
	require.NotEmpty(t, channelID)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/subscriptions/channelId/"+channelID, fanToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	created := decodeData(t, resp)
	assert.Equal(t, true, created["created"])

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/subscriptions/channelId/"+channelID, fanToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	var list struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list.Data, 1)

	detail, _ := list.Data[0]["subscriberDetails"].(map[string]any)
	require.NotNil(t, detail)
	assert.Equal(t, "fan", detail["userName"])

	// Toggling again removes the subscription and the listing empties.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/subscriptions/channelId/"+channelID, fanToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	removed := decodeData(t, resp)
	assert.Equal(t, false, removed["created"])

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/subscriptions/channelId/"+channelID, fanToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var empty struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&empty))
	resp.Body.Close()
	assert.Empty(t, empty.Data)
}

func TestRouterValidationErrors(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "user")

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/videos/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/tweets/", token, map[string]string{"content": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestRouterHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
