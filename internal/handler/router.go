package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/cliptube/cliptube/internal/auth"
	"github.com/cliptube/cliptube/internal/repository"
	"github.com/cliptube/cliptube/internal/service"
)

// Config carries the handler-level settings.
type Config struct {
	MaxUploadSize  int64
	CookieSecure   bool
	CORSOrigin     string
	MetricsEnabled bool
}

// Services bundles every service the router mounts.
type Services struct {
	Users         *service.UserService
	Videos        *service.VideoService
	Comments      *service.CommentService
	Likes         *service.LikeService
	Subscriptions *service.SubscriptionService
	Tweets        *service.TweetService
	Playlists     *service.PlaylistService
	Dashboard     *service.DashboardService
}

// NewRouter builds the full API router: /api/v1 resource routes behind the
// access-token middleware where required, plus /healthz and /metrics.
func NewRouter(cfg Config, svcs Services, tokens *auth.TokenManager, db repository.Health, logger zerolog.Logger) http.Handler {
	users := NewUserHandler(svcs.Users, tokens, cfg.MaxUploadSize, cfg.CookieSecure, logger)
	videos := NewVideoHandler(svcs.Videos, cfg.MaxUploadSize, logger)
	comments := NewCommentHandler(svcs.Comments, logger)
	likes := NewLikeHandler(svcs.Likes, logger)
	subs := NewSubscriptionHandler(svcs.Subscriptions, logger)
	tweets := NewTweetHandler(svcs.Tweets, logger)
	playlists := NewPlaylistHandler(svcs.Playlists, logger)
	dashboard := NewDashboardHandler(svcs.Dashboard, svcs.Videos, logger)
	health := NewHealthHandler(db, logger)

	requireAuth := tokens.Middleware(logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(corsMiddleware(cfg.CORSOrigin))

	r.Get("/healthz", health.Check)
	if cfg.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", users.Register)
			r.Post("/login", users.Login)
			r.Post("/refresh-token", users.RefreshToken)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/logout", users.Logout)
				r.Post("/change-password", users.ChangePassword)
				r.Get("/current", users.Current)
				r.Get("/history", users.WatchHistory)
				r.Patch("/update-account", users.UpdateAccount)
				r.Patch("/avatar", users.UpdateAvatar)
				r.Patch("/cover-image", users.UpdateCoverImage)
				r.Get("/channel/{userName}", users.ChannelProfile)
			})
		})

		r.Route("/videos", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", videos.List)
			r.Post("/", videos.Publish)
			r.Get("/my", videos.Mine)
			r.Get("/{videoId}", videos.Get)
			r.Patch("/{videoId}", videos.Update)
			r.Delete("/{videoId}", videos.Delete)
			r.Patch("/{videoId}/toggle-publish", videos.TogglePublish)
		})

		// GET/POST take a video ID, PATCH/DELETE a comment ID. chi requires
		// one wildcard name per position, so the segment is just {id}.
		r.Route("/comments", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/{id}", comments.ListByVideo)
			r.Post("/{id}", comments.Add)
			r.Patch("/{id}", comments.Update)
			r.Delete("/{id}", comments.Delete)
		})

		r.Route("/likes", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/video/{videoId}", likes.ToggleVideo)
			r.Post("/comment/{commentId}", likes.ToggleComment)
			r.Post("/tweet/{tweetId}", likes.ToggleTweet)
			r.Get("/videos", likes.LikedVideos)
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/channelId/{channelId}", subs.Subscribers)
			r.Post("/channelId/{channelId}", subs.Toggle)
			r.Get("/userId/{subscriberId}", subs.SubscribedChannels)
		})

		r.Route("/tweets", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", tweets.Create)
			r.Get("/user/{userId}", tweets.ListByUser)
			r.Patch("/{tweetId}", tweets.Update)
			r.Delete("/{tweetId}", tweets.Delete)
		})

		r.Route("/playlists", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", playlists.Create)
			r.Get("/user/{userId}", playlists.ListByUser)
			r.Get("/{playlistId}", playlists.Get)
			r.Patch("/{playlistId}", playlists.Update)
			r.Delete("/{playlistId}", playlists.Delete)
			r.Patch("/{playlistId}/videos/{videoId}", playlists.AddVideo)
			r.Delete("/{playlistId}/videos/{videoId}", playlists.RemoveVideo)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/stats", dashboard.Stats)
			r.Get("/videos", dashboard.Videos)
		})
	})

	return r
}
