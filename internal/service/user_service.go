package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/rs/zerolog"

	"github.com/cliptube/cliptube/internal/auth"
	"github.com/cliptube/cliptube/internal/domain"
	"github.com/cliptube/cliptube/internal/query"
	"github.com/cliptube/cliptube/internal/repository"
	"github.com/cliptube/cliptube/internal/storage"
)

// UserService handles accounts, sessions, and channel profiles.
type UserService struct {
	users  repository.UserRepository
	subs   repository.SubscriptionRepository
	engine *query.Engine
	blobs  storage.BlobStore
	tokens *auth.TokenManager
	logger zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	store *repository.Store,
	blobs storage.BlobStore,
	tokens *auth.TokenManager,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		users:  store.Users,
		subs:   store.Subscriptions,
		engine: query.NewEngine(store.Source),
		blobs:  blobs,
		tokens: tokens,
		logger: logger.With().Str("service", "user").Logger(),
	}
}

// RegisterInput contains the data needed to create a new account.
type RegisterInput struct {
	UserName   string
	Email      string
	FullName   string
	Password   string
	Avatar     *Upload
	CoverImage *Upload
}

// Register creates a new user account. The avatar upload is required; the
// account record is only created after every upload has succeeded.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := s.validateRegisterInput(input); err != nil {
		return nil, err
	}

	// Advisory pre-checks; the store's unique indexes close the race.
	exists, err := s.users.ExistsByUserName(ctx, input.UserName)
	if err != nil {
		s.logger.Error().Err(err).Str("user_name", input.UserName).Msg("failed to check username existence")
		return nil, internalErr(err)
	}
	if exists {
		return nil, fmt.Errorf("%w: username %q", domain.ErrUserAlreadyExists, input.UserName)
	}

	exists, err = s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to check email existence")
		return nil, internalErr(err)
	}
	if exists {
		return nil, fmt.Errorf("%w: email %q", domain.ErrUserAlreadyExists, input.Email)
	}

	avatarURL, err := s.blobs.Upload(ctx, "avatars/"+domain.NewID(), input.Avatar.Reader, input.Avatar.ContentType)
	if err != nil {
		s.logger.Error().Err(err).Msg("avatar upload failed")
		return nil, internalErr(err)
	}

	var coverURL string
	if input.CoverImage != nil {
		coverURL, err = s.blobs.Upload(ctx, "covers/"+domain.NewID(), input.CoverImage.Reader, input.CoverImage.ContentType)
		if err != nil {
			s.logger.Error().Err(err).Msg("cover image upload failed")
			return nil, internalErr(err)
		}
	}

	passwordHash, err := auth.HashPassword(input.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, internalErr(err)
	}

	user := domain.NewUser(input.UserName, input.Email, input.FullName, passwordHash, avatarURL, coverURL)
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("user_name", user.UserName).Msg("failed to create user")
		return nil, internalErr(err)
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("user_name", user.UserName).
		Msg("user registered")

	return user, nil
}

func (s *UserService) validateRegisterInput(input RegisterInput) error {
	if err := requireField("userName", input.UserName); err != nil {
		return err
	}
	if err := requireField("fullName", input.FullName); err != nil {
		return err
	}
	if len(domain.NormalizeUserName(input.UserName)) < 3 || len(input.UserName) > 64 {
		return domain.ErrInvalidUserName
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return domain.ErrInvalidEmail
	}
	if len(input.Password) < 8 {
		return domain.ErrInvalidPassword
	}
	if input.Avatar == nil {
		return fmt.Errorf("%w: avatar", domain.ErrMissingField)
	}
	return nil
}

// Session is an issued access/refresh token pair.
type Session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginInput contains login credentials. UserName and Email are
// interchangeable; at least one must be set.
type LoginInput struct {
	UserName string
	Email    string
	Password string
}

// LoginOutput contains the authenticated user and the issued session.
type LoginOutput struct {
	User    *domain.User
	Session Session
}

// Login verifies credentials and starts a session. The refresh token is
// stored hashed on the user record and rotates on every refresh.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	if input.UserName == "" && input.Email == "" {
		return nil, fmt.Errorf("%w: userName or email", domain.ErrMissingField)
	}

	var (
		user *domain.User
		err  error
	)
	if input.UserName != "" {
		user, err = s.users.GetByUserName(ctx, input.UserName)
	} else {
		user, err = s.users.GetByEmail(ctx, input.Email)
	}
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Debug().Str("user_name", input.UserName).Msg("login for unknown user")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, internalErr(err)
	}

	if !auth.CheckPassword(user.PasswordHash, input.Password) {
		s.logger.Debug().Str("user_id", user.ID).Msg("invalid password during login")
		return nil, domain.ErrInvalidCredentials
	}

	session, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("user_name", user.UserName).Msg("user logged in")

	return &LoginOutput{User: user, Session: *session}, nil
}

func (s *UserService) startSession(ctx context.Context, user *domain.User) (*Session, error) {
	accessToken, err := s.tokens.IssueAccessToken(user.ID, user.UserName)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to issue access token")
		return nil, internalErr(err)
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to issue refresh token")
		return nil, internalErr(err)
	}

	if err := s.users.UpdateRefreshTokenHash(ctx, user.ID, auth.HashToken(refreshToken)); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to store refresh token")
		return nil, internalErr(err)
	}

	return &Session{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Logout invalidates the user's refresh token.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	if err := s.users.UpdateRefreshTokenHash(ctx, userID, ""); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return internalErr(err)
	}
	s.logger.Info().Str("user_id", userID).Msg("user logged out")
	return nil
}

// Refresh rotates the session from a valid refresh token. The presented
// token must match the stored hash; a rotated-out or cleared token is
// rejected.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	if refreshToken == "" {
		return nil, auth.ErrMissingToken
	}

	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, auth.ErrInvalidToken
		}
		return nil, internalErr(err)
	}

	if user.RefreshTokenHash == "" || !auth.TokenHashEqual(user.RefreshTokenHash, refreshToken) {
		s.logger.Debug().Str("user_id", user.ID).Msg("refresh token mismatch")
		return nil, auth.ErrTokenMismatch
	}

	session, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{User: user, Session: *session}, nil
}

// ChangePassword verifies the old password and stores a hash of the new one.
func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return domain.ErrInvalidPassword
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return internalErr(err)
	}

	if !auth.CheckPassword(user.PasswordHash, oldPassword) {
		return domain.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return internalErr(err)
	}

	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return internalErr(err)
	}

	s.logger.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

// CurrentUser returns the caller's own record.
func (s *UserService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, internalErr(err)
	}
	return user, nil
}

// UpdateAccountInput carries the mutable account fields.
type UpdateAccountInput struct {
	FullName string
	Email    string
}

// UpdateAccount updates display name and email.
func (s *UserService) UpdateAccount(ctx context.Context, userID string, input UpdateAccountInput) (*domain.User, error) {
	if err := requireField("fullName", input.FullName); err != nil {
		return nil, err
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return nil, domain.ErrInvalidEmail
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, internalErr(err)
	}

	user.FullName = input.FullName
	user.Email = input.Email
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, err
		}
		return nil, internalErr(err)
	}
	return user, nil
}

// UpdateAvatar replaces the avatar image. The old blob is released
// best-effort after the record points at the new one.
func (s *UserService) UpdateAvatar(ctx context.Context, userID string, avatar Upload) (*domain.User, error) {
	return s.updateImage(ctx, userID, avatar, "avatars/", func(u *domain.User, url string) string {
		old := u.AvatarURL
		u.AvatarURL = url
		return old
	})
}

// UpdateCoverImage replaces the channel cover image.
func (s *UserService) UpdateCoverImage(ctx context.Context, userID string, cover Upload) (*domain.User, error) {
	return s.updateImage(ctx, userID, cover, "covers/", func(u *domain.User, url string) string {
		old := u.CoverImageURL
		u.CoverImageURL = url
		return old
	})
}

func (s *UserService) updateImage(
	ctx context.Context,
	userID string,
	upload Upload,
	keyPrefix string,
	swap func(u *domain.User, url string) (oldURL string),
) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, internalErr(err)
	}

	url, err := s.blobs.Upload(ctx, keyPrefix+domain.NewID(), upload.Reader, upload.ContentType)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("image upload failed")
		return nil, internalErr(err)
	}

	oldURL := swap(user, url)
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, internalErr(err)
	}

	if oldURL != "" {
		if err := s.blobs.Delete(ctx, oldURL); err != nil {
			s.logger.Warn().Err(err).Str("url", oldURL).Msg("failed to release old image blob")
		}
	}

	return user, nil
}

// ChannelProfile returns a channel's public profile with subscriber counts
// computed from the subscription join set, plus whether the caller is
// subscribed.
func (s *UserService) ChannelProfile(ctx context.Context, callerID, userName string) (query.Document, error) {
	if err := requireField("userName", userName); err != nil {
		return nil, err
	}

	pipeline := query.Pipeline{
		query.Match{All: []query.Cond{
			{Field: "userName", Op: query.OpEq, Value: domain.NormalizeUserName(userName)},
		}},
		query.Lookup{
			From:         "subscriptions",
			LocalField:   "id",
			ForeignField: "channel",
			As:           "subscribers",
		},
		query.Lookup{
			From:         "subscriptions",
			LocalField:   "id",
			ForeignField: "subscriber",
			As:           "subscribedTo",
		},
		query.AddFields{
			"subscribersCount":          query.Size{Field: "subscribers"},
			"channelsSubscribedToCount": query.Size{Field: "subscribedTo"},
		},
		query.Project{
			"fullName", "userName", "email", "avatar", "coverImage",
			"subscribersCount", "channelsSubscribedToCount", "createdAt",
		},
	}

	docs, err := s.engine.Run(ctx, "users", pipeline)
	if err != nil {
		s.logger.Error().Err(err).Str("user_name", userName).Msg("channel profile pipeline failed")
		return nil, internalErr(err)
	}
	if len(docs) == 0 {
		return nil, domain.ErrUserNotFound
	}

	profile := docs[0]
	channelID, _ := profile["id"].(string)

	isSubscribed := false
	if callerID != "" && channelID != "" {
		if _, err := s.subs.Find(ctx, callerID, channelID); err == nil {
			isSubscribed = true
		} else if !errors.Is(err, domain.ErrRelationNotFound) {
			return nil, internalErr(err)
		}
	}
	profile["isSubscribed"] = isSubscribed

	return profile, nil
}

// WatchHistory returns the caller's watch history in watch order, each entry
// enriched with the video and its owner's public profile.
func (s *UserService) WatchHistory(ctx context.Context, userID string) ([]query.Document, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, internalErr(err)
	}

	if len(user.WatchHistory) == 0 {
		return []query.Document{}, nil
	}

	pipeline := query.Pipeline(ownerLookup("owner", "owner"))
	docs, err := s.engine.Run(ctx, "videos", pipeline)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("watch history pipeline failed")
		return nil, internalErr(err)
	}

	byID := make(map[string]query.Document, len(docs))
	for _, d := range docs {
		if id, ok := d["id"].(string); ok {
			byID[id] = d
		}
	}

	history := make([]query.Document, 0, len(user.WatchHistory))
	for _, videoID := range user.WatchHistory {
		if d, ok := byID[videoID]; ok {
			history = append(history, d)
		}
	}
	return history, nil
}
