package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/cliptube/cliptube/internal/auth"
	"github.com/cliptube/cliptube/internal/domain"
	"github.com/cliptube/cliptube/internal/service"
)

const refreshTokenCookie = "refreshToken"

// UserHandler serves account, session, and channel profile routes.
type UserHandler struct {
	users         *service.UserService
	maxUploadSize int64
	cookieSecure  bool
	accessMaxAge  int
	refreshMaxAge int
	logger        zerolog.Logger
}

// NewUserHandler creates a UserHandler. The cookie max-ages follow the token
// TTLs so browser and token expiry stay aligned.
func NewUserHandler(users *service.UserService, tokens *auth.TokenManager, maxUploadSize int64, cookieSecure bool, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		users:         users,
		maxUploadSize: maxUploadSize,
		cookieSecure:  cookieSecure,
		accessMaxAge:  int(tokens.AccessTTL().Seconds()),
		refreshMaxAge: int(tokens.RefreshTTL().Seconds()),
		logger:        logger.With().Str("handler", "user").Logger(),
	}
}

// Register handles POST /users/register (multipart).
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		respondError(w, h.logger, domain.ErrMissingField)
		return
	}

	avatar, err := formUpload(r, "avatar")
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	cover, err := formUpload(r, "coverImage")
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		UserName:   r.FormValue("userName"),
		Email:      r.FormValue("email"),
		FullName:   r.FormValue("fullName"),
		Password:   r.FormValue("password"),
		Avatar:     avatar,
		CoverImage: cover,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respond(w, http.StatusCreated, user, "user registered successfully")
}

// Login handles POST /users/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserName string `json:"userName"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	out, err := h.users.Login(r.Context(), service.LoginInput{
		UserName: req.UserName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.setSessionCookies(w, out.Session)
	respond(w, http.StatusOK, map[string]any{
		"user":         out.User,
		"accessToken":  out.Session.AccessToken,
		"refreshToken": out.Session.RefreshToken,
	}, "logged in successfully")
}

// Logout handles POST /users/logout.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Logout(r.Context(), callerID(r)); err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.clearSessionCookies(w)
	respond(w, http.StatusOK, nil, "logged out successfully")
}

// RefreshToken handles POST /users/refresh-token. The token comes from the
// cookie or the JSON body.
func (h *UserHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	token := ""
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := decodeJSON(r, &req); err == nil {
			token = req.RefreshToken
		}
	}

	out, err := h.users.Refresh(r.Context(), token)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.setSessionCookies(w, out.Session)
	respond(w, http.StatusOK, map[string]any{
		"accessToken":  out.Session.AccessToken,
		"refreshToken": out.Session.RefreshToken,
	}, "token refreshed successfully")
}

// ChangePassword handles POST /users/change-password.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	if err := h.users.ChangePassword(r.Context(), callerID(r), req.OldPassword, req.NewPassword); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, nil, "password changed successfully")
}

// Current handles GET /users/current.
func (h *UserHandler) Current(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.CurrentUser(r.Context(), callerID(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, user, "current user fetched successfully")
}

// UpdateAccount handles PATCH /users/update-account.
func (h *UserHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	user, err := h.users.UpdateAccount(r.Context(), callerID(r), service.UpdateAccountInput{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, user, "account updated successfully")
}

// UpdateAvatar handles PATCH /users/avatar (multipart).
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar", h.users.UpdateAvatar)
}

// UpdateCoverImage handles PATCH /users/cover-image (multipart).
func (h *UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage", h.users.UpdateCoverImage)
}

func (h *UserHandler) updateImage(
	w http.ResponseWriter,
	r *http.Request,
	field string,
	update func(ctx context.Context, userID string, upload service.Upload) (*domain.User, error),
) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		respondError(w, h.logger, domain.ErrMissingField)
		return
	}
	upload, err := formUpload(r, field)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if upload == nil {
		respondError(w, h.logger, domain.ErrMissingField)
		return
	}

	user, err := update(r.Context(), callerID(r), *upload)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, user, "image updated successfully")
}

// ChannelProfile handles GET /users/channel/{userName}.
func (h *UserHandler) ChannelProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.users.ChannelProfile(r.Context(), callerID(r), chi.URLParam(r, "userName"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, profile, "channel profile fetched successfully")
}

// WatchHistory handles GET /users/history.
func (h *UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.users.WatchHistory(r.Context(), callerID(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, history, "watch history fetched successfully")
}

func (h *UserHandler) setSessionCookies(w http.ResponseWriter, session service.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.AccessTokenCookie,
		Value:    session.AccessToken,
		Path:     "/",
		MaxAge:   h.accessMaxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    session.RefreshToken,
		Path:     "/",
		MaxAge:   h.refreshMaxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *UserHandler) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{auth.AccessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.cookieSecure,
		})
	}
}
