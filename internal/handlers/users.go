package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/phsics/BackendYouTube/internal/apierror"
	"github.com/phsics/BackendYouTube/internal/auth"
	"github.com/phsics/BackendYouTube/internal/logging"
	"github.com/phsics/BackendYouTube/internal/media"
	"github.com/phsics/BackendYouTube/internal/models"
	"github.com/phsics/BackendYouTube/internal/repositories"
)

// UserHandler implements account, session, and channel endpoints.
type UserHandler struct {
	Users    UserStore
	Sessions SessionManager
	Media    media.Store
	TempDir  string
	NowFunc  func() time.Time
}

type registerRequest struct {
	FullName string `validate:"required,notblank"`
	Email    string `validate:"required,email"`
	Username string `validate:"required,notblank,lowercase,alphanum"`
	Password string `validate:"required,min=8"`
}

// Register handles POST /api/v1/users/register. The avatar file is required;
// both images reach the external store before the account document is
// written.
func (h UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Validation, "invalid multipart payload", err))
		return
	}

	req := registerRequest{
		FullName: strings.TrimSpace(r.FormValue("fullName")),
		Email:    strings.TrimSpace(strings.ToLower(r.FormValue("email"))),
		Username: strings.TrimSpace(strings.ToLower(r.FormValue("username"))),
		Password: r.FormValue("password"),
	}
	if err := validateStruct(req); err != nil {
		respondError(ctx, w, err)
		return
	}

	avatarPath, err := saveMultipartFile(r, "avatar", h.TempDir)
	if err != nil {
		if errors.Is(err, errNoFile) {
			respondError(ctx, w, apierror.New(apierror.Validation, "avatar file is required"))
			return
		}
		respondError(ctx, w, err)
		return
	}

	coverPath, err := saveMultipartFile(r, "coverImage", h.TempDir)
	if err != nil && !errors.Is(err, errNoFile) {
		removeTemp(ctx, avatarPath)
		respondError(ctx, w, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		removeTemp(ctx, avatarPath)
		removeTemp(ctx, coverPath)
		respondError(ctx, w, apierror.Wrap(apierror.Internal, "failed to secure password", err))
		return
	}

	avatar, err := h.Media.Upload(ctx, avatarPath)
	if err != nil || avatar.Empty() {
		removeTemp(ctx, coverPath)
		respondError(ctx, w, apierror.Wrap(apierror.Upstream, "avatar upload failed", err))
		return
	}

	var cover media.Asset
	if coverPath != "" {
		cover, err = h.Media.Upload(ctx, coverPath)
		if err != nil || cover.Empty() {
			h.Media.Delete(ctx, avatar.PublicID)
			respondError(ctx, w, apierror.Wrap(apierror.Upstream, "cover image upload failed", err))
			return
		}
	}

	now := h.now()
	user, err := h.Users.Create(ctx, models.User{
		Username:   req.Username,
		Email:      req.Email,
		FullName:   req.FullName,
		Password:   string(hashed),
		Avatar:     models.MediaAsset{PublicID: avatar.PublicID, URL: avatar.URL},
		CoverImage: models.MediaAsset{PublicID: cover.PublicID, URL: cover.URL},
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		h.Media.Delete(ctx, avatar.PublicID)
		if cover.PublicID != "" {
			h.Media.Delete(ctx, cover.PublicID)
		}
		if errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, apierror.New(apierror.Conflict, "username or email already registered"))
			return
		}
		respondError(ctx, w, apierror.Wrap(apierror.Internal, "failed to create account", err))
		return
	}

	logger.Info("account registered", "userId", user.ID.Hex(), "username", user.Username)
	respond(ctx, w, http.StatusCreated, user, "account registered")
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User   models.User          `json:"user"`
	Tokens models.SessionTokens `json:"tokens"`
}

// Login handles POST /api/v1/users/login. Callers may identify themselves by
// username or email.
func (h UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Validation, "invalid request body", err))
		return
	}

	identifier := strings.TrimSpace(strings.ToLower(req.Username))
	if identifier == "" {
		identifier = strings.TrimSpace(strings.ToLower(req.Email))
	}
	if identifier == "" || req.Password == "" {
		respondError(ctx, w, apierror.New(apierror.Validation, "username or email and password are required"))
		return
	}

	user, err := h.Users.FindByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logger.Warn("login unknown identifier", "identifier", identifier)
			respond(ctx, w, http.StatusUnauthorized, nil, "invalid credentials")
			return
		}
		respondError(ctx, w, apierror.Wrap(apierror.Internal, "failed to look up account", err))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logger.Warn("login password mismatch", "userId", user.ID.Hex())
		respond(ctx, w, http.StatusUnauthorized, nil, "invalid credentials")
		return
	}

	tokens, err := h.Sessions.Issue(ctx, user.ID.Hex())
	if err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Internal, "failed to create session", err))
		return
	}

	respond(ctx, w, http.StatusOK, sessionResponse{User: user, Tokens: tokens}, "logged in")
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Logout handles POST /api/v1/users/logout, revoking the supplied refresh
// token.
func (h UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// An empty body is fine: logging out without a refresh token is a no-op
	// server-side, the client just drops its access token.
	var req refreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(ctx, w, apierror.Wrap(apierror.Validation, "invalid request body", err))
		return
	}

	h.Sessions.Revoke(ctx, strings.TrimSpace(req.RefreshToken))
	respond(ctx, w, http.StatusOK, nil, "logged out")
}

// RefreshToken handles POST /api/v1/users/refresh-token. The used refresh
// token is always invalidated.
func (h UserHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req refreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Validation, "invalid request body", err))
		return
	}
	req.RefreshToken = strings.TrimSpace(req.RefreshToken)
	if req.RefreshToken == "" {
		respondError(ctx, w, apierror.New(apierror.Validation, "refresh token is required"))
		return
	}

	tokens, err := h.Sessions.Refresh(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrSessionNotFound) || errors.Is(err, auth.ErrRefreshTokenExpired) {
			logger.Warn("refresh token rejected", "error", err)
			respond(ctx, w, http.StatusUnauthorized, nil, "invalid or expired refresh token")
			return
		}
		respondError(ctx, w, apierror.Wrap(apierror.Internal, "failed to refresh session", err))
		return
	}

	respond(ctx, w, http.StatusOK, tokens, "session refreshed")
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// ChangePassword handles POST /api/v1/users/change-password.
func (h UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Validation, "invalid request body", err))
		return
	}
	if err := validateStruct(req); err != nil {
		respondError(ctx, w, err)
		return
	}

	user, err := h.Users.FindByID(ctx, actor)
	if err != nil {
		respondError(ctx, w, mapLookupErr(err, "user"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		respond(ctx, w, http.StatusUnauthorized, nil, "old password is incorrect")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Internal, "failed to secure password", err))
		return
	}

	if err := h.Users.UpdatePassword(ctx, actor, string(hashed)); err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Internal, "failed to update password", err))
		return
	}

	respond(ctx, w, http.StatusOK, nil, "password changed")
}

// CurrentUser handles GET /api/v1/users/current-user.
func (h UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	user, err := h.Users.FindByID(ctx, actor)
	if err != nil {
		respondError(ctx, w, mapLookupErr(err, "user"))
		return
	}

	respond(ctx, w, http.StatusOK, user, "current user")
}

type updateAccountRequest struct {
	FullName string `json:"fullName" validate:"required,notblank"`
	Email    string `json:"email" validate:"required,email"`
}

// UpdateAccount handles PATCH /api/v1/users/update-account.
func (h UserHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Validation, "invalid request body", err))
		return
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := validateStruct(req); err != nil {
		respondError(ctx, w, err)
		return
	}

	user, err := h.Users.UpdateAccount(ctx, actor, repositories.AccountUpdate{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, apierror.New(apierror.Conflict, "email already in use"))
			return
		}
		respondError(ctx, w, mapLookupErr(err, "user"))
		return
	}

	respond(ctx, w, http.StatusOK, user, "account updated")
}

// UpdateAvatar handles PATCH /api/v1/users/avatar.
func (h UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar", func(u models.User) models.MediaAsset { return u.Avatar }, h.Users.UpdateAvatar)
}

// UpdateCoverImage handles PATCH /api/v1/users/cover-image.
func (h UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage", func(u models.User) models.MediaAsset { return u.CoverImage }, h.Users.UpdateCoverImage)
}

func (h UserHandler) updateImage(
	w http.ResponseWriter,
	r *http.Request,
	field string,
	current func(models.User) models.MediaAsset,
	apply func(ctx context.Context, id primitive.ObjectID, asset models.MediaAsset) (models.User, error),
) {
	ctx := r.Context()

	actor, err := requireActor(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(ctx, w, apierror.Wrap(apierror.Validation, "invalid multipart payload", err))
		return
	}

	path, err := saveMultipartFile(r, field, h.TempDir)
	if err != nil {
		if errors.Is(err, errNoFile) {
			respondError(ctx, w, apierror.Newf(apierror.Validation, "%s file is required", field))
			return
		}
		respondError(ctx, w, err)
		return
	}

	user, err := h.Users.FindByID(ctx, actor)
	if err != nil {
		removeTemp(ctx, path)
		respondError(ctx, w, mapLookupErr(err, "user"))
		return
	}
	old := current(user)

	asset, err := h.Media.Upload(ctx, path)
	if err != nil || asset.Empty() {
		respondError(ctx, w, apierror.Wrap(apierror.Upstream, field+" upload failed", err))
		return
	}

	updated, err := apply(ctx, actor, models.MediaAsset{PublicID: asset.PublicID, URL: asset.URL})
	if err != nil {
		h.Media.Delete(ctx, asset.PublicID)
		respondError(ctx, w, mapLookupErr(err, "user"))
		return
	}

	if !old.Empty() {
		h.Media.Delete(ctx, old.PublicID)
	}

	respond(ctx, w, http.StatusOK, updated, field+" updated")
}

// Channel handles GET /api/v1/users/c/{username}.
func (h UserHandler) Channel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	username := strings.TrimSpace(strings.ToLower(chi.URLParam(r, "username")))
	if username == "" {
		respondError(ctx, w, apierror.New(apierror.Validation, "username is required"))
		return
	}

	profile, err := h.Users.ChannelProfile(ctx, username, actor)
	if err != nil {
		respondError(ctx, w, mapLookupErr(err, "channel"))
		return
	}

	respond(ctx, w, http.StatusOK, profile, "channel profile")
}

// History handles GET /api/v1/users/history.
func (h UserHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	history, err := h.Users.WatchHistory(ctx, actor)
	if err != nil {
		respondError(ctx, w, mapLookupErr(err, "user"))
		return
	}
	if history == nil {
		history = []models.WatchedVideo{}
	}

	respond(ctx, w, http.StatusOK, history, "watch history")
}

func (h UserHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

// mapLookupErr converts repository sentinels into the API taxonomy.
func mapLookupErr(err error, entity string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apierror.Newf(apierror.NotFound, "%s not found", entity)
	}
	return apierror.Wrap(apierror.Internal, "failed to load "+entity, err)
}
