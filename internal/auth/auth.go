package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/events-api/internal/apierr"
	"github.com/gdg-garage/events-api/internal/config"
	"github.com/gdg-garage/events-api/internal/errdef"
	"github.com/gdg-garage/events-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const (
	CookieName    = "auth_token"
	TokenDuration = 24 * time.Hour
	// LoginPath is where clients go after registering an account or logging out.
	LoginPath = "/"
)

type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB) *AuthHandler {
	return &AuthHandler{
		db:  db,
		cfg: cfg,
	}
}

// AuthInput carries the session cookie of a request into huma operations.
type AuthInput struct {
	Cookie string `header:"Cookie" doc:"Session cookie (auth_token)"`
}

type RegisterRequest struct {
	Body struct {
		Username string `json:"username,omitempty" doc:"Unique account name"`
		Password string `json:"password,omitempty" doc:"Account password"`
		Email    string `json:"email,omitempty" doc:"Contact address"`
	}
}

type RegisterResponse struct {
	Location string `header:"Location"`
	Body     struct {
		Message  string `json:"message"`
		LoginURL string `json:"login_url"`
	}
}

// HandleRegister creates an account. It does not log the new user in.
func (h *AuthHandler) HandleRegister(ctx context.Context, input *RegisterRequest) (*RegisterResponse, error) {
	username := strings.TrimSpace(input.Body.Username)
	email := strings.TrimSpace(input.Body.Email)
	if username == "" || input.Body.Password == "" || email == "" {
		return nil, huma.Error400BadRequest("Please provide all required fields.")
	}

	hashed, err := hashPassword(input.Body.Password)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to hash password")
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: hashed,
		IsStaff:  h.cfg.IsStaff(username),
	}

	if err := h.createUser(ctx, &user); err != nil {
		return nil, apierr.From(err)
	}

	res := &RegisterResponse{Location: LoginPath}
	res.Body.Message = "Account created, please log in."
	res.Body.LoginURL = LoginPath
	return res, nil
}

// createUser inserts user. The unique username index decides between
// concurrent sign-ups, so the database must be opened with TranslateError.
func (h *AuthHandler) createUser(ctx context.Context, user *models.User) error {
	err := h.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errdef.NewDuplicated("Username already exists.")
	}
	if err != nil {
		return fmt.Errorf("failed to create user %q: %w", user.Username, err)
	}
	return nil
}

type LoginRequest struct {
	Body struct {
		Username string `json:"username,omitempty"`
		Password string `json:"password,omitempty"`
	}
}

type SessionResponse struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      struct {
		Message string       `json:"message"`
		User    *models.User `json:"user,omitempty"`
	}
}

func (h *AuthHandler) HandleLogin(ctx context.Context, input *LoginRequest) (*SessionResponse, error) {
	invalid := huma.Error401Unauthorized("Invalid credentials.")

	var user models.User
	if err := h.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(input.Body.Username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid
		}
		return nil, huma.Error500InternalServerError("Database error")
	}

	match, err := comparePasswords(user.Password, input.Body.Password)
	if err != nil || !match {
		return nil, invalid
	}

	token, err := h.GenerateToken(user.ID, user.SessionVersion)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate token")
	}

	res := &SessionResponse{SetCookie: sessionCookie(token)}
	res.Body.Message = fmt.Sprintf("Welcome %s! You are logged in.", user.Username)
	res.Body.User = &user
	return res, nil
}

type LogoutRequest struct {
	AuthInput
}

// HandleLogout ends every session of the current user, not only the one
// presenting the cookie.
func (h *AuthHandler) HandleLogout(ctx context.Context, input *LogoutRequest) (*SessionResponse, error) {
	user, err := h.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, apierr.From(err)
	}

	err = h.db.WithContext(ctx).Model(user).UpdateColumn("session_version", gorm.Expr("session_version + 1")).Error
	if err != nil {
		return nil, apierr.From(fmt.Errorf("failed to end sessions of user %d: %w", user.ID, err))
	}

	res := &SessionResponse{SetCookie: expiredCookie()}
	res.Body.Message = "You are logged out."
	return res, nil
}

type MeRequest struct {
	AuthInput
}

type MeResponse struct {
	Body models.User
}

func (h *AuthHandler) HandleMe(ctx context.Context, input *MeRequest) (*MeResponse, error) {
	user, err := h.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, apierr.From(err)
	}
	return &MeResponse{Body: *user}, nil
}

// HandleDeleteAccount removes the current user. Their event registrations
// stay and lose the user reference.
func (h *AuthHandler) HandleDeleteAccount(ctx context.Context, input *MeRequest) (*SessionResponse, error) {
	user, err := h.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, apierr.From(err)
	}

	if err := h.DeleteUser(ctx, user.ID); err != nil {
		return nil, apierr.From(err)
	}

	res := &SessionResponse{SetCookie: expiredCookie()}
	res.Body.Message = "Account deleted."
	return res, nil
}

// DeleteUser deletes user id and clears the user reference of their registrations.
func (h *AuthHandler) DeleteUser(ctx context.Context, id uint) error {
	return h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.EventRegistration{}).Where("user_id = ?", id).Update("user_id", nil).Error
		if err != nil {
			return fmt.Errorf("failed to detach registrations of user %d: %w", id, err)
		}

		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete user %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return errdef.NewNotFound("user %d not found", id)
		}
		return nil
	})
}

func (h *AuthHandler) GenerateToken(userID, sessionVersion uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id":         userID,
		"session_version": sessionVersion,
		"exp":             time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

type session struct {
	UserID    uint
	Version   uint
	ExpiresAt time.Time
}

// parseToken validates the signature and expiry of a session token.
func (h *AuthHandler) parseToken(tokenString string) (session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return session{}, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return session{}, fmt.Errorf("invalid token claims")
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return session{}, fmt.Errorf("invalid token claims")
	}
	versionFloat, ok := claims["session_version"].(float64)
	if !ok {
		return session{}, fmt.Errorf("invalid token claims")
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return session{}, fmt.Errorf("token has no expiry")
	}

	return session{UserID: uint(userIDFloat), Version: uint(versionFloat), ExpiresAt: exp.Time}, nil
}

// Authorize returns the user of the current session. The session comes from
// the context when SessionMiddleware already validated it, else from cookie.
// Sessions issued before the user's last logout are rejected.
func (h *AuthHandler) Authorize(ctx context.Context, cookie string) (*models.User, error) {
	userID, ok := ctx.Value(UserIDKey).(uint)
	version, versioned := ctx.Value(sessionVersionKey).(uint)
	if !ok {
		token, err := tokenFromHeader(cookie)
		if err != nil {
			return nil, errdef.NewUnauthorized("Unauthorized: No token found")
		}
		s, err := h.parseToken(token)
		if err != nil {
			return nil, errdef.NewUnauthorized("Unauthorized: %s", err)
		}
		userID, version, versioned = s.UserID, s.Version, true
	}

	var user models.User
	if err := h.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errdef.NewUnauthorized("Unauthorized: account no longer exists")
		}
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}

	if versioned && version != user.SessionVersion {
		return nil, errdef.NewUnauthorized("Unauthorized: session has ended")
	}

	return &user, nil
}

// AuthorizeStaff is Authorize followed by RequireStaff.
func (h *AuthHandler) AuthorizeStaff(ctx context.Context, cookie string) (*models.User, error) {
	user, err := h.Authorize(ctx, cookie)
	if err != nil {
		return nil, err
	}
	if err := RequireStaff(user); err != nil {
		return nil, err
	}
	return user, nil
}

// RequireStaff fails with a forbidden error unless user may manage events.
func RequireStaff(user *models.User) error {
	if user == nil || !user.IsStaff {
		return errdef.NewForbidden("Only staff members can manage events.")
	}
	return nil
}

func tokenFromHeader(header string) (string, error) {
	if header == "" {
		return "", http.ErrNoCookie
	}
	cookies, err := http.ParseCookie(header)
	if err != nil {
		return "", err
	}
	for _, c := range cookies {
		if c.Name == CookieName {
			return c.Value, nil
		}
	}
	return "", http.ErrNoCookie
}

func sessionCookie(token string) http.Cookie {
	return http.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  time.Now().Add(TokenDuration),
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}
}

func expiredCookie() http.Cookie {
	return http.Cookie{
		Name:     CookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}
}
