package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"resto/internal/activity"
	"resto/internal/models"
	"resto/internal/repositories"
	"resto/internal/session"
	"resto/internal/validation"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is a self-service signup. New accounts get the staff role.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginInput authenticates by email.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileInput changes the caller's own account. An empty Password keeps the current one.
type UpdateProfileInput struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

// LoginResult is an issued token and the account it belongs to.
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo  repositories.UserRepository
	sessions  session.Store
	activity  *activity.Recorder
	validate  *validation.Validator
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, sessions session.Store, recorder *activity.Recorder, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		userRepo:  userRepo,
		sessions:  sessions,
		activity:  recorder,
		validate:  validation.New(),
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// Register creates a staff account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}
	if err := s.checkAvailable(ctx, "", input.Username, input.Email); err != nil {
		return nil, err
	}

	user := &models.User{Username: input.Username, Email: input.Email, Role: models.RoleStaff}
	if err := s.setPassword(user, input.Password); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	s.activity.Record(ctx, user.ID, "register", "User registered: "+user.Username)
	return user, nil
}

// EnsureAdmin creates an admin account for email unless one exists already.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return err
	}
	user := &models.User{Username: "admin", Email: email, Role: models.RoleAdmin}
	if err := s.setPassword(user, password); err != nil {
		return err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	log.Printf("Created admin user %s", email)
	return nil
}

// Login checks the credentials, opens a server-side session and returns a signed token for it.
// Every failure looks the same to the caller.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			log.Printf("Login lookup failed: %v", err)
		}
		return nil, models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	sessionID := uuid.New().String()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"jti":      sessionID,
		"exp":      expiresAt.Unix(),
		"iat":      now.Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	sess := session.Session{
		ID:        sessionID,
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		ExpiresAt: expiresAt,
	}
	if err := s.sessions.Save(ctx, sess, s.tokenTTL); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.activity.Record(ctx, user.ID, "login", "User logged in")
	return &LoginResult{Token: tokenString, ExpiresAt: expiresAt, User: user}, nil
}

// Logout ends the caller's session. The token is rejected from then on.
func (s *AuthService) Logout(ctx context.Context, rc models.RequestContext) error {
	if err := s.sessions.Delete(ctx, rc.SessionID); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	s.activity.Record(ctx, rc.UserID, "logout", "User logged out")
	return nil
}

// ValidateToken checks the signature, the expiry and that the session is still open.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*models.RequestContext, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %v: %w", err, models.ErrUnauthorized)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", models.ErrUnauthorized)
	}

	sessionID, _ := claims["jti"].(string)
	if sessionID == "" {
		return nil, fmt.Errorf("token has no session: %w", models.ErrUnauthorized)
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, fmt.Errorf("session ended: %w", models.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	return &models.RequestContext{
		UserID:    sess.UserID,
		Username:  sess.Username,
		Role:      sess.Role,
		SessionID: sess.ID,
	}, nil
}

// Profile returns the caller's account.
func (s *AuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile changes username, email and optionally the password of userID.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*models.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAvailable(ctx, user.ID, input.Username, input.Email); err != nil {
		return nil, err
	}

	user.Username = input.Username
	user.Email = input.Email
	if input.Password != "" {
		if err := s.setPassword(user, input.Password); err != nil {
			return nil, err
		}
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.activity.Record(ctx, user.ID, "update_profile", "User updated profile")
	return user, nil
}

// checkAvailable fails with models.ErrDuplicate when another account owns username or email.
func (s *AuthService) checkAvailable(ctx context.Context, selfID, username, email string) error {
	if existing, err := s.userRepo.GetByUsername(ctx, username); err == nil && existing.ID != selfID {
		return fmt.Errorf("username '%s' already taken: %w", username, models.ErrDuplicate)
	} else if err != nil && !errors.Is(err, models.ErrNotFound) {
		return err
	}
	if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing.ID != selfID {
		return fmt.Errorf("email '%s' already registered: %w", email, models.ErrDuplicate)
	} else if err != nil && !errors.Is(err, models.ErrNotFound) {
		return err
	}
	return nil
}

func (s *AuthService) setPassword(user *models.User, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)
	return nil
}
