package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shashi-bhusan/fitpreneurs/internal/config"
	"github.com/shashi-bhusan/fitpreneurs/internal/domain"
	"github.com/shashi-bhusan/fitpreneurs/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid token")
	ErrGoogleLoginDisabled = errors.New("google login is not configured")
)

type AuthService struct {
	Config       config.Config
	Users        UserStore
	Logger       *slog.Logger
	FirebaseAuth *fbauth.Client
}

type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         domain.User
	ExpiresAt    time.Time
}

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.UserRole
}

type LoginInput struct {
	Email    string
	Password string
}

type GoogleLoginInput struct {
	IDToken string
	Name    string
}

type RefreshInput struct {
	RefreshToken string
}

// AccessClaims is what the middleware needs from a verified access token.
type AccessClaims struct {
	UserID uuid.UUID
	Email  string
	Role   domain.UserRole
}

func (s AuthService) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	if in.Role == "" {
		in.Role = domain.RoleStaff
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, in.Role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.Users.Create(ctx, repository.CreateUserParams{
		Name:         in.Name,
		Email:        in.Email,
		Role:         in.Role,
		PasswordHash: ptr(string(hash)),
	})
}

// BootstrapAdmin creates the configured admin account once. Existing accounts
// are left untouched.
func (s AuthService) BootstrapAdmin(ctx context.Context) error {
	if s.Config.AdminEmail == "" || s.Config.AdminPassword == "" {
		return nil
	}
	_, err := s.Users.GetByEmail(ctx, s.Config.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("lookup admin: %w", err)
	}
	if _, err := s.CreateUser(ctx, CreateUserInput{
		Name:     s.Config.AdminName,
		Email:    s.Config.AdminEmail,
		Password: s.Config.AdminPassword,
		Role:     domain.RoleAdmin,
	}); err != nil && !repository.IsDuplicate(err) {
		return fmt.Errorf("create admin: %w", err)
	}
	if s.Logger != nil {
		s.Logger.Info("bootstrap admin created", "email", s.Config.AdminEmail)
	}
	return nil
}

func (s AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

// LoginWithGoogle verifies the ID token and signs in the account matching its
// email. Unknown accounts are created with the staff role.
func (s AuthService) LoginWithGoogle(ctx context.Context, in GoogleLoginInput) (*AuthResult, error) {
	var email string
	switch {
	case s.FirebaseAuth != nil:
		tok, err := s.FirebaseAuth.VerifyIDToken(ctx, in.IDToken)
		if err != nil {
			return nil, fmt.Errorf("%w: firebase: %v", ErrInvalidToken, err)
		}
		email, _ = tok.Claims["email"].(string)
	case s.Config.GoogleClientID != "":
		payload, err := idtoken.Validate(ctx, in.IDToken, s.Config.GoogleClientID)
		if err != nil {
			return nil, fmt.Errorf("%w: google: %v", ErrInvalidToken, err)
		}
		email, _ = payload.Claims["email"].(string)
	default:
		return nil, ErrGoogleLoginDisabled
	}
	if email == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		name := strings.TrimSpace(in.Name)
		if name == "" {
			name = email
		}
		user, err = s.Users.Create(ctx, repository.CreateUserParams{
			Name:     name,
			Email:    email,
			Role:     domain.RoleStaff,
			IsGoogle: true,
		})
		if err != nil {
			return nil, err
		}
	}
	return s.issueTokens(user)
}

func (s AuthService) Refresh(ctx context.Context, in RefreshInput) (*AuthResult, error) {
	claims, err := s.parse(in.RefreshToken, "refresh")
	if err != nil {
		return nil, err
	}
	user, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return s.issueTokens(user)
}

// VerifyAccess validates a bearer access token.
func (s AuthService) VerifyAccess(token string) (*AccessClaims, error) {
	return s.parse(token, "access")
}

func (s AuthService) parse(raw, tokenType string) (*AccessClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.Config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if claims["token_type"] != tokenType {
		return nil, ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidToken
	}
	out := &AccessClaims{UserID: userID}
	out.Email, _ = claims["email"].(string)
	if role, ok := claims["role"].(string); ok {
		out.Role = domain.UserRole(role)
	}
	return out, nil
}

func (s AuthService) issueTokens(user *domain.User) (*AuthResult, error) {
	now := time.Now()
	accessExp := now.Add(s.Config.AccessTokenTTL)
	refreshExp := now.Add(s.Config.RefreshTokenTTL)

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        user.ID.String(),
		"email":      user.Email,
		"role":       string(user.Role),
		"token_type": "access",
		"exp":        accessExp.Unix(),
		"iat":        now.Unix(),
	}).SignedString([]byte(s.Config.JWTSecret))
	if err != nil {
		return nil, err
	}

	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        user.ID.String(),
		"token_type": "refresh",
		"exp":        refreshExp.Unix(),
		"iat":        now.Unix(),
	}).SignedString([]byte(s.Config.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         *user,
		ExpiresAt:    accessExp,
	}, nil
}
