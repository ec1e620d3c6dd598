package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vedran77/lawnpool/internal/domain"
	"github.com/vedran77/lawnpool/internal/oauth"
	"github.com/vedran77/lawnpool/internal/repository"
	"github.com/vedran77/lawnpool/pkg/validator"
	"golang.org/x/crypto/argon2"
)

var (
	ErrGoogleNotConfigured = errors.New("google sign-in is not configured")
	ErrInvalidState        = errors.New("invalid or expired oauth state")
)

const (
	msgEmailTaken   = "Email already registered"
	msgInvalidCreds = "Invalid email or password"
	msgInvalidToken = "Invalid token"
)

type AuthService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration

	google oauth.Provider
	states *oauth.StateStore
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// EnableGoogle turns on Google sign-in (optional dependency).
func (s *AuthService) EnableGoogle(provider oauth.Provider, states *oauth.StateStore) {
	s.google = provider
	s.states = states
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"accessToken"`
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	if err := validator.ValidateRegister(input.Name, input.Email, input.Password, input.UserType).Err(); err != nil {
		return nil, err
	}

	email := normalizeEmail(input.Email)
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict(msgEmailTaken)
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	role := input.UserType
	if role == "" {
		role = domain.RoleHomeowner
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		AuthMethod:   domain.AuthMethodEmail,
		CreatedAt:    now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, domain.Conflict(msgEmailTaken)
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return s.respond(user)
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	if err := validator.ValidateLogin(input.Email, input.Password).Err(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		return nil, err
	}
	// Google-only accounts have no password hash.
	if user == nil || user.PasswordHash == "" {
		return nil, domain.Unauthorized(msgInvalidCreds)
	}

	if !verifyPassword(input.Password, user.PasswordHash) {
		return nil, domain.Unauthorized(msgInvalidCreds)
	}

	return s.respond(user)
}

// Verify resolves the user behind an access token.
func (s *AuthService) Verify(ctx context.Context, tokenString string) (*domain.User, error) {
	if tokenString == "" {
		return nil, domain.Unauthorized("No token provided")
	}

	userID, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, domain.Unauthorized(msgInvalidToken)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.Unauthorized(msgInvalidToken)
	}
	return user, nil
}

// ParseToken checks the signature and expiry of an access token and returns
// its subject. It does not look the user up.
func (s *AuthService) ParseToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, err
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(sub)
}

func (s *AuthService) GoogleEnabled() bool {
	return s.google != nil && s.states != nil
}

// GoogleAuthURL starts a sign-in and returns the consent page to redirect to.
func (s *AuthService) GoogleAuthURL(userType, redirectURI string) (string, error) {
	if !s.GoogleEnabled() {
		return "", ErrGoogleNotConfigured
	}
	if !domain.ValidRole(userType) {
		userType = domain.RoleHomeowner
	}

	state, err := s.states.Issue(userType)
	if err != nil {
		return "", fmt.Errorf("issuing state: %w", err)
	}
	return s.google.AuthCodeURL(state, redirectURI), nil
}

// GoogleCallback finishes a sign-in started by GoogleAuthURL.
func (s *AuthService) GoogleCallback(ctx context.Context, code, state, redirectURI string) (*AuthResponse, error) {
	if !s.GoogleEnabled() {
		return nil, ErrGoogleNotConfigured
	}
	userType, ok := s.states.Consume(state)
	if !ok {
		return nil, ErrInvalidState
	}

	profile, err := s.google.Exchange(ctx, code, redirectURI)
	if err != nil {
		return nil, fmt.Errorf("google exchange: %w", err)
	}

	user, err := s.upsertGoogleUser(ctx, profile, userType)
	if err != nil {
		return nil, err
	}
	return s.respond(user)
}

func (s *AuthService) upsertGoogleUser(ctx context.Context, profile *oauth.Profile, userType string) (*domain.User, error) {
	email := normalizeEmail(profile.Email)
	var picture *string
	if profile.Picture != "" {
		picture = &profile.Picture
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = s.userRepo.GetByGoogleID(ctx, profile.ID)
		if err != nil {
			return nil, err
		}
	}

	if user != nil {
		googleID := profile.ID
		if user.GoogleID != nil {
			googleID = *user.GoogleID
		}
		if err := s.userRepo.LinkGoogle(ctx, user.ID, googleID, picture); err != nil {
			return nil, fmt.Errorf("linking google account: %w", err)
		}
		return s.userRepo.GetByID(ctx, user.ID)
	}

	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	googleID := profile.ID
	user = &domain.User{
		ID:         uuid.New(),
		Name:       name,
		Email:      email,
		GoogleID:   &googleID,
		AvatarURL:  picture,
		Role:       userType,
		AuthMethod: domain.AuthMethodGoogle,
		CreatedAt:  now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating google user: %w", err)
	}
	return user, nil
}

func (s *AuthService) respond(user *domain.User) (*AuthResponse, error) {
	token, err := s.generateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}
	return &AuthResponse{User: user, AccessToken: token}, nil
}

func (s *AuthService) generateToken(userID uuid.UUID) (string, error) {
	issued := time.Now()
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"exp": issued.Add(s.tokenTTL).Unix(),
		"iat": issued.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)

	return fmt.Sprintf("%s:%s",
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func verifyPassword(password, encoded string) bool {
	saltB64, hashB64, ok := strings.Cut(encoded, ":")
	if !ok {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(saltB64)
	if err != nil {
		return false
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(hashB64)
	if err != nil {
		return false
	}

	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return subtle.ConstantTimeCompare(hash, expectedHash) == 1
}
