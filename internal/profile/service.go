package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/chaikhana/backend/internal/config"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid session token")
)

// Claims is the JWT payload for a signed-in session.
type Claims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

type SignUpInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
}

type Service interface {
	SignUp(ctx context.Context, input SignUpInput) (*Profile, string, error)
	SignIn(ctx context.Context, email, password string) (*Profile, string, error)
	GetSession(ctx context.Context, token string) (*Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	UpdateContact(ctx context.Context, id uuid.UUID, phone, address string) error
}

type service struct {
	repo       Repository
	jwtSecret  []byte
	tokenTTL   time.Duration
	adminEmail string
}

func NewService(repo Repository, cfg config.AuthConfig) Service {
	return &service{
		repo:       repo,
		jwtSecret:  []byte(cfg.JWTSecret),
		tokenTTL:   cfg.TokenTTL,
		adminEmail: normalizeEmail(cfg.AdminEmail),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates a profile. The role is fixed here: the one configured
// admin email is elevated, everyone else is a regular user. This is a
// single-admin bootstrap, not a general ACL.
func (s *service) SignUp(ctx context.Context, input SignUpInput) (*Profile, string, error) {
	if input.Password == "" {
		return nil, "", errors.New("service: password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("service: failed to hash password: %w", err)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, "", fmt.Errorf("service: failed to generate profile id: %w", err)
	}

	email := normalizeEmail(input.Email)
	role := RoleUser
	if email == s.adminEmail {
		role = RoleAdmin
	}

	p := &Profile{
		ID:           id,
		Name:         input.Name,
		Email:        email,
		Phone:        input.Phone,
		Address:      input.Address,
		Role:         role,
		PasswordHash: string(hash),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, "", ErrEmailExists
		}
		log.Error().Err(err).Msg("service: failed to create profile in repository")
		return nil, "", fmt.Errorf("service: failed to create profile: %w", err)
	}

	token, err := s.issueToken(p)
	if err != nil {
		return nil, "", err
	}

	log.Info().Stringer("profile_id", p.ID).Str("role", string(p.Role)).Msg("service: profile created")
	return p, token, nil
}

func (s *service) SignIn(ctx context.Context, email, password string) (*Profile, string, error) {
	p, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("service: failed to fetch profile by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(p)
	if err != nil {
		return nil, "", err
	}

	return p, token, nil
}

// GetSession resolves a token to its profile. A transient store failure
// degrades to a minimal profile derived from the claims so a signed-in
// shopper is not locked out of the storefront.
func (s *service) GetSession(ctx context.Context, token string) (*Profile, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	id, err := uuid.FromString(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidToken
		}
		log.Warn().Err(err).Stringer("profile_id", id).Msg("service: profile store unavailable, degrading to claims-derived profile")
		return &Profile{ID: id, Name: claims.Name, Role: Role(claims.Role)}, nil
	}

	return p, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch profile by id: %w", err)
	}
	return p, nil
}

func (s *service) UpdateContact(ctx context.Context, id uuid.UUID, phone, address string) error {
	if err := s.repo.UpdateContact(ctx, id, phone, address); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("service: failed to update contact details: %w", err)
	}
	return nil
}

func (s *service) issueToken(p *Profile) (string, error) {
	claims := &Claims{
		UserID: p.ID.String(),
		Name:   p.Name,
		Role:   string(p.Role),
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(s.tokenTTL).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("service: failed to sign session token: %w", err)
	}

	return signed, nil
}

func (s *service) parseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
