package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/censusgap-backend/internal/data/repos"
	"github.com/yungbote/censusgap-backend/internal/platform/apierr"
	"github.com/yungbote/censusgap-backend/internal/platform/ctxutil"
	"github.com/yungbote/censusgap-backend/internal/platform/logger"
)

const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

var (
	ErrInvalidCredentials = errors.New("can't verify info provided")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrTokenKind          = errors.New("wrong token type")
	ErrMissingRequestData = errors.New("no request data found in context")
)

type JWTClaims struct {
	jwt.RegisteredClaims
	Kind string `json:"type"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*TokenPair, error)
	Refresh(ctx context.Context) (*TokenPair, error)
	Logout(ctx context.Context) error
	RevokeRefresh(ctx context.Context) error
	ParseToken(ctx context.Context, tokenString, kind string) (*ctxutil.RequestData, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	log          *logger.Logger
	userRepo     repos.UserRepo
	denylist     TokenDenylist
	jwtSecretKey []byte
	accessTTL    time.Duration
	refreshTTL   time.Duration
	now          func() time.Time
}

func NewAuthService(
	log *logger.Logger,
	userRepo repos.UserRepo,
	denylist TokenDenylist,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		log:          serviceLog,
		userRepo:     userRepo,
		denylist:     denylist,
		jwtSecretKey: []byte(jwtSecretKey),
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
		now:          time.Now,
	}
}

func (as *authService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	username = strings.TrimSpace(username)
	users, err := as.userRepo.GetByUsernames(ctx, nil, []string{username})
	if err != nil {
		as.log.Warn("Error retrieving user by username", "error", err)
		return nil, apierr.New(http.StatusInternalServerError, "user_lookup_failed", fmt.Errorf("can't find user"))
	}
	if len(users) == 0 {
		return nil, apierr.New(http.StatusUnauthorized, "invalid_credentials", ErrInvalidCredentials)
	}
	if err := CheckPassword(users[0].HashedPassword, password); err != nil {
		return nil, apierr.New(http.StatusUnauthorized, "invalid_credentials", ErrInvalidCredentials)
	}
	return as.issuePair(users[0].Username)
}

func (as *authService) Refresh(ctx context.Context) (*TokenPair, error) {
	rd, err := requireKind(ctx, TokenKindRefresh)
	if err != nil {
		return nil, err
	}
	return as.issuePair(rd.Username)
}

func (as *authService) Logout(ctx context.Context) error {
	rd, err := requireKind(ctx, TokenKindAccess)
	if err != nil {
		return err
	}
	return as.revoke(ctx, rd)
}

func (as *authService) RevokeRefresh(ctx context.Context) error {
	rd, err := requireKind(ctx, TokenKindRefresh)
	if err != nil {
		return err
	}
	return as.revoke(ctx, rd)
}

// ParseToken validates signature, expiry, token kind and revocation, and
// returns the caller identity the token carries.
func (as *authService) ParseToken(ctx context.Context, tokenString, kind string) (*ctxutil.RequestData, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return as.jwtSecretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(as.now),
	)
	if err != nil {
		return nil, apierr.New(http.StatusUnauthorized, "invalid_token", fmt.Errorf("failed to parse token: %w", err))
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, apierr.New(http.StatusUnauthorized, "invalid_token", fmt.Errorf("invalid or expired JWT token"))
	}
	if claims.Kind != kind {
		return nil, apierr.New(http.StatusUnauthorized, "wrong_token_type", fmt.Errorf("%w: want %s", ErrTokenKind, kind))
	}
	revoked, err := as.denylist.Contains(ctx, claims.ID)
	if err != nil {
		as.log.Error("Denylist lookup failed", "error", err)
		return nil, apierr.New(http.StatusServiceUnavailable, "denylist_unavailable", fmt.Errorf("could not check token revocation"))
	}
	if revoked {
		return nil, apierr.New(http.StatusUnauthorized, "token_revoked", ErrTokenRevoked)
	}
	rd := &ctxutil.RequestData{
		Username:  claims.Subject,
		TokenID:   claims.ID,
		TokenKind: claims.Kind,
	}
	if claims.ExpiresAt != nil {
		rd.ExpiresAt = claims.ExpiresAt.Time
	}
	return rd, nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

func (as *authService) issuePair(username string) (*TokenPair, error) {
	access, err := as.sign(username, TokenKindAccess, as.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := as.sign(username, TokenKindRefresh, as.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(as.accessTTL.Seconds()),
	}, nil
}

func (as *authService) sign(username, kind string, ttl time.Duration) (string, error) {
	now := as.now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Kind: kind,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.jwtSecretKey)
	if err != nil {
		return "", apierr.New(http.StatusInternalServerError, "token_sign_failed", fmt.Errorf("generate %s token: %w", kind, err))
	}
	return signed, nil
}

func (as *authService) revoke(ctx context.Context, rd *ctxutil.RequestData) error {
	ttl := rd.ExpiresAt.Sub(as.now())
	if err := as.denylist.Add(ctx, rd.TokenID, ttl); err != nil {
		as.log.Error("Failed to revoke token", "jti", rd.TokenID, "error", err)
		return apierr.New(http.StatusServiceUnavailable, "revoke_failed", fmt.Errorf("could not revoke token"))
	}
	as.log.Info("Token revoked", "username", rd.Username, "kind", rd.TokenKind)
	return nil
}

func requireKind(ctx context.Context, kind string) (*ctxutil.RequestData, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.Username == "" {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", ErrMissingRequestData)
	}
	if rd.TokenKind != kind {
		return nil, apierr.New(http.StatusUnauthorized, "wrong_token_type", fmt.Errorf("%w: want %s", ErrTokenKind, kind))
	}
	return rd, nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func CheckPassword(hashed, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
}
