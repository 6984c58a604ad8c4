package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrBadSignature   = errors.New("token signature is invalid")
	ErrTokenExpired   = errors.New("token has expired")
	ErrMissingToken   = errors.New("missing authorization token")
)

const DefaultTTL = 30 * time.Minute

// Config holds the process-wide signing settings. It is built once at start-up.
type Config struct {
	Secret    []byte
	Algorithm string // HS256, HS384 or HS512
	TTL       time.Duration
	Issuer    string
}

// Claims represents the JWT claims structure. The subject is the user's email.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService issues and verifies bearer tokens.
type TokenService struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenService validates cfg and returns a TokenService.
func NewTokenService(cfg Config) (*TokenService, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("jwt secret must not be empty")
	}

	alg := cfg.Algorithm
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q: only HMAC algorithms are allowed", alg)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &TokenService{
		secret: cfg.Secret,
		method: method,
		ttl:    ttl,
		issuer: cfg.Issuer,
		now:    time.Now,
	}, nil
}

// WithClock returns a copy of s that reads the current time from now.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	cp := *s
	cp.now = now
	return &cp
}

// TTL is the default lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for subject that expires at expiresAt.
func (s *TokenService) Issue(subject string, expiresAt time.Time) (string, error) {
	if subject == "" {
		return "", errors.New("token subject must not be empty")
	}

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(s.method, claims)
	return token.SignedString(s.secret)
}

// IssueDefault signs a token for subject using the configured lifetime.
func (s *TokenService) IssueDefault(subject string) (string, error) {
	return s.Issue(subject, s.now().Add(s.ttl))
}

// Verify checks signature and expiry and returns the token's subject.
// Failures are ErrMalformedToken, ErrBadSignature or ErrTokenExpired.
func (s *TokenService) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != s.method.Alg() {
			return nil, ErrBadSignature
		}
		return s.secret, nil
	},
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", classify(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrMalformedToken
	}

	return claims.Subject, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return ErrMalformedToken
	}
}
