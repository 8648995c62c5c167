package security

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"restaurantadmin/internal/config"
	"restaurantadmin/internal/ids"
	"restaurantadmin/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

type ActivationToken struct {
	Token string
	Code  string
}

type ActivationPayload struct {
	Candidate models.Candidate
	Code      string
}

type SignedToken struct {
	Token     string
	ExpiresAt time.Time
}

type activationClaims struct {
	User           models.Candidate `json:"user"`
	ActivationCode string           `json:"activationCode"`
	jwt.RegisteredClaims
}

type userClaims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

type tokenKind struct {
	secret []byte
	ttl    time.Duration
}

// Tokens mints and verifies the three token classes. Each class has its own
// secret, so a token of one class never verifies as another.
type Tokens struct {
	activation tokenKind
	access     tokenKind
	refresh    tokenKind
	now        func() time.Time
}

func NewTokens(cfg config.SecurityConfig) *Tokens {
	return &Tokens{
		activation: tokenKind{secret: []byte(cfg.ActivationTokenSecret), ttl: cfg.ActivationTokenTTL},
		access:     tokenKind{secret: []byte(cfg.AccessTokenSecret), ttl: cfg.AccessTokenTTL},
		refresh:    tokenKind{secret: []byte(cfg.RefreshTokenSecret), ttl: cfg.RefreshTokenTTL},
		now:        time.Now,
	}
}

// WithClock replaces the time source used for issuing and verifying.
func (t *Tokens) WithClock(now func() time.Time) *Tokens {
	t.now = now
	return t
}

func (t *Tokens) AccessTTL() time.Duration  { return t.access.ttl }
func (t *Tokens) RefreshTTL() time.Duration { return t.refresh.ttl }

func (t *Tokens) IssueActivation(candidate models.Candidate) (ActivationToken, error) {
	code, err := activationCode()
	if err != nil {
		return ActivationToken{}, err
	}

	claims := activationClaims{
		User:             candidate,
		ActivationCode:   code,
		RegisteredClaims: t.registered(t.activation.ttl),
	}
	signed, err := sign(claims, t.activation.secret)
	if err != nil {
		return ActivationToken{}, err
	}
	return ActivationToken{Token: signed, Code: code}, nil
}

func (t *Tokens) ParseActivation(token string) (ActivationPayload, error) {
	var claims activationClaims
	if err := t.parse(token, &claims, t.activation.secret); err != nil {
		return ActivationPayload{}, err
	}
	return ActivationPayload{Candidate: claims.User, Code: claims.ActivationCode}, nil
}

func (t *Tokens) IssueAccess(userID string) (SignedToken, error) {
	return t.issueUser(userID, t.access)
}

func (t *Tokens) IssueRefresh(userID string) (SignedToken, error) {
	return t.issueUser(userID, t.refresh)
}

func (t *Tokens) ParseAccess(token string) (string, error) {
	return t.parseUser(token, t.access.secret)
}

func (t *Tokens) ParseRefresh(token string) (string, error) {
	return t.parseUser(token, t.refresh.secret)
}

func (t *Tokens) issueUser(userID string, kind tokenKind) (SignedToken, error) {
	registered := t.registered(kind.ttl)
	registered.Subject = userID
	claims := userClaims{ID: userID, RegisteredClaims: registered}

	signed, err := sign(claims, kind.secret)
	if err != nil {
		return SignedToken{}, err
	}
	return SignedToken{Token: signed, ExpiresAt: registered.ExpiresAt.Time}, nil
}

func (t *Tokens) parseUser(token string, secret []byte) (string, error) {
	var claims userClaims
	if err := t.parse(token, &claims, secret); err != nil {
		return "", err
	}
	if claims.ID == "" {
		return "", fmt.Errorf("%w: missing id claim", ErrInvalidToken)
	}
	return claims.ID, nil
}

func (t *Tokens) registered(ttl time.Duration) jwt.RegisteredClaims {
	now := t.now()
	return jwt.RegisteredClaims{
		ID:        ids.New(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (t *Tokens) parse(token string, claims jwt.Claims, secret []byte) error {
	if token == "" {
		return fmt.Errorf("%w: empty token", ErrInvalidToken)
	}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}

func sign(claims jwt.Claims, secret []byte) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

// activationCode returns a four digit decimal code in [1000, 9999].
func activationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", fmt.Errorf("generate activation code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+1000), nil
}
