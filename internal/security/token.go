package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is used when no lifetime is configured
const DefaultTokenTTL = 1440 * time.Minute

// ErrInvalidToken covers malformed, badly signed and expired tokens alike
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the token payload: the subject id and the expiry
type Claims struct {
	jwt.RegisteredClaims
}

// SubjectID returns the numeric user id carried in "sub"
func (c *Claims) SubjectID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

// TokenService issues and validates HS256 bearer tokens
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for subjectID with the configured lifetime
func (s *TokenService) Issue(subjectID uint) (string, error) {
	return s.IssueWithTTL(subjectID, s.ttl)
}

// IssueWithTTL signs a token that expires ttl from now. A ttl of zero or
// less yields a token that is already expired.
func (s *TokenService) IssueWithTTL(subjectID uint, ttl time.Duration) (string, error) {
	return s.sign(strconv.FormatUint(uint64(subjectID), 10), ttl)
}

func (s *TokenService) sign(subject string, ttl time.Duration) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(s.now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Validate returns the claims of a well-formed, correctly signed, unexpired
// token with a subject. Every failure is reported as ErrInvalidToken.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Refresh issues a fresh token for the subject of a valid token. It does not
// check that the subject still exists.
func (s *TokenService) Refresh(tokenString string) (string, error) {
	claims, err := s.Validate(tokenString)
	if err != nil {
		return "", err
	}
	return s.sign(claims.Subject, s.ttl)
}
