package security

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrJWTSecretMissing = errors.New("JWT_SECRET is not set")
	ErrInvalidSubject   = errors.New("token subject is not a session id")
)

const defaultTTL = 7 * 24 * time.Hour

// Claims 对局令牌，sid 即对局 id。
type Claims struct {
	SessionID int64 `json:"sid"`
	jwt.RegisteredClaims
}

// Signer 对局令牌签发/校验，secret 为空时回落到环境变量 JWT_SECRET。
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *Signer) key() ([]byte, error) {
	if len(s.secret) == 0 {
		return nil, ErrJWTSecretMissing
	}
	return s.secret, nil
}

// Award 生成 Token（默认 7 天过期）。
func (s *Signer) Award(sessionID int64) (string, error) {
	key, err := s.key()
	if err != nil {
		return "", err
	}

	now := s.now()
	claims := &Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(sessionID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// ParseToken 解析并验证 Token。
func (s *Signer) ParseToken(tokenStr string) (*jwt.Token, *Claims, error) {
	key, err := s.key()
	if err != nil {
		return nil, nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return key, nil
	})
	if err != nil {
		return nil, nil, err
	}
	if token == nil || !token.Valid {
		return nil, nil, jwt.ErrTokenInvalidClaims
	}
	if claims.SessionID <= 0 || claims.Subject != strconv.FormatInt(claims.SessionID, 10) {
		return nil, nil, ErrInvalidSubject
	}
	return token, claims, nil
}
