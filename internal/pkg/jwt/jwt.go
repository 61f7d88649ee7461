package jwt

import (
	"errors"
	"time"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/employee"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Token types carried in the "type" claim
const (
	TokenTypeAccess = "access"
	TokenTypeSSE    = "sse"
)

// SSETokenTTL is the lifetime of a stream token
const SSETokenTTL = 5 * time.Minute

var ErrInvalidToken = errors.New("invalid token")

// Service issues and verifies tokens. Access tokens are normally minted by the
// auth service sharing the same secret; GenerateAccessToken serves tooling.
type Service interface {
	GenerateAccessToken(employeeID string, role employee.Role) (token string, expiresAt int64, err error)
	GenerateSSEToken(employeeID string) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (employeeID string, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime time.Duration
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) (Service, error) {
	expiration, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, err
	}
	return &JWTService{
		accessTokenExpirationTime: expiration,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                       time.Now,
	}, nil
}

func (j *JWTService) GenerateAccessToken(employeeID string, role employee.Role) (token string, expiresAt int64, err error) {
	if !role.IsValid() {
		return "", 0, employee.ErrInvalidRole
	}
	expiresAt = j.now().Add(j.accessTokenExpirationTime).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"role":        string(role),
		"type":        TokenTypeAccess,
		"exp":         expiresAt,
	})
	return tokenString, expiresAt, err
}

// GenerateSSEToken generates a short-lived token for SSE connections
func (j *JWTService) GenerateSSEToken(employeeID string) (token string, expiresIn int, err error) {
	expiresIn = int(SSETokenTTL.Seconds())
	expiresAt := j.now().Add(SSETokenTTL).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"type":        TokenTypeSSE,
		"exp":         expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, expiresIn, nil
}

// ValidateSSEToken validates an SSE token and returns the employee ID
func (j *JWTService) ValidateSSEToken(tokenString string) (employeeID string, err error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}

	// Check token type
	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeSSE {
		return "", ErrInvalidToken
	}

	employeeIDVal, ok := token.Get("employee_id")
	if !ok {
		return "", ErrInvalidToken
	}

	employeeID, ok = employeeIDVal.(string)
	if !ok || employeeID == "" {
		return "", ErrInvalidToken
	}

	return employeeID, nil
}
