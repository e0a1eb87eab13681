package fakebackend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Brayan980312/ProyectoUniversidad/internal/logger"
	"github.com/Brayan980312/ProyectoUniversidad/internal/types"
)

const (
	TokenIssuerName = "MSSEGURIDAD"
	BcryptCost      = bcrypt.DefaultCost
)

type AuthService struct {
	secretKey   string
	tokenExpiry time.Duration
	now         func() time.Time
}

func NewAuthService(secretKey string, tokenExpiry time.Duration) *AuthService {
	return &AuthService{
		secretKey:   secretKey,
		tokenExpiry: tokenExpiry,
		now:         time.Now,
	}
}

// AccessTokenClaims are carried by the tokens issued at LoginUsuario
type AccessTokenClaims struct {
	jwt.RegisteredClaims
	UsuarioID    int   `json:"usuarioId"`
	EstudianteID int   `json:"estudianteId,omitempty"`
	Roles        []int `json:"roles"`
}

// IsAdmin mirrors the console rule: the first role decides
func (c *AccessTokenClaims) IsAdmin() bool {
	return len(c.Roles) > 0 && c.Roles[0] == types.RoleAdmin
}

func (a *AuthService) HashPassword(password string) (string, error) {
	dat, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(dat), nil
}

func (a *AuthService) CheckPasswordHash(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// CreateAccessToken signs an HS256 token for the user
func (a *AuthService) CreateAccessToken(u *user) (string, error) {
	issuedAt := a.now()

	roles := make([]int, 0, len(u.roles))
	for _, r := range u.roles {
		roles = append(roles, r.RolID)
	}

	claims := AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuerName,
			Subject:   strconv.Itoa(u.id),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(a.tokenExpiry)),
		},
		UsuarioID:    u.id,
		EstudianteID: u.estudianteID,
		Roles:        roles,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(a.secretKey))
	if err != nil {
		return "", fmt.Errorf("error signing access token: %w", err)
	}
	return signed, nil
}

// ValidateAccessToken checks the signature and expiry of a bearer token
func (a *AuthService) ValidateAccessToken(tokenString string) (*AccessTokenClaims, error) {
	claims := &AccessTokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(a.secretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuerName),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

var errMissingBearer = errors.New("authorization header must be 'Bearer <token>'")

func bearerToken(headers http.Header) (string, error) {
	authHeader := headers.Get("Authorization")
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", errMissingBearer
	}
	return strings.TrimSpace(token), nil
}

type contextKey struct {
	name string
}

var claimsKey = contextKey{"access_token_claims"}

func ContextWithAccessTokenClaims(ctx context.Context, claims *AccessTokenClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ContextAccessTokenClaims(ctx context.Context) (*AccessTokenClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*AccessTokenClaims)
	return claims, ok
}

// RequireValidAccessToken rejects requests without a valid bearer token with an empty 401
// and adds the token claims to the request context.
func (a *AuthService) RequireValidAccessToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := bearerToken(r.Header)
		if err != nil {
			RespondUnauthorized(w, r, err.Error())
			return
		}

		claims, err := a.ValidateAccessToken(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				RespondUnauthorized(w, r, "access token expired")
				return
			}
			RespondUnauthorized(w, r, err.Error())
			return
		}

		logger.ContextWithLogAttrs(r.Context(), slog.Int("usuario_id", claims.UsuarioID))

		next.ServeHTTP(w, r.WithContext(ContextWithAccessTokenClaims(r.Context(), claims)))
	})
}

// RequireAdmin must be used after RequireValidAccessToken
func (a *AuthService) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ContextAccessTokenClaims(r.Context())
		if !ok {
			RespondWithProblem(w, r, http.StatusInternalServerError, "access token claims not in context")
			return
		}
		if !claims.IsAdmin() {
			RespondWithProblem(w, r, http.StatusForbidden, "La operación requiere el rol de administrador")
			return
		}
		next.ServeHTTP(w, r)
	})
}
