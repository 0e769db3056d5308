package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"tareas/config"
	"tareas/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

/****MARK: Tipos de token ****/

const (
	TOKEN_TYPE_ACCESS  = "access"
	TOKEN_TYPE_REFRESH = "refresh"
)

const (
	AccessCookieName  = "access_token"
	RefreshCookieName = "refresh_token"
)

var (
	ErrTokenInvalid   = errors.New("token inválido o expirado")
	ErrTokenWrongType = errors.New("tipo de token incorrecto")
)

// TokenClaims son los claims de los JWT emitidos por la API. El subject
// es el id del usuario (el username es solo informativo: puede cambiar
// sin invalidar tokens vivos). El campo token_type distingue access de
// refresh: nunca se acepta uno en lugar del otro.
type TokenClaims struct {
	jwt.RegisteredClaims
	Username  string `json:"username,omitempty"`
	TokenType string `json:"token_type"`
}

// UserID devuelve el id de usuario guardado en el subject.
func (c *TokenClaims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrTokenInvalid
	}
	return id, nil
}

// TokenManager emite y verifica los pares access/refresh firmados con
// HS256 y escribe las cookies http-only correspondientes.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	secureOnly bool
}

func NewTokenManager(conf config.Configuration) *TokenManager {
	return &TokenManager{
		secret:     []byte(conf.Security.JwtSecret),
		accessTTL:  conf.AccessTokenTTL(),
		refreshTTL: conf.RefreshTokenTTL(),
		secureOnly: !conf.Debug,
	}
}

func (tm *TokenManager) AccessTTL() time.Duration  { return tm.accessTTL }
func (tm *TokenManager) RefreshTTL() time.Duration { return tm.refreshTTL }

// Issue firma un token del tipo pedido para el usuario.
func (tm *TokenManager) Issue(user models.User, tokenType string, now time.Time) (string, error) {
	ttl := tm.accessTTL
	if tokenType == TOKEN_TYPE_REFRESH {
		ttl = tm.refreshTTL
	}

	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username:  user.Username,
		TokenType: tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// Verify valida firma, expiración y tipo, y devuelve los claims.
func (tm *TokenManager) Verify(tokenString, expectedType string, now time.Time) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return tm.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.TokenType != expectedType {
		return nil, ErrTokenWrongType
	}
	return claims, nil
}

/****MARK: Cookies ****/

func (tm *TokenManager) SetAccessCookie(c *gin.Context, token string) {
	tm.setAuthCookie(c, AccessCookieName, token, tm.accessTTL)
}

func (tm *TokenManager) SetRefreshCookie(c *gin.Context, token string) {
	tm.setAuthCookie(c, RefreshCookieName, token, tm.refreshTTL)
}

func (tm *TokenManager) ClearAuthCookies(c *gin.Context) {
	tm.setAuthCookie(c, AccessCookieName, "", -time.Hour)
	tm.setAuthCookie(c, RefreshCookieName, "", -time.Hour)
}

func (tm *TokenManager) setAuthCookie(c *gin.Context, name, value string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, value, int(ttl.Seconds()), "/", "", tm.secureOnly, true)
}

// TokenFromRequest busca el access token primero en la cookie y después
// en el header Authorization (Bearer), para clientes sin cookies.
func TokenFromRequest(c *gin.Context, cookieName string) string {
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v
	}
	const prefix = "Bearer "
	auth := c.GetHeader("Authorization")
	if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):]
	}
	return ""
}
