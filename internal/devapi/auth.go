package devapi

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/guilhermemouraovc/cm-admin/internal/model"
)

const issuer = "cm-devapi"

// Claims are the JWT claims issued at login
type Claims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// NewAccessToken signs an HS256 token for profile
func NewAccessToken(secret string, ttl time.Duration, profile model.Profile) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID:   profile.ID,
		Username: profile.Username,
		Role:     profile.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.Username,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies signature and expiry
func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

type authHandler struct {
	cfg   Config
	admin model.Profile
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(creds.Username), []byte(h.cfg.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(creds.Password), []byte(h.cfg.AdminPassword)) == 1
	if !userOK || !passOK {
		writeError(w, http.StatusUnauthorized, "Usuário ou senha inválidos")
		return
	}

	token, err := NewAccessToken(h.cfg.JWTSecret, h.cfg.TokenTTL, h.admin)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "falha ao gerar token")
		return
	}
	writeJSON(w, http.StatusOK, model.LoginResponse{Token: token, User: h.admin})
}

// Validate is mounted behind BearerAuth, so reaching it means the token is good
func (h *authHandler) Validate(w http.ResponseWriter, r *http.Request) {
	claims, _ := r.Context().Value(claimsKey).(*Claims)
	out := map[string]any{"valid": true}
	if claims != nil {
		out["username"] = claims.Username
		out["expires_at"] = claims.ExpiresAt.Time
	}
	writeJSON(w, http.StatusOK, out)
}
