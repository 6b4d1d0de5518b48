package utils

import (
	"context"
	"net/http"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	"github.com/deckforge/deckforge-api/config"
	"github.com/deckforge/deckforge-api/models"
)

// CustomClaims holds the token claims beyond the registered set.
type CustomClaims struct {
	Nickname string   `json:"nickname"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

func (c *CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// GetIdentity builds the identity snapshot for the request from the
// validated token claims. The admin role comes from the roles claim, or
// from the configured ADMIN_EMAIL for tokens without one.
func GetIdentity(r *http.Request) (models.Identity, bool) {
	claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
	if !ok || claims.RegisteredClaims.Subject == "" {
		return models.Identity{}, false
	}

	ident := models.Identity{ID: claims.RegisteredClaims.Subject}
	if custom, ok := claims.CustomClaims.(*CustomClaims); ok && custom != nil {
		ident.DisplayName = custom.Nickname
		ident.Email = custom.Email
		ident.Roles = custom.Roles
	}
	if !ident.IsAdmin() && config.Env.AdminEmail != "" && ident.Email == config.Env.AdminEmail {
		ident.Roles = append(ident.Roles, models.RoleAdmin)
	}
	return ident, true
}
