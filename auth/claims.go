package auth

import (
	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/stocklight/go-inventory-client/internal/utils"
)

// claimsFromToken pulls username and roles out of the JWT payload without
// verifying the signature. Signature verification is the server's job; this
// is only a fallback for when the validate response omits explicit user
// fields. A token that does not parse yields empty values and the session is
// still installed with whatever the server confirmed.
func claimsFromToken(rawToken string) (username string, roles []string) {
	token, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return "", nil
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return "", nil
	}

	if v, ok := claims["username"].(string); ok && v != "" {
		username = v
	} else if v, ok := claims["sub"].(string); ok {
		username = v
	}

	if rawRoles, ok := claims["roles"].([]any); ok {
		roles = utils.ToStringSlice(rawRoles)
	}

	return username, roles
}
