// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/propose/auth"
	"github.com/danielhkuo/propose/middleware"
)

// requireIdentity reads the bearer session token. On failure it writes a 401
// and returns false.
func requireIdentity(w http.ResponseWriter, r *http.Request, salt string) (auth.Identity, bool) {
	identity, err := auth.FromRequest(r, salt)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid or missing session token")
		return auth.Identity{}, false
	}
	return identity, true
}
