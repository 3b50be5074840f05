// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides session verification and token generation utilities.

# Session Tokens

Sign-in happens elsewhere. The identity provider hands the client a token
signed with the shared SESSION_SALT:

	token := auth.GenerateSessionToken(userID, salt)
	identity, err := auth.ValidateSessionToken(token, salt)

Handlers read it from the Authorization header:

	identity, err := auth.FromRequest(r, cfg.SessionSalt)

The token is "<userID>.<signature>" where the signature is URL-safe base64
HMAC-SHA256. Validation needs no database lookup.

# Share Tokens

Share tokens are random 24-byte (192-bit) secrets:

	token, err := auth.GenerateShareToken()

Possession of a share token is the only credential needed to read the
proposal snapshot behind it. Revoking clears the token; enabling sharing again
mints a new one.

# ID Generation

Random hex IDs for edit sessions:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
