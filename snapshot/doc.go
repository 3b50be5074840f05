// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package snapshot builds the read-only public view of a shared proposal
// from its share token. Holding the token is the only credential checked.
package snapshot
