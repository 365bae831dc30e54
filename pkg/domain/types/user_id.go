package types

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// UserID is an opaque per-client identifier used to correlate
// interactions and personalization requests. It is generated once per
// client and persisted in a cookie.
type UserID string

const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// NewUserID generates a short identifier from the current timestamp in
// base62 plus a 4 character random suffix, e.g. "k7Bm9xP2a1".
func NewUserID() UserID {
	ts := time.Now().UnixMilli()

	var buf []byte
	for ts > 0 {
		buf = append([]byte{base62Alphabet[ts%62]}, buf...)
		ts /= 62
	}
	if len(buf) == 0 {
		buf = []byte{'0'}
	}

	for i := 0; i < 4; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(62))
		if err != nil {
			// crypto/rand failure is not recoverable here, fall back to
			// a fixed character rather than failing ID generation
			buf = append(buf, '0')
			continue
		}
		buf = append(buf, base62Alphabet[n.Int64()])
	}

	return UserID(buf)
}

// Validate checks if the UserID is usable as a request correlation key
func (u UserID) Validate() error {
	if u == "" {
		return goerr.New("user ID cannot be empty")
	}
	return nil
}

// String returns the string representation of UserID
func (u UserID) String() string {
	return string(u)
}

type userIDCtxKey struct{}

// ContextWithUserID returns a context carrying the client user ID
func ContextWithUserID(ctx context.Context, id UserID) context.Context {
	return context.WithValue(ctx, userIDCtxKey{}, id)
}

// UserIDFromContext extracts the client user ID from the context.
// Returns an empty UserID when none is set.
func UserIDFromContext(ctx context.Context) UserID {
	if id, ok := ctx.Value(userIDCtxKey{}).(UserID); ok {
		return id
	}
	return ""
}
