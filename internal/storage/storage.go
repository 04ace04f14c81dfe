// Package storage is the durable client-side key/value store backing the
// session and cart. It survives process restarts the way browser local
// storage survives page reloads.
package storage

import "errors"

// Well-known keys. Logout must clear all three.
const (
	KeyToken = "auth_token"
	KeyUser  = "user"
	KeyCart  = "cart"
)

var ErrNotFound = errors.New("storage: key not found")

// Store is the consumer-side interface; the bbolt implementation satisfies it.
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
}
