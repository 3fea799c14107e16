// Package credential derives the deterministic API key shared by the
// operator and the proxy from a port's (name, namespace) identity.
package credential

import (
	"encoding/base64"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"golang.org/x/crypto/argon2"
)

// HRP is the bech32 human-readable prefix for every derived credential.
const HRP = "dmtr_ogmios"

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	keyLen       = 16
)

// Error wraps a failure in key derivation. It is always fatal: it indicates
// a broken build or a malformed salt, never a transient condition.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("credential: %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Derive computes the bech32-encoded API key for a port. It is a pure
// function of (name, namespace, salt): the same inputs always produce the
// same output, and it performs no I/O.
func Derive(name, namespace string, salt []byte) (string, error) {
	password := []byte("ogmios-auth-" + name + namespace)
	hash := argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, keyLen)

	encoded := base64.RawURLEncoding.EncodeToString(hash)

	converted, err := bech32.ConvertBits([]byte(encoded), 8, 5, true)
	if err != nil {
		return "", &Error{Op: "convert-bits", Err: err}
	}

	token, err := bech32.Encode(HRP, converted)
	if err != nil {
		return "", &Error{Op: "encode", Err: err}
	}

	return token, nil
}
