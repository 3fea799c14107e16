package utils

import (
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// IgnoreNotFound returns nil if the error is a "not found" error, otherwise returns the error.
// This is a convenience wrapper around client.IgnoreNotFound.
func IgnoreNotFound(err error) error {
	return client.IgnoreNotFound(err)
}
