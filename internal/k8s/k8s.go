// Package k8s reads the cluster resources the portal depends on: the
// break-glass credential Secret and the API server version reported by /health.
package k8s

import (
	"context"
	"errors"
)

// ErrSecretNotFound is returned when the requested Secret does not exist.
var ErrSecretNotFound = errors.New("secret not found")

// ConnectivityStatus is the cluster section of the portal health report.
// Version is empty when the API server could not be reached.
type ConnectivityStatus struct {
	Connected bool
	Version   string
}

// HealthChecker reports whether the portal can reach its cluster.
type HealthChecker interface {
	CheckConnectivity(ctx context.Context) ConnectivityStatus
}

// SecretReader returns the data of a Secret, or ErrSecretNotFound. The
// break-glass provider reads its credential through it.
type SecretReader interface {
	GetSecret(ctx context.Context, namespace, name string) (map[string][]byte, error)
}
