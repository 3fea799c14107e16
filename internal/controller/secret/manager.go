// Package secret reconciles the opaque auth secret backing a port's derived
// credential.
package secret

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	demeterv1alpha1 "github.com/demeter-run/ext-ogmios/api/v1alpha1"
	"github.com/demeter-run/ext-ogmios/internal/controller/shared"
	"github.com/demeter-run/ext-ogmios/internal/utils"
)

// Manager reconciles the auth Secret for a port.
type Manager struct {
	client client.Client
	scheme *runtime.Scheme
	log    utils.Logger
}

func NewManager(k8sClient client.Client, scheme *runtime.Scheme, log utils.Logger) *Manager {
	return &Manager{client: k8sClient, scheme: scheme, log: log}
}

// Name returns the auth secret's name for the given port.
func Name(portName string) string {
	return shared.GenerateResourceName(portName, "auth")
}

// Reconcile creates or updates the opaque auth secret holding the derived key.
func (m *Manager) Reconcile(ctx context.Context, port *demeterv1alpha1.OgmiosPort, derivedKey string) error {
	secretObj := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      Name(port.Name),
			Namespace: port.Namespace,
			Labels:    utils.DefaultLabels("key-auth-credential", port.Name),
		},
		Type: corev1.SecretTypeOpaque,
		StringData: map[string]string{
			"key": derivedKey,
		},
	}

	if err := utils.SetControllerReference(port, secretObj, m.scheme); err != nil {
		return fmt.Errorf("failed to set owner reference on auth secret: %w", err)
	}
	if err := utils.CreateOrUpdate(ctx, m.client, secretObj); err != nil {
		return fmt.Errorf("failed to create or update auth secret: %w", err)
	}

	m.log.V(1).Info("reconciled auth secret", "secret", secretObj.Name)
	return nil
}
