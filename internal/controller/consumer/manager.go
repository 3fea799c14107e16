// Package consumer reconciles the tenant consumer record that binds a
// username to its auth secret.
package consumer

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	demeterv1alpha1 "github.com/demeter-run/ext-ogmios/api/v1alpha1"
	"github.com/demeter-run/ext-ogmios/internal/controller/secret"
	"github.com/demeter-run/ext-ogmios/internal/controller/shared"
	"github.com/demeter-run/ext-ogmios/internal/utils"
)

// Manager reconciles the consumer record ConfigMap for a port.
type Manager struct {
	client client.Client
	scheme *runtime.Scheme
	log    utils.Logger
}

func NewManager(k8sClient client.Client, scheme *runtime.Scheme, log utils.Logger) *Manager {
	return &Manager{client: k8sClient, scheme: scheme, log: log}
}

// Username is the tenant identity exposed to the gateway's auth plugin.
func Username(namespace, name string) string {
	return fmt.Sprintf("%s.%s", namespace, name)
}

// Reconcile creates or updates the consumer record binding username to the
// port's auth secret.
func (m *Manager) Reconcile(ctx context.Context, port *demeterv1alpha1.OgmiosPort) error {
	configMap := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      shared.GenerateResourceName(port.Name, "consumer"),
			Namespace: port.Namespace,
			Labels:    utils.DefaultLabels("consumer", port.Name),
		},
		Data: map[string]string{
			"username":   Username(port.Namespace, port.Name),
			"secretName": secret.Name(port.Name),
		},
	}

	if err := utils.SetControllerReference(port, configMap, m.scheme); err != nil {
		return fmt.Errorf("failed to set owner reference on consumer record: %w", err)
	}
	if err := utils.CreateOrUpdate(ctx, m.client, configMap); err != nil {
		return fmt.Errorf("failed to create or update consumer record: %w", err)
	}

	m.log.V(1).Info("reconciled consumer record", "configmap", configMap.Name)
	return nil
}
