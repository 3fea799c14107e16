// Package grant reconciles the ReferenceGrant that permits a tenant's
// HTTPRoute to target the shared backend Service.
package grant

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	gatewayv1beta1 "sigs.k8s.io/gateway-api/apis/v1beta1"

	demeterv1alpha1 "github.com/demeter-run/ext-ogmios/api/v1alpha1"
	"github.com/demeter-run/ext-ogmios/internal/controller/shared"
	"github.com/demeter-run/ext-ogmios/internal/utils"
)

// Manager reconciles the ReferenceGrant living in the ingress namespace.
// Unlike the other managers, the grant is not owned by any single Port: it
// is shared by every route that targets that backend from the tenant
// namespace, so it is keyed by namespace rather than owned per-port.
type Manager struct {
	client           client.Client
	log              utils.Logger
	ingressNamespace string
}

func NewManager(k8sClient client.Client, log utils.Logger, ingressNamespace string) *Manager {
	return &Manager{client: k8sClient, log: log, ingressNamespace: ingressNamespace}
}

// Reconcile ensures a ReferenceGrant exists in the ingress namespace allowing
// HTTPRoutes from port.Namespace to target Services there.
func (m *Manager) Reconcile(ctx context.Context, port *demeterv1alpha1.OgmiosPort) error {
	name := shared.GenerateResourceName(port.Namespace, "grant")

	refGrant := &gatewayv1beta1.ReferenceGrant{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: m.ingressNamespace,
			Labels:    utils.DefaultLabels("reference-grant", port.Name),
		},
		Spec: gatewayv1beta1.ReferenceGrantSpec{
			From: []gatewayv1beta1.ReferenceGrantFrom{
				{
					Group:     gatewayv1beta1.Group("gateway.networking.k8s.io"),
					Kind:      gatewayv1beta1.Kind("HTTPRoute"),
					Namespace: gatewayv1beta1.Namespace(port.Namespace),
				},
			},
			To: []gatewayv1beta1.ReferenceGrantTo{
				{
					Group: gatewayv1beta1.Group(""),
					Kind:  gatewayv1beta1.Kind("Service"),
				},
			},
		},
	}

	// ReferenceGrants have no single owning Port: multiple ports in the same
	// tenant namespace share one, so it is never owner-referenced and is
	// created/updated idempotently without a controller reference.
	if err := utils.CreateOrUpdate(ctx, m.client, refGrant); err != nil {
		return fmt.Errorf("failed to create or update reference grant: %w", err)
	}

	m.log.V(1).Info("reconciled reference grant", "grant", name)
	return nil
}
