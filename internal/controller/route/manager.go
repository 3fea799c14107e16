// Package route reconciles the HTTPRoute exposing a port through the shared
// ingress gateway.
package route

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	demeterv1alpha1 "github.com/demeter-run/ext-ogmios/api/v1alpha1"
	"github.com/demeter-run/ext-ogmios/internal/controller/shared"
	"github.com/demeter-run/ext-ogmios/internal/hostproxy"
	"github.com/demeter-run/ext-ogmios/internal/utils"
)

// Config carries the static ingress/backend configuration shared by every
// route this manager reconciles.
type Config struct {
	IngressClass     string
	IngressNamespace string
	DNSZone          string
	BackendPort      int32
}

// Manager reconciles the HTTPRoute for a port.
type Manager struct {
	client client.Client
	scheme *runtime.Scheme
	log    utils.Logger
	cfg    Config
}

func NewManager(k8sClient client.Client, scheme *runtime.Scheme, log utils.Logger, cfg Config) *Manager {
	return &Manager{client: k8sClient, scheme: scheme, log: log, cfg: cfg}
}

// Reconcile creates or updates the HTTPRoute parented to the shared ingress
// gateway, routing to the versioned backend service.
func (m *Manager) Reconcile(ctx context.Context, port *demeterv1alpha1.OgmiosPort) error {
	backendName := fmt.Sprintf("ogmios-%s-v%d", port.Spec.Network, port.Spec.Version)
	hostname := hostproxy.BuildPortHost(string(port.Spec.Network), int(port.Spec.Version), nil, hostproxy.BuildConfig{
		IngressClass: m.cfg.IngressClass,
		DNSZone:      m.cfg.DNSZone,
	})

	ingressNamespace := gatewayv1.Namespace(m.cfg.IngressNamespace)
	backendPort := gatewayv1.PortNumber(m.cfg.BackendPort)

	httpRoute := &gatewayv1.HTTPRoute{
		ObjectMeta: metav1.ObjectMeta{
			Name:      shared.GenerateResourceName(port.Name, "route"),
			Namespace: port.Namespace,
			Labels:    utils.DefaultLabels("route", port.Name),
			Annotations: map[string]string{
				"demeter.run/plugin-refs": consumerPluginRef(port),
			},
		},
		Spec: gatewayv1.HTTPRouteSpec{
			CommonRouteSpec: gatewayv1.CommonRouteSpec{
				ParentRefs: []gatewayv1.ParentReference{
					{
						Name:      gatewayv1.ObjectName(m.cfg.IngressClass),
						Namespace: &ingressNamespace,
					},
				},
			},
			Hostnames: []gatewayv1.Hostname{gatewayv1.Hostname(hostname)},
			Rules: []gatewayv1.HTTPRouteRule{
				{
					BackendRefs: []gatewayv1.HTTPBackendRef{
						{
							BackendRef: gatewayv1.BackendRef{
								BackendObjectReference: gatewayv1.BackendObjectReference{
									Name:      gatewayv1.ObjectName(backendName),
									Namespace: &ingressNamespace,
									Port:      &backendPort,
								},
							},
						},
					},
				},
			},
		},
	}

	if err := utils.SetControllerReference(port, httpRoute, m.scheme); err != nil {
		return fmt.Errorf("failed to set owner reference on http route: %w", err)
	}
	if err := utils.CreateOrUpdate(ctx, m.client, httpRoute); err != nil {
		return fmt.Errorf("failed to create or update http route: %w", err)
	}

	m.log.V(1).Info("reconciled http route", "route", httpRoute.Name, "hostname", hostname)
	return nil
}

func consumerPluginRef(port *demeterv1alpha1.OgmiosPort) string {
	return fmt.Sprintf("%s.%s/key-auth", port.Namespace, port.Name)
}
