// Package status patches a port's observed endpoint URLs and credential.
package status

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	demeterv1alpha1 "github.com/demeter-run/ext-ogmios/api/v1alpha1"
	"github.com/demeter-run/ext-ogmios/internal/hostproxy"
	"github.com/demeter-run/ext-ogmios/internal/utils"
)

// Updater patches a port's status subresource.
type Updater struct {
	client client.Client
	log    utils.Logger
}

func NewUpdater(k8sClient client.Client, log utils.Logger) *Updater {
	return &Updater{client: k8sClient, log: log}
}

// Update sets endpoint_url, authenticated_endpoint_url, auth_token and the
// Ready condition, patching the status subresource only when something
// actually changed.
func (u *Updater) Update(ctx context.Context, port *demeterv1alpha1.OgmiosPort, derivedKey string, cfg hostproxy.BuildConfig) error {
	latest := &demeterv1alpha1.OgmiosPort{}
	if err := u.client.Get(ctx, types.NamespacedName{Name: port.Name, Namespace: port.Namespace}, latest); err != nil {
		return fmt.Errorf("failed to fetch latest port: %w", err)
	}

	original := latest.Status.DeepCopy()

	endpointURL := hostproxy.BuildPortHost(string(port.Spec.Network), int(port.Spec.Version), nil, cfg)
	authenticatedURL := hostproxy.BuildPortHost(string(port.Spec.Network), int(port.Spec.Version), &derivedKey, cfg)

	latest.Status.EndpointURL = endpointURL
	latest.Status.AuthenticatedEndpointURL = authenticatedURL
	latest.Status.AuthToken = derivedKey

	condition := metav1.Condition{
		Type:               "Ready",
		Status:             metav1.ConditionTrue,
		Reason:             "PortProvisioned",
		Message:            "gateway artefacts reconciled",
		ObservedGeneration: port.Generation,
		LastTransitionTime: metav1.Now(),
	}
	latest.Status.Conditions = utils.UpdateCondition(latest.Status.Conditions, condition)

	if statusEqual(*original, latest.Status) {
		return nil
	}

	if err := u.client.Status().Update(ctx, latest); err != nil {
		return fmt.Errorf("failed to update port status: %w", err)
	}

	u.log.V(1).Info("reconciled port status", "port", latest.Name, "endpoint", endpointURL)
	return nil
}

func statusEqual(old, new demeterv1alpha1.OgmiosPortStatus) bool {
	if old.EndpointURL != new.EndpointURL ||
		old.AuthenticatedEndpointURL != new.AuthenticatedEndpointURL ||
		old.AuthToken != new.AuthToken {
		return false
	}
	if len(old.Conditions) != len(new.Conditions) {
		return false
	}
	for i := range old.Conditions {
		oc, nc := old.Conditions[i], new.Conditions[i]
		if oc.Type != nc.Type || oc.Status != nc.Status || oc.Reason != nc.Reason || oc.Message != nc.Message {
			return false
		}
	}
	return true
}
