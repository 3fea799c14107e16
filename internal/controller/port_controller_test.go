package controller

import (
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"
	gatewayv1beta1 "sigs.k8s.io/gateway-api/apis/v1beta1"

	demeterv1alpha1 "github.com/demeter-run/ext-ogmios/api/v1alpha1"
	"github.com/demeter-run/ext-ogmios/internal/controller/shared"
	"github.com/demeter-run/ext-ogmios/internal/utils"
	"github.com/stretchr/testify/require"
)

func newReconcilerScheme(t *testing.T) *runtime.Scheme {
	t.Helper()
	scheme := runtime.NewScheme()
	require.NoError(t, corev1.AddToScheme(scheme))
	require.NoError(t, demeterv1alpha1.AddToScheme(scheme))
	require.NoError(t, gatewayv1.Install(scheme))
	require.NoError(t, gatewayv1beta1.Install(scheme))
	return scheme
}

func TestReconcile_ProvisionsAllArtefacts(t *testing.T) {
	scheme := newReconcilerScheme(t)
	port := &demeterv1alpha1.OgmiosPort{
		ObjectMeta: metav1.ObjectMeta{Name: "port1", Namespace: "prj-abc"},
		Spec:       demeterv1alpha1.OgmiosPortSpec{Network: demeterv1alpha1.NetworkPreprod, Version: 6, ThroughputTier: "basic"},
	}
	fakeClient := fake.NewClientBuilder().
		WithScheme(scheme).
		WithObjects(port).
		WithStatusSubresource(port).
		Build()

	r := &PortReconciler{
		Client:      fakeClient,
		Scheme:      scheme,
		Log:         utils.Logger{},
		Instance:    "test-instance",
		DNSZone:     "demeter.run",
		IngressNS:   "ext-ogmios",
		IngressCls:  "ogmios-v1",
		BackendPort: 1337,
		APIKeySalt:  []byte("test-salt"),
	}

	req := ctrl.Request{NamespacedName: types.NamespacedName{Name: "port1", Namespace: "prj-abc"}}
	result, err := r.Reconcile(t.Context(), req)
	require.NoError(t, err)
	require.Equal(t, shared.ReconcileRequeueInterval, result.RequeueAfter)

	gotSecret := &corev1.Secret{}
	require.NoError(t, fakeClient.Get(t.Context(), types.NamespacedName{Name: "port1-auth", Namespace: "prj-abc"}, gotSecret))

	gotConfigMap := &corev1.ConfigMap{}
	require.NoError(t, fakeClient.Get(t.Context(), types.NamespacedName{Name: "port1-consumer", Namespace: "prj-abc"}, gotConfigMap))

	gotRoute := &gatewayv1.HTTPRoute{}
	require.NoError(t, fakeClient.Get(t.Context(), types.NamespacedName{Name: "port1-route", Namespace: "prj-abc"}, gotRoute))

	gotGrant := &gatewayv1beta1.ReferenceGrant{}
	require.NoError(t, fakeClient.Get(t.Context(), types.NamespacedName{Name: "prj-abc-grant", Namespace: "ext-ogmios"}, gotGrant))

	gotPort := &demeterv1alpha1.OgmiosPort{}
	require.NoError(t, fakeClient.Get(t.Context(), types.NamespacedName{Name: "port1", Namespace: "prj-abc"}, gotPort))
	require.NotEmpty(t, gotPort.Status.EndpointURL)
	require.NotEmpty(t, gotPort.Status.AuthToken)
	require.Equal(t, string(gotSecret.Data["key"]), gotPort.Status.AuthToken)
}

func TestReconcile_IgnoresMissingPort(t *testing.T) {
	scheme := newReconcilerScheme(t)
	fakeClient := fake.NewClientBuilder().WithScheme(scheme).Build()

	r := &PortReconciler{
		Client:      fakeClient,
		Scheme:      scheme,
		Log:         utils.Logger{},
		Instance:    "test-instance",
		DNSZone:     "demeter.run",
		IngressNS:   "ext-ogmios",
		IngressCls:  "ogmios-v1",
		BackendPort: 1337,
		APIKeySalt:  []byte("test-salt"),
	}

	req := ctrl.Request{NamespacedName: types.NamespacedName{Name: "missing", Namespace: "prj-abc"}}
	result, err := r.Reconcile(t.Context(), req)
	require.NoError(t, err)
	require.Equal(t, ctrl.Result{}, result)
}
