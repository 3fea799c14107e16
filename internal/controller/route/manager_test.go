package route

import (
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	demeterv1alpha1 "github.com/demeter-run/ext-ogmios/api/v1alpha1"
	"github.com/demeter-run/ext-ogmios/internal/controller/shared"
	"github.com/demeter-run/ext-ogmios/internal/utils"
	"github.com/stretchr/testify/require"
)

func newScheme(t *testing.T) *runtime.Scheme {
	t.Helper()
	scheme := runtime.NewScheme()
	require.NoError(t, demeterv1alpha1.AddToScheme(scheme))
	require.NoError(t, gatewayv1.Install(scheme))
	return scheme
}

func TestReconcile_CreatesHTTPRoute(t *testing.T) {
	scheme := newScheme(t)
	port := &demeterv1alpha1.OgmiosPort{
		ObjectMeta: metav1.ObjectMeta{Name: "port1", Namespace: "prj-abc"},
		Spec:       demeterv1alpha1.OgmiosPortSpec{Network: demeterv1alpha1.NetworkPreprod, Version: 6, ThroughputTier: "basic"},
	}
	fakeClient := fake.NewClientBuilder().WithScheme(scheme).WithObjects(port).Build()

	cfg := Config{IngressClass: "ogmios-v1", IngressNamespace: "ext-ogmios", DNSZone: "demeter.run", BackendPort: 1337}
	m := NewManager(fakeClient, scheme, utils.Logger{}, cfg)
	require.NoError(t, m.Reconcile(t.Context(), port))

	got := &gatewayv1.HTTPRoute{}
	require.NoError(t, fakeClient.Get(t.Context(), types.NamespacedName{
		Name: shared.GenerateResourceName("port1", "route"), Namespace: "prj-abc",
	}, got))

	require.Len(t, got.Spec.Hostnames, 1)
	require.Equal(t, gatewayv1.Hostname("preprod-v6.ogmios-v1.demeter.run"), got.Spec.Hostnames[0])
	require.Len(t, got.Spec.ParentRefs, 1)
	require.Equal(t, gatewayv1.ObjectName("ogmios-v1"), got.Spec.ParentRefs[0].Name)
	require.Equal(t, gatewayv1.Namespace("ext-ogmios"), *got.Spec.ParentRefs[0].Namespace)

	require.Len(t, got.Spec.Rules, 1)
	backendRefs := got.Spec.Rules[0].BackendRefs
	require.Len(t, backendRefs, 1)
	require.Equal(t, gatewayv1.ObjectName("ogmios-preprod-v6"), backendRefs[0].Name)
	require.Equal(t, gatewayv1.Namespace("ext-ogmios"), *backendRefs[0].Namespace)
	require.Equal(t, gatewayv1.PortNumber(1337), *backendRefs[0].Port)

	require.Len(t, got.OwnerReferences, 1)
}

func TestReconcile_IsIdempotent(t *testing.T) {
	scheme := newScheme(t)
	port := &demeterv1alpha1.OgmiosPort{
		ObjectMeta: metav1.ObjectMeta{Name: "port1", Namespace: "prj-abc"},
		Spec:       demeterv1alpha1.OgmiosPortSpec{Network: demeterv1alpha1.NetworkMainnet, Version: 1, ThroughputTier: "basic"},
	}
	fakeClient := fake.NewClientBuilder().WithScheme(scheme).WithObjects(port).Build()

	cfg := Config{IngressClass: "ogmios-v1", IngressNamespace: "ext-ogmios", DNSZone: "demeter.run", BackendPort: 1337}
	m := NewManager(fakeClient, scheme, utils.Logger{}, cfg)
	require.NoError(t, m.Reconcile(t.Context(), port))
	require.NoError(t, m.Reconcile(t.Context(), port))

	got := &gatewayv1.HTTPRoute{}
	require.NoError(t, fakeClient.Get(t.Context(), types.NamespacedName{
		Name: shared.GenerateResourceName("port1", "route"), Namespace: "prj-abc",
	}, got))
	require.Equal(t, gatewayv1.Hostname("mainnet-v1.ogmios-v1.demeter.run"), got.Spec.Hostnames[0])
}
