package consumer

import (
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	demeterv1alpha1 "github.com/demeter-run/ext-ogmios/api/v1alpha1"
	"github.com/demeter-run/ext-ogmios/internal/controller/shared"
	"github.com/demeter-run/ext-ogmios/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestReconcile_CreatesConsumerRecord(t *testing.T) {
	scheme := runtime.NewScheme()
	require.NoError(t, corev1.AddToScheme(scheme))
	require.NoError(t, demeterv1alpha1.AddToScheme(scheme))

	port := &demeterv1alpha1.OgmiosPort{
		ObjectMeta: metav1.ObjectMeta{Name: "port1", Namespace: "prj-abc"},
		Spec:       demeterv1alpha1.OgmiosPortSpec{Network: demeterv1alpha1.NetworkPreprod, Version: 6, ThroughputTier: "basic"},
	}
	fakeClient := fake.NewClientBuilder().WithScheme(scheme).WithObjects(port).Build()

	m := NewManager(fakeClient, scheme, utils.Logger{})
	require.NoError(t, m.Reconcile(t.Context(), port))

	got := &corev1.ConfigMap{}
	require.NoError(t, fakeClient.Get(t.Context(), types.NamespacedName{
		Name: shared.GenerateResourceName("port1", "consumer"), Namespace: "prj-abc",
	}, got))
	require.Equal(t, "prj-abc.port1", got.Data["username"])
}
