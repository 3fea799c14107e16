package controller

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	demeterv1alpha1 "github.com/demeter-run/ext-ogmios/api/v1alpha1"
	"github.com/demeter-run/ext-ogmios/internal/controller/consumer"
	"github.com/demeter-run/ext-ogmios/internal/controller/grant"
	"github.com/demeter-run/ext-ogmios/internal/controller/route"
	"github.com/demeter-run/ext-ogmios/internal/controller/secret"
	"github.com/demeter-run/ext-ogmios/internal/controller/shared"
	statusupdater "github.com/demeter-run/ext-ogmios/internal/controller/status"
	"github.com/demeter-run/ext-ogmios/internal/credential"
	"github.com/demeter-run/ext-ogmios/internal/hostproxy"
	"github.com/demeter-run/ext-ogmios/internal/metrics"
	"github.com/demeter-run/ext-ogmios/internal/utils"
)

// PortReconciler reconciles an OgmiosPort object. It delegates to specialized
// domain managers, one per gateway artefact.
type PortReconciler struct {
	client.Client
	Scheme      *runtime.Scheme
	Log         utils.Logger
	Instance    string
	DNSZone     string
	IngressNS   string
	IngressCls  string
	BackendPort int32
	APIKeySalt  []byte

	secretManager   *secret.Manager
	consumerManager *consumer.Manager
	routeManager    *route.Manager
	grantManager    *grant.Manager
	statusUpdater   *statusupdater.Updater
}

//+kubebuilder:rbac:groups=demeter.run,resources=ogmiosports,verbs=get;list;watch;create;update;patch;delete
//+kubebuilder:rbac:groups=demeter.run,resources=ogmiosports/status,verbs=get;update;patch
//+kubebuilder:rbac:groups=demeter.run,resources=ogmiosports/finalizers,verbs=update
//+kubebuilder:rbac:groups=core,resources=secrets,verbs=get;list;watch;create;update;patch;delete
//+kubebuilder:rbac:groups=core,resources=configmaps,verbs=get;list;watch;create;update;patch;delete
//+kubebuilder:rbac:groups=gateway.networking.k8s.io,resources=httproutes,verbs=get;list;watch;create;update;patch;delete
//+kubebuilder:rbac:groups=gateway.networking.k8s.io,resources=referencegrants,verbs=get;list;watch;create;update;patch;delete

// Reconcile is part of the main kubernetes reconciliation loop.
func (r *PortReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	log := r.Log.WithValues("ogmiosport", req.NamespacedName)

	port := &demeterv1alpha1.OgmiosPort{}
	if err := r.Get(ctx, req.NamespacedName, port); err != nil {
		return ctrl.Result{}, utils.IgnoreNotFound(err)
	}

	r.ensureManagers(log)

	derivedKey, err := credential.Derive(port.Name, port.Namespace, r.APIKeySalt)
	if err != nil {
		return r.fail(log, "credential_derive", err)
	}

	if err := r.secretManager.Reconcile(ctx, port, derivedKey); err != nil {
		return r.fail(log, "secret", err)
	}
	if err := r.consumerManager.Reconcile(ctx, port); err != nil {
		return r.fail(log, "consumer", err)
	}
	if err := r.routeManager.Reconcile(ctx, port); err != nil {
		return r.fail(log, "route", err)
	}
	if err := r.grantManager.Reconcile(ctx, port); err != nil {
		return r.fail(log, "grant", err)
	}

	cfg := hostproxy.BuildConfig{IngressClass: r.IngressCls, DNSZone: r.DNSZone}
	if err := r.statusUpdater.Update(ctx, port, derivedKey, cfg); err != nil {
		return r.fail(log, "status", err)
	}

	return ctrl.Result{RequeueAfter: shared.ReconcileRequeueInterval}, nil
}

// fail logs and counts a reconcile error, then coarsens it into a fixed
// requeue. It deliberately returns a nil error alongside the RequeueAfter
// result: controller-runtime ignores a Result's RequeueAfter whenever the
// error return is also non-nil, falling back to its own exponential-backoff
// rate limiter instead, which would override the fixed 5s policy this
// error-policy calls for.
func (r *PortReconciler) fail(log utils.Logger, kind string, err error) (ctrl.Result, error) {
	log.Error(fmt.Errorf("reconcile %s: %w", kind, err), "reconcile failed", "kind", kind)
	metrics.ReconcileFailuresTotal.WithLabelValues(r.Instance, kind).Inc()
	return ctrl.Result{RequeueAfter: shared.ReconcileRequeueInterval}, nil
}

func (r *PortReconciler) ensureManagers(log utils.Logger) {
	if r.secretManager == nil {
		r.secretManager = secret.NewManager(r.Client, r.Scheme, log)
	}
	if r.consumerManager == nil {
		r.consumerManager = consumer.NewManager(r.Client, r.Scheme, log)
	}
	if r.routeManager == nil {
		r.routeManager = route.NewManager(r.Client, r.Scheme, log, route.Config{
			IngressClass:     r.IngressCls,
			IngressNamespace: r.IngressNS,
			DNSZone:          r.DNSZone,
			BackendPort:      r.BackendPort,
		})
	}
	if r.grantManager == nil {
		r.grantManager = grant.NewManager(r.Client, log, r.IngressNS)
	}
	if r.statusUpdater == nil {
		r.statusUpdater = statusupdater.NewUpdater(r.Client, log)
	}
}

// SetupWithManager sets up the controller with the Manager.
func (r *PortReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&demeterv1alpha1.OgmiosPort{}).
		Owns(&corev1.Secret{}).
		Owns(&corev1.ConfigMap{}).
		Owns(&gatewayv1.HTTPRoute{}).
		Complete(r)
}
