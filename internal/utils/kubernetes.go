package utils

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
)

// CreateOrUpdate creates or updates a Kubernetes resource.
// It only updates when the object actually changes.
// The desired object is passed in - controllerutil.CreateOrUpdate will handle the comparison.
func CreateOrUpdate(ctx context.Context, k8sClient client.Client, desiredObj client.Object) error {
	// Store desired state before controllerutil.CreateOrUpdate GETs the existing object
	desiredCopy := desiredObj.DeepCopyObject()

	// controllerutil.CreateOrUpdate will:
	// 1. GET the existing object (using key from desiredObj) - this overwrites desiredObj!
	// 2. Call mutate function - we copy desired state into the existing object
	// 3. Compare before/after and only update if changed
	_, err := controllerutil.CreateOrUpdate(ctx, k8sClient, desiredObj, func() error {
		// At this point, desiredObj contains the existing object (or empty if new)
		// We need to copy the desired state (spec/data) from desiredCopy into it
		// while preserving metadata (resourceVersion, generation, etc.)
		return copyDesiredState(desiredObj, desiredCopy)
	})
	return err
}

// copyDesiredState copies the desired state (spec/data) from desiredCopy into obj.
// It preserves metadata (resourceVersion, generation, etc.) from obj.
func copyDesiredState(obj client.Object, desiredCopy runtime.Object) error {
	// Convert both to unstructured for generic copying
	objUnstructured, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj.(runtime.Object))
	if err != nil {
		return fmt.Errorf("failed to convert obj to unstructured: %w", err)
	}

	desiredUnstructured, err := runtime.DefaultUnstructuredConverter.ToUnstructured(desiredCopy)
	if err != nil {
		return fmt.Errorf("failed to convert desired to unstructured: %w", err)
	}

	// Preserve metadata from existing object
	metadata := objUnstructured["metadata"].(map[string]interface{})

	// Copy spec and data from desired
	if spec, ok := desiredUnstructured["spec"]; ok {
		objUnstructured["spec"] = spec
	}
	if data, ok := desiredUnstructured["data"]; ok {
		objUnstructured["data"] = data
	}
	if stringData, ok := desiredUnstructured["stringData"]; ok {
		objUnstructured["stringData"] = stringData
	}

	// Restore preserved metadata
	objUnstructured["metadata"] = metadata

	// Convert back to typed object
	if err := runtime.DefaultUnstructuredConverter.FromUnstructured(objUnstructured, obj.(runtime.Object)); err != nil {
		return fmt.Errorf("failed to convert back from unstructured: %w", err)
	}

	return nil
}

// DefaultLabels returns default labels for gateway resources owned by a port.
func DefaultLabels(component, portName string) map[string]string {
	return map[string]string{
		"app.kubernetes.io/name":       "ext-ogmios",
		"app.kubernetes.io/component":  component,
		"app.kubernetes.io/managed-by": "ext-ogmios-operator",
		"demeter.run/port":             portName,
	}
}

// SetControllerReference sets a controller reference on an object without updating it.
// This is a convenience wrapper around controllerutil.SetControllerReference.
func SetControllerReference(owner, obj metav1.Object, scheme *runtime.Scheme) error {
	return controllerutil.SetControllerReference(owner, obj, scheme)
}

// UpdateCondition updates or appends a condition to a condition list.
// If a condition with the same type exists, it's updated. Otherwise, it's appended.
// LastTransitionTime is only updated when the status actually changes.
func UpdateCondition(conditions []metav1.Condition, condition metav1.Condition) []metav1.Condition {
	for i, c := range conditions {
		if c.Type == condition.Type {
			// Only update LastTransitionTime if the status actually changed
			if c.Status == condition.Status {
				// Status hasn't changed, preserve the original LastTransitionTime
				condition.LastTransitionTime = c.LastTransitionTime
			}
			// Update the condition
			conditions[i] = condition
			return conditions
		}
	}
	// New condition, use the provided LastTransitionTime
	return append(conditions, condition)
}
