package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// OgmiosNetwork is the Cardano network a port is exposed against.
// +kubebuilder:validation:Enum=mainnet;preprod;preview;sanchonet
type OgmiosNetwork string

const (
	NetworkMainnet   OgmiosNetwork = "mainnet"
	NetworkPreprod   OgmiosNetwork = "preprod"
	NetworkPreview   OgmiosNetwork = "preview"
	NetworkSanchonet OgmiosNetwork = "sanchonet"
)

// OgmiosPortSpec defines the desired state of OgmiosPort.
type OgmiosPortSpec struct {
	// Network is the Cardano network this port is routed to.
	Network OgmiosNetwork `json:"network"`

	// Version is the Ogmios backend version served behind this port.
	// +kubebuilder:validation:Minimum=0
	// +kubebuilder:validation:Maximum=255
	Version uint8 `json:"version"`

	// ThroughputTier names a rate policy in the proxy's tier file.
	ThroughputTier string `json:"throughputTier"`
}

// OgmiosPortStatus defines the observed state of OgmiosPort.
type OgmiosPortStatus struct {
	// Conditions represent the latest available observations of the port's state.
	Conditions []metav1.Condition `json:"conditions,omitempty"`

	// EndpointURL is the unauthenticated hostname for this port.
	EndpointURL string `json:"endpointUrl,omitempty"`

	// AuthenticatedEndpointURL carries the derived key as a DNS label prefix.
	AuthenticatedEndpointURL string `json:"authenticatedEndpointUrl,omitempty"`

	// AuthToken is the bech32-encoded credential derived from (name, namespace, salt).
	// It never rotates without a rename.
	AuthToken string `json:"authToken,omitempty"`
}

//+kubebuilder:object:root=true
//+kubebuilder:subresource:status
//+kubebuilder:printcolumn:name="Network",type="string",JSONPath=".spec.network"
//+kubebuilder:printcolumn:name="Version",type="integer",JSONPath=".spec.version"
//+kubebuilder:printcolumn:name="Tier",type="string",JSONPath=".spec.throughputTier"
//+kubebuilder:printcolumn:name="Endpoint",type="string",JSONPath=".status.endpointUrl",priority=1
//+kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"

// OgmiosPort is the Schema for the ogmiosports API.
type OgmiosPort struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata"`

	Spec   OgmiosPortSpec   `json:"spec"`
	Status OgmiosPortStatus `json:"status,omitempty"`
}

//+kubebuilder:object:root=true

// OgmiosPortList contains a list of OgmiosPort.
type OgmiosPortList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata"`
	Items           []OgmiosPort `json:"items"`
}

func init() {
	SchemeBuilder.Register(&OgmiosPort{}, &OgmiosPortList{})
}

// HasToken reports whether the port's status has been populated with a
// credential. Entries without one are ignored by the registry watch loop.
func (p *OgmiosPort) HasToken() bool {
	return p.Status.AuthToken != ""
}
