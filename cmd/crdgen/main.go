/*
Crdgen prints the OgmiosPort CustomResourceDefinition. Run with no
arguments for YAML, or "json" for JSON.
*/
package main

import (
	"encoding/json"
	"fmt"
	"os"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"
)

func main() {
	crd := buildCRD()

	if len(os.Args) > 1 && os.Args[1] == "json" {
		out, err := json.MarshalIndent(crd, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "crdgen: marshal json:", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	out, err := yaml.Marshal(crd)
	if err != nil {
		fmt.Fprintln(os.Stderr, "crdgen: marshal yaml:", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func buildCRD() *apiextensionsv1.CustomResourceDefinition {
	boolTrue := true
	return &apiextensionsv1.CustomResourceDefinition{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "apiextensions.k8s.io/v1",
			Kind:       "CustomResourceDefinition",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: "ogmiosports.demeter.run",
		},
		Spec: apiextensionsv1.CustomResourceDefinitionSpec{
			Group: "demeter.run",
			Names: apiextensionsv1.CustomResourceDefinitionNames{
				Plural:   "ogmiosports",
				Singular: "ogmiosport",
				Kind:     "OgmiosPort",
				ListKind: "OgmiosPortList",
			},
			Scope: apiextensionsv1.NamespaceScoped,
			Versions: []apiextensionsv1.CustomResourceDefinitionVersion{
				{
					Name:    "v1alpha1",
					Served:  true,
					Storage: true,
					Subresources: &apiextensionsv1.CustomResourceSubresources{
						Status: &apiextensionsv1.CustomResourceSubresourceStatus{},
					},
					AdditionalPrinterColumns: []apiextensionsv1.CustomResourceColumnDefinition{
						{Name: "Network", Type: "string", JSONPath: ".spec.network"},
						{Name: "Version", Type: "integer", JSONPath: ".spec.version"},
						{Name: "Tier", Type: "string", JSONPath: ".spec.throughputTier"},
						{Name: "Endpoint", Type: "string", JSONPath: ".status.endpointUrl", Priority: 1},
						{Name: "Age", Type: "date", JSONPath: ".metadata.creationTimestamp"},
					},
					Schema: &apiextensionsv1.CustomResourceValidation{
						OpenAPIV3Schema: &apiextensionsv1.JSONSchemaProps{
							Type:     "object",
							Required: []string{"spec"},
							Properties: map[string]apiextensionsv1.JSONSchemaProps{
								"spec": {
									Type:     "object",
									Required: []string{"network", "version", "throughputTier"},
									Properties: map[string]apiextensionsv1.JSONSchemaProps{
										"network": {
											Type: "string",
											Enum: []apiextensionsv1.JSON{
												{Raw: []byte(`"mainnet"`)},
												{Raw: []byte(`"preprod"`)},
												{Raw: []byte(`"preview"`)},
												{Raw: []byte(`"sanchonet"`)},
											},
										},
										"version": {
											Type:    "integer",
											Minimum: floatPtr(0),
											Maximum: floatPtr(255),
										},
										"throughputTier": {Type: "string"},
									},
								},
								"status": {
									Type: "object",
									Properties: map[string]apiextensionsv1.JSONSchemaProps{
										"endpointUrl":              {Type: "string"},
										"authenticatedEndpointUrl": {Type: "string"},
										"authToken":                {Type: "string"},
										"conditions": {
											Type:                   "array",
											XPreserveUnknownFields: &boolTrue,
											Items: &apiextensionsv1.JSONSchemaPropsOrArray{
												Schema: &apiextensionsv1.JSONSchemaProps{Type: "object"},
											},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}
}

func floatPtr(f float64) *float64 { return &f }
