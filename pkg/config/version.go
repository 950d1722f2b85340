package config

// Version constants for speechkit manifests.
const (
	// APIVersion is the Kubernetes-style API version of every speechkit manifest
	APIVersion = "speechkit.altairalabs.ai/v1alpha1"

	// SchemaVersion is the version string used in schema paths
	SchemaVersion = "v1alpha1"

	// KindSpeechConfig is the kind of the main configuration manifest
	KindSpeechConfig = "SpeechConfig"
)
