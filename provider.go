package reins

// Provider identifies an upstream API the governor accounts against.
type Provider string

// String returns the provider identifier.
func (p Provider) String() string { return string(p) }

// Supported providers.
const (
	ProviderAnthropic    Provider = "anthropic"
	ProviderOpenAI       Provider = "openai"
	ProviderGoogle       Provider = "google"
	ProviderGoogleSearch Provider = "googlesearch"
	ProviderAIPipe       Provider = "aipipe"
)
