package insights

// endpoints defines all API endpoint paths consumed by this package.
// Using a struct ensures type safety and enables IDE autocompletion.
var endpoints = struct {
	Health       string
	Sessions     string
	Traces       string
	Observations string
}{
	Health:       "/health",
	Sessions:     "/sessions",
	Traces:       "/traces",
	Observations: "/observations",
}
