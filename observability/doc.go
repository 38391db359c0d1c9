// Package observability provides OpenTelemetry metrics and tracing for
// pipeline materialisation.
//
// Instruments are created on the global otel providers, which are no-ops
// until the host application installs an SDK. Libraries never install
// exporters themselves.
//
// Tracking an operation:
//
//	tr := observability.Track("collect_to_list")
//	defer func() { tr.End(err) }()
//	tr.Pulled(n)
//
// Custom instruments (e.g. tests with a manual reader):
//
//	m, err := observability.NewMetrics(provider.Meter("test"))
//	observability.SetMetrics(m)
package observability
