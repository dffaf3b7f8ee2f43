package observe

import "errors"

var (
	ErrMissingServiceName     = errors.New("observe: service name is required")
	ErrInvalidSamplePct       = errors.New("observe: sample percentage must be within [0, 1]")
	ErrInvalidTracingExporter = errors.New("observe: unknown tracing exporter")
	ErrInvalidMetricsExporter = errors.New("observe: unknown metrics exporter")
	ErrInvalidLogLevel        = errors.New("observe: unknown log level")
)

// Accepted exporter and level names. The empty string selects the default.
var (
	ValidTracingExporters = []string{"", "none", "stdout", "otlp", "jaeger"}
	ValidMetricsExporters = []string{"", "none", "stdout", "otlp", "prometheus"}
	ValidLogLevels        = []string{"", "debug", "info", "warn", "error"}
)

// RedactedFields are log field keys whose values are replaced before output.
// Tool arguments carry api_key and token, so both spellings are listed.
var RedactedFields = []string{
	"api_key",
	"apiKey",
	"token",
	"secret",
	"password",
	"credential",
	"input",
	"inputs",
}
