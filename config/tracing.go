package config

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/akeren/launch-waitlist/internal/log"
	"github.com/akeren/launch-waitlist/pkg/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
)

const (
	defaultOTLPEndpoint = "http://localhost:4318"
	defaultOTLPPath     = "/v1/traces"
)

type TracingConfig struct {
	Enabled     bool
	ServiceName string
	Environment string
	Endpoint    string
	SampleRatio float64
}

func NewTracingConfig() *TracingConfig {
	return &TracingConfig{
		Enabled:     utils.IsTracingEnabled(),
		ServiceName: utils.OTelServiceName(),
		Environment: GetAppEnv(),
		Endpoint:    utils.GetEnvTrimmedOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", defaultOTLPEndpoint),
		SampleRatio: utils.OTelSampleRatio(),
	}
}

// SetupTracing installs a global OTLP/HTTP tracer provider. The returned shutdown func is nil
// when tracing is disabled.
func SetupTracing(logger *log.Logger) (func(context.Context) error, error) {
	return setupTracing(logger, NewTracingConfig())
}

func setupTracing(logger *log.Logger, cfg *TracingConfig) (func(context.Context) error, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	target, err := parseOTLPEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(target.hostport),
		otlptracehttp.WithURLPath(target.path),
	}
	if target.insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("setup tracing exporter: %w", err)
	}

	res, err := resource.New(context.Background(), resource.WithAttributes(tracingAttributes(cfg)...))
	if err != nil {
		return nil, fmt.Errorf("setup tracing resource: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(cfg.SampleRatio))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	logger.Info("OpenTelemetry tracing enabled",
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"sample_ratio", cfg.SampleRatio,
	)

	return tp.Shutdown, nil
}

func tracingAttributes(cfg *TracingConfig) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String("service.name", cfg.ServiceName)}
	if cfg.Environment != "" {
		attrs = append(attrs, attribute.String("deployment.environment", cfg.Environment))
	}
	return attrs
}

type otlpTarget struct {
	hostport string
	path     string
	insecure bool
}

// parseOTLPEndpoint accepts http(s)://host:port[/path] or a bare host:port.
func parseOTLPEndpoint(raw string) (otlpTarget, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return otlpTarget{}, fmt.Errorf("empty OTLP endpoint")
	}

	if !strings.Contains(raw, "://") {
		// otlptracehttp.WithEndpoint takes host:port only.
		if strings.ContainsAny(raw, "/?#") {
			return otlpTarget{}, fmt.Errorf("invalid OTLP endpoint %q: a path or query needs a scheme, e.g. \"http://host:port/path\"", raw)
		}
		return otlpTarget{hostport: raw, path: defaultOTLPPath, insecure: true}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return otlpTarget{}, fmt.Errorf("invalid OTLP endpoint %q: %w", raw, err)
	}
	if u.Host == "" {
		return otlpTarget{}, fmt.Errorf("invalid OTLP endpoint %q: missing host", raw)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return otlpTarget{}, fmt.Errorf("unsupported OTLP endpoint scheme %q in %q; only http and https are supported", u.Scheme, raw)
	}

	path := u.EscapedPath()
	if path == "" || path == "/" {
		path = defaultOTLPPath
	}

	return otlpTarget{hostport: u.Host, path: path, insecure: scheme == "http"}, nil
}
