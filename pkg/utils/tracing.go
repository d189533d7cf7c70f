package utils

import (
	"strconv"
)

const defaultOTelServiceName = "launch-waitlist"

func IsTracingEnabled() bool {
	return GetEnvBoolOrDefault("OTEL_TRACES_ENABLED", false)
}

func OTelServiceName() string {
	return GetEnvTrimmedOrDefault("OTEL_SERVICE_NAME", defaultOTelServiceName)
}

// OTelSampleRatio reads OTEL_TRACES_SAMPLER_ARG as a fraction in [0, 1]; anything else means sample everything.
func OTelSampleRatio() float64 {
	v := GetEnvTrimmed("OTEL_TRACES_SAMPLER_ARG")
	if v == "" {
		return 1
	}

	ratio, err := strconv.ParseFloat(v, 64)
	if err != nil || ratio < 0 || ratio > 1 {
		return 1
	}

	return ratio
}
