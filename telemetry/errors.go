package telemetry

import "fmt"

// ErrorMissingEnvVariable error for missing environment variable.
type ErrorMissingEnvVariable struct {
	Vars []string
}

func (e *ErrorMissingEnvVariable) Error() string {
	return fmt.Sprintf("missing environment variable: %v", e.Vars)
}

// InvalidTraceParentError is returned for a malformed traceparent value.
type InvalidTraceParentError struct {
	Value string
}

func (e InvalidTraceParentError) Error() string {
	return fmt.Sprintf("invalid TRACEPARENT value %s", e.Value)
}
