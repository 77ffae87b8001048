// Package telemetry records tool invocations and provider calls with
// OpenTelemetry.
//
// [Observer] keeps four instruments (chorus.tool.invocations,
// chorus.tool.latency, chorus.provider.calls, chorus.provider.latency) and
// emits one span per invocation and per provider call. [Setup] wires an
// OTLP/HTTP exporter when an endpoint is configured.
package telemetry
