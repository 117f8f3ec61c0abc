package glik

import "github.com/zoobzio/capitan"

// Signals for hook events.
const (
	RequestStarted     = capitan.Signal("glik.request.started")
	RequestCompleted   = capitan.Signal("glik.request.completed")
	RequestFailed      = capitan.Signal("glik.request.failed")
	PreconditionFailed = capitan.Signal("glik.precondition.failed")
)

// Keys for hook event fields.
var (
	// Request identification.
	RequestIDKey    = capitan.NewStringKey("glik.request.id")
	OperationKey    = capitan.NewStringKey("glik.operation")
	ResponseModeKey = capitan.NewStringKey("glik.response.mode")

	// HTTP metadata.
	MethodKey         = capitan.NewStringKey("glik.http.method")
	PathKey           = capitan.NewStringKey("glik.http.path")
	HTTPStatusCodeKey = capitan.NewIntKey("glik.http.status.code")
	PayloadBytesKey   = capitan.NewIntKey("glik.http.payload.bytes")

	// Timing.
	DurationMsKey = capitan.NewIntKey("glik.duration.ms")

	// Error information.
	ErrorKey = capitan.NewStringKey("glik.error")
)
