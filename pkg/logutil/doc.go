// Package logutil provides the process-wide logging setup and context-aware
// structured logging for geep services.
//
// The entry point of a service calls Init exactly once, after which every
// component obtains its logger from the context:
//
//	err := logutil.Init("geep-chat-service", settings)
//	...
//	ctx = logutil.Start(ctx, "dialogue")
//	logutil.Get(ctx).Info("dialogue created", "ext-dialogue-id", id)
//
// Start generates a trace ID per subsystem and injects the accumulated
// subsystem path into every log line, making it possible to follow a
// request across components. Loggers can be extended with fields via
// WithField and WithFields.
package logutil
