// Package dialogueutil provides a typed client for the dialogue service.
// It wraps the generic gateway from apiutil with the service's request
// and response schemas, so callers deal with structs instead of raw JSON
// payloads.
package dialogueutil
