// Package llmutil holds the schemas shared between the LLM service and
// its consumers. The service itself lives elsewhere; consumers import
// this package to validate the structured payloads it produces.
package llmutil

import (
	"errors"
	"fmt"
)

// V1StructuredChatResult is the structured JSON object the LLM is
// expected to generate as the content of its message when structured
// output mode is active.
type V1StructuredChatResult struct {
	// Response is the textual reply intended for the end user.
	Response string `json:"response"`

	// EndConversation indicates whether the conversation should end
	// after this response.
	EndConversation bool `json:"end_conversation"`

	// Persona optionally names the bot persona that generated the
	// response. Nil when only one persona is active or the LLM cannot
	// determine one.
	Persona *int `json:"persona,omitempty"`
}

func (r V1StructuredChatResult) Validate() error {
	if r.Response == "" {
		return errors.New("response must not be empty")
	}
	if r.Persona != nil && *r.Persona != 1 && *r.Persona != 2 {
		return fmt.Errorf("persona must be 1 or 2, got %d", *r.Persona)
	}
	return nil
}
