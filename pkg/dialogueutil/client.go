package dialogueutil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/geep/geep-go-sdk/pkg/apiutil"
	"github.com/geep/geep-go-sdk/pkg/settings"
)

// Client talks to the dialogue service. All methods return typed,
// validated responses; transport and validation failures surface as
// *apiutil.RequestError and *apiutil.ValidationError respectively.
type Client struct {
	baseURL string
	timeout time.Duration
}

func NewClient(s settings.Settings) *Client {
	return &Client{
		baseURL: fmt.Sprintf("http://%s:%d", s.DialogueServiceHost, s.DialogueServicePort),
	}
}

// NewClientWithBaseURL is meant for tests and non-standard deployments.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{baseURL: baseURL}
}

// WithTimeout returns a copy of the client using the given per-request
// timeout instead of apiutil.DefaultTimeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	clone := *c
	clone.timeout = timeout
	return &clone
}

// PostDialogue creates a new dialogue and returns its external identity.
func (c *Client) PostDialogue(ctx context.Context, req DialogueV2Request) (DialogueV2DialogueResponse, error) {
	return post[DialogueV2DialogueResponse](ctx, c, "/v2/dialogue", req.WithDefaults())
}

// PostSimDialogue creates a new simulated dialogue.
func (c *Client) PostSimDialogue(ctx context.Context, req DialogueV2SimRequest) (DialogueV2DialogueResponse, error) {
	return post[DialogueV2DialogueResponse](ctx, c, "/v2/sim_dialogue", req.WithDefaults())
}

// PostTurn appends a turn to an existing dialogue.
func (c *Client) PostTurn(ctx context.Context, extDialogueID uuid.UUID, req DialogueTurnRequest) (DialogueTurnResponse, error) {
	path := fmt.Sprintf("/v2/%s/turn", extDialogueID)
	return post[DialogueTurnResponse](ctx, c, path, req.WithDefaults())
}

// PostSurvey attaches post-dialogue survey answers to a dialogue.
func (c *Client) PostSurvey(ctx context.Context, extDialogueID uuid.UUID, req DialogueSurveyRequest) (DialogueSurveyResponse, error) {
	path := fmt.Sprintf("/%s/survey", extDialogueID)
	return post[DialogueSurveyResponse](ctx, c, path, req)
}

// GetTranscriptsBrowseNext returns the transcripts of the dialogue
// following extDialogueID. With an empty extDialogueID the service
// starts from the beginning.
func (c *Client) GetTranscriptsBrowseNext(ctx context.Context, extDialogueID string) (DialogueTranscriptsV3Response, error) {
	return get[DialogueTranscriptsV3Response](ctx, c, browsePath("next", extDialogueID))
}

// GetTranscriptsBrowsePrevious returns the transcripts of the dialogue
// preceding extDialogueID.
func (c *Client) GetTranscriptsBrowsePrevious(ctx context.Context, extDialogueID string) (DialogueTranscriptsV3Response, error) {
	return get[DialogueTranscriptsV3Response](ctx, c, browsePath("previous", extDialogueID))
}

// GetOriginalDialogueTranscript returns the transcripts of a dialogue as
// they were first recorded.
func (c *Client) GetOriginalDialogueTranscript(ctx context.Context, extDialogueID uuid.UUID) (DialogueTranscriptsResponse, error) {
	path := fmt.Sprintf("/v1/%s/transcripts", extDialogueID)
	return get[DialogueTranscriptsResponse](ctx, c, path)
}

// GetLatestDialogueTranscript returns the most recent transcription of a
// dialogue, including ASR provenance.
func (c *Client) GetLatestDialogueTranscript(ctx context.Context, extDialogueID uuid.UUID) (DialogueTranscriptsV2Response, error) {
	path := fmt.Sprintf("/v1/%s/transcripts/latest", extDialogueID)
	return get[DialogueTranscriptsV2Response](ctx, c, path)
}

// GetDialogueTranscriptsList returns the transcripts for every dialogue
// named in the request, one response element per dialogue.
func (c *Client) GetDialogueTranscriptsList(ctx context.Context, req DialogueTranscriptsRequest) ([]DialogueTranscriptsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body, err := toPayload(req)
	if err != nil {
		return nil, err
	}

	items, err := apiutil.RequestList(ctx, c.baseURL+"/v1/transcripts", apiutil.MethodPost, &apiutil.RequestOptions{
		Body:    body,
		Timeout: c.timeout,
	})
	if err != nil {
		return nil, err
	}

	result := make([]DialogueTranscriptsResponse, 0, len(items))
	for _, item := range items {
		resp, err := apiutil.Validate[DialogueTranscriptsResponse](ctx, item)
		if err != nil {
			return nil, err
		}
		result = append(result, resp)
	}
	return result, nil
}

// InsertNewTranscript stores a re-transcription of a turn and returns
// the stored metadata record.
func (c *Client) InsertNewTranscript(ctx context.Context, transcript map[string]any) (DialogueTranscriptMetadataResponse, error) {
	data, err := apiutil.Request(ctx, c.baseURL+"/v1/transcripts", apiutil.MethodPost, &apiutil.RequestOptions{
		Body:    transcript,
		Timeout: c.timeout,
	})
	if err != nil {
		return DialogueTranscriptMetadataResponse{}, err
	}
	return apiutil.Validate[DialogueTranscriptMetadataResponse](ctx, data)
}

func browsePath(direction, extDialogueID string) string {
	path := "/transcripts/browse/" + direction
	if extDialogueID != "" {
		path += "?ext_dialogue_id=" + url.QueryEscape(extDialogueID)
	}
	return path
}

func post[R apiutil.Schema](ctx context.Context, c *Client, path string, req apiutil.Schema) (R, error) {
	var zero R

	if err := req.Validate(); err != nil {
		return zero, err
	}

	body, err := toPayload(req)
	if err != nil {
		return zero, err
	}

	data, err := apiutil.Request(ctx, c.baseURL+path, apiutil.MethodPost, &apiutil.RequestOptions{
		Body:    body,
		Timeout: c.timeout,
	})
	if err != nil {
		return zero, err
	}

	return apiutil.Validate[R](ctx, data)
}

func get[R apiutil.Schema](ctx context.Context, c *Client, path string) (R, error) {
	var zero R

	data, err := apiutil.Request(ctx, c.baseURL+path, apiutil.MethodGet, &apiutil.RequestOptions{
		Timeout: c.timeout,
	})
	if err != nil {
		return zero, err
	}

	return apiutil.Validate[R](ctx, data)
}

// toPayload converts a schema into the generic body shape the gateway
// sends, honouring the schema's json tags.
func toPayload(req apiutil.Schema) (map[string]any, error) {
	encoded, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request schema: %w", err)
	}

	var payload map[string]any
	err = json.Unmarshal(encoded, &payload)
	if err != nil {
		return nil, fmt.Errorf("encode request schema: %w", err)
	}
	return payload, nil
}
