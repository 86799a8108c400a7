package dialogueutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DialogueType distinguishes real user dialogues from test and simulated
// ones.
type DialogueType string

const (
	DialogueTypeReal DialogueType = "real"
	DialogueTypeTest DialogueType = "test"
	DialogueTypeSim  DialogueType = "sim"
)

func (d DialogueType) valid() bool {
	switch d {
	case DialogueTypeReal, DialogueTypeTest, DialogueTypeSim:
		return true
	}
	return false
}

// SpeakerType identifies who produced a turn.
type SpeakerType string

const (
	SpeakerUser SpeakerType = "User"
	SpeakerBot  SpeakerType = "The Bot"
)

func (s SpeakerType) valid() bool {
	return s == SpeakerUser || s == SpeakerBot
}

// AsrType names the speech recognition provider of a transcript.
type AsrType string

const (
	AsrAssemblyAI AsrType = "assemblyai"
	AsrDeepgram   AsrType = "deepgram"
)

func (a AsrType) valid() bool {
	return a == AsrAssemblyAI || a == AsrDeepgram
}

// A11yType is the kind of accessibility event attached to a dialogue.
type A11yType string

const (
	A11ySubtitle   A11yType = "subtitle"
	A11yTranscript A11yType = "transcript"
)

func (a A11yType) valid() bool {
	return a == A11ySubtitle || a == A11yTranscript
}

// A11yEvent is one accessibility event within a dialogue request.
type A11yEvent struct {
	Asset string   `json:"asset"`
	Type  A11yType `json:"type"`
	Start float64  `json:"start"`
	End   *float64 `json:"end,omitempty"`
}

func (e A11yEvent) Validate() error {
	if e.Asset == "" {
		return errors.New("a11y event asset must not be empty")
	}
	if !e.Type.valid() {
		return fmt.Errorf("invalid a11y event type %q", e.Type)
	}
	return nil
}

// DialogueV2Request starts a new dialogue. POST /v2/dialogue
type DialogueV2Request struct {
	TaskID          string       `json:"task_id"`
	TaskVersion     int          `json:"task_version"`
	L2LanguageLevel *string      `json:"l2_language_level"`
	L1Language      *string      `json:"l1_language"`
	DialogueType    DialogueType `json:"dialogue_type,omitempty"`
	A11yEvents      []A11yEvent  `json:"a11y_events,omitempty"`
}

// WithDefaults fills unset optional fields with their defaults.
func (r DialogueV2Request) WithDefaults() DialogueV2Request {
	if r.DialogueType == "" {
		r.DialogueType = DialogueTypeReal
	}
	return r
}

func (r DialogueV2Request) Validate() error {
	if r.TaskID == "" {
		return errors.New("task_id must not be empty")
	}
	if !r.DialogueType.valid() {
		return fmt.Errorf("invalid dialogue_type %q", r.DialogueType)
	}
	for _, event := range r.A11yEvents {
		if err := event.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DialogueV2SimRequest starts a simulated dialogue. POST /v2/sim_dialogue
type DialogueV2SimRequest struct {
	SimulationID    uuid.UUID    `json:"simulation_id"`
	CognitoUsername string       `json:"cognito_username"`
	CognitoID       uuid.UUID    `json:"cognito_id"`
	DialogueType    DialogueType `json:"dialogue_type,omitempty"`
}

func (r DialogueV2SimRequest) WithDefaults() DialogueV2SimRequest {
	if r.DialogueType == "" {
		r.DialogueType = DialogueTypeSim
	}
	return r
}

func (r DialogueV2SimRequest) Validate() error {
	if r.SimulationID == uuid.Nil {
		return errors.New("simulation_id must not be empty")
	}
	if r.CognitoUsername == "" {
		return errors.New("cognito_username must not be empty")
	}
	if !r.DialogueType.valid() {
		return fmt.Errorf("invalid dialogue_type %q", r.DialogueType)
	}
	return nil
}

// DialogueTurnRequest appends one turn to a dialogue.
// POST /v2/{ext_dialogue_id}/turn
type DialogueTurnRequest struct {
	UserTurnStartAt      *time.Time       `json:"user_turn_start_at,omitempty"`
	UserTurnEndAt        *time.Time       `json:"user_turn_end_at,omitempty"`
	Transcript           string           `json:"transcript"`
	Speaker              SpeakerType      `json:"speaker"`
	AsrProvider          AsrType          `json:"asr_provider,omitempty"`
	BotAudioStartAt      *time.Time       `json:"bot_audio_start_at,omitempty"`
	BotAudioEndAt        *time.Time       `json:"bot_audio_end_at,omitempty"`
	TranscriptReceivedAt *time.Time       `json:"transcript_received_at,omitempty"`
	TranscriptMetadata   []map[string]any `json:"transcript_metadata,omitempty"`
}

func (r DialogueTurnRequest) WithDefaults() DialogueTurnRequest {
	if r.AsrProvider == "" {
		r.AsrProvider = AsrDeepgram
	}
	return r
}

func (r DialogueTurnRequest) Validate() error {
	if !r.Speaker.valid() {
		return fmt.Errorf("invalid speaker %q", r.Speaker)
	}
	if !r.AsrProvider.valid() {
		return fmt.Errorf("invalid asr_provider %q", r.AsrProvider)
	}
	return nil
}

// DialogueSurveyRequest attaches post-dialogue survey answers to a
// dialogue. POST /{ext_dialogue_id}/survey
type DialogueSurveyRequest struct {
	DialogueID int            `json:"dialogue_id"`
	SurveyData map[string]any `json:"survey_data"`
}

func (r DialogueSurveyRequest) Validate() error {
	if r.SurveyData == nil {
		return errors.New("survey_data must not be empty")
	}
	return nil
}

// DialogueSurveyResponse is returned by /{ext_dialogue_id}/survey.
type DialogueSurveyResponse struct {
	Status string `json:"status"`
}

func (r DialogueSurveyResponse) Validate() error {
	if r.Status == "" {
		return errors.New("status must not be empty")
	}
	return nil
}

// DialogueTranscriptsRequest fetches transcripts for a set of dialogues.
// POST /v1/transcripts
type DialogueTranscriptsRequest struct {
	DialogueIDs []string `json:"dialogue_ids"`
}

func (r DialogueTranscriptsRequest) Validate() error {
	if len(r.DialogueIDs) == 0 {
		return errors.New("dialogue_ids must not be empty")
	}
	return nil
}

// DialogueV2DialogueResponse is returned by /v2/dialogue and
// /v2/sim_dialogue.
type DialogueV2DialogueResponse struct {
	ExtDialogueID uuid.UUID `json:"ext_dialogue_id"`
}

func (r DialogueV2DialogueResponse) Validate() error {
	if r.ExtDialogueID == uuid.Nil {
		return errors.New("ext_dialogue_id must not be empty")
	}
	return nil
}

// DialogueTurnResponse is returned by /v2/{ext_dialogue_id}/turn.
type DialogueTurnResponse struct {
	OrderInTurn int `json:"order_in_turn"`
}

func (r DialogueTurnResponse) Validate() error {
	return nil
}

// TranscriptDetail is one turn within a transcripts response.
type TranscriptDetail struct {
	OrderInDialogue    int            `json:"order_in_dialogue"`
	Speaker            SpeakerType    `json:"speaker"`
	Transcript         string         `json:"transcript"`
	TranscriptMetadata map[string]any `json:"transcript_metadata,omitempty"`
	UserTurnStartAt    *time.Time     `json:"user_turn_start_at,omitempty"`
	UserTurnEndAt      *time.Time     `json:"user_turn_end_at,omitempty"`
	BotAudioStartAt    *time.Time     `json:"bot_audio_start_at,omitempty"`
	BotAudioEndAt      *time.Time     `json:"bot_audio_end_at,omitempty"`
}

func (d TranscriptDetail) Validate() error {
	if !d.Speaker.valid() {
		return fmt.Errorf("invalid speaker %q", d.Speaker)
	}
	return nil
}

// TranscriptDetailV2 additionally carries ASR provenance.
type TranscriptDetailV2 struct {
	OrderInDialogue    int            `json:"order_in_dialogue"`
	Speaker            SpeakerType    `json:"speaker"`
	Transcript         string         `json:"transcript"`
	TranscriptMetadata map[string]any `json:"transcript_metadata,omitempty"`
	UserTurnStartAt    *time.Time     `json:"user_turn_start_at,omitempty"`
	UserTurnEndAt      *time.Time     `json:"user_turn_end_at,omitempty"`
	BotAudioStartAt    *time.Time     `json:"bot_audio_start_at,omitempty"`
	BotAudioEndAt      *time.Time     `json:"bot_audio_end_at,omitempty"`
	AsrProvider        string         `json:"asr_provider"`
	TranscriptionDate  *time.Time     `json:"transcription_date,omitempty"`
}

func (d TranscriptDetailV2) Validate() error {
	if !d.Speaker.valid() {
		return fmt.Errorf("invalid speaker %q", d.Speaker)
	}
	return nil
}

// DialogueTranscriptsResponse is returned by /v1/{ext_dialogue_id}/transcripts
// and /v1/transcripts.
type DialogueTranscriptsResponse struct {
	TaskID      string             `json:"task_id"`
	Transcripts []TranscriptDetail `json:"transcripts"`
}

func (r DialogueTranscriptsResponse) Validate() error {
	for _, detail := range r.Transcripts {
		if err := detail.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DialogueTranscriptsV2Response is returned by
// /v1/{ext_dialogue_id}/transcripts/latest.
type DialogueTranscriptsV2Response struct {
	TaskID      *string              `json:"task_id"`
	Transcripts []TranscriptDetailV2 `json:"transcripts"`
}

func (r DialogueTranscriptsV2Response) Validate() error {
	for _, detail := range r.Transcripts {
		if err := detail.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DialogueTranscriptsV3Response adds the dialogue identity, which the
// browse endpoints need to support stepping to the next and previous
// dialogue.
type DialogueTranscriptsV3Response struct {
	TaskID        *string              `json:"task_id"`
	Transcripts   []TranscriptDetailV2 `json:"transcripts"`
	ExtDialogueID uuid.UUID            `json:"ext_dialogue_id"`
}

func (r DialogueTranscriptsV3Response) Validate() error {
	if r.ExtDialogueID == uuid.Nil {
		return errors.New("ext_dialogue_id must not be empty")
	}
	for _, detail := range r.Transcripts {
		if err := detail.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DialogueTranscriptsV4Response also exposes the dialogue type to
// consuming services.
type DialogueTranscriptsV4Response struct {
	TaskID        *string              `json:"task_id"`
	Transcripts   []TranscriptDetailV2 `json:"transcripts"`
	ExtDialogueID uuid.UUID            `json:"ext_dialogue_id"`
	DialogueType  DialogueType         `json:"dialogue_type"`
}

func (r DialogueTranscriptsV4Response) Validate() error {
	if r.ExtDialogueID == uuid.Nil {
		return errors.New("ext_dialogue_id must not be empty")
	}
	if !r.DialogueType.valid() {
		return fmt.Errorf("invalid dialogue_type %q", r.DialogueType)
	}
	for _, detail := range r.Transcripts {
		if err := detail.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DialogueTranscriptMetadataResponse is returned when inserting a new
// transcript.
type DialogueTranscriptMetadataResponse struct {
	ExtDialogueID     uuid.UUID      `json:"ext_dialogue_id"`
	TurnID            uuid.UUID      `json:"turn_id"`
	OrderInDialogue   int            `json:"order_in_dialogue"`
	AsrProvider       string         `json:"asr_provider"`
	TranscriptionDate time.Time      `json:"transcription_date"`
	Latest            bool           `json:"latest"`
	Data              map[string]any `json:"data"`
}

func (r DialogueTranscriptMetadataResponse) Validate() error {
	if r.ExtDialogueID == uuid.Nil {
		return errors.New("ext_dialogue_id must not be empty")
	}
	if r.TurnID == uuid.Nil {
		return errors.New("turn_id must not be empty")
	}
	return nil
}
