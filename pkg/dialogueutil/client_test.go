package dialogueutil_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geep/geep-go-sdk/pkg/apiutil"
	"github.com/geep/geep-go-sdk/pkg/dialogueutil"
	"github.com/geep/geep-go-sdk/pkg/testutil"
)

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()

	var body map[string]any
	err := json.NewDecoder(r.Body).Decode(&body)
	require.NoError(t, err)
	return body
}

func TestPostDialogue(t *testing.T) {
	extDialogueID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/dialogue", r.URL.Path)

		body := decodeBody(t, r)
		assert.Equal(t, "ordering-coffee", body["task_id"])
		assert.Equal(t, "real", body["dialogue_type"])

		json.NewEncoder(w).Encode(map[string]any{"ext_dialogue_id": extDialogueID.String()})
	}))
	defer server.Close()

	client := dialogueutil.NewClientWithBaseURL(server.URL)
	resp, err := client.PostDialogue(context.Background(), dialogueutil.DialogueV2Request{
		TaskID:      "ordering-coffee",
		TaskVersion: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, extDialogueID, resp.ExtDialogueID)
}

func TestPostDialogueRejectsInvalidRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request validation should fail before any HTTP call")
	}))
	defer server.Close()

	client := dialogueutil.NewClientWithBaseURL(server.URL)
	_, err := client.PostDialogue(context.Background(), dialogueutil.DialogueV2Request{
		TaskVersion: 3,
	})
	require.ErrorContains(t, err, "task_id")
}

func TestPostSimDialogue(t *testing.T) {
	extDialogueID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/sim_dialogue", r.URL.Path)

		body := decodeBody(t, r)
		assert.Equal(t, "sim", body["dialogue_type"])
		assert.Equal(t, "load-test-7", body["cognito_username"])

		json.NewEncoder(w).Encode(map[string]any{"ext_dialogue_id": extDialogueID.String()})
	}))
	defer server.Close()

	client := dialogueutil.NewClientWithBaseURL(server.URL)
	resp, err := client.PostSimDialogue(context.Background(), dialogueutil.DialogueV2SimRequest{
		SimulationID:    uuid.New(),
		CognitoUsername: "load-test-7",
		CognitoID:       uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, extDialogueID, resp.ExtDialogueID)
}

func TestPostTurn(t *testing.T) {
	extDialogueID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/"+extDialogueID.String()+"/turn", r.URL.Path)

		body := decodeBody(t, r)
		assert.Equal(t, "User", body["speaker"])
		assert.Equal(t, "deepgram", body["asr_provider"])

		json.NewEncoder(w).Encode(map[string]any{"order_in_turn": 2})
	}))
	defer server.Close()

	client := dialogueutil.NewClientWithBaseURL(server.URL)
	resp, err := client.PostTurn(context.Background(), extDialogueID, dialogueutil.DialogueTurnRequest{
		Transcript: "One flat white, please.",
		Speaker:    dialogueutil.SpeakerUser,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.OrderInTurn)
}

func TestPostSurvey(t *testing.T) {
	extDialogueID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/"+extDialogueID.String()+"/survey", r.URL.Path)

		body := decodeBody(t, r)
		assert.Equal(t, map[string]any{"rating": float64(5)}, body["survey_data"])

		json.NewEncoder(w).Encode(map[string]any{"status": "OK"})
	}))
	defer server.Close()

	client := dialogueutil.NewClientWithBaseURL(server.URL)
	resp, err := client.PostSurvey(context.Background(), extDialogueID, dialogueutil.DialogueSurveyRequest{
		SurveyData: map[string]any{"rating": 5},
	})
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.Status)
}

func TestPostSurveyRequiresSurveyData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request validation should fail before any HTTP call")
	}))
	defer server.Close()

	client := dialogueutil.NewClientWithBaseURL(server.URL)
	_, err := client.PostSurvey(context.Background(), uuid.New(), dialogueutil.DialogueSurveyRequest{})
	require.ErrorContains(t, err, "survey_data")
}

func TestGetTranscriptsBrowseNext(t *testing.T) {
	extDialogueID := uuid.New()
	nextDialogueID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/transcripts/browse/next", r.URL.Path)
		assert.Equal(t, extDialogueID.String(), r.URL.Query().Get("ext_dialogue_id"))

		json.NewEncoder(w).Encode(map[string]any{
			"task_id":         "ordering-coffee",
			"ext_dialogue_id": nextDialogueID.String(),
			"transcripts": []map[string]any{
				{
					"order_in_dialogue": 1,
					"speaker":           "The Bot",
					"transcript":        "What can I get you?",
					"asr_provider":      "deepgram",
				},
			},
		})
	}))
	defer server.Close()

	client := dialogueutil.NewClientWithBaseURL(server.URL)
	resp, err := client.GetTranscriptsBrowseNext(context.Background(), extDialogueID.String())
	require.NoError(t, err)
	assert.Equal(t, nextDialogueID, resp.ExtDialogueID)
	require.Len(t, resp.Transcripts, 1)
	assert.Equal(t, dialogueutil.SpeakerBot, resp.Transcripts[0].Speaker)
}

func TestGetTranscriptsBrowsePreviousWithoutCursor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transcripts/browse/previous", r.URL.Path)
		assert.False(t, r.URL.Query().Has("ext_dialogue_id"))

		json.NewEncoder(w).Encode(map[string]any{
			"ext_dialogue_id": uuid.New().String(),
			"transcripts":     []map[string]any{},
		})
	}))
	defer server.Close()

	client := dialogueutil.NewClientWithBaseURL(server.URL)
	_, err := client.GetTranscriptsBrowsePrevious(context.Background(), "")
	require.NoError(t, err)
}

func TestGetLatestDialogueTranscript(t *testing.T) {
	extDialogueID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/"+extDialogueID.String()+"/transcripts/latest", r.URL.Path)

		json.NewEncoder(w).Encode(map[string]any{
			"task_id": "ordering-coffee",
			"transcripts": []map[string]any{
				{
					"order_in_dialogue":  1,
					"speaker":            "User",
					"transcript":         "One flat white, please.",
					"asr_provider":       "assemblyai",
					"transcription_date": "2026-05-04T10:30:00Z",
				},
			},
		})
	}))
	defer server.Close()

	client := dialogueutil.NewClientWithBaseURL(server.URL)
	resp, err := client.GetLatestDialogueTranscript(context.Background(), extDialogueID)
	require.NoError(t, err)
	require.NotNil(t, resp.TaskID)
	require.Len(t, resp.Transcripts, 1)
	assert.Equal(t, "assemblyai", resp.Transcripts[0].AsrProvider)
	require.NotNil(t, resp.Transcripts[0].TranscriptionDate)
	assert.Equal(t, time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC), resp.Transcripts[0].TranscriptionDate.UTC())
}

func TestGetOriginalDialogueTranscriptRejectsInvalidSpeaker(t *testing.T) {
	extDialogueID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"task_id": "ordering-coffee",
			"transcripts": []map[string]any{
				{"order_in_dialogue": 1, "speaker": "Narrator", "transcript": "hm"},
			},
		})
	}))
	defer server.Close()

	client := dialogueutil.NewClientWithBaseURL(server.URL)
	_, err := client.GetOriginalDialogueTranscript(context.Background(), extDialogueID)

	var verr *apiutil.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestGetDialogueTranscriptsList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/transcripts", r.URL.Path)

		body := decodeBody(t, r)
		assert.Len(t, body["dialogue_ids"], 2)

		json.NewEncoder(w).Encode([]map[string]any{
			{"task_id": "ordering-coffee", "transcripts": []map[string]any{}},
			{"task_id": "hotel-check-in", "transcripts": []map[string]any{}},
		})
	}))
	defer server.Close()

	client := dialogueutil.NewClientWithBaseURL(server.URL)
	resp, err := client.GetDialogueTranscriptsList(context.Background(), dialogueutil.DialogueTranscriptsRequest{
		DialogueIDs: []string{uuid.New().String(), uuid.New().String()},
	})
	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.Equal(t, "hotel-check-in", resp[1].TaskID)
}

func TestInsertNewTranscript(t *testing.T) {
	extDialogueID := uuid.New()
	turnID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/transcripts", r.URL.Path)

		json.NewEncoder(w).Encode(map[string]any{
			"ext_dialogue_id":    extDialogueID.String(),
			"turn_id":            turnID.String(),
			"order_in_dialogue":  4,
			"asr_provider":       "assemblyai",
			"transcription_date": "2026-05-04T10:30:00Z",
			"latest":             true,
			"data":               map[string]any{"confidence": 0.93},
		})
	}))
	defer server.Close()

	client := dialogueutil.NewClientWithBaseURL(server.URL)
	resp, err := client.InsertNewTranscript(context.Background(), map[string]any{
		"turn_id": turnID.String(),
		"data":    map[string]any{"confidence": 0.93},
	})
	require.NoError(t, err)
	assert.Equal(t, extDialogueID, resp.ExtDialogueID)
	assert.Equal(t, turnID, resp.TurnID)
	assert.True(t, resp.Latest)
}

func TestTranscriptsResponseGolden(t *testing.T) {
	taskID := "ordering-coffee"
	transcriptionDate := time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)

	resp := dialogueutil.DialogueTranscriptsV4Response{
		TaskID:        &taskID,
		ExtDialogueID: uuid.MustParse("7a9d3f44-1be2-4cb8-b36c-4f6b9f0f4a21"),
		DialogueType:  dialogueutil.DialogueTypeReal,
		Transcripts: []dialogueutil.TranscriptDetailV2{
			{
				OrderInDialogue: 1,
				Speaker:         dialogueutil.SpeakerBot,
				Transcript:      "What can I get you?",
				AsrProvider:     "deepgram",
			},
			{
				OrderInDialogue:   2,
				Speaker:           dialogueutil.SpeakerUser,
				Transcript:        "One flat white, please.",
				AsrProvider:       "assemblyai",
				TranscriptionDate: &transcriptionDate,
			},
		},
	}

	testutil.AssertGoldenJSON(t, "test-fixtures/transcripts-v4.json", resp)
}
