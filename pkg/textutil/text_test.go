package textutil_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geep/geep-go-sdk/pkg/textutil"
)

func TestRemoveProblematicControlChars(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"c0 and del", "Hello\x00World\x1fTest\x7f", "HelloWorldTest"},
		{"whitespace preserved", "Hello\nWorld\tTest", "Hello\nWorld\tTest"},
		{"carriage return preserved", "a\rb", "a\rb"},
		{"c1 range", "a\u0085b\u009fc", "abc"},
		{"vertical tab and form feed", "a\x0bb\x0cc", "abc"},
		{"empty", "", ""},
		{"clean", "plain text", "plain text"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, textutil.RemoveProblematicControlChars(tc.in))
		})
	}
}

func TestTransliterateAndForceASCII(t *testing.T) {
	got := textutil.TransliterateAndForceASCII("Café with naïveté and ®™©")

	for _, r := range got {
		assert.Less(t, int(r), 128, "result must be pure ASCII")
	}
	assert.Contains(t, got, "Cafe")
	assert.Contains(t, got, "naive")
}

func TestTransliterateAndForceASCIIPassthrough(t *testing.T) {
	assert.Equal(t, "already ascii", textutil.TransliterateAndForceASCII("already ascii"))
}

func TestEnsureJSONParsableValidInputUnchanged(t *testing.T) {
	in := `{"message": "success"}`
	assert.Equal(t, in, textutil.EnsureJSONParsable(in))
}

func TestEnsureJSONParsableRepairsControlChars(t *testing.T) {
	in := "{\"message\": \"line one\nline two\x00\"}"

	got := textutil.EnsureJSONParsable(in)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(got), &decoded))
	assert.Equal(t, "line one line two", decoded["message"])
}

func TestFixTextEncodingAndNormalise(t *testing.T) {
	t.Run("mojibake repaired", func(t *testing.T) {
		// "Café" after UTF-8 bytes were read as windows-1252.
		assert.Equal(t, "Café", textutil.FixTextEncodingAndNormalise("CafÃ©"))
	})

	t.Run("nfd folded to nfc", func(t *testing.T) {
		// 'e' followed by a combining acute accent.
		assert.Equal(t, "é", textutil.FixTextEncodingAndNormalise("e\u0301"))
	})

	t.Run("clean text unchanged", func(t *testing.T) {
		assert.Equal(t, "hello world", textutil.FixTextEncodingAndNormalise("hello world"))
	})
}
