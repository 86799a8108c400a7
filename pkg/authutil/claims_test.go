package authutil_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geep/geep-go-sdk/pkg/authutil"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	// The extractor never verifies signatures, so any key works.
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	return token
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"exp":             float64(time.Now().Add(time.Hour).Unix()),
		"sub":             12345,
		"country":         "de",
		"chatType":        "standard",
		"referringTheme":  "travel",
		"referringLesson": "",
		"l2Proficiency":   "B1",
		"dob":             "1999-04-23",
		"redirectUrl":     "https://example.com/back",
		"iss":             "geep-auth",
	}
}

func TestGetUserTokenClaims(t *testing.T) {
	token := signedToken(t, validClaims())

	claims, err := authutil.GetUserTokenClaims(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, 12345, claims.EolID)
	assert.Equal(t, "de", claims.Country)
	assert.Equal(t, "travel", claims.ReferringTheme)
	assert.Equal(t, "B1", claims.L2LanguageLevel)
	assert.Equal(t, 1999, claims.DateOfBirth.Year())
	assert.Equal(t, time.April, claims.DateOfBirth.Month())
	assert.Equal(t, "geep-auth", claims.Iss)
	assert.False(t, claims.Exp.IsZero())
}

func TestGetUserTokenClaimsCoercesStringSubject(t *testing.T) {
	payload := validClaims()
	payload["sub"] = "67890"

	claims, err := authutil.GetUserTokenClaims(context.Background(), signedToken(t, payload))
	require.NoError(t, err)
	assert.Equal(t, 67890, claims.EolID)
}

func TestGetUserTokenClaimsRequiresThemeOrLesson(t *testing.T) {
	payload := validClaims()
	payload["referringTheme"] = ""
	payload["referringLesson"] = ""

	_, err := authutil.GetUserTokenClaims(context.Background(), signedToken(t, payload))
	assert.ErrorIs(t, err, authutil.ErrInvalidToken)
}

func TestGetUserTokenClaimsLessonAloneSuffices(t *testing.T) {
	payload := validClaims()
	payload["referringTheme"] = ""
	payload["referringLesson"] = "lesson-7"

	claims, err := authutil.GetUserTokenClaims(context.Background(), signedToken(t, payload))
	require.NoError(t, err)
	assert.Equal(t, "lesson-7", claims.ReferringLesson)
}

func TestGetUserTokenClaimsDecodeFailure(t *testing.T) {
	_, err := authutil.GetUserTokenClaims(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, authutil.ErrInvalidToken)
}

func TestGetUserTokenClaimsMissingRequiredClaim(t *testing.T) {
	for _, claim := range []string{"exp", "sub", "country", "l2Proficiency", "dob", "iss"} {
		t.Run(claim, func(t *testing.T) {
			payload := validClaims()
			delete(payload, claim)

			_, err := authutil.GetUserTokenClaims(context.Background(), signedToken(t, payload))
			assert.ErrorIs(t, err, authutil.ErrInvalidToken)
		})
	}
}

func TestUserTokenClaimsExternalRepresentationExcludesExp(t *testing.T) {
	claims, err := authutil.GetUserTokenClaims(context.Background(), signedToken(t, validClaims()))
	require.NoError(t, err)

	raw, err := json.Marshal(claims)
	require.NoError(t, err)

	var external map[string]any
	require.NoError(t, json.Unmarshal(raw, &external))

	assert.NotContains(t, external, "exp")
	assert.Equal(t, float64(12345), external["eol_id"])
	assert.Equal(t, "B1", external["l2_language_level"])
}

func TestConvertToUUID(t *testing.T) {
	id := uuid.New()

	got, err := authutil.ConvertToUUID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = authutil.ConvertToUUID("definitely-not-a-uuid")
	assert.Error(t, err)
}
