// Package authutil extracts user claims from bearer credentials. The
// tokens arrive pre-verified by the gateway in front of the services, so
// no signature verification happens here; this package only decodes and
// validates the claim payload.
package authutil

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"

	"github.com/geep/geep-go-sdk/pkg/logutil"
)

// ErrInvalidToken is the single client-facing error for every token
// failure. The actual cause is logged, never returned, so no token
// internals leak to the caller.
var ErrInvalidToken = errors.New("invalid token")

// UserTokenClaims is the validated claim payload of a user token. The
// exp claim is consumed during decoding but excluded from the external
// JSON representation.
type UserTokenClaims struct {
	Exp             time.Time `json:"-"                 mapstructure:"exp"`
	EolID           int       `json:"eol_id"            mapstructure:"sub"`
	Country         string    `json:"country"           mapstructure:"country"`
	ChatType        string    `json:"chatType"          mapstructure:"chatType"`
	ReferringTheme  string    `json:"referringTheme"    mapstructure:"referringTheme"`
	ReferringLesson string    `json:"referringLesson"   mapstructure:"referringLesson"`
	L2LanguageLevel string    `json:"l2_language_level" mapstructure:"l2Proficiency"`
	DateOfBirth     time.Time `json:"date_of_birth"     mapstructure:"dob"`
	RedirectURL     string    `json:"redirectUrl"       mapstructure:"redirectUrl"`
	Iss             string    `json:"iss"               mapstructure:"iss"`
}

// Validate checks the required claims. Users reach the services either
// through a theme or through a lesson, so at least one of the two
// referring fields must be set.
func (c UserTokenClaims) Validate() error {
	switch {
	case c.Exp.IsZero():
		return errors.New("exp claim is required")
	case c.EolID == 0:
		return errors.New("sub claim is required")
	case c.Country == "":
		return errors.New("country claim is required")
	case c.L2LanguageLevel == "":
		return errors.New("l2Proficiency claim is required")
	case c.DateOfBirth.IsZero():
		return errors.New("dob claim is required")
	case c.Iss == "":
		return errors.New("iss claim is required")
	case c.ReferringTheme == "" && c.ReferringLesson == "":
		return errors.New("either referringTheme or referringLesson must be provided")
	}

	return nil
}

// GetUserTokenClaims decodes the bearer credential and validates its
// claims. Decode and validation failures both surface as ErrInvalidToken.
func GetUserTokenClaims(ctx context.Context, credential string) (UserTokenClaims, error) {
	log := logutil.Get(ctx)

	payload := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(credential, payload)
	if err != nil {
		log.Info("token decoding failed", "error", err)
		return UserTokenClaims{}, ErrInvalidToken
	}

	claims, err := decodeClaims(payload)
	if err == nil {
		err = claims.Validate()
	}
	if err != nil {
		log.Info("token claims schema validation failed", "error", err)
		return UserTokenClaims{}, ErrInvalidToken
	}

	return claims, nil
}

func decodeClaims(payload jwt.MapClaims) (UserTokenClaims, error) {
	var claims UserTokenClaims

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &claims,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			epochToTimeHook,
			mapstructure.StringToTimeHookFunc("2006-01-02"),
		),
	})
	if err != nil {
		return claims, err
	}

	err = dec.Decode(map[string]any(payload))
	if err != nil {
		return claims, err
	}

	return claims, nil
}

// epochToTimeHook converts the numeric exp claim into a time.Time.
func epochToTimeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(time.Time{}) {
		return data, nil
	}

	switch v := data.(type) {
	case float64:
		return time.Unix(int64(v), 0).UTC(), nil
	case int64:
		return time.Unix(v, 0).UTC(), nil
	}

	return data, nil
}

// ConvertToUUID parses an external dialogue ID into a UUID.
func ConvertToUUID(extDialogueID string) (uuid.UUID, error) {
	id, err := uuid.Parse(extDialogueID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("dialogue ID must be a valid UUID, %q is not", extDialogueID)
	}

	return id, nil
}
