package apiutil

import (
	"context"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/geep/geep-go-sdk/pkg/logutil"
)

// Schema is implemented by request and response schema types. Validate
// checks the invariants that cannot be expressed through the type system,
// like required fields and enum membership.
type Schema interface {
	Validate() error
}

// Validate maps a generic payload onto the typed schema T and runs the
// schema's own validation. Field names follow the json tags; timestamps
// and text-unmarshalling types (UUIDs) are converted from strings.
func Validate[T Schema](ctx context.Context, data map[string]any) (T, error) {
	var out T

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           &out,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return out, &ValidationError{Payload: data, Err: err}
	}

	err = dec.Decode(data)
	if err == nil {
		err = out.Validate()
	}
	if err != nil {
		verr := &ValidationError{Payload: data, Err: err}
		logutil.Get(ctx).Error("response validation failed", "error", verr)
		return out, verr
	}

	return out, nil
}
