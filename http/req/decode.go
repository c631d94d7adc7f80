package req

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/schema"
	traillog "github.com/ridgepath/traillog"
)

// A formDecoder wraps a *schema.Decoder so its errors can be translated
// before reaching calling code.
type formDecoder struct {
	dec *schema.Decoder
}

func newFormDecoder() formDecoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)

	return formDecoder{dec}
}

func (f formDecoder) decode(structPtr any, vals url.Values) error {
	if err := f.dec.Decode(structPtr, vals); err != nil {
		return translateDecoderError(err)
	}

	return nil
}

// translateDecoderError converts an error returned by *schema.Decoder into standardized errors.
// Some *schema.Decoder errors are issues with calling code;
// some errors are unexpected issues;
// still some are issues with mismatches between a request's values and the expected shape.
func translateDecoderError(err error) error {
	var pkgErrs schema.MultiError
	// NOTE: In testing the schema package, outside other errors handled below,
	// the package appears to always use MultiError to wrap errors up.
	// This is the "happy path".
	if !errors.As(err, &pkgErrs) {
		return fmt.Errorf("%w: %s", traillog.ErrNotValid, err)
	}

	var validErrs ValidationErrors
	for _, pkgErr := range pkgErrs {
		switch err := pkgErr.(type) {
		case schema.ConversionError:
			idx := err.Index
			if idx < 0 {
				// NOTE: for non-slice values, err.Index is -1.
				idx = 0
			}

			ve := ValidationError{
				Field: err.Key,
				Got:   fmt.Sprintf("bad value at index %d", idx),
				Rule:  "must be " + err.Type.String(),
			}

			validErrs = append(validErrs, ve)

		case schema.EmptyFieldError:
			return fmt.Errorf(`%w: use validate pkg to set "required" fields, not schema`, traillog.ErrBadConfig)

		case schema.UnknownKeyError:
			// NOTE: We are currently accepting unknown keys,
			// as set in the default configuration for schema.Decoder.
			// That configuration can change.
			// We should gracefully handle that situation changing.
			ve := ValidationError{
				Field: err.Key,
				Got:   "value is set",
				Rule:  "unexpected key should not be set",
			}

			validErrs = append(validErrs, ve)

		default:
			// NOTE: a field requiring a schema.Converter that has none registered
			// does not raise an error until a url.Values has the key set
			// for the incorrectly configured field.
			if strings.Contains(err.Error(), "schema: converter not found for") {
				return fmt.Errorf("%w: cannot convert values into unsupported type", traillog.ErrBadConfig)
			}

			// NOTE: The above covers all the known struct-backed errors schema returns.
			// If it isn't one of those, it's likely a programming error, and thus a show-stopper.
			return fmt.Errorf("%w: %s", traillog.ErrUnexpected, err)
		}
	}

	return validErrs
}
