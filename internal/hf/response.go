package hf

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// ShapeKind tags which response layout the inference API returned.
type ShapeKind int

const (
	ShapeUnknown ShapeKind = iota
	ShapeArrayOfGenerated
	ShapeObjectWithGenerated
	ShapePlainString
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeArrayOfGenerated:
		return "array"
	case ShapeObjectWithGenerated:
		return "object"
	case ShapePlainString:
		return "string"
	default:
		return "unknown"
	}
}

// Generation is a decoded inference response. For ShapeUnknown, Text holds
// the raw JSON so callers still get something inspectable.
type Generation struct {
	Kind ShapeKind
	Text string
}

var errInvalidJSON = errors.New("response is not valid JSON")

// DecodeGeneration classifies body once and extracts the generated text.
func DecodeGeneration(body []byte) (Generation, error) {
	if !gjson.ValidBytes(body) {
		return Generation{}, errInvalidJSON
	}

	res := gjson.ParseBytes(body)
	switch {
	case res.IsArray():
		if first := res.Get("0"); first.IsObject() {
			if text := first.Get("generated_text"); text.Exists() {
				return Generation{Kind: ShapeArrayOfGenerated, Text: text.String()}, nil
			}
		}
	case res.IsObject():
		if text := res.Get("generated_text"); text.Exists() {
			return Generation{Kind: ShapeObjectWithGenerated, Text: text.String()}, nil
		}
	case res.Type == gjson.String:
		return Generation{Kind: ShapePlainString, Text: res.String()}, nil
	}

	return Generation{Kind: ShapeUnknown, Text: strings.TrimSpace(res.Raw)}, nil
}
