// Package form decodes the key/value payload of an admin action.
package form

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/spf13/cast"
)

const maxBody = 1 << 20

// Values is a loosely typed form payload.
type Values map[string]any

// Parse reads a JSON object or url-encoded form from r. An empty body yields
// empty values.
func Parse(r *http.Request) (Values, error) {
	out := Values{}
	if r.Body == nil || r.ContentLength == 0 {
		return out, nil
	}
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/json", "":
		dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBody))
		dec.UseNumber()
		if err := dec.Decode(&out); err != nil {
			return nil, fmt.Errorf("decode json body: %w", err)
		}
	case "application/x-www-form-urlencoded", "multipart/form-data":
		r.Body = http.MaxBytesReader(nil, r.Body, maxBody)
		if err := r.ParseMultipartForm(maxBody); err != nil && err != http.ErrNotMultipart {
			return nil, fmt.Errorf("parse form: %w", err)
		}
		for k, vs := range r.PostForm {
			if len(vs) > 0 {
				out[k] = vs[0]
			}
		}
	default:
		return nil, fmt.Errorf("unsupported content type %q", ct)
	}
	return out, nil
}

func (v Values) String(key string) string {
	return strings.TrimSpace(cast.ToString(v[key]))
}

// Bool coerces "true", "1", "on" and JSON booleans; anything unparsable is false.
func (v Values) Bool(key string) bool {
	raw, ok := v[key]
	if !ok {
		return false
	}
	if s, ok := raw.(string); ok && strings.EqualFold(strings.TrimSpace(s), "on") {
		return true
	}
	b, err := cast.ToBoolE(raw)
	if err != nil {
		return false
	}
	return b
}

func (v Values) Int(key string) int {
	return cast.ToInt(v[key])
}

func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// With returns a copy of v with key set, used to merge path params into the payload.
func (v Values) With(key string, val any) Values {
	out := make(Values, len(v)+1)
	for k, x := range v {
		out[k] = x
	}
	out[key] = val
	return out
}
