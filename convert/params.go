package convert

import (
	"bytes"
	"log/slog"

	"github.com/goccy/go-json"
)

// Stop is one entry of a legacy function's stop table.
//
// Key is a string, number or boolean, or a [ZoomKey] for functions of both
// zoom and a feature property. Stops encode as two-element arrays.
type Stop struct {
	Key   any
	Value any
}

// ZoomKey is the key of a stop that depends on both zoom and a property.
type ZoomKey struct {
	Zoom  any `json:"zoom"  yaml:"zoom"`
	Value any `json:"value" yaml:"value"`
}

// MarshalJSON encodes s as [key, value].
func (s Stop) MarshalJSON() ([]byte, error) {
	return json.MarshalNoEscape([]any{s.Key, s.Value})
}

// UnmarshalJSON decodes [key, value]. An object key decodes as a [ZoomKey].
func (s *Stop) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage

	if err := json.Unmarshal(data, &pair); err != nil {
		return ErrInvalidStop.Wrap(err)
	}

	if len(pair) != 2 {
		return ErrInvalidStop.With(slog.Int("length", len(pair)))
	}

	var key any

	if k := bytes.TrimSpace(pair[0]); len(k) > 0 && k[0] == '{' {
		var zk ZoomKey
		if err := json.Unmarshal(k, &zk); err != nil {
			return ErrInvalidStop.Wrap(err)
		}

		key = zk
	} else if err := json.Unmarshal(k, &key); err != nil {
		return ErrInvalidStop.Wrap(err)
	}

	var value any
	if err := json.Unmarshal(pair[1], &value); err != nil {
		return ErrInvalidStop.Wrap(err)
	}

	*s = Stop{Key: key, Value: value}

	return nil
}

// Params describes a legacy function.
type Params struct {
	Stops    []Stop
	Property string

	// Type is "categorical", "interval", "exponential", or empty to infer
	// it from the property spec.
	Type       string
	Base       *float64
	ColorSpace string

	// Default is used only if HasDefault is set, which distinguishes an
	// explicit null default from an absent one.
	Default    any
	HasDefault bool
}

type paramsJSON struct {
	Stops      []Stop          `json:"stops,omitempty"`
	Property   string          `json:"property,omitempty"`
	Type       string          `json:"type,omitempty"`
	Base       *float64        `json:"base,omitempty"`
	ColorSpace string          `json:"colorSpace,omitempty"`
	Default    json.RawMessage `json:"default,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (p Params) MarshalJSON() ([]byte, error) {
	out := paramsJSON{
		Stops:      p.Stops,
		Property:   p.Property,
		Type:       p.Type,
		Base:       p.Base,
		ColorSpace: p.ColorSpace,
	}

	if p.HasDefault {
		def, err := json.MarshalNoEscape(p.Default)
		if err != nil {
			return nil, err
		}

		out.Default = def
	}

	return json.MarshalNoEscape(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Params) UnmarshalJSON(data []byte) error {
	var in paramsJSON

	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*p = Params{
		Stops:      in.Stops,
		Property:   in.Property,
		Type:       in.Type,
		Base:       in.Base,
		ColorSpace: in.ColorSpace,
	}

	// A null default is still a default, so presence is decided by key.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	if def, ok := fields["default"]; ok {
		p.HasDefault = true

		if err := json.Unmarshal(def, &p.Default); err != nil {
			return err
		}
	}

	return nil
}

// PropertySpec describes the style property a function is converted for.
type PropertySpec struct {
	// Type is "color", "array", or the name of a primitive type such as
	// "number" or "string".
	Type string `json:"type"`

	// Function is "interpolated" for properties whose functions interpolate
	// by default.
	Function string `json:"function,omitempty"`

	// HasDefault is set when the decoded spec names a default, which may be
	// null.
	Default    any  `json:"default,omitempty"`
	HasDefault bool `json:"-"`

	// Length and Value describe array properties: the fixed length, if any,
	// and the element spec.
	Length *int          `json:"length,omitempty"`
	Value  *PropertySpec `json:"value,omitempty"`
}

// UnmarshalJSON accepts the element spec either as an object or as a bare
// type name ("value": "number").
func (s *PropertySpec) UnmarshalJSON(data []byte) error {
	if t := bytes.TrimSpace(data); len(t) > 0 && t[0] == '"' {
		var name string
		if err := json.Unmarshal(t, &name); err != nil {
			return err
		}

		*s = PropertySpec{Type: name}

		return nil
	}

	type plain PropertySpec

	if err := json.Unmarshal(data, (*plain)(s)); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	_, s.HasDefault = fields["default"]

	return nil
}
