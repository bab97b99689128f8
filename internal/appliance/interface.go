package appliance

import (
	"encoding/json"
	"fmt"
	"maps"
)

const (
	fieldName = "ifname"
	fieldMAC  = "mac"
)

// Interface is one entry of the appliance's interface list.
//
// Name and MAC are decoded into typed fields; every other field is kept
// verbatim in extra and written back unchanged on encode.
type Interface struct {
	Name string
	MAC  string

	extra map[string]json.RawMessage
}

// NewInterface returns an interface record with the given passthrough fields.
// The fields map is copied.
func NewInterface(name, mac string, fields map[string]json.RawMessage) Interface {
	return Interface{Name: name, MAC: mac, extra: maps.Clone(fields)}
}

// Field returns the raw JSON of a passthrough field.
func (i Interface) Field(key string) (json.RawMessage, bool) {
	v, ok := i.extra[key]
	return v, ok
}

// Fields returns a copy of all passthrough fields.
func (i Interface) Fields() map[string]json.RawMessage {
	return maps.Clone(i.extra)
}

// WithMAC returns a copy of the record with only the hardware address replaced.
func (i Interface) WithMAC(mac string) Interface {
	out := Interface{Name: i.Name, MAC: mac, extra: make(map[string]json.RawMessage, len(i.extra))}
	for k, v := range i.extra {
		out.extra[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *Interface) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var name, mac string
	if v, ok := raw[fieldName]; ok {
		if err := json.Unmarshal(v, &name); err != nil {
			return fmt.Errorf("decode %s: %w", fieldName, err)
		}
		delete(raw, fieldName)
	}
	if v, ok := raw[fieldMAC]; ok {
		if err := json.Unmarshal(v, &mac); err != nil {
			return fmt.Errorf("decode %s: %w", fieldMAC, err)
		}
		delete(raw, fieldMAC)
	}

	i.Name = name
	i.MAC = mac
	i.extra = raw
	return nil
}

// MarshalJSON implements json.Marshaler.
func (i Interface) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(i.extra)+2)
	for k, v := range i.extra {
		out[k] = v
	}
	out[fieldName] = i.Name
	out[fieldMAC] = i.MAC
	return json.Marshal(out)
}
