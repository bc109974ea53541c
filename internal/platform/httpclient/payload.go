package httpclient

import (
	"encoding/json"
)

// RemotePayload is a downstream response whose schema this service does not
// own. It keeps the raw JSON together with the service that produced it and
// is re-encoded verbatim.
type RemotePayload struct {
	Service string
	Raw     json.RawMessage
}

func (p RemotePayload) MarshalJSON() ([]byte, error) {
	if len(p.Raw) == 0 {
		return []byte("null"), nil
	}
	return p.Raw, nil
}

func (p *RemotePayload) UnmarshalJSON(data []byte) error {
	p.Raw = append(p.Raw[:0], data...)
	return nil
}

// IsEmpty reports whether the downstream sent no content or JSON null.
func (p RemotePayload) IsEmpty() bool {
	return len(p.Raw) == 0 || string(p.Raw) == "null"
}

// Decode parses the payload into v.
func (p RemotePayload) Decode(v any) error {
	return json.Unmarshal(p.Raw, v)
}
