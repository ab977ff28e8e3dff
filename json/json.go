// Package json provides a JSON codec implementation.
//
// JSON is a plain tree format: shared references flatten into copies and
// cyclic graphs fail to encode. Use the root gnosis codec when reference
// structure matters.
package json

import (
	"encoding/json"

	"github.com/zoobzio/gnosis"
)

// jsonCodec implements gnosis.Codec for JSON.
type jsonCodec struct{}

// New returns a JSON codec.
func New() gnosis.Codec {
	return &jsonCodec{}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes v as JSON.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes JSON data into v.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
