// Package msgpack provides a MessagePack codec implementation.
//
// MessagePack is a plain tree format: shared references flatten into
// copies and cyclic graphs fail to encode. Use the root gnosis codec when
// reference structure matters.
package msgpack

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/zoobzio/gnosis"
)

// msgpackCodec implements gnosis.Codec for MessagePack.
type msgpackCodec struct{}

// New returns a MessagePack codec.
func New() gnosis.Codec {
	return &msgpackCodec{}
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes v as MessagePack.
func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Unmarshal decodes MessagePack data into v.
func (c *msgpackCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}
