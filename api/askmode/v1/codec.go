// Package askmodev1 defines the askmode.v1.Guard gRPC service.
//
// Messages are plain Go structs carried by a JSON codec registered under
// the "json" content subtype, so no generated protobuf code is involved.
// Clients must call with grpc.CallContentSubtype(CodecName); the client
// stub in this package does that for every call.
package askmodev1

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content subtype for JSON-encoded messages.
const CodecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (jsonCodec) Name() string { return CodecName }
