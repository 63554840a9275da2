package proto

import (
	"fmt"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// CodecName is the gRPC content-subtype the identity service is spoken in:
// "application/grpc+struct".
const CodecName = "struct"

// structCodec puts the message types of this package on the wire as a
// serialized google.protobuf.Struct.
type structCodec struct{}

func init() {
	encoding.RegisterCodec(structCodec{})
}

func (structCodec) Name() string { return CodecName }

func (structCodec) Marshal(v any) ([]byte, error) {
	st, err := Encode(v)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(st)
}

func (structCodec) Unmarshal(data []byte, v any) error {
	st := &structpb.Struct{}
	if err := proto.Unmarshal(data, st); err != nil {
		return fmt.Errorf("unmarshal struct: %w", err)
	}
	return Decode(st, v)
}
