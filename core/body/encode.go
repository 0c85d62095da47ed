package body

import (
	json "github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack"
)

// FromJSON encodes v as compact JSON. Encoding failures are reported as
// ErrSerialization and no body is returned.
func FromJSON(v any) (*Body, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, &Error{Kind: KindSerialization, Op: "json", Err: err}
	}
	return FromBytes(data), nil
}

// FromJSONPretty encodes v as indented JSON. The decoded value is the same as
// for FromJSON.
func FromJSONPretty(v any) (*Body, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, &Error{Kind: KindSerialization, Op: "json", Err: err}
	}
	return FromBytes(data), nil
}

// FromMsgpack encodes v as MessagePack.
func FromMsgpack(v any) (*Body, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, &Error{Kind: KindSerialization, Op: "msgpack", Err: err}
	}
	return FromBytes(data), nil
}
