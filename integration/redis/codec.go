package redis

import "encoding/json"

// Codec converts stream values to and from Redis message payloads.
type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(data []byte) (T, error)
}

// JSONCodec encodes values as JSON.
type JSONCodec[T any] struct{}

func (JSONCodec[T]) Encode(v T) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec[T]) Decode(data []byte) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}

// StringCodec passes payloads through as strings.
type StringCodec struct{}

func (StringCodec) Encode(v string) ([]byte, error) {
	return []byte(v), nil
}

func (StringCodec) Decode(data []byte) (string, error) {
	return string(data), nil
}
