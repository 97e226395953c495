package pillarbox

import "encoding/json"

// Codec serializes queue elements for storage. Decode failures are
// never fatal to the queue: an element whose bytes no longer decode is
// treated as absent and skipped.
type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(b []byte) (T, error)
}

// JSONCodec is the default codec, storing elements as JSON.
type JSONCodec[T any] struct{}

func (JSONCodec[T]) Encode(v T) ([]byte, error) { return json.Marshal(v) }

func (JSONCodec[T]) Decode(b []byte) (T, error) {
	var v T
	err := json.Unmarshal(b, &v)
	return v, err
}

// BytesCodec passes raw bytes through untouched. Used by the CLI and
// callers that do their own framing.
type BytesCodec struct{}

func (BytesCodec) Encode(v []byte) ([]byte, error) { return v, nil }
func (BytesCodec) Decode(b []byte) ([]byte, error) { return b, nil }

// Identifiable is implemented by element types with a stable identity.
// Such elements are keyed by that identity instead of a generated one,
// making Push overwrite-by-identity and enabling Update/RemoveValue.
type Identifiable interface {
	// QueueKey returns the element's stable key. Keys beginning with
	// '!' are reserved for queue bookkeeping and are rejected.
	QueueKey() string
}

// identityKey reports the stable identity of v, if it declares one.
func identityKey[T any](v T) (string, bool) {
	if id, ok := any(v).(Identifiable); ok {
		return id.QueueKey(), true
	}
	return "", false
}
