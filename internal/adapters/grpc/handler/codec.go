package handler

import (
	"encoding/json"
	"errors"
	"unicode/utf8"

	"google.golang.org/grpc/encoding"
)

// CodecName は WorkerService のメッセージを運ぶコーデックの content-subtype です。
const CodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal は不正な UTF-8 を U+FFFD に置き換えずに拒否します。
func (jsonCodec) Unmarshal(data []byte, v any) error {
	if !utf8.Valid(data) {
		return errors.New("json codec: message is not valid UTF-8")
	}
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
