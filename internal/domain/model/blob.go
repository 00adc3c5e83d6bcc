package model

import (
	"encoding/json"
	"errors"
)

var ErrBlobNotObject = errors.New("blob must be a JSON object")

// 配送先・支払い情報など、中身を解釈しないJSONオブジェクト。
// DBにはJSON文字列で保存する。
type Blob map[string]any

func (b *Blob) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*b = nil
	case map[string]any:
		*b = Blob(t)
	default:
		return ErrBlobNotObject
	}
	return nil
}

// nilは空オブジェクトとして扱う
func (b Blob) OrEmpty() Blob {
	if b == nil {
		return Blob{}
	}
	return b
}
