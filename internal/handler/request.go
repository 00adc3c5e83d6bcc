package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// 旧クライアントは数値を文字列で送ることがある
var errNotInteger = errors.New("must be an integer")

// 商品ID。"p1" でも 1 でも受け付ける
type productRef string

func (p *productRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = productRef(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = productRef(n.String())
	return nil
}

// 整数。3 / "3" / 3.0 を受け付け、3.5 や "abc" はエラー
type flexInt struct {
	Value int64
	Set   bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = flexInt{}
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*f = flexInt{Value: v, Set: true}
		return nil
	}
	fv, err := strconv.ParseFloat(raw, 64)
	if err != nil || fv != float64(int64(fv)) {
		return errNotInteger
	}
	*f = flexInt{Value: int64(fv), Set: true}
	return nil
}

func (f flexInt) ptr() *int64 {
	if !f.Set {
		return nil
	}
	v := f.Value
	return &v
}
