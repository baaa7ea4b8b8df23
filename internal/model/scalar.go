package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Scalar 上游字段类型不稳定（id/odds/handicap 有时是数字有时是字符串），统一按文本保存
type Scalar struct {
	Value string
	Valid bool // false 表示字段缺失或为 null
}

// NewScalar 构造一个有效值
func NewScalar(s string) Scalar {
	return Scalar{Value: s, Valid: true}
}

// String 缺失时返回空串
func (s Scalar) String() string {
	return s.Value
}

// Present 对齐上游"真值"判断：缺失、null、空串都视为不存在
func (s Scalar) Present() bool {
	return s.Valid && s.Value != ""
}

func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = Scalar{}
		return nil
	}
	switch data[0] {
	case '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = NewScalar(str)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		if !b {
			// false 在上游里等同于缺失
			*s = Scalar{}
			return nil
		}
		*s = NewScalar(strconv.FormatBool(b))
	case '{', '[':
		return fmt.Errorf("scalar: 不支持的 JSON 类型: %s", string(data[:1]))
	default:
		// 数字保留原始文本，避免 float64 精度问题
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*s = NewScalar(n.String())
	}
	return nil
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}
