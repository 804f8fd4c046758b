package layout

import (
	"errors"
	"fmt"
)

// ErrDecode 所有解码失败的哨兵错误，使用 errors.Is 判断
var ErrDecode = errors.New("layout decode error")

// DecodeError 描述解码失败的位置：数据过短，或 vec 计数超出剩余字节
type DecodeError struct {
	Layout string
	Field  string
	Offset int
	Need   int
	Have   int
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: decode %s.%s at offset %d: %s", ErrDecode, e.Layout, e.Field, e.Offset, e.Reason)
	}
	return fmt.Sprintf("%s: decode %s.%s at offset %d: need %d bytes, have %d",
		ErrDecode, e.Layout, e.Field, e.Offset, e.Need, e.Have)
}

func (e *DecodeError) Unwrap() error {
	return ErrDecode
}

// EncodeError 编码时字段值类型或范围不匹配
type EncodeError struct {
	Layout string
	Field  string
	Reason string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("layout encode %s.%s: %s", e.Layout, e.Field, e.Reason)
}
