package layout

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"defi-reader-sol/internal/types"
)

// Encode 是 Decode 的逆过程，缺失的字段按 0 值写入（vec 写入空计数）；
// 设置了 discriminator 且首字段缺失时写入该前缀。
// 主要用于构造测试数据与 round-trip 校验。
func (l *Layout) Encode(v Values) ([]byte, error) {
	if len(l.Discriminator) > 0 && len(l.Fields) > 0 && v[l.Fields[0].Name] == nil {
		tagged := make(Values, len(v)+1)
		for k, x := range v {
			tagged[k] = x
		}
		tagged[l.Fields[0].Name] = l.Discriminator
		v = tagged
	}
	size := l.span
	if size < 0 {
		size = l.minSpan
	}
	w := &writer{layout: l.Name, buf: make([]byte, 0, size)}
	if err := w.writeFields(l.Fields, v, ""); err != nil {
		return nil, err
	}
	return w.buf, nil
}

// MustEncode 编码失败时 panic，仅用于测试夹具
func (l *Layout) MustEncode(v Values) []byte {
	b, err := l.Encode(v)
	if err != nil {
		panic(err)
	}
	return b
}

type writer struct {
	layout string
	buf    []byte
}

func (w *writer) fail(path, format string, args ...any) error {
	return &EncodeError{Layout: w.layout, Field: path, Reason: fmt.Sprintf(format, args...)}
}

func (w *writer) writeFields(fields []Field, v Values, prefix string) error {
	for _, f := range fields {
		path := f.Name
		if prefix != "" {
			path = prefix + "." + f.Name
		}
		if err := w.write(f.Kind, v[f.Name], path); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) write(k Kind, val any, path string) error {
	switch k.code {
	case codeStruct:
		sub, _ := val.(Values)
		if m, ok := val.(map[string]any); ok {
			sub = m
		}
		return w.writeFields(k.fields, sub, path)
	case codeArray:
		items, err := asList(val)
		if err != nil {
			return w.fail(path, "%v", err)
		}
		if len(items) > k.n {
			return w.fail(path, "array has %d items, layout allows %d", len(items), k.n)
		}
		for i := 0; i < k.n; i++ {
			var item any
			if i < len(items) {
				item = items[i]
			}
			if err := w.write(*k.elem, item, path); err != nil {
				return err
			}
		}
		return nil
	case codeVec:
		items, err := asList(val)
		if err != nil {
			return w.fail(path, "%v", err)
		}
		w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(len(items)))
		for _, item := range items {
			if err := w.write(*k.elem, item, path); err != nil {
				return err
			}
		}
		return nil
	case codeBool:
		b, _ := val.(bool)
		if b {
			w.buf = append(w.buf, 1)
		} else {
			w.buf = append(w.buf, 0)
		}
		return nil
	case codePubkey:
		p, _ := val.(types.Pubkey)
		w.buf = append(w.buf, p[:]...)
		return nil
	case codeBlob:
		b, _ := val.([]byte)
		if len(b) > k.n {
			return w.fail(path, "blob has %d bytes, layout allows %d", len(b), k.n)
		}
		w.buf = append(w.buf, b...)
		w.buf = append(w.buf, make([]byte, k.n-len(b))...)
		return nil
	case codeU128, codeU256:
		return w.writeBig(k.width(), val, path)
	case codeI64:
		n, ok := asInt64(val)
		if !ok {
			return w.fail(path, "unsupported value %T", val)
		}
		w.buf = binary.LittleEndian.AppendUint64(w.buf, uint64(n))
		return nil
	}

	n, ok := asUint64(val)
	if !ok {
		return w.fail(path, "unsupported value %T", val)
	}
	width := k.width()
	if width < 8 && n>>(uint(width)*8) != 0 {
		return w.fail(path, "value %d overflows %d bytes", n, width)
	}
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], n)
	w.buf = append(w.buf, tmp[:width]...)
	return nil
}

func (w *writer) writeBig(width int, val any, path string) error {
	var x *big.Int
	switch t := val.(type) {
	case nil:
		x = new(big.Int)
	case *big.Int:
		x = t
	default:
		n, ok := asUint64(val)
		if !ok {
			return w.fail(path, "unsupported value %T", val)
		}
		x = new(big.Int).SetUint64(n)
	}
	if x.Sign() < 0 || x.BitLen() > width*8 {
		return w.fail(path, "value %s out of range for %d bytes", x, width)
	}
	be := x.FillBytes(make([]byte, width))
	for i := len(be) - 1; i >= 0; i-- {
		w.buf = append(w.buf, be[i])
	}
	return nil
}

func asList(val any) ([]any, error) {
	switch t := val.(type) {
	case nil:
		return nil, nil
	case []any:
		return t, nil
	case []Values:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, nil
	case []uint64:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, nil
	case []types.Pubkey:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, nil
	case []byte:
		out := make([]any, len(t))
		for i := range t {
			out[i] = uint64(t[i])
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported list value %T", val)
}

func asUint64(val any) (uint64, bool) {
	switch t := val.(type) {
	case nil:
		return 0, true
	case uint64:
		return t, true
	case uint32:
		return uint64(t), true
	case uint16:
		return uint64(t), true
	case uint8:
		return uint64(t), true
	case uint:
		return uint64(t), true
	case int:
		if t < 0 {
			return 0, false
		}
		return uint64(t), true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func asInt64(val any) (int64, bool) {
	switch t := val.(type) {
	case nil:
		return 0, true
	case int64:
		return t, true
	case int:
		return int64(t), true
	case uint64:
		return int64(t), true
	}
	return 0, false
}
