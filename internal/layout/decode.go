package layout

import (
	"bytes"
	"encoding/binary"
	"math/big"

	"defi-reader-sol/internal/types"
)

// Decode 按布局解码账户数据。
// 数据短于 MinSpan 或 vec 计数超过剩余字节时返回 *DecodeError；
// 设置了 discriminator 时前缀不一致同样返回 *DecodeError。
// span 之后的多余字节忽略（账户可能预分配了更大空间）。
func (l *Layout) Decode(data []byte) (Values, error) {
	if len(data) < l.minSpan {
		return nil, &DecodeError{Layout: l.Name, Field: "*", Need: l.minSpan, Have: len(data)}
	}
	if len(l.Discriminator) > 0 && !bytes.HasPrefix(data, l.Discriminator) {
		return nil, &DecodeError{Layout: l.Name, Field: "discriminator", Reason: "discriminator mismatch"}
	}
	r := &reader{layout: l.Name, data: data}
	return r.readFields(l.Fields, "")
}

type reader struct {
	layout string
	data   []byte
	off    int
}

func (r *reader) take(n int, field string) ([]byte, error) {
	if n < 0 || r.off+n > len(r.data) {
		return nil, &DecodeError{Layout: r.layout, Field: field, Offset: r.off, Need: n, Have: len(r.data) - r.off}
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) readFields(fields []Field, prefix string) (Values, error) {
	out := make(Values, len(fields))
	for _, f := range fields {
		path := f.Name
		if prefix != "" {
			path = prefix + "." + f.Name
		}
		v, err := r.read(f.Kind, path)
		if err != nil {
			return nil, err
		}
		out[f.Name] = v
	}
	return out, nil
}

func (r *reader) read(k Kind, path string) (any, error) {
	switch k.code {
	case codeStruct:
		return r.readFields(k.fields, path)
	case codeArray:
		return r.readList(*k.elem, k.n, path)
	case codeVec:
		raw, err := r.take(4, path)
		if err != nil {
			return nil, err
		}
		count := int(binary.LittleEndian.Uint32(raw))
		elemMin := k.elem.minSpan()
		if elemMin < 1 {
			elemMin = 1
		}
		remaining := len(r.data) - r.off
		if count > remaining/elemMin {
			return nil, &DecodeError{
				Layout: r.layout, Field: path, Offset: r.off - 4,
				Need: count * elemMin, Have: remaining,
				Reason: "vec count exceeds remaining bytes",
			}
		}
		return r.readList(*k.elem, count, path)
	}

	b, err := r.take(k.width(), path)
	if err != nil {
		return nil, err
	}
	switch k.code {
	case codeU8:
		return uint64(b[0]), nil
	case codeU16:
		return uint64(binary.LittleEndian.Uint16(b)), nil
	case codeU32:
		return uint64(binary.LittleEndian.Uint32(b)), nil
	case codeU64:
		return binary.LittleEndian.Uint64(b), nil
	case codeI64:
		return int64(binary.LittleEndian.Uint64(b)), nil
	case codeU128, codeU256:
		return littleEndianBig(b), nil
	case codeBool:
		// 非 0 即 true，兼容旧版本程序写入的非 0/1 标记
		return b[0] != 0, nil
	case codePubkey:
		var p types.Pubkey
		copy(p[:], b)
		return p, nil
	case codeBlob:
		return append([]byte(nil), b...), nil
	}
	return nil, &DecodeError{Layout: r.layout, Field: path, Offset: r.off, Reason: "unknown kind"}
}

func (r *reader) readList(elem Kind, n int, path string) ([]any, error) {
	out := make([]any, 0, n)
	for i := 0; i < n; i++ {
		v, err := r.read(elem, path)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// littleEndianBig 小端字节转换为无符号大整数
func littleEndianBig(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i := range b {
		be[len(b)-1-i] = b[i]
	}
	return new(big.Int).SetBytes(be)
}
