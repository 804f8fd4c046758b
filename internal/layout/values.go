package layout

import (
	"math/big"

	"defi-reader-sol/internal/types"
)

// Values 是解码结果：字段名 -> 值。
//   - 64 位及以下无符号整数: uint64
//   - i64: int64
//   - u128 / u256: *big.Int
//   - bool: bool
//   - 地址: types.Pubkey
//   - blob: []byte
//   - array / vec: []any
//   - struct: Values
//
// 访问不存在的字段返回 0 值。
type Values map[string]any

func (v Values) Uint64(name string) uint64 {
	x, _ := v[name].(uint64)
	return x
}

func (v Values) Uint32(name string) uint32 { return uint32(v.Uint64(name)) }
func (v Values) Uint16(name string) uint16 { return uint16(v.Uint64(name)) }
func (v Values) Uint8(name string) uint8   { return uint8(v.Uint64(name)) }

func (v Values) Int64(name string) int64 {
	x, _ := v[name].(int64)
	return x
}

// Big 返回 u128 / u256 字段，缺失时返回新的 0 值
func (v Values) Big(name string) *big.Int {
	x, _ := v[name].(*big.Int)
	if x == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(x)
}

func (v Values) Bool(name string) bool {
	x, _ := v[name].(bool)
	return x
}

func (v Values) Pubkey(name string) types.Pubkey {
	x, _ := v[name].(types.Pubkey)
	return x
}

func (v Values) Bytes(name string) []byte {
	x, _ := v[name].([]byte)
	return x
}

func (v Values) Struct(name string) Values {
	x, _ := v[name].(Values)
	if x == nil {
		return Values{}
	}
	return x
}

func (v Values) List(name string) []any {
	x, _ := v[name].([]any)
	return x
}

func (v Values) Uint64s(name string) []uint64 {
	items := v.List(name)
	out := make([]uint64, len(items))
	for i, item := range items {
		out[i], _ = item.(uint64)
	}
	return out
}

// Bytes8 把 u8 数组还原为 []byte
func (v Values) Bytes8(name string) []byte {
	items := v.List(name)
	out := make([]byte, len(items))
	for i, item := range items {
		n, _ := item.(uint64)
		out[i] = byte(n)
	}
	return out
}

func (v Values) Pubkeys(name string) []types.Pubkey {
	items := v.List(name)
	out := make([]types.Pubkey, len(items))
	for i, item := range items {
		out[i], _ = item.(types.Pubkey)
	}
	return out
}

func (v Values) Structs(name string) []Values {
	items := v.List(name)
	out := make([]Values, len(items))
	for i, item := range items {
		out[i], _ = item.(Values)
		if out[i] == nil {
			out[i] = Values{}
		}
	}
	return out
}
