package layout

type code uint8

const (
	codeU8 code = iota + 1
	codeU16
	codeU32
	codeU64
	codeI64
	codeU128
	codeU256
	codeBool
	codePubkey
	codeBlob
	codeArray
	codeStruct
	codeVec
)

// Kind 描述一个字段的二进制类型（定宽整数、地址、定长数组、结构体、变长 vec）
type Kind struct {
	code   code
	n      int     // Blob 的字节数 / Array 的元素个数
	elem   *Kind   // Array / Vec 的元素类型
	fields []Field // Struct 的字段
}

// Field 表示布局中的一个命名字段
type Field struct {
	Name string
	Kind Kind
}

// 基础类型，可直接作为 Array / Vec 的元素
var (
	KU8     = Kind{code: codeU8}
	KU16    = Kind{code: codeU16}
	KU32    = Kind{code: codeU32}
	KU64    = Kind{code: codeU64}
	KI64    = Kind{code: codeI64}
	KU128   = Kind{code: codeU128}
	KU256   = Kind{code: codeU256}
	KBool   = Kind{code: codeBool}
	KPubkey = Kind{code: codePubkey}
)

func KBlob(n int) Kind { return Kind{code: codeBlob, n: n} }

func KArray(elem Kind, n int) Kind { return Kind{code: codeArray, n: n, elem: &elem} }

func KStruct(fields ...Field) Kind { return Kind{code: codeStruct, fields: fields} }

// KVec u32 小端计数 + count 个元素（borsh vec）
func KVec(elem Kind) Kind { return Kind{code: codeVec, elem: &elem} }

// 字段构造函数，用于声明式书写布局表
func U8(name string) Field     { return Field{name, KU8} }
func U16(name string) Field    { return Field{name, KU16} }
func U32(name string) Field    { return Field{name, KU32} }
func U64(name string) Field    { return Field{name, KU64} }
func I64(name string) Field    { return Field{name, KI64} }
func U128(name string) Field   { return Field{name, KU128} }
func U256(name string) Field   { return Field{name, KU256} }
func Bool(name string) Field   { return Field{name, KBool} }
func Pubkey(name string) Field { return Field{name, KPubkey} }

func Blob(name string, n int) Field { return Field{name, KBlob(n)} }

func Array(name string, elem Kind, n int) Field { return Field{name, KArray(elem, n)} }

func Struct(name string, fields ...Field) Field { return Field{name, KStruct(fields...)} }

func Vec(name string, elem Kind) Field { return Field{name, KVec(elem)} }

// width 返回基础定宽类型的字节数，复合类型返回 0
func (k Kind) width() int {
	switch k.code {
	case codeU8, codeBool:
		return 1
	case codeU16:
		return 2
	case codeU32:
		return 4
	case codeU64, codeI64:
		return 8
	case codeU128:
		return 16
	case codeU256, codePubkey:
		return 32
	case codeBlob:
		return k.n
	}
	return 0
}

// span 定长时返回字节数；含 vec 时返回 -1
func (k Kind) span() int {
	switch k.code {
	case codeArray:
		s := k.elem.span()
		if s < 0 {
			return -1
		}
		return s * k.n
	case codeStruct:
		return fieldsSpan(k.fields)
	case codeVec:
		return -1
	}
	return k.width()
}

// minSpan 解码所需的最少字节数，vec 只计 4 字节计数
func (k Kind) minSpan() int {
	switch k.code {
	case codeArray:
		return k.elem.minSpan() * k.n
	case codeStruct:
		return fieldsMinSpan(k.fields)
	case codeVec:
		return 4
	}
	return k.width()
}

func fieldsSpan(fields []Field) int {
	total := 0
	for _, f := range fields {
		s := f.Kind.span()
		if s < 0 {
			return -1
		}
		total += s
	}
	return total
}

func fieldsMinSpan(fields []Field) int {
	total := 0
	for _, f := range fields {
		total += f.Kind.minSpan()
	}
	return total
}
