package layout

import (
	"bytes"
	"crypto/sha256"
)

// Layout 是一种账户类型的声明式二进制布局：有序的 (name, kind) 字段表，
// 由同一个通用解码器解释。新增协议只需要新增布局表。
type Layout struct {
	Name          string
	Fields        []Field
	Discriminator []byte // 可选：账户前缀，用于区分 span 相同的账户类型

	span    int
	minSpan int
}

func New(name string, fields ...Field) *Layout {
	return &Layout{
		Name:    name,
		Fields:  fields,
		span:    fieldsSpan(fields),
		minSpan: fieldsMinSpan(fields),
	}
}

// WithDiscriminator 设置账户前缀（通常为 Anchor 8 字节 discriminator）
func (l *Layout) WithDiscriminator(d []byte) *Layout {
	l.Discriminator = append([]byte(nil), d...)
	return l
}

// Span 定长布局的字节数；包含 vec 的布局返回 -1
func (l *Layout) Span() int {
	return l.span
}

// MinSpan 解码所需的最少字节数
func (l *Layout) MinSpan() int {
	return l.minSpan
}

// IsFixed 是否为定长布局
func (l *Layout) IsFixed() bool {
	return l.span >= 0
}

// Offset 返回顶层字段的固定偏移，字段不存在或位于 vec 之后时返回 -1。
// 用于构造 memcmp 过滤条件（例如 farmer.owner 位于 34）。
func (l *Layout) Offset(name string) int {
	off := 0
	for _, f := range l.Fields {
		if f.Name == name {
			return off
		}
		s := f.Kind.span()
		if s < 0 {
			return -1
		}
		off += s
	}
	return -1
}

// Matches 判断数据是否符合该布局：定长布局要求 span 一致，
// 设置了 discriminator 时还要求前缀一致
func (l *Layout) Matches(data []byte) bool {
	if l.IsFixed() {
		if len(data) != l.span {
			return false
		}
	} else if len(data) < l.minSpan {
		return false
	}
	if len(l.Discriminator) > 0 {
		return bytes.HasPrefix(data, l.Discriminator)
	}
	return true
}

// AnchorDiscriminator 计算 Anchor 账户前缀：sha256("account:<Name>")[:8]
func AnchorDiscriminator(accountName string) []byte {
	sum := sha256.Sum256([]byte("account:" + accountName))
	return sum[:8]
}
