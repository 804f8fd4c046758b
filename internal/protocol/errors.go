package protocol

import (
	"errors"
	"fmt"

	"defi-reader-sol/internal/types"
)

var (
	// ErrNotFound 显式请求的基础账户或用户账户不存在
	ErrNotFound = errors.New("account not found")
	// ErrMissingContext 用户维度的解码缺少用户地址
	ErrMissingContext = errors.New("missing decode context")
)

// NotFoundError 记录缺失账户的类型和地址
type NotFoundError struct {
	Kind    string
	Address types.Pubkey
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Kind, e.Address, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func NotFound(kind string, address types.Pubkey) error {
	return &NotFoundError{Kind: kind, Address: address}
}

// MissingContextError 用户维度解码时缺少的上下文字段
type MissingContextError struct {
	Kind  string
	Field string
}

func (e *MissingContextError) Error() string {
	return fmt.Sprintf("parse %s: %s not provided: %s", e.Kind, e.Field, ErrMissingContext)
}

func (e *MissingContextError) Unwrap() error {
	return ErrMissingContext
}

func MissingContext(kind, field string) error {
	return &MissingContextError{Kind: kind, Field: field}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
