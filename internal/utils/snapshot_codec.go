package utils

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/sugawarayuuta/sonnet"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const kindPrefixLen = 4

var ErrShortSnapshot = errors.New("snapshot shorter than kind prefix")

// EncodeSnapshot 将解码后的记录编码为带类型前缀的二进制数据：
// - 前 4 字节为快照类型（uint32，小端序）
// - 后续为 structpb.Struct 的确定性 protobuf 编码
// record 先按 json tag 转为对象，数值统一为 float64。
func EncodeSnapshot(kind uint32, record any) ([]byte, error) {
	st, err := toStruct(record)
	if err != nil {
		return nil, fmt.Errorf("EncodeSnapshot: %T: %w", record, err)
	}

	buf := make([]byte, kindPrefixLen, kindPrefixLen+proto.Size(st))
	binary.LittleEndian.PutUint32(buf, kind)

	opts := proto.MarshalOptions{Deterministic: true}
	out, err := opts.MarshalAppend(buf, st)
	if err != nil {
		return nil, fmt.Errorf("EncodeSnapshot: marshal: %w", err)
	}
	return out, nil
}

// DecodeSnapshot EncodeSnapshot 的逆过程
func DecodeSnapshot(data []byte) (uint32, *structpb.Struct, error) {
	if len(data) < kindPrefixLen {
		return 0, nil, ErrShortSnapshot
	}
	st := &structpb.Struct{}
	if err := proto.Unmarshal(data[kindPrefixLen:], st); err != nil {
		return 0, nil, fmt.Errorf("DecodeSnapshot: %w", err)
	}
	return binary.LittleEndian.Uint32(data[:kindPrefixLen]), st, nil
}

func toStruct(record any) (*structpb.Struct, error) {
	raw, err := sonnet.Marshal(record)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := sonnet.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return structpb.NewStruct(fields)
}
