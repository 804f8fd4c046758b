package dispatcher

import (
	"fmt"

	"defi-reader-sol/internal/consts"
	"defi-reader-sol/internal/logic/decoder"
	"defi-reader-sol/internal/mq"
	"defi-reader-sol/internal/types"
	"defi-reader-sol/internal/utils"
)

// snapshotEnvelope 写入 Kafka 的快照结构，record 为协议解码结果
type snapshotEnvelope struct {
	ChainID  uint32       `json:"chainId"`
	Protocol string       `json:"protocol"`
	Kind     string       `json:"kind"`
	Address  types.Pubkey `json:"address"`
	Slot     uint64       `json:"slot"`
	Record   any          `json:"record"`
}

// BuildSnapshotJob 编码单个快照，分区按账户地址哈希选择，同一账户始终落在同一分区
func BuildSnapshotJob(topic string, partitions int, snap decoder.Snapshot) (*mq.KafkaJob, error) {
	if partitions <= 0 {
		partitions = 1
	}
	value, err := utils.EncodeSnapshot(uint32(snap.Kind), snapshotEnvelope{
		ChainID:  consts.ChainIDSolana,
		Protocol: consts.ProtocolName(snap.Protocol),
		Kind:     snap.Kind.String(),
		Address:  snap.Address,
		Slot:     snap.Slot,
		Record:   snap.Record,
	})
	if err != nil {
		return nil, fmt.Errorf("encode snapshot %s %s: %w", snap.Kind, snap.Address, err)
	}
	return &mq.KafkaJob{
		Topic:     topic,
		Partition: int32(utils.PartitionHashBytes(snap.Address[:], uint32(partitions))),
		Key:       snap.Address[:],
		Value:     value,
	}, nil
}
