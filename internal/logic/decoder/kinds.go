package decoder

import (
	"defi-reader-sol/internal/layout"
	"defi-reader-sol/internal/protocol/lido"
	"defi-reader-sol/internal/types"
)

// Kind 快照类型，写入消息的 4 字节前缀；高位按协议分段
type Kind uint32

const (
	KindUnknown Kind = 0

	KindFriktionVault             Kind = 101
	KindFriktionRound             Kind = 102
	KindFriktionExtraData         Kind = 103
	KindFriktionPendingDeposit    Kind = 104
	KindFriktionPendingWithdrawal Kind = 105

	KindOrcaPool   Kind = 201
	KindOrcaFarm   Kind = 202
	KindOrcaFarmer Kind = 203

	KindLidoState          Kind = 301
	KindLidoValidatorList  Kind = 302
	KindLidoMaintainerList Kind = 303

	KindLifinityAmm    Kind = 401
	KindLifinityConfig Kind = 402

	KindNftFinancePool     Kind = 501
	KindNftFinanceNftVault Kind = 502
	KindNftFinanceFarm     Kind = 503
	KindNftFinanceMiner    Kind = 504
	KindNftFinanceRarity   Kind = 505
)

var kindNames = map[Kind]string{
	KindFriktionVault:             "friktion.vault",
	KindFriktionRound:             "friktion.round",
	KindFriktionExtraData:         "friktion.extraData",
	KindFriktionPendingDeposit:    "friktion.pendingDeposit",
	KindFriktionPendingWithdrawal: "friktion.pendingWithdrawal",
	KindOrcaPool:                  "orca.pool",
	KindOrcaFarm:                  "orca.farm",
	KindOrcaFarmer:                "orca.farmer",
	KindLidoState:                 "lido.state",
	KindLidoValidatorList:         "lido.validatorList",
	KindLidoMaintainerList:        "lido.maintainerList",
	KindLifinityAmm:               "lifinity.amm",
	KindLifinityConfig:            "lifinity.config",
	KindNftFinancePool:            "nftfinance.pool",
	KindNftFinanceNftVault:        "nftfinance.nftVault",
	KindNftFinanceFarm:            "nftfinance.farm",
	KindNftFinanceMiner:           "nftfinance.miner",
	KindNftFinanceRarity:          "nftfinance.rarity",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// PendingRecord 待处理申购 / 赎回账户。账户本身不含用户地址，流式场景下只输出原始字段
type PendingRecord struct {
	Address     types.Pubkey `json:"address"`
	Initialized bool         `json:"initialized"`
	RoundNumber uint64       `json:"roundNumber"`
	Amount      uint64       `json:"amount"`
}

func parsePending(l *layout.Layout) func([]byte, types.Pubkey) (PendingRecord, error) {
	return func(data []byte, address types.Pubkey) (PendingRecord, error) {
		v, err := l.Decode(data)
		if err != nil {
			return PendingRecord{}, err
		}
		return PendingRecord{
			Address:     address,
			Initialized: v.Bool("initialized"),
			RoundNumber: v.Uint64("roundNumber"),
			Amount:      v.Uint64("amount"),
		}, nil
	}
}

// Solido AccountType 枚举
const (
	lidoAccountState          = 1
	lidoAccountValidatorList  = 2
	lidoAccountMaintainerList = 3
)

type ValidatorListRecord struct {
	Address    types.Pubkey     `json:"address"`
	MaxEntries uint32           `json:"maxEntries"`
	Validators []lido.Validator `json:"validators"`
}

type MaintainerListRecord struct {
	Address     types.Pubkey   `json:"address"`
	MaxEntries  uint32         `json:"maxEntries"`
	Maintainers []types.Pubkey `json:"maintainers"`
}

func isLidoState(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	switch data[0] {
	case 0:
		return len(data) >= lido.StateV1Layout.MinSpan()
	case lidoAccountState:
		return lido.StateV2Layout.Matches(data)
	}
	return false
}

func lidoAccountType(t byte) func([]byte) bool {
	return func(data []byte) bool {
		return len(data) >= lido.ValidatorListLayout.MinSpan() && data[0] == t
	}
}

func parseValidatorList(data []byte, address types.Pubkey) (any, error) {
	validators, limit, err := lido.ParseValidatorList(data)
	if err != nil {
		return nil, err
	}
	return ValidatorListRecord{Address: address, MaxEntries: limit, Validators: validators}, nil
}

func parseMaintainerList(data []byte, address types.Pubkey) (any, error) {
	maintainers, limit, err := lido.ParseMaintainerList(data)
	if err != nil {
		return nil, err
	}
	return MaintainerListRecord{Address: address, MaxEntries: limit, Maintainers: maintainers}, nil
}
