package stats

import (
	"bytes"
	"strconv"
)

// Number 兼容 API 中以数字或字符串给出的数值，无法解析时为 0
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return err
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = Number(f)
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

func (n Number) Float64() float64 {
	return float64(n)
}

type Period struct {
	Day   Number `json:"day"`
	Week  Number `json:"week"`
	Month Number `json:"month"`
}

// OrcaPoolStats https://api.orca.so/allPools 中的一条，key 为交易对名称
type OrcaPoolStats struct {
	PoolID          string `json:"poolId"`
	PoolAccount     string `json:"poolAccount"`
	TokenAAmount    Number `json:"tokenAAmount"`
	TokenBAmount    Number `json:"tokenBAmount"`
	PoolTokenSupply Number `json:"poolTokenSupply"`
	APY             Period `json:"apy"`
	Volume          Period `json:"volume"`
}

type tokenListEntry struct {
	Mint     string `json:"mint"`
	Symbol   string `json:"symbol"`
	Price    Number `json:"price"`
	Decimals uint8  `json:"decimals"`
}
