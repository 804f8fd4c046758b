package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tokenProgram = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

func TestPubkeyBase58RoundTrip(t *testing.T) {
	p, err := TryPubkeyFromBase58(tokenProgram)
	require.NoError(t, err)
	assert.Equal(t, tokenProgram, p.String())
	assert.False(t, p.IsZero())
}

func TestTryPubkeyFromBase58Rejects(t *testing.T) {
	_, err := TryPubkeyFromBase58("0OIl")
	assert.Error(t, err)

	// 合法 base58 但长度不是 32
	_, err = TryPubkeyFromBase58("3mJr7AoUXx2Wqd")
	assert.Error(t, err)
}

func TestPubkeyJSONText(t *testing.T) {
	var v struct {
		Key Pubkey `json:"key"`
	}
	v.Key = PubkeyFromBase58(tokenProgram)

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"`+tokenProgram+`"}`, string(raw))

	var back struct {
		Key Pubkey `json:"key"`
	}
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, v.Key, back.Key)
}

func TestPubkeyFromBase58Panics(t *testing.T) {
	assert.Panics(t, func() { PubkeyFromBase58("bad") })
}
