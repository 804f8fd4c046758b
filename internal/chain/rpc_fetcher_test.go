package chain

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"defi-reader-sol/internal/types"
	"defi-reader-sol/internal/utils"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugawarayuuta/sonnet"
)

func key(tag string) types.Pubkey {
	return types.Pubkey(sha256.Sum256([]byte(tag)))
}

type rpcRequest struct {
	Method string `json:"method"`
	Params []any  `json:"params"`
}

// fakeNode 最小化的 Solana JSON-RPC 节点，只实现账户读取相关方法
type fakeNode struct {
	mu       sync.Mutex
	accounts map[string][]byte
	programs map[string][]string
	rejected map[string]bool // 对这些 program 返回 JSON-RPC error

	calls   map[string]int
	chunks  [][]string
	filters []any
}

func newFakeNode() *fakeNode {
	return &fakeNode{
		accounts: map[string][]byte{},
		programs: map[string][]string{},
		rejected: map[string]bool{},
		calls:    map[string]int{},
	}
}

func (n *fakeNode) put(program, address types.Pubkey, data []byte) {
	n.accounts[address.String()] = data
	n.programs[program.String()] = append(n.programs[program.String()], address.String())
}

func (n *fakeNode) callCount(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[method]
}

func accountJSON(data []byte) map[string]any {
	return map[string]any{
		"lamports":   1,
		"owner":      "11111111111111111111111111111111",
		"data":       []any{base64.StdEncoding.EncodeToString(data), "base64"},
		"executable": false,
		"rentEpoch":  0,
	}
}

func matchFilters(data []byte, filters []any) bool {
	for _, raw := range filters {
		f, _ := raw.(map[string]any)
		if size, ok := f["dataSize"].(float64); ok && len(data) != int(size) {
			return false
		}
		if mc, ok := f["memcmp"].(map[string]any); ok {
			offset := int(mc["offset"].(float64))
			want, err := base58.Decode(mc["bytes"].(string))
			if err != nil || offset+len(want) > len(data) || !bytes.Equal(data[offset:offset+len(want)], want) {
				return false
			}
		}
	}
	return true
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var req rpcRequest
	if err := sonnet.Unmarshal(body, &req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls[req.Method]++

	resp := map[string]any{"jsonrpc": "2.0", "id": 1}
	switch req.Method {
	case "getProgramAccounts":
		program := req.Params[0].(string)
		if n.rejected[program] {
			resp["error"] = map[string]any{"code": -32602, "message": "invalid params"}
			break
		}
		cfg, _ := req.Params[1].(map[string]any)
		filters, _ := cfg["filters"].([]any)
		n.filters = filters
		result := []any{}
		for _, addr := range n.programs[program] {
			if data := n.accounts[addr]; matchFilters(data, filters) {
				result = append(result, map[string]any{"pubkey": addr, "account": accountJSON(data)})
			}
		}
		resp["result"] = result
	case "getMultipleAccounts":
		var chunk []string
		value := []any{}
		for _, raw := range req.Params[0].([]any) {
			addr := raw.(string)
			chunk = append(chunk, addr)
			if data, ok := n.accounts[addr]; ok {
				value = append(value, accountJSON(data))
			} else {
				value = append(value, nil)
			}
		}
		n.chunks = append(n.chunks, chunk)
		resp["result"] = map[string]any{"context": map[string]any{"slot": 1}, "value": value}
	case "getAccountInfo":
		var value any
		if data, ok := n.accounts[req.Params[0].(string)]; ok {
			value = accountJSON(data)
		}
		resp["result"] = map[string]any{"context": map[string]any{"slot": 1}, "value": value}
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}

	out, _ := sonnet.Marshal(resp)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(out)
}

func newTestFetcher(t *testing.T, node *fakeNode, batchSize int) *RPCFetcher {
	srv := httptest.NewServer(node)
	t.Cleanup(srv.Close)
	f, err := NewRPCFetcher(RPCOption{
		Endpoint:  srv.URL,
		Timeout:   time.Second,
		BatchSize: batchSize,
		Retry:     utils.RetryOption{Attempts: 3, Delay: time.Millisecond},
	}, nil)
	require.NoError(t, err)
	return f
}

func farmerBytes(owner types.Pubkey) []byte {
	data := make([]byte, 106)
	copy(data[34:], owner[:])
	return data
}

func TestToRPCFilters(t *testing.T) {
	owner := []byte{1, 2, 3, 4}
	filters := toRPCFilters([]Filter{DataSize(106), Memcmp(34, owner), {}})
	require.Len(t, filters, 2)

	assert.Equal(t, uint64(106), filters[0].DataSize)
	assert.Nil(t, filters[0].MemCmp)

	require.NotNil(t, filters[1].MemCmp)
	assert.Equal(t, uint64(34), filters[1].MemCmp.Offset)
	assert.Equal(t, base58.Encode(owner), filters[1].MemCmp.Bytes)
}

func TestNewRPCFetcherDefaults(t *testing.T) {
	_, err := NewRPCFetcher(RPCOption{}, nil)
	assert.Error(t, err)

	f, err := NewRPCFetcher(RPCOption{Endpoint: "http://127.0.0.1:8899", BatchSize: 1000}, nil)
	require.NoError(t, err)
	assert.Equal(t, defaultBatchSize, f.batchSize)
	assert.Equal(t, defaultTimeout, f.timeout)
}

func TestRPCFetcherListAccountsWithFilters(t *testing.T) {
	program, user := key("program"), key("user")
	node := newFakeNode()
	node.put(program, key("mine"), farmerBytes(user))
	node.put(program, key("other"), farmerBytes(key("someone")))
	node.put(program, key("short"), make([]byte, 50))
	node.put(program, key("empty"), []byte{})
	f := newTestFetcher(t, node, 0)

	accounts, err := f.ListAccounts(context.Background(), program, DataSize(106), Memcmp(34, user[:]))
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, key("mine"), accounts[0].Address)
	assert.Equal(t, farmerBytes(user), accounts[0].Data)

	// 过滤条件按 RPC 格式发送：dataSize 与 memcmp（base58）
	require.Len(t, node.filters, 2)
	assert.Equal(t, float64(106), node.filters[0].(map[string]any)["dataSize"])
	memcmp := node.filters[1].(map[string]any)["memcmp"].(map[string]any)
	assert.Equal(t, float64(34), memcmp["offset"])
	assert.Equal(t, user.String(), memcmp["bytes"])

	// 无过滤时返回全部非空账户
	all, err := f.ListAccounts(context.Background(), program)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRPCFetcherListAccountsRPCErrorNotRetried(t *testing.T) {
	program := key("program")
	node := newFakeNode()
	node.rejected[program.String()] = true
	f := newTestFetcher(t, node, 0)

	_, err := f.ListAccounts(context.Background(), program, DataSize(1))
	require.Error(t, err)
	assert.True(t, utils.IsPermanent(err))
	assert.Equal(t, 1, node.callCount("getProgramAccounts"))
}

func TestRPCFetcherGetAccountsChunksAndKeepsOrder(t *testing.T) {
	program := key("program")
	node := newFakeNode()
	addrs := []types.Pubkey{key("a1"), key("missing"), key("a3"), key("a4"), key("a5")}
	for i, addr := range addrs {
		if addr == key("missing") {
			continue
		}
		node.put(program, addr, []byte{byte(i + 1), 0xAA})
	}
	f := newTestFetcher(t, node, 2)

	out, err := f.GetAccounts(context.Background(), addrs)
	require.NoError(t, err)
	require.Len(t, out, len(addrs))
	assert.Equal(t, []byte{1, 0xAA}, out[0])
	assert.Nil(t, out[1])
	assert.Equal(t, []byte{3, 0xAA}, out[2])
	assert.Equal(t, []byte{4, 0xAA}, out[3])
	assert.Equal(t, []byte{5, 0xAA}, out[4])

	require.Len(t, node.chunks, 3)
	assert.Equal(t, types.PubkeyStrings(addrs[0:2]), node.chunks[0])
	assert.Equal(t, types.PubkeyStrings(addrs[2:4]), node.chunks[1])
	assert.Equal(t, types.PubkeyStrings(addrs[4:5]), node.chunks[2])

	empty, err := f.GetAccounts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Equal(t, 3, node.callCount("getMultipleAccounts"))
}

func TestRPCFetcherGetAccount(t *testing.T) {
	node := newFakeNode()
	node.put(key("program"), key("present"), []byte{7, 8, 9})
	f := newTestFetcher(t, node, 0)

	data, ok, err := f.GetAccount(context.Background(), key("present"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte{7, 8, 9}, data)

	data, ok, err = f.GetAccount(context.Background(), key("absent"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}
