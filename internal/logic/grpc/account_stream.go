package grpc

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"defi-reader-sol/internal/types"
	"defi-reader-sol/pkg/logger"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/metadata"
)

// StreamOption Geyser 连接参数
type StreamOption struct {
	Endpoint string
	XToken   string

	StreamPingInterval time.Duration // 应用层 ping 间隔
	KeepaliveInterval  time.Duration // 底层 keepalive 间隔
	KeepaliveTimeout   time.Duration

	InitialWindowSize     int32
	InitialConnWindowSize int32
	MaxCallSendMsgSize    int
	MaxCallRecvMsgSize    int

	ReconnectInterval  time.Duration
	ConnectTimeout     time.Duration
	SendTimeout        time.Duration
	AccountRecvTimeout time.Duration // 超过该时长未收到账户更新则重连，0 表示不检测
}

// AccountStreamManager 订阅指定 owner 的账户更新并写入 updates，断线自动重连
type AccountStreamManager struct {
	opt     StreamOption
	owners  []string
	updates chan<- *types.AccountUpdate

	conn   *grpc.ClientConn
	client pb.GeyserClient

	mu      sync.Mutex
	stopped bool
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewAccountStreamManager(opt StreamOption, owners []types.Pubkey, updates chan<- *types.AccountUpdate) (*AccountStreamManager, error) {
	if len(owners) == 0 {
		return nil, errors.New("account stream: no owner programs")
	}
	applyStreamDefaults(&opt)

	dialCtx, cancel := context.WithTimeout(context.Background(), opt.ConnectTimeout)
	defer cancel()

	conn, err := grpc.DialContext(
		dialCtx,
		opt.Endpoint,
		grpc.WithTransportCredentials(credentials.NewTLS(&tls.Config{InsecureSkipVerify: true})),
		grpc.WithInitialWindowSize(opt.InitialWindowSize),
		grpc.WithInitialConnWindowSize(opt.InitialConnWindowSize),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallSendMsgSize(opt.MaxCallSendMsgSize),
			grpc.MaxCallRecvMsgSize(opt.MaxCallRecvMsgSize),
		),
		grpc.WithBlock(),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                opt.KeepaliveInterval,
			Timeout:             opt.KeepaliveTimeout,
			PermitWithoutStream: true,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	return &AccountStreamManager{
		opt:     opt,
		owners:  types.PubkeyStrings(owners),
		updates: updates,
		conn:    conn,
		client:  pb.NewGeyserClient(conn),
		ctx:     ctx,
		cancel:  stop,
	}, nil
}

func applyStreamDefaults(opt *StreamOption) {
	if opt.StreamPingInterval <= 0 {
		opt.StreamPingInterval = 10 * time.Second
	}
	if opt.KeepaliveInterval <= 0 {
		opt.KeepaliveInterval = 30 * time.Second
	}
	if opt.KeepaliveTimeout <= 0 {
		opt.KeepaliveTimeout = 10 * time.Second
	}
	if opt.InitialWindowSize <= 0 {
		opt.InitialWindowSize = 1 << 30
	}
	if opt.InitialConnWindowSize <= 0 {
		opt.InitialConnWindowSize = 1 << 30
	}
	if opt.MaxCallSendMsgSize <= 0 {
		opt.MaxCallSendMsgSize = 64 * 1024 * 1024
	}
	if opt.MaxCallRecvMsgSize <= 0 {
		opt.MaxCallRecvMsgSize = 64 * 1024 * 1024
	}
	if opt.ReconnectInterval <= 0 {
		opt.ReconnectInterval = 2 * time.Second
	}
	if opt.ConnectTimeout <= 0 {
		opt.ConnectTimeout = 10 * time.Second
	}
	if opt.SendTimeout <= 0 {
		opt.SendTimeout = 5 * time.Second
	}
}

// Start 阻塞运行直到 Stop
func (m *AccountStreamManager) Start() {
	attempts := 0
	for {
		if m.ctx.Err() != nil {
			return
		}
		if attempts > 0 {
			wait := m.opt.ReconnectInterval
			if attempts > 3 {
				wait *= 2
			}
			select {
			case <-time.After(wait):
			case <-m.ctx.Done():
				return
			}
		}
		attempts++
		logger.Infof("[AccountStream] connecting, attempt %d", attempts)

		received, err := m.runOnce()
		if received {
			attempts = 1
		}
		if m.ctx.Err() != nil {
			return
		}
		logger.Warnf("[AccountStream] stream ended: %v, will reconnect", err)
	}
}

func (m *AccountStreamManager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return
	}
	m.stopped = true
	m.cancel()
	if m.conn != nil {
		_ = m.conn.Close()
	}
}

// runOnce 建立一次订阅并持续接收，返回是否收到过账户更新
func (m *AccountStreamManager) runOnce() (bool, error) {
	connCtx, cancel := context.WithCancel(m.ctx)
	defer cancel()

	metaCtx := metadata.NewOutgoingContext(connCtx, metadata.New(map[string]string{"x-token": m.opt.XToken}))
	stream, err := m.client.Subscribe(metaCtx)
	if err != nil {
		return false, fmt.Errorf("subscribe: %w", err)
	}
	if err := sendWithTimeout(connCtx, stream.Send, buildSubscribeRequest(m.owners), m.opt.SendTimeout); err != nil {
		return false, fmt.Errorf("send subscribe request: %w", err)
	}
	logger.Infof("[AccountStream] subscribed to %d owner programs", len(m.owners))

	go m.pingLoop(connCtx, stream)
	watchdog := m.startWatchdog(connCtx, cancel)

	received := false
	for {
		update, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return received, errors.New("closed by server (EOF)")
			}
			return received, err
		}
		acc, ok := update.GetUpdateOneof().(*pb.SubscribeUpdate_Account)
		if !ok {
			continue
		}
		u, ok := toAccountUpdate(acc.Account)
		if !ok {
			continue
		}
		received = true
		watchdog.touch()

		select {
		case m.updates <- u:
		case <-connCtx.Done():
			return received, connCtx.Err()
		}
	}
}

func buildSubscribeRequest(owners []string) *pb.SubscribeRequest {
	commitment := pb.CommitmentLevel_CONFIRMED
	return &pb.SubscribeRequest{
		Accounts: map[string]*pb.SubscribeRequestFilterAccounts{
			"accounts": {Owner: owners},
		},
		Commitment: &commitment,
	}
}

func toAccountUpdate(acc *pb.SubscribeUpdateAccount) (*types.AccountUpdate, bool) {
	if acc == nil || acc.Account == nil {
		return nil, false
	}
	address, err := types.PubkeyFromBytes(acc.Account.Pubkey)
	if err != nil {
		return nil, false
	}
	owner, err := types.PubkeyFromBytes(acc.Account.Owner)
	if err != nil {
		return nil, false
	}
	return &types.AccountUpdate{
		Slot:      acc.Slot,
		Address:   address,
		Owner:     owner,
		Data:      acc.Account.Data,
		IsStartup: acc.IsStartup,
	}, true
}

// 心跳：失败只记录日志，断线由 Recv 发现
func (m *AccountStreamManager) pingLoop(ctx context.Context, stream pb.Geyser_SubscribeClient) {
	ticker := time.NewTicker(m.opt.StreamPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			req := &pb.SubscribeRequest{Ping: &pb.SubscribeRequestPing{Id: 1}}
			if err := sendWithTimeout(ctx, stream.Send, req, m.opt.SendTimeout); err != nil {
				logger.Warnf("[AccountStream] ping failed: %v", err)
			}
		}
	}
}

type watchdog struct {
	mu   sync.Mutex
	last time.Time
}

func (w *watchdog) touch() {
	w.mu.Lock()
	w.last = time.Now()
	w.mu.Unlock()
}

func (w *watchdog) idle() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return time.Since(w.last)
}

// startWatchdog 超过 AccountRecvTimeout 未收到更新时取消当前连接
func (m *AccountStreamManager) startWatchdog(ctx context.Context, cancel context.CancelFunc) *watchdog {
	w := &watchdog{last: time.Now()}
	timeout := m.opt.AccountRecvTimeout
	if timeout <= 0 {
		return w
	}
	go func() {
		ticker := time.NewTicker(timeout / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if w.idle() > timeout {
					logger.Warnf("[AccountStream] %v 未收到账户更新，触发重连", timeout)
					cancel()
					return
				}
			}
		}
	}()
	return w
}

// 带超时的 Send
func sendWithTimeout[T any](ctx context.Context, sendFunc func(T) error, req T, timeout time.Duration) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- sendFunc(req)
	}()

	select {
	case <-timeoutCtx.Done():
		return timeoutCtx.Err()
	case err := <-done:
		return err
	}
}
