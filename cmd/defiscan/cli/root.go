package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"defi-reader-sol/internal/config"
	"defi-reader-sol/internal/protocol"
	"defi-reader-sol/internal/svc"
	"defi-reader-sol/internal/types"

	"github.com/spf13/cobra"
	"github.com/sugawarayuuta/sonnet"
)

const defaultConfigPath = "etc/defiscan.yaml"

var (
	cfgPath    string
	pageNumber int
	pageSize   int
)

// NewRootCmd 构建完整命令树
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "defiscan",
		Short:         "读取 Solana DeFi 协议账户并输出 JSON lines",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "f", defaultConfigPath, "the config file")
	root.PersistentFlags().IntVar(&pageNumber, "page", 0, "页码（从 1 开始），0 表示不分页")
	root.PersistentFlags().IntVar(&pageSize, "size", 50, "每页条数")

	root.AddCommand(
		VaultsCmd(), DepositorsCmd(), WithdrawersCmd(),
		PoolsCmd(), FarmsCmd(), FarmersCmd(),
		LidoCmd(), LifinityCmd(), NftCmd(),
		WatchCmd(),
	)
	return root
}

func Setup() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

func GetConfigPath() string {
	return cfgPath
}

func currentPage() *protocol.Page {
	if pageNumber <= 0 {
		return nil
	}
	return &protocol.Page{Number: pageNumber, Size: pageSize}
}

type runFunc func(ctx context.Context, sc *svc.ServiceContext, out *lineWriter) error

// withContext 加载配置并构造 ServiceContext，命令结束后释放
func withContext(run runFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		c, err := config.Load(GetConfigPath())
		if err != nil {
			return err
		}
		sc, err := svc.NewServiceContext(c)
		if err != nil {
			return err
		}
		defer sc.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return run(ctx, sc, &lineWriter{w: cmd.OutOrStdout()})
	}
}

// lineWriter 每条记录一行 JSON
type lineWriter struct {
	w io.Writer
}

func (l *lineWriter) write(v any) error {
	b, err := sonnet.Marshal(v)
	if err != nil {
		return err
	}
	_, err = l.w.Write(append(b, '\n'))
	return err
}

func writeAll[T any](l *lineWriter, items []T) error {
	for _, item := range items {
		if err := l.write(item); err != nil {
			return err
		}
	}
	return nil
}

func parseKey(flag, value string) (types.Pubkey, error) {
	key, err := types.TryPubkeyFromBase58(value)
	if err != nil {
		return types.Pubkey{}, fmt.Errorf("--%s: %w", flag, err)
	}
	return key, nil
}
