package cli

import (
	"context"

	"defi-reader-sol/internal/svc"
	"defi-reader-sol/pkg/logger"

	"github.com/spf13/cobra"
	zerosvc "github.com/zeromicro/go-zero/core/service"
)

func WatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "订阅账户更新，解码后发布快照到 Kafka",
		RunE: withContext(func(ctx context.Context, sc *svc.ServiceContext, _ *lineWriter) error {
			if err := sc.Ping(ctx); err != nil {
				return err
			}
			wc, err := sc.NewWatchContext()
			if err != nil {
				return err
			}
			defer wc.Close()

			sg := zerosvc.NewServiceGroup()
			priceSync, err := sc.LoadPrices()
			switch {
			case err != nil:
				logger.Warnf("[Watch] 价格同步未启动: %v", err)
			case priceSync != nil:
				sg.Add(priceSync)
			}
			sg.Add(wc.Dispatcher)
			sg.Add(wc.Stream)

			logger.Infof("[Watch] Starting account stream service")
			go sg.Start()

			// 等待退出信号
			<-ctx.Done()
			logger.Infof("[Watch] Shutting down services...")
			sg.Stop()
			return nil
		}),
	}
}
