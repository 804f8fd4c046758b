package cli

import (
	"context"

	"defi-reader-sol/internal/protocol/lido"
	"defi-reader-sol/internal/protocol/lifinity"
	"defi-reader-sol/internal/svc"

	"github.com/spf13/cobra"
)

type lidoRow struct {
	lido.LidoInfo
	ExchangeRate      string `json:"exchangeRate"`
	TotalStakeBalance uint64 `json:"totalStakeBalance"`
	ActiveValidators  int    `json:"activeValidators"`
}

type ammRow struct {
	lifinity.AmmInfo
	Authority string `json:"authority"`
	SpotPrice string `json:"spotPrice,omitempty"`
}

func LidoCmd() *cobra.Command {
	var state string
	cmd := &cobra.Command{
		Use:   "lido",
		Short: "Lido (Solido) 状态、验证者与兑换率",
		RunE: withContext(func(ctx context.Context, sc *svc.ServiceContext, out *lineWriter) error {
			stateID := sc.Programs.LidoState
			if state != "" {
				key, err := parseKey("state", state)
				if err != nil {
					return err
				}
				stateID = key
			}
			w, err := sc.Lido.GetWrapper(ctx, stateID)
			if err != nil {
				return err
			}
			return out.write(lidoRow{
				LidoInfo:          w.Lido,
				ExchangeRate:      w.ExchangeRate().String(),
				TotalStakeBalance: w.TotalStakeBalance(),
				ActiveValidators:  len(w.ActiveValidators()),
			})
		}),
	}
	cmd.Flags().StringVar(&state, "state", "", "Solido state 账户，默认主网")
	return cmd
}

func LifinityCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "lifinity",
		Short: "Lifinity AMM（含储备与配置）",
		RunE: withContext(func(ctx context.Context, sc *svc.ServiceContext, out *lineWriter) error {
			var wrappers []*lifinity.AmmInfoWrapper
			if id != "" {
				ammID, err := parseKey("id", id)
				if err != nil {
					return err
				}
				w, err := sc.Lifinity.GetWrapper(ctx, ammID)
				if err != nil {
					return err
				}
				wrappers = append(wrappers, w)
			} else {
				all, err := sc.Lifinity.GetAllWrappers(ctx, currentPage())
				if err != nil {
					return err
				}
				wrappers = all
			}

			for _, w := range wrappers {
				row := ammRow{AmmInfo: w.Amm}
				if auth, err := w.Authority(); err == nil {
					row.Authority = auth.String()
				}
				if price, ok := w.SpotPrice(); ok {
					row.SpotPrice = price.String()
				}
				if err := out.write(row); err != nil {
					return err
				}
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&id, "id", "", "AMM 地址")
	return cmd
}
