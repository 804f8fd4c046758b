package cli

import (
	"context"
	"fmt"
	"math/big"

	"defi-reader-sol/internal/protocol/orca"
	"defi-reader-sol/internal/svc"
	"defi-reader-sol/pkg/logger"

	"github.com/spf13/cobra"
)

type poolRow struct {
	orca.PoolInfo
	Authority string  `json:"authority"`
	APR       float64 `json:"apr"`
	SwapOut   string  `json:"swapOut,omitempty"`
}

type farmRow struct {
	orca.FarmInfo
	Authority string  `json:"authority"`
	APR       float64 `json:"apr"`
}

func PoolsCmd() *cobra.Command {
	var id, side, amountIn string
	cmd := &cobra.Command{
		Use:   "pools",
		Short: "Orca 池（含储备与 APR），可估算兑换输出",
		RunE: withContext(func(ctx context.Context, sc *svc.ServiceContext, out *lineWriter) error {
			var amount *big.Int
			if amountIn != "" {
				v, ok := new(big.Int).SetString(amountIn, 10)
				if !ok || v.Sign() < 0 {
					return fmt.Errorf("--amount-in: invalid amount %q", amountIn)
				}
				amount = v
			}

			var wrappers []*orca.PoolInfoWrapper
			if id != "" {
				poolID, err := parseKey("id", id)
				if err != nil {
					return err
				}
				w, err := sc.Orca.Pools().GetWrapper(ctx, poolID)
				if err != nil {
					return err
				}
				wrappers = append(wrappers, w)
			} else {
				all, err := sc.Orca.Pools().GetAllWrappers(ctx, currentPage())
				if err != nil {
					return err
				}
				wrappers = all
			}

			for _, w := range wrappers {
				row := poolRow{PoolInfo: w.Pool, APR: w.APR()}
				if auth, err := w.Authority(); err == nil {
					row.Authority = auth.String()
				}
				if amount != nil {
					row.SwapOut = w.SwapOutAmount(side, amount).String()
				}
				if err := out.write(row); err != nil {
					return err
				}
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&id, "id", "", "池地址")
	cmd.Flags().StringVar(&amountIn, "amount-in", "", "输入数量（最小单位）")
	cmd.Flags().StringVar(&side, "side", "coin", "输入方向：coin 或 pc")
	return cmd
}

func FarmsCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "farms",
		Short: "Orca farm（含 double-dip、池与价格关联后的 APR）",
		RunE: withContext(func(ctx context.Context, sc *svc.ServiceContext, out *lineWriter) error {
			// 价格拉取失败只影响 APR
			priceSync, err := sc.LoadPrices()
			if err != nil {
				logger.Warnf("[CLI] 加载 token 价格失败，APR 将为 0: %v", err)
			} else if priceSync != nil {
				defer priceSync.Stop()
			}

			var wrappers []*orca.FarmInfoWrapper
			if id != "" {
				farmID, err := parseKey("id", id)
				if err != nil {
					return err
				}
				w, err := sc.Orca.Farms().GetWrapper(ctx, farmID)
				if err != nil {
					return err
				}
				wrappers = append(wrappers, w)
			} else {
				all, err := sc.Orca.Farms().GetAllWrappers(ctx, currentPage())
				if err != nil {
					return err
				}
				wrappers = all
			}

			for _, w := range wrappers {
				row := farmRow{FarmInfo: w.Farm, APR: w.APR()}
				if auth, err := w.Authority(); err == nil {
					row.Authority = auth.String()
				}
				if err := out.write(row); err != nil {
					return err
				}
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&id, "id", "", "farm 地址")
	return cmd
}

func FarmersCmd() *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "farmers",
		Short: "用户的 Orca farmer 账户",
		RunE: withContext(func(ctx context.Context, sc *svc.ServiceContext, out *lineWriter) error {
			userKey, err := parseKey("user", user)
			if err != nil {
				return err
			}
			items, err := sc.Orca.GetAllFarmers(ctx, userKey)
			if err != nil {
				return err
			}
			return writeAll(out, items)
		}),
	}
	cmd.Flags().StringVar(&user, "user", "", "用户钱包地址")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
