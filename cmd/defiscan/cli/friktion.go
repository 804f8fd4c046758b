package cli

import (
	"context"

	"defi-reader-sol/internal/protocol/friktion"
	"defi-reader-sol/internal/svc"

	"github.com/spf13/cobra"
)

type vaultRow struct {
	friktion.VaultInfo
	FeeAccount string `json:"feeAccount,omitempty"`
}

func VaultsCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "vaults",
		Short: "Friktion volt 列表（含 round 与 extraData）",
		RunE: withContext(func(ctx context.Context, sc *svc.ServiceContext, out *lineWriter) error {
			var wrappers []*friktion.VaultInfoWrapper
			if id != "" {
				vaultID, err := parseKey("id", id)
				if err != nil {
					return err
				}
				w, err := sc.Friktion.GetWrapper(ctx, vaultID)
				if err != nil {
					return err
				}
				wrappers = append(wrappers, w)
			} else {
				all, err := sc.Friktion.GetAllWrappers(ctx, currentPage())
				if err != nil {
					return err
				}
				wrappers = all
			}

			for _, w := range wrappers {
				row := vaultRow{VaultInfo: w.Vault}
				if fee, err := w.FeeAccount(); err == nil {
					row.FeeAccount = fee.String()
				}
				if err := out.write(row); err != nil {
					return err
				}
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&id, "id", "", "volt 地址")
	return cmd
}

func DepositorsCmd() *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "depositors",
		Short: "用户在各 volt 的待处理存款",
		RunE: withContext(func(ctx context.Context, sc *svc.ServiceContext, out *lineWriter) error {
			userKey, err := parseKey("user", user)
			if err != nil {
				return err
			}
			items, err := sc.Friktion.GetAllDepositors(ctx, userKey)
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

func WithdrawersCmd() *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "withdrawers",
		Short: "用户在各 volt 的待处理取款",
		RunE: withContext(func(ctx context.Context, sc *svc.ServiceContext, out *lineWriter) error {
			userKey, err := parseKey("user", user)
			if err != nil {
				return err
			}
			items, err := sc.Friktion.GetAllWithdrawers(ctx, userKey)
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
