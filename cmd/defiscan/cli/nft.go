package cli

import (
	"context"

	"defi-reader-sol/internal/svc"

	"github.com/spf13/cobra"
)

func NftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nft",
		Short: "NFT Finance 池、farm、miner 与 vault",
	}
	cmd.AddCommand(nftPoolsCmd(), nftFarmsCmd(), nftMinersCmd(), nftVaultsCmd())
	return cmd
}

func nftPoolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pools",
		Short: "全部池（含 rarity）",
		RunE: withContext(func(ctx context.Context, sc *svc.ServiceContext, out *lineWriter) error {
			items, err := sc.NftFinance.GetAllPools(ctx, currentPage())
			if err != nil {
				return err
			}
			return writeAll(out, items)
		}),
	}
}

func nftFarmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "farms",
		Short: "全部 farm",
		RunE: withContext(func(ctx context.Context, sc *svc.ServiceContext, out *lineWriter) error {
			items, err := sc.NftFinance.GetAllFarms(ctx, currentPage())
			if err != nil {
				return err
			}
			return writeAll(out, items)
		}),
	}
}

func nftMinersCmd() *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "miners",
		Short: "用户的 miner 账户",
		RunE: withContext(func(ctx context.Context, sc *svc.ServiceContext, out *lineWriter) error {
			ownerKey, err := parseKey("owner", owner)
			if err != nil {
				return err
			}
			items, err := sc.NftFinance.GetAllMiners(ctx, ownerKey)
			if err != nil {
				return err
			}
			return writeAll(out, items)
		}),
	}
	cmd.Flags().StringVar(&owner, "owner", "", "miner 所有者地址")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func nftVaultsCmd() *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "vaults",
		Short: "用户质押的 NFT vault",
		RunE: withContext(func(ctx context.Context, sc *svc.ServiceContext, out *lineWriter) error {
			userKey, err := parseKey("user", user)
			if err != nil {
				return err
			}
			items, err := sc.NftFinance.GetAllNftVaults(ctx, userKey)
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
