package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bamroute/internal/client"
	"bamroute/internal/regions"
	"bamroute/internal/storage"
)

var sendCmd = &cobra.Command{
	Use:   "send <tx-file>",
	Short: "Submit a signed transaction",
	Long: `Submit a signed transaction file to a BAM region.

Without --region, every region is probed first and the fastest one is
used. The file may contain raw transaction bytes or base64 text; with
--encoding auto the base64 case is detected automatically.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		regionCode, _ := cmd.Flags().GetString("region")
		encoding, _ := cmd.Flags().GetString("encoding")
		wire, _ := cmd.Flags().GetString("wire")
		skipPreflight, _ := cmd.Flags().GetBool("skip-preflight")
		commitment, _ := cmd.Flags().GetString("commitment")
		maxRetries, _ := cmd.Flags().GetInt("max-retries")
		cached, _ := cmd.Flags().GetBool("cached")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read transaction file: %w", err)
		}

		switch encoding {
		case "base64":
			decoded, err := base64.StdEncoding.DecodeString(string(data))
			if err != nil {
				return fmt.Errorf("failed to decode base64 transaction: %w", err)
			}
			data = decoded
		case "auto":
			if decoded, err := base64.StdEncoding.DecodeString(string(data)); err == nil {
				data = decoded
			}
		case "raw":
		default:
			return fmt.Errorf("unknown encoding mode: %s (available: auto, base64, raw)", encoding)
		}

		if regionCode == "" && cached {
			if val, err := appInstance.Storage.GetSetting(ctx, storage.KeyPreferredRegion); err == nil {
				regionCode = val
			}
		}

		r, err := routerFromFlags(cmd)
		if err != nil {
			return err
		}

		c := client.New(client.Config{
			RegionCode: regionCode,
			Router:     r,
			Storage:    appInstance.Storage,
		})

		resp, err := c.SendTransaction(ctx, data, client.SendOptions{
			Encoding:            client.Encoding(wire),
			SkipPreflight:       skipPreflight,
			PreflightCommitment: commitment,
			MaxRetries:          maxRetries,
		})
		if err != nil {
			return err
		}

		fmt.Println(string(resp.Raw))
		return nil
	},
}

func init() {
	sendCmd.Flags().StringP("region", "r", "", "pin a region code instead of probing")
	sendCmd.Flags().StringP("encoding", "e", "auto", "transaction file encoding (auto, base64, raw)")
	sendCmd.Flags().String("wire", "base58", "wire encoding for the rpc payload (base58, base64)")
	sendCmd.Flags().Bool("skip-preflight", false, "skip preflight checks")
	sendCmd.Flags().String("commitment", "confirmed", "preflight commitment level")
	sendCmd.Flags().Int("max-retries", 0, "override the retry budget")
	sendCmd.Flags().Bool("cached", false, "use the region recorded by the last watch pass")

	sendCmd.Flags().StringP("strategy", "s", "tcp", "probe strategy (tcp, http)")
	sendCmd.Flags().IntP("count", "n", 3, "samples per region")
	sendCmd.Flags().Int64P("timeout", "t", 750, "per-sample timeout in milliseconds")

	sendCmd.RegisterFlagCompletionFunc("region", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return regions.Codes(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(sendCmd)
}
