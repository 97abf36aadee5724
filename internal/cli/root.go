package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bamroute/internal/app"
)

var (
	appInstance *app.App
	version     = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bamroute",
	Short: "Latency-routed transaction submission for BAM regions",
	Long: `bamroute - Latency-routed transaction submission for BAM regions

  Probes every known BAM region over TCP, picks the fastest one, and
  submits signed transactions there over JSON-RPC.

  Quick start:
    bamroute regions
    bamroute send tx.bin
    bamroute send tx.bin --region dallas --encoding base64

  Core features:
    • Concurrent TCP/HTTP latency probing of all regions
    • Automatic fastest-region selection with a fixed fallback
    • Bounded retry with linear backoff on transport failures
    • Submission history and settings in a local database`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		appInstance, err = app.New()
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if appInstance != nil {
			return appInstance.Close()
		}
		return nil
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bamroute %s\n", version)
	},
}
