package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"bamroute/internal/client"
	"bamroute/internal/latency"
	"bamroute/internal/regions"
	"bamroute/internal/router"
	"bamroute/internal/storage"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "Show latency to all regions and highlight the fastest",
	Long: `Probe every known BAM region and print the measured latency.

Each region is probed concurrently with several TCP connection attempts;
the fastest region is marked. Unreachable regions show "n/a".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		r, err := routerFromFlags(cmd)
		if err != nil {
			return err
		}

		c := client.New(client.Config{Router: r, Storage: appInstance.Storage})
		infos := c.ListRegions(ctx, nil)
		printRegions(infos)
		return nil
	},
}

var regionsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-probe all regions on an interval",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		interval, _ := cmd.Flags().GetDuration("interval")

		r, err := routerFromFlags(cmd)
		if err != nil {
			return err
		}

		sched, err := router.NewScheduler(r, appInstance.Storage, interval,
			func(results []router.RegionResult, fastest regions.Region) {
				fmt.Printf("\n%s\n", time.Now().Format("2006-01-02 15:04:05"))
				printRegions(infosFromResults(results, fastest))
			})
		if err != nil {
			return err
		}

		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer sched.Stop()

		fmt.Printf("Watching %d regions every %s (Ctrl-C to stop)\n",
			len(r.Table()), interval)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		return nil
	},
}

// routerFromFlags builds a Router from flags, falling back to stored
// settings for anything not overridden on the command line.
func routerFromFlags(cmd *cobra.Command) (*router.Router, error) {
	ctx := context.Background()

	strategyName, _ := cmd.Flags().GetString("strategy")
	count, _ := cmd.Flags().GetInt("count")
	timeoutMS, _ := cmd.Flags().GetInt64("timeout")

	if !cmd.Flags().Changed("strategy") {
		if val, err := appInstance.Storage.GetSetting(ctx, storage.KeyProbeStrategy); err == nil {
			strategyName = val
		}
	}
	if !cmd.Flags().Changed("count") {
		if val, err := appInstance.Storage.GetSetting(ctx, storage.KeyProbeCount); err == nil {
			if parsed, parseErr := strconv.Atoi(val); parseErr == nil {
				count = parsed
			}
		}
	}
	if !cmd.Flags().Changed("timeout") {
		if val, err := appInstance.Storage.GetSetting(ctx, storage.KeyProbeTimeout); err == nil {
			if parsed, parseErr := strconv.ParseInt(val, 10, 64); parseErr == nil {
				timeoutMS = parsed
			}
		}
	}

	strategy, err := latency.NewStrategy(strategyName)
	if err != nil {
		return nil, err
	}

	prober := latency.NewProber(latency.ProberConfig{
		Count:    count,
		Timeout:  time.Duration(timeoutMS) * time.Millisecond,
		Strategy: strategy,
	})
	return router.New(router.Config{Prober: prober}), nil
}

func infosFromResults(results []router.RegionResult, fastest regions.Region) []client.RegionInfo {
	infos := make([]client.RegionInfo, 0, len(results))
	for _, res := range results {
		infos = append(infos, client.RegionInfo{
			Region:    res.Region.Code,
			BamURL:    res.Region.BamURL,
			TxURL:     regions.TxEndpointFor(res.Region),
			AvgMS:     res.Probe.AvgMS(),
			SamplesMS: res.Probe.Samples,
			Fastest:   res.Region.Code == fastest.Code,
		})
	}
	return infos
}

func printRegions(infos []client.RegionInfo) {
	// Reachable regions first, by latency ascending.
	sort.SliceStable(infos, func(i, j int) bool {
		ai, aj := infos[i].AvgMS, infos[j].AvgMS
		if ai == nil {
			return false
		}
		if aj == nil {
			return true
		}
		return *ai < *aj
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, " \tREGION\tLATENCY\tTX ENDPOINT")
	fmt.Fprintln(w, " \t------\t-------\t-----------")

	for _, info := range infos {
		mark := " "
		avg := unreachableStyle.Render("n/a")
		if info.AvgMS != nil {
			avg = fmt.Sprintf("%.1f ms", *info.AvgMS)
		}
		name := info.Region
		if info.Fastest {
			mark = fastestStyle.Render("★")
			name = fastestStyle.Render(name)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", mark, name, avg, dimStyle.Render(info.TxURL))
	}
	w.Flush()
}

func init() {
	for _, cmd := range []*cobra.Command{regionsCmd, regionsWatchCmd} {
		cmd.Flags().StringP("strategy", "s", "tcp", "probe strategy (tcp, http)")
		cmd.Flags().IntP("count", "n", 3, "samples per region")
		cmd.Flags().Int64P("timeout", "t", 750, "per-sample timeout in milliseconds")
		cmd.RegisterFlagCompletionFunc("strategy", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return []string{"tcp", "http"}, cobra.ShellCompDirectiveNoFileComp
		})
	}
	regionsWatchCmd.Flags().DurationP("interval", "i", 30*time.Second, "time between probe passes")

	regionsCmd.AddCommand(regionsWatchCmd)
	rootCmd.AddCommand(regionsCmd)
}
