package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var infoFrames bool

// infoCmd lists the ordered frame sequence and per-layer statistics.
var infoCmd = &cobra.Command{
	Use:   "info DIR...",
	Short: "Summarize the frame sequence in one or more directories",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		series := loadSeries(cmd.Context(), args, false)

		fmt.Printf("%d frames\n", series.Len())
		if infoFrames {
			for i := range series.Frames {
				fmt.Printf("%6d  %s\n", i, series.Frames[i].Path)
			}
		}

		stats, err := series.AllLayerStats()
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "LAYER\tVALUES\tMIN\tMAX\tMEAN\tSTDDEV")
		for _, s := range stats {
			fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%g\t%g\n", s.Layer, s.Count, s.Min, s.Max, s.Mean, s.Stddev)
		}
		w.Flush()
	},
}

func init() {
	infoCmd.Flags().BoolVar(&infoFrames, "frames", false, "List every frame in playback order")
	rootCmd.AddCommand(infoCmd)
}
