package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/idelchi/viddup/internal/probe"
)

// durationCommand reports the duration of each given video using ffprobe.
func durationCommand(opts ...probe.Option) *cobra.Command {
	var binary string

	cmd := &cobra.Command{
		Use:   "duration <file>...",
		Short: "Print the duration of videos (requires ffprobe)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prober := probe.New(append([]probe.Option{probe.WithBinary(binary)}, opts...)...)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, TabSpacing, ' ', 0)

			for _, path := range args {
				d, err := prober.Duration(cmd.Context(), path)
				if err != nil {
					_ = w.Flush()

					return fmt.Errorf("probing %q: %w", path, err)
				}

				fmt.Fprintf(w, "%s\t%.3fs\n", path, d.Seconds())
			}

			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&binary, "ffprobe", probe.DefaultBinary, "ffprobe executable")

	return cmd
}
