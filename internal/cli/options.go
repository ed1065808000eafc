package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/colourskim/internal/config"
	"github.com/jmylchreest/colourskim/internal/kmeans"
	"github.com/jmylchreest/colourskim/internal/seed"
)

func newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List extraction settings, their defaults and accepted values",
		Long: `List every extraction setting with its built-in default, its config file key,
its environment variable and the values it accepts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), optionsTable(config.Default()).Render())
			return err
		},
	}
}

func optionsTable(d config.Config) *Table {
	modes := make([]string, 0, len(seed.ValidModes()))
	for _, m := range seed.ValidModes() {
		modes = append(modes, string(m))
	}

	table := NewTable([]string{"Setting", "Default", "Environment", "Values"})
	rows := []struct {
		key, def, values string
	}{
		{"algorithm", d.Algorithm, strings.Join(kmeans.AlgorithmNames(), ", ")},
		{"init", d.Init, strings.Join(kmeans.InitializerNames(), ", ")},
		{"space", d.Space, joinSpaces()},
		{"colours", d.Colours, "1-256, or a range such as 3-8"},
		{"selection", d.Selection, "average, sampled"},
		{"criterion", d.Criterion, "elbow, silhouette"},
		{"resolution", fmt.Sprint(d.Resolution), "(0, 1]"},
		{"max_points", fmt.Sprint(d.MaxPoints), ">= 1"},
		{"sample_method", d.SampleMethod, "stride, resize, area"},
		{"seed_mode", d.SeedMode, strings.Join(modes, ", ")},
		{"seed", "", "any 64-bit integer"},
		{"max_iterations", fmt.Sprint(d.MaxIterations), ">= 0, 0 is unlimited"},
		{"parallelism", fmt.Sprint(d.Parallelism), ">= 0, 0 is the CPU count"},
	}
	for _, r := range rows {
		table.AddRow([]string{r.key, r.def, config.EnvPrefix + strings.ToUpper(r.key), r.values})
	}
	return table
}
