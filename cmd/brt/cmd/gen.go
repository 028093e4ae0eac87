package cmd

import (
	"fmt"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-brangetree/regdata"
	"github.com/spf13/cobra"
)

func (c *command) initGenCmd() {
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate random registries for benchmarking",
		Long: `Generate random registries for benchmarking.

One registry is written for every combination of --bits and --percent, as
<out-dir>/<bits>bits_<pct>pc_random.gz. The same seed always produces the
same registries.`,
		Args:    cobra.NoArgs,
		PreRunE: c.bindFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			bits, err := cmd.Flags().GetIntSlice(optionNameBits)
			if err != nil {
				return err
			}
			percents, err := cmd.Flags().GetIntSlice(optionNamePercent)
			if err != nil {
				return err
			}
			indexBits := make([]uint8, 0, len(bits))
			for _, b := range bits {
				if b < regdata.MinIndexBits || b > regdata.MaxIndexBits {
					return fmt.Errorf("%w: index bits %d", regdata.ErrBadParams, b)
				}
				indexBits = append(indexBits, uint8(b))
			}

			log, err := c.newLogger("gen")
			if err != nil {
				return err
			}
			defer logger.OnExit()

			dir := c.config.GetString(optionNameOutDir)
			seed := c.config.GetUint64(optionNameSeed)
			for _, p := range regdata.Sets(indexBits, percents) {
				path, err := regdata.WriteFile(log, dir, p, regdata.WithSeed(setSeed(seed, p)))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}

	defaultBits := make([]int, 0, len(regdata.DefaultIndexBits))
	for _, b := range regdata.DefaultIndexBits {
		defaultBits = append(defaultBits, int(b))
	}
	cmd.Flags().IntSlice(optionNameBits, defaultBits, "registry sizes as powers of two")
	cmd.Flags().IntSlice(optionNamePercent, regdata.DefaultPercents, "revoked percentages")
	cmd.Flags().String(optionNameOutDir, "data", "directory to write registries to")
	cmd.Flags().Uint64(optionNameSeed, 0, "pseudo random seed")

	c.root.AddCommand(cmd)
}

// setSeed gives each registry of a run its own stream, independent of which
// other registries are generated alongside it.
func setSeed(seed uint64, p regdata.Params) uint64 {
	return seed ^ uint64(p.IndexBits)<<32 ^ uint64(uint32(p.Percent))
}
