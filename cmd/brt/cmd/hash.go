package cmd

import (
	"fmt"
	"strings"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-brangetree/rangetree"
	"github.com/forestrie/go-brangetree/report"
	"github.com/spf13/cobra"
)

func formatNames() string {
	var names []string
	for _, f := range report.Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

func (c *command) newRunner(cmd *cobra.Command, log logger.Logger) (*report.Runner, error) {
	format, err := report.ParseFormat(c.config.GetString(optionNameFormat))
	if err != nil {
		return nil, err
	}
	return report.NewRunner(log, cmd.OutOrStdout(),
		report.WithAlgorithm(c.config.GetString(optionNameHash)),
		report.WithFill(c.config.GetBool(optionNameFill)),
		report.WithFormat(format),
	)
}

func (c *command) initHashCmd() {
	cmd := &cobra.Command{
		Use:   "hash <registry.gz>...",
		Short: "Compute the range tree root of gzip compressed registries",
		Long: `Compute the range tree root of gzip compressed registries.

With a single file the counts, root and time are printed one per line. With
several files each is reported on one line, in natural order, as

  path zipped filled leaves root seconds

Missing files are reported and skipped.`,
		Args:    cobra.MinimumNArgs(1),
		PreRunE: c.bindFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := c.newLogger("hash")
			if err != nil {
				return err
			}
			defer logger.OnExit()

			r, err := c.newRunner(cmd, log)
			if err != nil {
				return err
			}
			return r.Hash(args)
		},
	}

	cmd.Flags().Bool(optionNameFill, true, "pad the tree to a power of two leaves")
	cmd.Flags().String(optionNameHash, rangetree.AlgorithmSHA256,
		fmt.Sprintf("hash algorithm, one of %s", strings.Join(rangetree.Algorithms(), ", ")))
	cmd.Flags().String(optionNameFormat, string(report.FormatText),
		fmt.Sprintf("output format, one of %s", formatNames()))

	c.root.AddCommand(cmd)
}

func (c *command) initInspectCmd() {
	cmd := &cobra.Command{
		Use:   "inspect <registry.gz>...",
		Short: "Report the size and revoked share of registries",
		Long: `Report the size and revoked share of registries, one line per file in
natural order, as

  path zipped bits revoked percent`,
		Args:    cobra.MinimumNArgs(1),
		PreRunE: c.bindFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := c.newLogger("inspect")
			if err != nil {
				return err
			}
			defer logger.OnExit()

			r, err := c.newRunner(cmd, log)
			if err != nil {
				return err
			}
			return r.Inspect(args)
		},
	}

	cmd.Flags().String(optionNameFormat, string(report.FormatText),
		fmt.Sprintf("output format, one of %s", formatNames()))

	c.root.AddCommand(cmd)
}
