// Package cmd implements the brt command line: hashing, generating and
// inspecting revocation registries.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	optionNameFill      = "fill"
	optionNameHash      = "hash"
	optionNameFormat    = "format"
	optionNameVerbosity = "verbosity"
	optionNameSeed      = "seed"
	optionNameOutDir    = "out-dir"
	optionNameBits      = "bits"
	optionNamePercent   = "percent"
)

// Version is set at build time.
var Version = "dev"

func init() {
	cobra.EnableCommandSorting = false
}

type command struct {
	root    *cobra.Command
	config  *viper.Viper
	cfgFile string
	homeDir string
}

type option func(*command)

func newCommand(opts ...option) (c *command, err error) {
	c = &command{
		root: &cobra.Command{
			Use:           "brt",
			Short:         "Range leaf Merkle commitments over revocation registries",
			SilenceErrors: true,
			SilenceUsage:  true,
			PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
				return c.initConfig()
			},
		},
	}

	for _, o := range opts {
		o(c)
	}

	if err := c.setHomeDir(); err != nil {
		return nil, err
	}

	c.initGlobalFlags()
	c.initHashCmd()
	c.initGenCmd()
	c.initInspectCmd()
	c.initVersionCmd()

	return c, nil
}

func (c *command) Execute() (err error) {
	return c.root.Execute()
}

// Execute parses command line arguments and runs appropriate functions.
func Execute() (err error) {
	c, err := newCommand()
	if err != nil {
		return err
	}
	return c.Execute()
}

func (c *command) initGlobalFlags() {
	globalFlags := c.root.PersistentFlags()
	globalFlags.StringVar(&c.cfgFile, "config", "", "config file (default is $HOME/.brt.yaml)")
	globalFlags.String(optionNameVerbosity, "info", "log verbosity level 0=silent, 1=error, 2=warn, 3=info, 4=debug")
}

func (c *command) initConfig() (err error) {
	config := viper.New()
	configName := ".brt"
	if c.cfgFile != "" {
		config.SetConfigFile(c.cfgFile)
	} else {
		config.AddConfigPath(c.homeDir)
		config.SetConfigName(configName)
	}

	config.SetEnvPrefix("brt")
	config.AutomaticEnv()
	config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if c.homeDir != "" && c.cfgFile == "" {
		c.cfgFile = filepath.Join(c.homeDir, configName+".yaml")
	}

	if err := config.ReadInConfig(); err != nil {
		var e viper.ConfigFileNotFoundError
		if !errors.As(err, &e) {
			return err
		}
	}
	c.config = config
	return nil
}

func (c *command) setHomeDir() (err error) {
	if c.homeDir != "" {
		return
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	c.homeDir = dir
	return nil
}

// bindFlags makes the command flags visible through the config, which then
// layers flag, environment and config file values.
func (c *command) bindFlags(cmd *cobra.Command, args []string) error {
	return c.config.BindPFlags(cmd.Flags())
}

// newLogger initialises the process logger at the configured verbosity. The
// caller must defer logger.OnExit.
func (c *command) newLogger(service string) (logger.Logger, error) {
	var level string
	switch v := strings.ToLower(c.config.GetString(optionNameVerbosity)); v {
	case "0", "silent":
		level = "NOOP"
	case "1", "error":
		level = "ERROR"
	case "2", "warn":
		level = "WARN"
	case "3", "info":
		level = "INFO"
	case "4", "debug":
		level = "DEBUG"
	default:
		return nil, fmt.Errorf("unknown verbosity level %q", v)
	}
	logger.New(level)
	return logger.Sugar.WithServiceName(service), nil
}
