// Package cli implements the mrcvol command-line interface.
//
// The commands are thin wrappers over the mrc, geometry, fusion, convert,
// metrics and visualization packages. Defaults for tunable flags come from a
// YAML configuration file (see pkg/config); a flag given on the command line
// always wins.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The CLI
// logger is installed as the charmbracelet/log default so that debug output
// from the library packages shares its format, and it is also passed through
// context.Context.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"mrcvol/pkg/config"
)

const (
	// appName is the application name used for directories and display.
	appName = "mrcvol"

	// configFile is the file name looked up in the config directory.
	configFile = "config.yaml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

var version = "dev"

// SetVersion sets the version shown by --version.
func SetVersion(v string) {
	version = v
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	// Out receives command results; logs go to the logger's writer.
	Out io.Writer

	configPath string
	verbose    bool
}

// New creates a CLI whose logger writes to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.DefaultConfig(),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               appName,
		Short:             "mrcvol reads, reshapes and fuses MRC density maps",
		Long:              `mrcvol is a toolkit for MRC/CCP4 electron density maps: inspect headers, pad and trim boxes, fuse maps by histogram matching, and convert to and from Situs.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "configuration file (default $XDG_CONFIG_HOME/mrcvol/config.yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.infoCommand())
	root.AddCommand(c.padCommand())
	root.AddCommand(c.trimCommand())
	root.AddCommand(c.fuseCommand())
	root.AddCommand(c.sumCommand())
	root.AddCommand(c.toSitusCommand())
	root.AddCommand(c.fromSitusCommand())
	root.AddCommand(c.originCommand())
	root.AddCommand(c.compareCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.configCommand())

	return root
}

// setup loads the configuration and installs the logger before any command runs.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	path := c.configPath
	if path == "" {
		path = defaultConfigPath()
	}
	if path != "" {
		cfg, err := config.LoadConfig(path)
		if err != nil {
			return err
		}
		c.Config = cfg
	}

	level := LogInfo
	if c.verbose || c.Config.Output.Verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	log.SetDefault(c.Logger)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	c.Out = cmd.OutOrStdout()
	c.Logger.Debug("configuration loaded", "path", path)
	return nil
}

// defaultConfigPath follows the XDG layout (~/.config/mrcvol/config.yaml).
// It returns "" when no home directory is known.
func defaultConfigPath() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, configFile)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, configFile)
}
