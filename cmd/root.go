/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/allbin/anyserial"
	"github.com/allbin/anyserial/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Settings is the merged view of defaults, config file, environment and flags.
type Settings struct {
	Port PortSettings   `mapstructure:"port"`
	Log  logging.Config `mapstructure:"log"`
}

// PortSettings selects and configures the port a command opens.
type PortSettings struct {
	Variant    string        `mapstructure:"variant"`
	Device     string        `mapstructure:"device"`
	Baud       int           `mapstructure:"baud"`
	DataBits   int           `mapstructure:"data_bits"`
	StopBits   int           `mapstructure:"stop_bits"`
	Parity     string        `mapstructure:"parity"`
	Timeout    time.Duration `mapstructure:"timeout"`
	BufferSize int           `mapstructure:"buffer_size"`
	Tee        string        `mapstructure:"tee"`
}

var (
	cfgFile  string
	settings Settings
	logger   = zap.NewNop()
	closeLog = func() error { return nil }
)

// flagKeys maps command-line flags to their settings keys. Flags are bound
// per command because each command declares its own copy.
var flagKeys = map[string]string{
	"variant":    "port.variant",
	"device":     "port.device",
	"baud":       "port.baud",
	"data-bits":  "port.data_bits",
	"stop-bits":  "port.stop_bits",
	"parity":     "port.parity",
	"timeout":    "port.timeout",
	"buffer":     "port.buffer_size",
	"tee":        "port.tee",
	"log-level":  "log.level",
	"log-format": "log.format",
	"log-file":   "log.file",
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "anyserial",
	Short: "Drive any serial backend through one handle",
	Long: `anyserial opens a hardware UART, a software-emulated UART or a USB
virtual serial endpoint behind the same port handle, and lets you list,
send to, monitor and bridge it.

Settings come from flags, ANYSERIAL_* environment variables and
$HOME/.anyserial.yaml, in that order of precedence.`,
	Version:      anyserial.Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadSettings(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
		closeLog()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.anyserial.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "console", "Log format: console, json")
	rootCmd.PersistentFlags().String("log-file", "", "Also log to this file (rotated)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".anyserial")
	}

	viper.SetEnvPrefix("ANYSERIAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaults(v *viper.Viper) {
	log := logging.DefaultConfig()
	v.SetDefault("log.level", log.Level)
	v.SetDefault("log.format", log.Format)
	v.SetDefault("log.file", "")
	v.SetDefault("log.maxsize", log.MaxSize)
	v.SetDefault("log.maxage", log.MaxAge)
	v.SetDefault("log.maxbackups", log.MaxBackups)
	v.SetDefault("log.compress", false)

	v.SetDefault("port.variant", "hardware")
	v.SetDefault("port.device", "")
	v.SetDefault("port.baud", 115200)
	v.SetDefault("port.data_bits", 8)
	v.SetDefault("port.stop_bits", 1)
	v.SetDefault("port.parity", "none")
	v.SetDefault("port.timeout", time.Second)
	v.SetDefault("port.buffer_size", 0)
	v.SetDefault("port.tee", "")
}

// loadSettings binds the running command's flags and builds the logger.
func loadSettings(cmd *cobra.Command) error {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := viper.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	if err := viper.Unmarshal(&settings); err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}

	l, closer, err := logging.New(settings.Log, os.Stderr)
	if err != nil {
		return err
	}
	logger, closeLog = l, closer
	logger.Debug("settings loaded",
		zap.String("variant", settings.Port.Variant),
		zap.String("device", settings.Port.Device),
		zap.Int("baud", settings.Port.Baud))
	return nil
}

// addPortFlags declares the flags every port-opening command shares.
func addPortFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("variant", "V", "hardware", "Port variant: hardware, software, altsoftware, usb")
	cmd.Flags().StringP("device", "d", "", "Device path, VID:PID for usb, or 'console' for stdio")
	cmd.Flags().IntP("baud", "b", 115200, "Baud rate")
	cmd.Flags().Int("data-bits", 8, "Data bits (hardware only): 5-8")
	cmd.Flags().Int("stop-bits", 1, "Stop bits (hardware only): 1 or 2")
	cmd.Flags().String("parity", "none", "Parity (hardware only): none, odd, even")
	cmd.Flags().Duration("timeout", time.Second, "ReadUntil timeout")
	cmd.Flags().Int("buffer", 0, "Receive buffer size in bytes (0 for the driver default)")
	cmd.Flags().String("tee", "", "Mirror port traffic to stdout, stderr or a file")
}
