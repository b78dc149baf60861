/*
Package options contains a set of common CLI options and helper functions to use them.
*/
package options

import (
	"fmt"
	"os"

	"github.com/nspcc-dev/michelson-go/pkg/config"
	"github.com/nspcc-dev/michelson-go/pkg/io"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ConfigFile is a flag for commands that use configuration and provide
// path to the specific config file.
var ConfigFile = cli.StringFlag{
	Name:  "config-file",
	Usage: "path to the configuration file (" + config.DefaultConfigPath + " is used if it exists)",
}

// Debug is a flag for commands that allow debug logging.
var Debug = cli.BoolFlag{
	Name:  "debug, d",
	Usage: "enable debug logging (LOTS of output, overrides configuration)",
}

// GetConfigFromContext returns the configuration from the file given with
// --config-file, the default file or the default configuration if there
// is no such file.
func GetConfigFromContext(ctx *cli.Context) (config.Config, error) {
	if configFile := ctx.String("config-file"); len(configFile) != 0 {
		return config.LoadFile(configFile)
	}
	if _, err := os.Stat(config.DefaultConfigPath); err == nil {
		return config.LoadFile(config.DefaultConfigPath)
	}
	return config.Default(), nil
}

// HandleLoggingParams reads logging parameters.
// If a user selected debug level -- function enables it.
// If logPath is configured -- function creates a dir and a file for logging.
func HandleLoggingParams(debug bool, cfg config.ApplicationConfiguration) (*zap.Logger, *zap.AtomicLevel, error) {
	var (
		level = zapcore.InfoLevel
		err   error
	)
	if len(cfg.LogLevel) > 0 {
		level, err = zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, nil, fmt.Errorf("log setting: %w", err)
		}
	}
	if debug {
		level = zapcore.DebugLevel
	}

	cc := zap.NewProductionConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	cc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cc.Encoding = "console"
	cc.Level = zap.NewAtomicLevelAt(level)
	cc.Sampling = nil

	if logPath := cfg.LogPath; logPath != "" {
		if err := io.MakeDirForFile(logPath, "logger"); err != nil {
			return nil, nil, err
		}
		cc.OutputPaths = []string{logPath}
	}

	log, err := cc.Build()
	return log, &cc.Level, err
}
