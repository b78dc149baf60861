package options

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/michelson-go/pkg/config"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
	"go.uber.org/zap/zapcore"
)

func TestGetConfigFromContext(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		set := flag.NewFlagSet("flagSet", flag.ExitOnError)
		ctx := cli.NewContext(cli.NewApp(), set, nil)
		cfg, err := GetConfigFromContext(ctx)
		require.NoError(t, err)
		require.Equal(t, config.Default().VM, cfg.VM)
	})
	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cfg.yml")
		require.NoError(t, os.WriteFile(path, []byte("VM:\n  MaxNestingDepth: 7\n"), 0o644))

		set := flag.NewFlagSet("flagSet", flag.ExitOnError)
		set.String("config-file", path, "")
		ctx := cli.NewContext(cli.NewApp(), set, nil)
		cfg, err := GetConfigFromContext(ctx)
		require.NoError(t, err)
		require.Equal(t, 7, cfg.VM.MaxNestingDepth)
	})
	t.Run("missing file", func(t *testing.T) {
		set := flag.NewFlagSet("flagSet", flag.ExitOnError)
		set.String("config-file", filepath.Join(t.TempDir(), "none.yml"), "")
		ctx := cli.NewContext(cli.NewApp(), set, nil)
		_, err := GetConfigFromContext(ctx)
		require.Error(t, err)
	})
}

func TestHandleLoggingParams(t *testing.T) {
	t.Run("invalid level", func(t *testing.T) {
		_, _, err := HandleLoggingParams(false, config.ApplicationConfiguration{LogLevel: "loud"})
		require.Error(t, err)
	})
	t.Run("default", func(t *testing.T) {
		log, lvl, err := HandleLoggingParams(false, config.ApplicationConfiguration{})
		require.NoError(t, err)
		require.NotNil(t, log)
		require.Equal(t, zapcore.InfoLevel, lvl.Level())
	})
	t.Run("configured", func(t *testing.T) {
		_, lvl, err := HandleLoggingParams(false, config.ApplicationConfiguration{LogLevel: "warn"})
		require.NoError(t, err)
		require.Equal(t, zapcore.WarnLevel, lvl.Level())
	})
	t.Run("debug overrides", func(t *testing.T) {
		_, lvl, err := HandleLoggingParams(true, config.ApplicationConfiguration{LogLevel: "error"})
		require.NoError(t, err)
		require.Equal(t, zapcore.DebugLevel, lvl.Level())
	})
	t.Run("log path", func(t *testing.T) {
		logPath := filepath.Join(t.TempDir(), "logs", "michelson.log")
		log, _, err := HandleLoggingParams(false, config.ApplicationConfiguration{LogPath: logPath})
		require.NoError(t, err)
		log.Info("hello")
		require.NoError(t, log.Sync())
		data, err := os.ReadFile(logPath)
		require.NoError(t, err)
		require.Contains(t, string(data), "INFO")
		require.Contains(t, string(data), "hello")
	})
}
