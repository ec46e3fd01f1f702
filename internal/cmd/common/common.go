// Package common provides the logging, config and startup plumbing shared by
// all pipeguard commands.
package common

import (
	"bytes"
	"errors"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/CompassSecurity/pipeguard/pkg/config"
	"github.com/CompassSecurity/pipeguard/pkg/httpclient"
	"github.com/CompassSecurity/pipeguard/pkg/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Version information - set via ldflags during build
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Log configuration
var (
	originalTermState *term.State
	JsonLogoutput     bool
	LogFile           string
	LogFileMaxSizeMB  int
	LogColor          bool
	LogDebug          bool
	LogLevel          string
	IgnoreProxy       bool
	ConfigFile        string
)

// ErrBlocked is returned by commands that produced a blocking result. It makes
// the process exit with status 1 without printing usage.
var ErrBlocked = errors.New("blocking result")

// TerminalRestorer is a function that can be called to restore terminal state
var TerminalRestorer func()

var loadedConfig = config.Default()

// Config returns the configuration loaded from --config, or the defaults.
func Config() *config.Config {
	return loadedConfig
}

// CustomWriter terminates every entry with the platform newline
type CustomWriter struct {
	Writer io.Writer
}

func (cw *CustomWriter) Write(p []byte) (n int, err error) {
	originalLen := len(p)

	p = bytes.TrimSuffix(p, []byte("\n"))

	// necessary as to: https://github.com/rs/zerolog/blob/master/log.go#L474
	newlineChars := []byte("\n")
	if runtime.GOOS == "windows" {
		newlineChars = []byte("\r\n")
	}

	modified := append(p, newlineChars...)

	written, err := cw.Writer.Write(modified)
	if err != nil {
		return 0, err
	}

	if written != len(modified) {
		return 0, io.ErrShortWrite
	}

	return originalLen, nil
}

// FatalHook is a zerolog hook that restores terminal state before fatal exits
type FatalHook struct{}

func (h FatalHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	if level == zerolog.FatalLevel {
		if TerminalRestorer != nil {
			TerminalRestorer()
		}
	}
}

// SaveTerminalState saves the current terminal state for later restoration
func SaveTerminalState() {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		state, err := term.GetState(int(os.Stdin.Fd()))
		if err == nil {
			originalTermState = state
		}
	}
}

// RestoreTerminalState restores the terminal to its saved state
func RestoreTerminalState() {
	if originalTermState != nil {
		_ = term.Restore(int(os.Stdin.Fd()), originalTermState)
	}
}

// logOutput returns stdout or a rotating log file when --logfile is set.
func logOutput(cmd *cobra.Command) (io.Writer, bool) {
	colorEnabled := LogColor
	if LogFile == "" {
		return &CustomWriter{Writer: os.Stdout}, colorEnabled
	}

	rotating := &lumberjack.Logger{
		Filename:  LogFile,
		MaxSize:   LogFileMaxSizeMB,
		LocalTime: true,
	}
	if !cmd.Root().PersistentFlags().Changed("color") {
		colorEnabled = false
	}
	return &CustomWriter{Writer: rotating}, colorEnabled
}

// InitLogger initializes the zerolog logger with the configured options
func InitLogger(cmd *cobra.Command) {
	defaultOut, colorEnabled := logOutput(cmd)
	fatalHook := FatalHook{}

	hitWriter := logging.NewHitLevelWriter(defaultOut)
	if !JsonLogoutput {
		// HitLevelWriter rewrites the JSON entry before the ConsoleWriter formats it
		hitWriter.SetOutput(&zerolog.ConsoleWriter{
			Out:         defaultOut,
			TimeFormat:  time.RFC3339,
			NoColor:     !colorEnabled,
			FormatLevel: formatLevelWithHitColor(colorEnabled),
		})
	}
	logging.SetGlobalHitWriter(hitWriter)
	log.Logger = zerolog.New(hitWriter).With().Timestamp().Logger().Hook(fatalHook)
}

// formatLevelWithHitColor returns a custom level formatter that adds a distinct color for the "hit" level.
func formatLevelWithHitColor(colorEnabled bool) zerolog.Formatter {
	return func(i interface{}) string {
		level, ok := i.(string)
		if !ok {
			return ""
		}

		if !colorEnabled {
			return level
		}

		switch level {
		case "hit":
			return "\x1b[35m" + level + "\x1b[0m"
		case "trace":
			return "\x1b[90m" + level + "\x1b[0m"
		case "info":
			return "\x1b[32m" + level + "\x1b[0m"
		case "warn":
			return "\x1b[33m" + level + "\x1b[0m"
		case "error", "fatal", "panic":
			return "\x1b[31m" + level + "\x1b[0m"
		default:
			return level
		}
	}
}

// SetGlobalLogLevel sets the global log level based on the configured options
func SetGlobalLogLevel(cmd *cobra.Command) {
	if LogLevel != "" {
		level, err := logging.ParseLevel(LogLevel)
		if err != nil || level == zerolog.NoLevel {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			log.Warn().Str("logLevelSpecified", LogLevel).Msg("Invalid log level, defaulting to info")
			return
		}
		zerolog.SetGlobalLevel(level)
		log.Debug().Str("level", level.String()).Msg("Log level set (explicit)")
		return
	}

	if LogDebug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Debug().Msg("Log level set to debug (-v)")
		return
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// AddCommonFlags adds the common logging and output flags to a cobra command
func AddCommonFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&JsonLogoutput, "json", "", false, "Use JSON as log output format")
	cmd.PersistentFlags().StringVarP(&LogFile, "logfile", "l", "", "Log output to a file, rotated by size")
	cmd.PersistentFlags().IntVar(&LogFileMaxSizeMB, "logfile-max-size", 100, "Size in megabytes after which the log file is rotated")
	cmd.PersistentFlags().BoolVarP(&LogDebug, "verbose", "v", false, "Enable debug logging (shortcut for --log-level=debug)")
	cmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Set log level globally (trace, debug, info, warn, error, hit). Example: --log-level=warn")
	cmd.PersistentFlags().BoolVar(&LogColor, "color", true, "Enable colored log output (auto-disabled when using --logfile)")
	cmd.PersistentFlags().BoolVar(&IgnoreProxy, "ignore-proxy", false, "Ignore HTTP_PROXY environment variable")
	cmd.PersistentFlags().StringVarP(&ConfigFile, "config", "c", "", "YAML config file, flags take precedence over its values")
}

// SetupPersistentPreRun sets up the PersistentPreRun handler for logging and config initialization
func SetupPersistentPreRun(cmd *cobra.Command) {
	cmd.PersistentPreRun = func(c *cobra.Command, args []string) {
		InitLogger(c)
		SetGlobalLogLevel(c)
		httpclient.SetIgnoreProxy(IgnoreProxy)

		cfg, err := config.Load(ConfigFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", ConfigFile).Msg("Failed loading config")
		}
		loadedConfig = cfg
	}
}

// Run executes the common startup sequence and runs the provided root command
func Run(rootCmd *cobra.Command) {
	SaveTerminalState()
	defer RestoreTerminalState()

	TerminalRestorer = RestoreTerminalState

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	err := rootCmd.Execute()
	if err != nil {
		if !errors.Is(err, ErrBlocked) {
			log.Error().Err(err).Msg("Command failed")
		}
		RestoreTerminalState()
		os.Exit(1)
	}
}
