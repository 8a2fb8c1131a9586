package cmd

import (
	"bufio"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ByLCY/bookcard/internal/config"
)

// app is the state shared by all subcommands of one invocation.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger

	// 交互确认共用的输入缓冲
	input    *bufio.Reader
	inputSrc io.Reader
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "bookcard",
		Short: "Compose chat-log passages into fixed-size quote cards",
		Long: `Bookcard turns passages of a role-play chat log into styled, fixed-size cards
and exports them as PNG, PDF or SVG.

Card text is shrunk to fit its box (font size first, then padding); cards that
still overflow can be split in two.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/bookcard/config.toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newFitCmd(a),
		newSplitCmd(a),
		newRenderCmd(a),
		newComposeCmd(a),
		newLogCmd(a),
	)
	return root
}

// Execute runs the command line.
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) setup(cmd *cobra.Command) error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.Load(a.configPath)
	} else {
		a.cfg, err = config.LoadConfig()
	}
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	var logWriter io.Writer = cmd.ErrOrStderr()
	if a.cfg.LogDir != "" {
		rotator := &lumberjack.Logger{
			Filename:   filepath.Join(a.cfg.LogDir, "bookcard.log"),
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		logWriter = io.MultiWriter(logWriter, rotator)
	}
	a.logger = slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{Level: level}))
	a.logger.Debug("config loaded", "path", a.configPathOrDefault(), "template", a.cfg.DefaultTemplate)
	return nil
}

func (a *app) configPathOrDefault() string {
	if a.configPath != "" {
		return a.configPath
	}
	return config.GetConfigFilePath()
}
