package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jakoblorz/reactorstate/internal/buildstate"
	"github.com/jakoblorz/reactorstate/internal/config"
	"github.com/jakoblorz/reactorstate/internal/descriptor"
	"github.com/jakoblorz/reactorstate/internal/filesystem"
	"github.com/jakoblorz/reactorstate/internal/logging"
	"github.com/jakoblorz/reactorstate/internal/persistence"
	"github.com/jakoblorz/reactorstate/internal/session"
)

// commandContext carries what every command needs once flags and configuration are resolved.
type commandContext struct {
	fs     filesystem.FileSystem
	file   string
	cfg    *config.Config
	logger zerolog.Logger
	closer io.Closer
	loader *descriptor.FileLoader
	repo   *persistence.Repository
}

func newCommandContext(fs filesystem.FileSystem, cmd *cobra.Command) (*commandContext, error) {
	flags := cmd.Flags()
	file, _ := flags.GetString("file")
	configFile, _ := flags.GetString("config")
	codec, _ := flags.GetString("codec")
	strict, _ := flags.GetBool("strict")
	lenient, _ := flags.GetBool("lenient")
	verbose, _ := flags.GetBool("verbose")
	quiet, _ := flags.GetBool("quiet")

	if strict && lenient {
		return nil, fmt.Errorf("--strict and --lenient are mutually exclusive")
	}

	dir, err := startDir(fs, file)
	if err != nil {
		return nil, err
	}

	var opts []config.Option
	if configFile != "" {
		opts = append(opts, config.WithFile(configFile))
	}
	if codec != "" {
		opts = append(opts, config.WithOverride(config.KeyCodec, codec))
	}
	switch {
	case strict:
		opts = append(opts, config.WithOverride(config.KeyRestorePolicy, string(buildstate.RestoreStrict)))
	case lenient:
		opts = append(opts, config.WithOverride(config.KeyRestorePolicy, string(buildstate.RestoreLenient)))
	}

	cfg, err := config.Load(fs, dir, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logOpts := logging.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Verbose: verbose,
		Quiet:   quiet,
	}
	if w := cmd.ErrOrStderr(); w != os.Stderr {
		logOpts.Console = w
	}
	logger, closer := logging.New(logOpts)

	stateCodec, err := cfg.NewCodec()
	if err != nil {
		closer.Close()
		return nil, err
	}

	if cfg.Path != "" {
		logger.Debug().Str("path", cfg.Path).Msg("using configuration file")
	}

	if file == "" {
		file = dir
	}

	return &commandContext{
		fs:     fs,
		file:   file,
		cfg:    cfg,
		logger: logger,
		closer: closer,
		loader: descriptor.New(fs, descriptor.WithOutputDir(cfg.OutputDir)),
		repo:   persistence.NewRepository(fs, stateCodec, persistence.WithLogger(logger)),
	}, nil
}

// openSession loads the module named by --file and its declared descendants.
func (c *commandContext) openSession() (*session.Session, error) {
	s, err := session.Open(c.fs, c.loader, c.repo, c.file,
		session.WithLogger(c.logger),
		session.WithRestorePolicy(c.cfg.RestorePolicy()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	return s, nil
}

func (c *commandContext) Close() error {
	return c.closer.Close()
}

// startDir returns the directory configuration lookup starts from.
func startDir(fs filesystem.FileSystem, file string) (string, error) {
	cwd, err := fs.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	if file == "" {
		return cwd, nil
	}

	if !filepath.IsAbs(file) {
		file = filepath.Join(cwd, file)
	}
	if filesystem.IsDir(fs, file) {
		return file, nil
	}
	return filepath.Dir(file), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
