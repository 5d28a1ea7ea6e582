package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bristermitten/hot-takes/internal/common/config"
	"github.com/bristermitten/hot-takes/internal/common/logger"
	"github.com/bristermitten/hot-takes/internal/datastore"
	"github.com/bristermitten/hot-takes/internal/generator"
)

// NewRootCmd builds the hot-takes command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hot-takes",
		Short: "Generate hot takes from a template data file",
		Long: `hot-takes - template based hot take generator.

Picks a random take template from the data file and fills its placeholders
({language}, {person|company}, {year}, ...) from the data file's word lists.

Examples:
  hot-takes generate                  # Print one take
  hot-takes generate --extra Rust -n 3
  hot-takes validate hotTakeData.json5
  hot-takes schema                    # Export the data file JSON Schema
  hot-takes serve                     # HTTP endpoint on server.address
  hot-takes worker                    # Zeebe job worker for hot-take.generate`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "Config file (default configs/config.yaml)")
	root.PersistentFlags().String("data", "", "Data file path, overrides data.path")
	root.PersistentFlags().Uint64("seed", 0, "Seed for reproducible output (0 picks randomly)")

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newSchemaCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newWorkerCmd())
	return root
}

// env is what every command builds before doing its work.
type env struct {
	cfg    *config.Config
	log    logger.Logger
	closer func()
}

func (e *env) Close() {
	if e.closer != nil {
		e.closer()
	}
}

func setup(cmd *cobra.Command) (*env, error) {
	path, _ := cmd.Flags().GetString("config")

	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if dataPath, _ := cmd.Flags().GetString("data"); dataPath != "" {
		cfg.Data.Path = dataPath
	}

	zapLog, err := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &env{
		cfg:    cfg,
		log:    logger.NewZapAdapter(zapLog.With(zap.String("command", cmd.Name()))),
		closer: func() { _ = zapLog.Sync() },
	}, nil
}

// openGenerator loads the data file once and builds a generator over it.
func (e *env) openGenerator(cmd *cobra.Command) (*generator.Generator, *datastore.Store, error) {
	store, err := datastore.Open(e.cfg.Data.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load hot take data: %w", err)
	}

	random := generator.NewRandom()
	if seed, _ := cmd.Flags().GetUint64("seed"); seed != 0 {
		random = generator.NewSeededRandom(seed)
	}

	e.log.Info("Loaded hot take data", map[string]interface{}{
		"path":  e.cfg.Data.Path,
		"takes": len(store.Data().Takes),
	})
	return generator.New(store, random, e.log), store, nil
}
