// Command recipevault is a terminal front over the recipe session: the
// same read/write/search/merge core the mobile screens drive, exposed as
// subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mbertin/recipevault/config"
	"github.com/mbertin/recipevault/internal/repository"
	"github.com/mbertin/recipevault/internal/service"
	"github.com/mbertin/recipevault/internal/session"
	"github.com/mbertin/recipevault/internal/share"
	"github.com/mbertin/recipevault/internal/storage"
)

func main() {
	root, err := newRootCmd()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles the wired core handed to every subcommand.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	session *session.Session
}

func newRootCmd() (*cobra.Command, error) {
	a := &app{}

	root := &cobra.Command{
		Use:           "recipevault",
		Short:         "Manage your personal recipe collection",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	root.AddCommand(
		newListCmd(a),
		newShowCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newDuplicateCmd(a),
		newSearchCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newGenerateCmd(a),
	)
	return root, nil
}

// init loads configuration and wires the storage, repository, generator
// and session together. Runs once before any subcommand.
func (a *app) init() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	a.cfg = cfg

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.log = log

	store, err := storage.NewSQLiteStore(cfg.DatabasePath, log)
	if err != nil {
		return err
	}

	sharer := share.NewFileSharer(cfg.ExportDir, log)
	repo := repository.NewRecipeRepository(store, sharer, log)

	var generator service.RecipeGenerator
	if cfg.LLMAPIKey != "" {
		drafts, err := newDraftStore(cfg)
		if err != nil {
			return err
		}
		generator, err = service.NewLLMService(cfg, drafts, log)
		if err != nil {
			return err
		}
	}

	a.session = session.New(repo, generator, &terminalNotifier{}, log)
	return nil
}

func newDraftStore(cfg *config.Config) (service.DraftStore, error) {
	if cfg.RedisURL != "" {
		return service.NewRedisDraftStore(cfg.RedisURL)
	}
	return service.NewMemoryDraftStore(), nil
}

func newLogger(level string) (*zap.Logger, error) {
	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	zapCfg := zap.NewProductionConfig()
	if config.IsDevelopment() {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(zapLevel)
	return zapCfg.Build()
}
