package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/aiready/internal/catalog"
	"github.com/abhisek/aiready/internal/commentary"
	"github.com/abhisek/aiready/internal/config"
	"github.com/abhisek/aiready/internal/diagnosis"
	"github.com/abhisek/aiready/internal/llm"
	"github.com/abhisek/aiready/internal/logging"
	"github.com/abhisek/aiready/internal/report"
	"github.com/abhisek/aiready/internal/store"
)

// app holds the dependencies shared by the subcommands.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	store *store.Store
	cat   *catalog.Catalog
	svc   *diagnosis.Service
	exp   *report.Exporter
}

// loadConfig reads the config named by --config, or the default locations.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(file)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// openStore loads the config and opens the database it points at.
func openStore(cmd *cobra.Command) (*config.Config, *store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return cfg, st, nil
}

// openApp opens the store and builds every service on top of it.
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, st, err := openStore(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("create logger: %w", err)
	}

	cat := catalog.Default()
	if cfg.Catalog.Path != "" {
		cat, err = catalog.Load(cfg.Catalog.Path)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("load catalog: %w", err)
		}
	}

	var provider llm.Provider
	if cfg.Commentary.Enabled && cfg.LLM.Enabled() {
		provider, err = llm.NewProvider(cmd.Context(), cfg.LLM, st.EventRepo(), log)
		if err != nil {
			log.Warn("LLM provider not configured, using canned commentary", zap.Error(err))
			provider = nil
		}
	}
	comments := commentary.NewService(provider, cat, cfg.Commentary.Service(), log)

	return &app{
		cfg:   cfg,
		log:   log,
		store: st,
		cat:   cat,
		svc:   diagnosis.NewService(cat, st.DiagnosisRepo(), comments, log),
		exp: report.New(report.Options{
			Catalog: cat,
			Fonts:   report.Fonts{Regular: cfg.Report.FontPath},
			Logger:  log,
		}),
	}, nil
}

func (a *app) Close() error {
	_ = a.log.Sync()
	return a.store.Close()
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid diagnosis id %q", s)
	}
	return id, nil
}
