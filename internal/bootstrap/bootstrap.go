package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	contentinadapter "mindflow/internal/modules/content/adapter/in"
	contentoutadapter "mindflow/internal/modules/content/adapter/out"
	contentservice "mindflow/internal/modules/content/service"
	contentusecase "mindflow/internal/modules/content/usecase"
	generationinadapter "mindflow/internal/modules/generation/adapter/in"
	generationoutadapter "mindflow/internal/modules/generation/adapter/out"
	gendomain "mindflow/internal/modules/generation/domain"
	genin "mindflow/internal/modules/generation/port/in"
	genout "mindflow/internal/modules/generation/port/out"
	generationservice "mindflow/internal/modules/generation/service"
	generationusecase "mindflow/internal/modules/generation/usecase"
	sessioninadapter "mindflow/internal/modules/session/adapter/in"
	sessionoutadapter "mindflow/internal/modules/session/adapter/out"
	sessionservice "mindflow/internal/modules/session/service"
	sessionusecase "mindflow/internal/modules/session/usecase"
	sourceoutadapter "mindflow/internal/modules/source/adapter/out"
	sourceservice "mindflow/internal/modules/source/service"
	sourceusecase "mindflow/internal/modules/source/usecase"
	storageinadapter "mindflow/internal/modules/storage/adapter/in"
	storageoutadapter "mindflow/internal/modules/storage/adapter/out"
	storageout "mindflow/internal/modules/storage/port/out"
	storageservice "mindflow/internal/modules/storage/service"
	storageusecase "mindflow/internal/modules/storage/usecase"
	taskinadapter "mindflow/internal/modules/task/adapter/in"
	taskservice "mindflow/internal/modules/task/service"
	taskusecase "mindflow/internal/modules/task/usecase"
	"mindflow/internal/platform/clock"
	"mindflow/internal/platform/config"
	"mindflow/internal/platform/id"
	"mindflow/internal/platform/logger"
	"mindflow/internal/platform/tx"
)

type App struct {
	Config config.Config
	Log    *logger.Logger
	Clock  clock.Clock

	ContentCLI    contentinadapter.CLIHandler
	TaskCLI       taskinadapter.CLIHandler
	StorageCLI    storageinadapter.CLIHandler
	GenerationCLI generationinadapter.CLIHandler
	SessionCLI    sessioninadapter.CLIHandler

	kv storageout.KV
}

// New wires every module for cfg and loads the stored state.
func New(ctx context.Context, cfg config.Config, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}
	clk := clock.SystemClock{}
	ids := id.TimeOrdered{}

	if err := os.MkdirAll(cfg.StateDir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	kv, err := newKV(ctx, cfg, clk)
	if err != nil {
		return nil, err
	}
	txm, ok := kv.(tx.Manager)
	if !ok {
		txm = tx.NoopManager{}
	}
	persistence := storageservice.NewPersistenceService(kv, txm, clk, ids, log.With("module", "storage"))

	tracker := taskusecase.NewInteractor(taskservice.NewTracker(clk, id.RandomHex{}))
	generation := newGeneration(ctx, cfg, log.With("module", "generation"))
	sources := sourceusecase.NewInteractor(sourceservice.NewSourceService(
		sourceoutadapter.NewLocalTextReader(),
		sourceoutadapter.NewLocalPDFReader(),
	))

	store := contentservice.NewStore(persistence, clk, ids, log.With("module", "content"))
	content := contentusecase.NewInteractor(store, generation, tracker, sources, contentoutadapter.NewMarkdownWriter(), log.With("module", "content"))
	storage := storageusecase.NewInteractor(persistence, store)
	sessions := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(clk, id.RandomHex{}, sessionoutadapter.NewFileActiveSessionStore(cfg.StateDir), log.With("module", "session")),
		generation,
		content,
		log.With("module", "session"),
	)

	if err := store.Reload(ctx); err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("load state: %w", err)
	}
	log.Debug("application ready", "store", cfg.Store.Backend, "generator", cfg.Generator.Backend)

	return &App{
		Config:        cfg,
		Log:           log,
		Clock:         clk,
		ContentCLI:    contentinadapter.NewCLIHandler(content),
		TaskCLI:       taskinadapter.NewCLIHandler(tracker),
		StorageCLI:    storageinadapter.NewCLIHandler(storage),
		GenerationCLI: generationinadapter.NewCLIHandler(generation),
		SessionCLI:    sessioninadapter.NewCLIHandler(sessions),
		kv:            kv,
	}, nil
}

func (a *App) Close() error {
	if a == nil || a.kv == nil {
		return nil
	}
	return a.kv.Close()
}

func newKV(ctx context.Context, cfg config.Config, clk clock.Clock) (storageout.KV, error) {
	switch cfg.Store.Backend {
	case "redis":
		kv, err := storageoutadapter.NewRedisKV(ctx, cfg.Store.RedisAddr, cfg.Store.RedisPrefix)
		if err != nil {
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		return kv, nil
	case "file":
		kv, err := storageoutadapter.NewFileKV(cfg.StateDir)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return kv, nil
	default:
		kv, err := storageoutadapter.NewSQLiteKV(cfg.DBPath, clk)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return kv, nil
	}
}

// newGeneration picks the model for the configured backend. A backend that
// cannot be set up still yields a client whose calls fail with the reason,
// so commands that need no generation keep working.
func newGeneration(ctx context.Context, cfg config.Config, log *logger.Logger) genin.Usecase {
	backend := gendomain.Backend(cfg.Generator.Backend)
	timeout := time.Duration(cfg.Generator.TimeoutSeconds) * time.Second
	manifests := generationoutadapter.NewFileManifestStore(cfg.DataDir, cfg.Generator.ManifestPath)
	host := generationoutadapter.NewGRPCHost()

	var model genout.Model
	switch backend {
	case gendomain.BackendOffline:
		model = generationoutadapter.NewOfflineModel()
	case gendomain.BackendPlugin:
		manifest, err := generationservice.SelectPlugin(ctx, manifests, cfg.Generator.Plugin)
		if err != nil {
			log.Warn("generator plugin unavailable", "plugin", cfg.Generator.Plugin, "error", err)
			model = generationoutadapter.NewUnavailableModel(err)
			break
		}
		model = generationoutadapter.NewPluginModel(host, manifest, timeout)
	default:
		gemini, err := generationoutadapter.NewGeminiModel(cfg.Generator.BaseURL, cfg.Generator.APIKey, cfg.Generator.Model, timeout)
		if err != nil {
			log.Debug("gemini backend unavailable", "error", err)
			model = generationoutadapter.NewUnavailableModel(err)
			break
		}
		model = gemini
	}

	doctor := generationservice.NewDoctor(generationservice.BackendConfig{
		Backend:   backend,
		Model:     cfg.Generator.Model,
		HasAPIKey: cfg.Generator.APIKey != "",
		Plugin:    cfg.Generator.Plugin,
	}, manifests, host)
	return generationusecase.NewInteractor(generationservice.NewGenerationService(model, log), doctor)
}
