package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/playlake/internal/config"
	"github.com/yungbote/playlake/internal/jobs/pipeline/log_data_build"
	"github.com/yungbote/playlake/internal/jobs/pipeline/song_data_build"
	jobrt "github.com/yungbote/playlake/internal/jobs/runtime"
	"github.com/yungbote/playlake/internal/platform/logger"
	"github.com/yungbote/playlake/internal/platform/objectstore"
	"github.com/yungbote/playlake/internal/records"
	"github.com/yungbote/playlake/internal/tables"
	"github.com/yungbote/playlake/internal/warehouse"
)

type Options struct {
	ConfigPath string
	InputRoot  string
	OutputRoot string
	DryRun     bool
}

type App struct {
	Log       *logger.Logger
	Cfg       config.Config
	Reader    *records.Reader
	Writer    tables.Writer
	Warehouse *warehouse.Service
	Registry  *jobrt.Registry
}

// New loads configuration, authorizes the storage boundary once, and wires
// the two pipelines. Any configuration problem fails here, before a single
// record is read.
func New(ctx context.Context, opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath, config.Overrides{
		InputRoot:  opts.InputRoot,
		OutputRoot: opts.OutputRoot,
	})
	if err != nil {
		// the config logger does not exist yet; the caller prints this one
		return nil, err
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	inputStore, err := objectstore.New(ctx, log, cfg.InputStorage())
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init input storage: %w", err)
	}
	outputStore, err := objectstore.New(ctx, log, cfg.OutputStorage())
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init output storage: %w", err)
	}

	reader := records.NewReader(log, inputStore)
	var writer tables.Writer
	if opts.DryRun {
		writer = tables.NewDryRunWriter(log)
	} else {
		writer = tables.NewStoreWriter(log, outputStore, cfg.Output.Root)
	}

	var wh *warehouse.Service
	if cfg.Warehouse.DSN != "" && !opts.DryRun {
		wh, err = warehouse.New(log, cfg.Warehouse.DSN)
		if err != nil {
			log.Sync()
			return nil, fmt.Errorf("init warehouse: %w", err)
		}
	}

	registry := jobrt.NewRegistry()
	if err := registry.Register(song_data_build.New(log, reader, writer, wh, cfg.SongsPattern())); err != nil {
		log.Sync()
		return nil, err
	}
	if err := registry.Register(log_data_build.New(log, reader, writer, wh, cfg.SongsPattern(), cfg.LogsPattern())); err != nil {
		log.Sync()
		return nil, err
	}

	return &App{
		Log:       log,
		Cfg:       cfg,
		Reader:    reader,
		Writer:    writer,
		Warehouse: wh,
		Registry:  registry,
	}, nil
}

// Run executes both pipelines once. They share no mutable state (the log
// pipeline re-reads the catalog itself), so they run concurrently; the
// first failure is returned, the other pipeline finishes its own write or
// fails on its own terms.
func (a *App) Run(ctx context.Context) error {
	g := &errgroup.Group{}
	for _, jobType := range a.Registry.Types() {
		handler, _ := a.Registry.Get(jobType)
		g.Go(func() error {
			jc := jobrt.NewContext(ctx, a.Log, handler.Type())
			if err := handler.Run(jc); err != nil {
				return err
			}
			if err := jc.Err(); err != nil {
				return fmt.Errorf("%s (stage %s): %w", handler.Type(), jc.Job.Stage, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (a *App) Close() {
	if a == nil || a.Log == nil {
		return
	}
	a.Log.Sync()
}
