package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type AppProvider interface {
	Run() error
	Serve() func() error
	Stop(context.Context, context.Context) func() error
}

type App struct {
	logger         *zap.Logger
	config         *Config
	server         *http.Server
	redisClient    *redis.Client
	shell          *Shell
	cleanups       []func()
	queueConsumers []func(context.Context) error
}

// NewApp provides an instance of App.
func NewApp() (AppProvider, error) {
	var app *App
	config, err := LoadAndInitConfigs(GitCommit, GitTag, BuildTime)
	if err != nil {
		return nil, fmt.Errorf("failed to setup app configuration: %s", err)
	}

	// ensure the logs folder exists and Setup the logging module.
	err = os.MkdirAll(config.LogFolder, 0o700)
	if err != nil {
		return nil, fmt.Errorf("failed to create logging folder: %s", err)
	}
	clock := NewClock(config.IsProduction)
	logWriter := NewRSyncWriter(config, clock)
	logger, flusher := SetupLogging(config, logWriter, NewTickClock(clock))
	cleanups := []func(){
		func() {
			if ferr := flusher(); ferr != nil {
				fmt.Println("error during flushing of logs: ", ferr)
			}
		},
		func() {
			if cerr := logWriter.Close(); cerr != nil {
				fmt.Println("error during closing of log file: ", cerr)
			}
		},
	}

	// Setup the document store backend and the redis client when required.
	var redisClient *redis.Client
	if config.Storage.Backend == RedisBackend || config.Storage.CascadeRetry {
		redisClient, err = GetRedisClient(config)
		if err != nil {
			return app, fmt.Errorf("failed to connect to redis server: %s", err)
		}
	}

	var store DocumentStore
	switch config.Storage.Backend {
	case RedisBackend:
		store = NewRedisDocumentStore(logger, redisClient, config.Redis.KeyPrefix)
	default:
		boltDBClient, berr := GetBoltDBClient(config)
		if berr != nil {
			return app, fmt.Errorf("failed to connect to boltDB server: %s", berr)
		}
		boltStore := NewBoltDocumentStore(logger, &config.BoltDB, boltDBClient)
		cleanups = append([]func(){func() { _ = boltStore.Close() }}, cleanups...)
		store = boltStore
	}

	// Setup the collections and their integrity rules.
	ids := NewIDsHandler()
	hooks := NewInterceptors(logger)
	collections := NewCollections(logger, store, hooks, ids)

	var retrier CascadeRetrier
	var queueConsumers []func(context.Context) error
	if config.Storage.CascadeRetry {
		queue := NewRedisQueue(redisClient, config.Redis.KeyPrefix)
		retrier = NewQueueRetrier(logger, queue)
		cascadeConsumer := NewCascadeConsumer(logger, queue, config.Storage.CascadeMaxAttempts, config.Storage.CascadeRetryBackoff, collections.Comments)
		queueConsumers = append(queueConsumers, func(ctx context.Context) error {
			return cascadeConsumer.Consume(ctx, CascadeQueue)
		})
	}

	if err = RegisterIntegrityGuards(hooks, collections, retrier); err != nil {
		return app, fmt.Errorf("failed to register integrity guards: %s", err)
	}

	// Setup the domain services.
	policy := NewResiliencePolicy(logger, &config.Resilience, clock)
	services := &Services{
		Authors:  NewAuthorService(logger, collections.Authors, policy),
		Genres:   NewGenreService(logger, collections.Genres, policy),
		Books:    NewBookService(logger, collections, policy),
		Comments: NewCommentService(logger, collections),
		Users:    NewUserService(logger, collections.Users),
	}

	if config.Seed.Enable {
		if err = SeedCatalog(context.Background(), logger, collections, services, &config.Seed); err != nil {
			return app, fmt.Errorf("failed to seed the catalog: %s", err)
		}
	}

	apiService := NewAPIHandler(
		logger,
		config,
		&Statistics{
			version:   config.GitTag,
			container: IsAppRunningInDocker(),
			started:   clock.Now(),
			runtime:   runtime.Version(),
			platform:  runtime.GOOS + "/" + runtime.GOARCH,
		},
		clock,
		ids,
		services,
	)

	// Use git commit in case the tag is not set.
	if config.GitTag == "" {
		apiService.stats.version = config.GitCommit
	}

	// Configure the endpoints with their handlers and middlewares.
	router := apiService.SetupRoutes(httprouter.New(), apiService.NewMiddlewareMap())

	// Wrap the router with the default http timeout handler.
	routerWithTimeout := http.TimeoutHandler(
		router,
		config.Server.RequestTimeout,
		"Timeout. Processing taking too long. Please reach out to support.")

	// Build the api server definition.
	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
		Handler:        routerWithTimeout,
		ReadTimeout:    config.Server.ReadTimeout,
		WriteTimeout:   config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // Max headers size : 1MB
	}

	var shell *Shell
	if config.Shell.Enable {
		shell = NewShell(logger.Named("shell"), &config.Shell, services)
	}

	return &App{
		logger:         logger,
		config:         config,
		server:         srv,
		redisClient:    redisClient,
		shell:          shell,
		cleanups:       cleanups,
		queueConsumers: queueConsumers,
	}, nil
}

// Run starts the api web server and a goroutine which is responsible to stop it.
// Leaving the shell stops the whole application.
func (app *App) Run() error {
	defer app.Clean()
	nCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(nCtx)

	g.Go(app.ConsumeQueues(gCtx, g))
	g.Go(app.Serve())
	g.Go(app.Stop(nCtx, gCtx))
	if app.shell != nil {
		g.Go(app.RunShell(gCtx))
	}

	err := g.Wait()
	if errors.Is(err, ErrShellExit) {
		err = nil
	}
	app.logger.Info("api server stopped",
		zap.String("app.host", app.config.Server.Host),
		zap.String("app.port", app.config.Server.Port),
		zap.Error(err),
	)
	return err
}

// Clean calls all registered cleanups functions.
func (app *App) Clean() {
	for _, f := range app.cleanups {
		f()
	}
}

// Serve starts the api web server. It returned error
// will be caught by the errorgroup.
func (app *App) Serve() func() error {
	return func() error {
		app.logger.Info("api server starting",
			zap.String("app.host", app.config.Server.Host),
			zap.String("app.port", app.config.Server.Port),
		)
		err := app.server.ListenAndServe()
		if err == http.ErrServerClosed {
			err = nil
		}
		return err
	}
}

// RunShell runs the operator shell. Only an explicit exit is reported
// as ErrShellExit so that the errorgroup stops the server as well. An end
// of input or a missing terminal ends the shell alone.
func (app *App) RunShell(gCtx context.Context) func() error {
	return func() error {
		err := app.shell.Run(gCtx)
		if gCtx.Err() != nil {
			return nil
		}
		if err == nil {
			app.logger.Info("shell ended, api server keeps running")
		}
		return err
	}
}

// Stop listens for the group context and triggers the server graceful shutdown.
// It states the reason of its call. We proceed with a brutal shutdown if the
// the graceful did not complete successfully. We explicitly return `nil` to
// allow the errorgroup catches only the `Serve` method result.
func (app *App) Stop(nCtx, gCtx context.Context) func() error {
	return func() error {
		<-gCtx.Done()

		if nCtx.Err() != nil {
			app.logger.Info("api server stopping. reason: requested to stop")
		} else {
			app.logger.Info("api server stopping. reason: errored at running or shell exited")
		}

		sCtx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
		defer cancel()
		err := app.server.Shutdown(sCtx)
		switch err {
		case nil, http.ErrServerClosed:
			app.logger.Info("api server graceful shutdown succeeded")
		case context.DeadlineExceeded:
			app.logger.Info("api server graceful shutdown timed out")
		default:
			app.logger.Info("api server graceful shutdown failed", zap.Error(err))
		}

		if err != nil && err != http.ErrServerClosed {
			app.logger.Info("api server going to force shutdown", zap.Error(app.server.Close()))
		}
		// unblocks the queue consumers.
		if app.redisClient != nil {
			_ = app.redisClient.Close()
		}
		return nil
	}
}

// ConsumeQueues runs all queue consumers into separate controlled goroutines.
func (app *App) ConsumeQueues(gCtx context.Context, g *errgroup.Group) func() error {
	return func() error {
		for _, consume := range app.queueConsumers {
			consume := consume
			g.Go(func() error {
				return consume(gCtx)
			})
		}
		return nil
	}
}
