package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/trello-client/internal/pkg/application/stub"
	"github.com/diwise/trello-client/internal/pkg/application/webhooks"
	"github.com/diwise/trello-client/internal/pkg/infrastructure/router"
	"github.com/diwise/trello-client/internal/pkg/infrastructure/storage"
	"github.com/diwise/trello-client/internal/pkg/presentation/api"
)

const serviceName string = "trello-stub"

func main() {
	serviceVersion := buildinfo.SourceVersion()

	ctx, log, cleanup := o11y.Init(context.Background(), serviceName, serviceVersion, "json")
	defer cleanup()

	cfg := LoadConfiguration(ctx)

	policies, err := os.Open(cfg.policyPath)
	if err != nil {
		log.Error("unable to open policy file", "path", cfg.policyPath, "err", err.Error())
		os.Exit(1)
	}
	defer policies.Close()

	var seed io.Reader
	if cfg.seedPath != "" {
		seedFile, err := os.Open(cfg.seedPath)
		if err != nil {
			log.Error("unable to open seed file", "path", cfg.seedPath, "err", err.Error())
			os.Exit(1)
		}
		defer seedFile.Close()
		seed = seedFile
	}

	handler, stop, err := initialize(ctx, cfg, policies, seed)
	if err != nil {
		log.Error("failed to initialize service", "err", err.Error())
		os.Exit(1)
	}
	defer stop()

	log.Info("starting to listen for connections", "port", cfg.servicePort, "storage", string(cfg.storageType))

	err = http.ListenAndServe(":"+cfg.servicePort, handler)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("failed to listen for connections", "err", err.Error())
	}
}

func initialize(ctx context.Context, cfg *AppConfig, policies, seed io.Reader) (http.Handler, func(), error) {
	store, err := newStore(ctx, cfg.storageType)
	if err != nil {
		return nil, nil, err
	}

	notifier, err := webhooks.NewNotifier(ctx, cfg.webhookEndpoint)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	err = notifier.Start()
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	stop := func() {
		notifier.Stop()
		store.Close()
	}

	app := stub.New(store, notifier)

	if seed != nil {
		err = app.Seed(ctx, seed)
		if err != nil {
			stop()
			return nil, nil, err
		}
	}

	r := router.New(serviceName)

	err = api.RegisterHandlers(ctx, r, policies, app)
	if err != nil {
		stop()
		return nil, nil, err
	}

	return r, stop, nil
}

func newStore(ctx context.Context, storageType StorageType) (storage.Store, error) {
	switch storageType {
	case StorageMemory:
		return storage.NewMemoryStore(), nil
	case StoragePostgres:
		return storage.NewPostgresStore(ctx, storage.LoadConfiguration(ctx))
	}

	logging.GetFromContext(ctx).Error("unsupported storage type", "type", string(storageType))

	return nil, fmt.Errorf("unsupported storage type %q", storageType)
}
