package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/benhook1013/fireengine/internal/commands"
	"github.com/benhook1013/fireengine/internal/game"
	"github.com/benhook1013/fireengine/internal/listener"
	"github.com/benhook1013/fireengine/internal/messaging"
	"github.com/benhook1013/fireengine/internal/player"
	"github.com/pixil98/go-service"
)

// WorkerBuilder returns the application's worker builder. The ADMIN SHUTDOWN
// command calls shutdown, which must cancel the context the app runs with.
func WorkerBuilder(shutdown context.CancelFunc) func(config interface{}) (service.WorkerList, error) {
	return func(config interface{}) (service.WorkerList, error) {
		cfg, ok := config.(*Config)
		if !ok {
			return nil, fmt.Errorf("unable to cast config")
		}
		return buildWorkers(cfg, commands.ShutdownFunc(shutdown))
	}
}

func buildWorkers(cfg *Config, shutdown commands.Shutdowner) (service.WorkerList, error) {
	dict, closer, err := cfg.Storage.BuildDictionary()
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	workers, err := assembleWorkers(cfg, dict, closer, shutdown)
	if err != nil {
		if closer != nil {
			if cerr := closer.Close(); cerr != nil {
				slog.Error("closing storage", "error", cerr)
			}
		}
		return nil, err
	}
	return workers, nil
}

// assembleWorkers builds everything that runs on top of storage. The caller
// closes closer if it fails.
func assembleWorkers(cfg *Config, dict *game.Dictionary, closer io.Closer, shutdown commands.Shutdowner) (service.WorkerList, error) {
	world := cfg.World.newWorld()
	if err := dict.LoadWorld(context.Background(), world, cfg.World.radius()); err != nil {
		return nil, fmt.Errorf("loading world: %w", err)
	}

	nats, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	publisher := messaging.NewNatsPublisher(nats)

	dispatcher, err := commands.NewWorldDispatcher(world, publisher, dict, shutdown)
	if err != nil {
		return nil, fmt.Errorf("creating dispatcher: %w", err)
	}

	sessions, err := cfg.Session.BuildSessionManager(&player.Env{
		World:      world,
		Accounts:   dict,
		Dispatcher: dispatcher,
		Publisher:  publisher,
		Subscriber: publisher,
	})
	if err != nil {
		return nil, fmt.Errorf("creating session manager: %w", err)
	}

	cm := listener.NewConnectionManager(sessions, cfg.MaxConnections)
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		w, err := l.BuildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[l.name()] = w
	}

	return service.WorkerList{
		"nats":      nats,
		"sessions":  &closeAfter{worker: sessions, closer: closer},
		"listeners": &listeners,
	}, nil
}

// closeAfter runs a worker and closes closer once it has stopped.
type closeAfter struct {
	worker service.Worker
	closer io.Closer
}

func (c *closeAfter) Start(ctx context.Context) error {
	err := c.worker.Start(ctx)
	if c.closer != nil {
		if cerr := c.closer.Close(); cerr != nil {
			slog.ErrorContext(ctx, "closing storage", "error", cerr)
		}
	}
	return err
}
