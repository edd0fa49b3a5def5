/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Command starter serves the todo and payments API and, when Redis is
// enabled, consumes todo commands from the message bus.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/tomoncle/starter/api"
	"github.com/tomoncle/starter/config"
	"github.com/tomoncle/starter/database"
	_ "github.com/tomoncle/starter/entity"
	"github.com/tomoncle/starter/messaging"
	"github.com/tomoncle/starter/repository"
	"github.com/tomoncle/starter/service"
	"github.com/tomoncle/starter/utils"
)

var logger = utils.NewLogger("STARTER")

func main() {
	configPath := flag.String("config", "", "path to a config file (default: ./config.yaml or ./configs/config.yaml)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		logger.WithError(err).Error("exiting")
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if strings.EqualFold(cfg.Log.Output, "stderr") {
		utils.ConfigureOutput(os.Stderr)
	}
	utils.ConfigureConsoleLogFormat(cfg.Log.Format)
	utils.ConfigureLogLevel(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.WithError(err).Warn("close database")
		}
	}()

	repos := repository.NewProvider(store.DB())

	var (
		bus      *messaging.RedisBus
		notifier service.Notifier
	)
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
		}
		bus = messaging.NewRedisBus(client,
			messaging.WithStreamPrefix(cfg.Redis.StreamPrefix),
			messaging.WithMaxLen(cfg.Redis.MaxLen),
		)
		notifier = messaging.NewBusNotifier(bus)
	}

	// Requests outlive the signal so shutdown can drain them; stragglers are
	// cancelled once the shutdown timeout is spent.
	requestCtx, cancelRequests := context.WithCancel(context.Background())
	defer cancelRequests()

	services := service.NewManager(repos, notifier)
	app := api.NewApp(services, api.Options{
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		Context:        requestCtx,
		Health:         api.HealthFunc(store.Health),
	})

	var wg sync.WaitGroup
	if bus != nil {
		commands := messaging.NewCommands(services.TodoItems(), bus)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := bus.Consume(ctx, messaging.TopicCommands, cfg.Redis.Group, cfg.Redis.Consumer, commands.Handle); err != nil {
				logger.WithError(err).Error("command consumer failed")
				stop()
			}
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.HTTP.Addr).Info("http server listening")
		serveErr <- app.Listen(cfg.HTTP.Addr)
	}()

	select {
	case err = <-serveErr:
		stop()
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if serr := app.ShutdownWithContext(shutdownCtx); serr != nil {
		logger.WithError(serr).Warn("http shutdown")
	}
	cancelRequests()
	wg.Wait()
	return err
}
