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

// Package api exposes the services over HTTP with fiber.
package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/tomoncle/starter/database"
	"github.com/tomoncle/starter/service"
	"github.com/tomoncle/starter/utils"
)

// HealthChecker reports store health for /healthz.
type HealthChecker interface {
	HealthCheck(ctx context.Context) *database.HealthStatus
}

// HealthFunc adapts a function such as (*database.Store).Health.
type HealthFunc func(ctx context.Context) *database.HealthStatus

func (f HealthFunc) HealthCheck(ctx context.Context) *database.HealthStatus {
	return f(ctx)
}

type Options struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// RequestTimeout bounds the context handed to services; 0 means none.
	RequestTimeout time.Duration
	// Context is the parent of every request context, usually the process
	// lifetime. Defaults to context.Background.
	Context context.Context
	Health  HealthChecker
	Logger  *logrus.Logger
}

// NewApp builds the fiber application with every route registered.
func NewApp(services *service.Manager, opts Options) *fiber.App {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewLogger("HTTP")
	}
	app := fiber.New(fiber.Config{
		ReadTimeout:           opts.ReadTimeout,
		WriteTimeout:          opts.WriteTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(logger),
	})
	app.Use(recover.New())
	app.Use(requestLogger(logger))
	app.Use(requestContext(opts.Context, opts.RequestTimeout))

	app.Get("/healthz", healthz(opts.Health))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	h := &handlers{services: services}
	api := app.Group("/api")
	h.registerTodo(api)
	h.registerPayments(api)
	return app
}

type handlers struct {
	services *service.Manager
}

func requestLogger(logger *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := c.Get(fiber.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Locals("requestID", requestID)
		c.Set(fiber.HeaderXRequestID, requestID)

		err := c.Next()
		if err != nil {
			// let the error handler set the final status before logging
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		entry := logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"elapsed":    utils.Since(start),
		})
		switch {
		case status >= 500:
			entry.Error("server error")
		case status >= 400:
			entry.Warn("client error")
		default:
			entry.Debug("request completed")
		}
		return nil
	}
}

// requestContext sets c.UserContext to a context derived from base that is
// cancelled when the handler returns.
func requestContext(base context.Context, timeout time.Duration) fiber.Handler {
	if base == nil {
		base = context.Background()
	}
	return func(c *fiber.Ctx) error {
		var (
			ctx    context.Context
			cancel context.CancelFunc
		)
		if timeout > 0 {
			ctx, cancel = context.WithTimeout(base, timeout)
		} else {
			ctx, cancel = context.WithCancel(base)
		}
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func healthz(checker HealthChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if checker == nil {
			return c.JSON(fiber.Map{"status": "ok"})
		}
		status := checker.HealthCheck(c.UserContext())
		if !status.Healthy {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "database": status})
		}
		return c.JSON(fiber.Map{"status": "ok", "database": status})
	}
}
