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

package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tomoncle/starter/errs"
	"github.com/tomoncle/starter/utils"
)

// ErrorHandler maps the errs taxonomy to status codes:
// NotFound 404, Validation 400, Integrity 409, Unavailable 503, else 500.
func ErrorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = utils.NewLogger("HTTP")
	}
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		var ve *errs.ValidationError
		switch {
		case errors.As(err, &fe):
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		case errors.As(err, &ve):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errs.ErrValidation.Error(), "fields": ve.Fields})
		case errors.Is(err, errs.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, errs.ErrIntegrity):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": errs.ErrIntegrity.Error()})
		case errors.Is(err, errs.ErrUnavailable):
			logger.WithError(err).WithField("path", c.Path()).Error("store unavailable")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": errs.ErrUnavailable.Error()})
		default:
			logger.WithError(err).WithField("path", c.Path()).Error("request failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
		}
	}
}

func uuidParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, errs.Invalid(name, "must be a UUID")
	}
	return id, nil
}

func int64Param(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id < 1 {
		return 0, errs.Invalid(name, "must be a positive integer")
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}
	return nil
}
