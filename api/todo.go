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
	"github.com/gofiber/fiber/v2"
	"github.com/tomoncle/starter/service"
)

func (h *handlers) registerTodo(r fiber.Router) {
	lists := r.Group("/todolists")
	lists.Get("/", h.getTodoLists)
	lists.Get("/:id", h.getTodoList)
	lists.Get("/:id/items", h.getTodoItemsByList)
	lists.Post("/", h.createTodoList)
	lists.Put("/:id", h.updateTodoList)
	lists.Delete("/:id", h.deleteTodoList)

	items := r.Group("/todoitems")
	items.Get("/:id", h.getTodoItem)
	items.Post("/", h.createTodoItem)
	items.Put("/:id", h.updateTodoItem)
	items.Post("/:id/complete", h.completeTodoItem)
	items.Delete("/:id", h.deleteTodoItem)
}

func (h *handlers) getTodoLists(c *fiber.Ctx) error {
	lists, err := h.services.TodoLists().GetAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(lists)
}

func (h *handlers) getTodoList(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	list, err := h.services.TodoLists().GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *handlers) createTodoList(c *fiber.Ctx) error {
	var dto service.TodoListForCreation
	if err := parseBody(c, &dto); err != nil {
		return err
	}
	list, err := h.services.TodoLists().Create(c.UserContext(), dto)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(list)
}

func (h *handlers) updateTodoList(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var dto service.TodoListForUpdate
	if err := parseBody(c, &dto); err != nil {
		return err
	}
	if err := h.services.TodoLists().Update(c.UserContext(), id, dto); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) deleteTodoList(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.services.TodoLists().Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) getTodoItemsByList(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	items, err := h.services.TodoItems().GetByList(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (h *handlers) getTodoItem(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	item, err := h.services.TodoItems().GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(item)
}

func (h *handlers) createTodoItem(c *fiber.Ctx) error {
	var dto service.TodoItemForCreation
	if err := parseBody(c, &dto); err != nil {
		return err
	}
	item, err := h.services.TodoItems().Create(c.UserContext(), dto)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *handlers) updateTodoItem(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var dto service.TodoItemForUpdate
	if err := parseBody(c, &dto); err != nil {
		return err
	}
	if err := h.services.TodoItems().Update(c.UserContext(), id, dto); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) completeTodoItem(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.services.TodoItems().Complete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) deleteTodoItem(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.services.TodoItems().Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
