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

func (h *handlers) registerPayments(r fiber.Router) {
	billers := r.Group("/billers")
	billers.Get("/", h.getBillers)
	billers.Get("/public/:publicId", h.getBillerByPublicID)
	billers.Get("/:id", h.getBiller)
	billers.Get("/:id/children", h.getBillerWithChildren)
	billers.Get("/:id/customers", h.getCustomersByBiller)
	billers.Post("/", h.createBiller)
	billers.Put("/:id", h.updateBiller)
	billers.Delete("/:id", h.deleteBiller)

	customers := r.Group("/customers")
	customers.Get("/public/:publicId", h.getCustomerByPublicID)
	customers.Get("/:id", h.getCustomer)
	customers.Get("/:id/addresses", h.getAddressesByCustomer)
	customers.Get("/:id/invoices", h.getInvoicesByCustomer)
	customers.Post("/", h.createCustomer)
	customers.Put("/:id", h.updateCustomer)
	customers.Delete("/:id", h.deleteCustomer)

	addresses := r.Group("/customeraddresses")
	addresses.Get("/", h.getAddresses)
	addresses.Get("/public/:publicId", h.getAddressByPublicID)
	addresses.Get("/:id", h.getAddress)
	addresses.Post("/", h.createAddress)
	addresses.Put("/:id", h.updateAddress)
	addresses.Delete("/:id", h.deleteAddress)

	invoices := r.Group("/invoices")
	invoices.Get("/public/:publicId", h.getInvoiceByPublicID)
	invoices.Get("/:id", h.getInvoice)
	invoices.Post("/", h.createInvoice)
	invoices.Put("/:id/status", h.updateInvoiceStatus)
	invoices.Post("/:id/payments", h.recordPayment)
	invoices.Delete("/:id", h.deleteInvoice)

	gateways := r.Group("/paymentgateways")
	gateways.Get("/", h.getGateways)
	gateways.Post("/", h.createGateway)
	gateways.Put("/:name", h.saveGateway)
}

// billers

func (h *handlers) getBillers(c *fiber.Ctx) error {
	billers, err := h.services.Billers().GetAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(billers)
}

func (h *handlers) getBiller(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	biller, err := h.services.Billers().GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(biller)
}

func (h *handlers) getBillerByPublicID(c *fiber.Ctx) error {
	publicID, err := uuidParam(c, "publicId")
	if err != nil {
		return err
	}
	biller, err := h.services.Billers().GetByPublicID(c.UserContext(), publicID)
	if err != nil {
		return err
	}
	return c.JSON(biller)
}

func (h *handlers) getBillerWithChildren(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	biller, err := h.services.Billers().GetWithChildren(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(biller)
}

func (h *handlers) createBiller(c *fiber.Ctx) error {
	var dto service.BillerForCreation
	if err := parseBody(c, &dto); err != nil {
		return err
	}
	biller, err := h.services.Billers().Create(c.UserContext(), dto)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(biller)
}

func (h *handlers) updateBiller(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	var dto service.BillerForUpdate
	if err := parseBody(c, &dto); err != nil {
		return err
	}
	if err := h.services.Billers().Update(c.UserContext(), id, dto); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) deleteBiller(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	if err := h.services.Billers().Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// customers

func (h *handlers) getCustomersByBiller(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	customers, err := h.services.Customers().GetByBiller(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(customers)
}

func (h *handlers) getCustomer(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	customer, err := h.services.Customers().GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(customer)
}

func (h *handlers) getCustomerByPublicID(c *fiber.Ctx) error {
	publicID, err := uuidParam(c, "publicId")
	if err != nil {
		return err
	}
	customer, err := h.services.Customers().GetByPublicID(c.UserContext(), publicID)
	if err != nil {
		return err
	}
	return c.JSON(customer)
}

func (h *handlers) createCustomer(c *fiber.Ctx) error {
	var dto service.CustomerForCreation
	if err := parseBody(c, &dto); err != nil {
		return err
	}
	customer, err := h.services.Customers().Create(c.UserContext(), dto)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

func (h *handlers) updateCustomer(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	var dto service.CustomerForUpdate
	if err := parseBody(c, &dto); err != nil {
		return err
	}
	if err := h.services.Customers().Update(c.UserContext(), id, dto); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) deleteCustomer(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	if err := h.services.Customers().Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// customer addresses

func (h *handlers) getAddresses(c *fiber.Ctx) error {
	addresses, err := h.services.CustomerAddresses().GetAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(addresses)
}

func (h *handlers) getAddressesByCustomer(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	addresses, err := h.services.CustomerAddresses().GetByCustomerID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(addresses)
}

func (h *handlers) getAddress(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	address, err := h.services.CustomerAddresses().GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(address)
}

func (h *handlers) getAddressByPublicID(c *fiber.Ctx) error {
	publicID, err := uuidParam(c, "publicId")
	if err != nil {
		return err
	}
	address, err := h.services.CustomerAddresses().GetByPublicID(c.UserContext(), publicID)
	if err != nil {
		return err
	}
	return c.JSON(address)
}

func (h *handlers) createAddress(c *fiber.Ctx) error {
	var dto service.CustomerAddressForCreation
	if err := parseBody(c, &dto); err != nil {
		return err
	}
	address, err := h.services.CustomerAddresses().Create(c.UserContext(), dto)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(address)
}

func (h *handlers) updateAddress(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	var dto service.CustomerAddressForUpdate
	if err := parseBody(c, &dto); err != nil {
		return err
	}
	if err := h.services.CustomerAddresses().Update(c.UserContext(), id, dto); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) deleteAddress(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	if err := h.services.CustomerAddresses().Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// invoices

func (h *handlers) getInvoicesByCustomer(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	invoices, err := h.services.Invoices().GetByCustomer(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(invoices)
}

func (h *handlers) getInvoice(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	invoice, err := h.services.Invoices().GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(invoice)
}

func (h *handlers) getInvoiceByPublicID(c *fiber.Ctx) error {
	publicID, err := uuidParam(c, "publicId")
	if err != nil {
		return err
	}
	invoice, err := h.services.Invoices().GetByPublicID(c.UserContext(), publicID)
	if err != nil {
		return err
	}
	return c.JSON(invoice)
}

func (h *handlers) createInvoice(c *fiber.Ctx) error {
	var dto service.InvoiceForCreation
	if err := parseBody(c, &dto); err != nil {
		return err
	}
	invoice, err := h.services.Invoices().Create(c.UserContext(), dto)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

func (h *handlers) updateInvoiceStatus(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	var dto service.InvoiceStatusUpdate
	if err := parseBody(c, &dto); err != nil {
		return err
	}
	if err := h.services.Invoices().UpdateStatus(c.UserContext(), id, dto); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) recordPayment(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	var dto service.PaymentForCreation
	if err := parseBody(c, &dto); err != nil {
		return err
	}
	payment, err := h.services.Invoices().RecordPayment(c.UserContext(), id, dto)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(payment)
}

func (h *handlers) deleteInvoice(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	if err := h.services.Invoices().Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// payment gateways

func (h *handlers) getGateways(c *fiber.Ctx) error {
	gateways, err := h.services.PaymentGateways().GetAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(gateways)
}

func (h *handlers) createGateway(c *fiber.Ctx) error {
	var dto service.PaymentGatewayForCreation
	if err := parseBody(c, &dto); err != nil {
		return err
	}
	gateway, err := h.services.PaymentGateways().Create(c.UserContext(), dto)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(gateway)
}

// saveGateway upserts by the name in the path.
func (h *handlers) saveGateway(c *fiber.Ctx) error {
	var dto service.PaymentGatewayForCreation
	if err := parseBody(c, &dto); err != nil {
		return err
	}
	dto.Name = c.Params("name")
	if err := h.services.PaymentGateways().Save(c.UserContext(), dto); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
