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

// Package service holds the application services. Every operation builds a
// fresh repository.Manager, stages its changes and commits them once.
//
// Reads return entities; writes take the request payloads declared in
// dto.go and validate them before touching the store.
package service

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/tomoncle/starter/errs"
	"github.com/tomoncle/starter/repository"
	"github.com/tomoncle/starter/types"
	"github.com/tomoncle/starter/utils"
)

var log = utils.NewLogger("SERVICE")

// Manager exposes one instance of every service over a shared provider.
type Manager struct {
	todoLists TodoListService
	todoItems TodoItemService
	billers   BillerService
	customers CustomerService
	addresses CustomerAddressService
	invoices  InvoiceService
	gateways  PaymentGatewayService
}

// NewManager wires the services. A nil notifier falls back to LogNotifier.
func NewManager(repos *repository.Provider, notifier Notifier) *Manager {
	if notifier == nil {
		notifier = NewLogNotifier(log)
	}
	return &Manager{
		todoLists: &todoListService{repos: repos},
		todoItems: &todoItemService{repos: repos, notifier: notifier},
		billers:   &billerService{repos: repos},
		customers: &customerService{repos: repos},
		addresses: &customerAddressService{repos: repos},
		invoices:  &invoiceService{repos: repos},
		gateways:  &paymentGatewayService{repos: repos},
	}
}

func (m *Manager) TodoLists() TodoListService                { return m.todoLists }
func (m *Manager) TodoItems() TodoItemService                { return m.todoItems }
func (m *Manager) Billers() BillerService                    { return m.billers }
func (m *Manager) Customers() CustomerService                { return m.customers }
func (m *Manager) CustomerAddresses() CustomerAddressService { return m.addresses }
func (m *Manager) Invoices() InvoiceService                  { return m.invoices }
func (m *Manager) PaymentGateways() PaymentGatewayService    { return m.gateways }

// load returns the row with the given key or a NotFoundError naming it.
func load[T any](ctx context.Context, repo repository.Repository[T], name string, key any, relations ...string) (*T, error) {
	model, err := repo.GetWithRelations(ctx, key, relations...)
	if err != nil {
		return nil, err
	}
	if model == nil {
		return nil, errs.NotFound(name, key)
	}
	return model, nil
}

// loadPublic looks a row up by its public_id column.
func loadPublic[T any](ctx context.Context, repo repository.Repository[T], name string, key any) (*T, error) {
	model, err := repo.FirstOrDefault(ctx, types.Eq("public_id", key))
	if err != nil {
		return nil, err
	}
	if model == nil {
		return nil, errs.NotFound(name, key)
	}
	return model, nil
}

// requireParent fails with a parent NotFoundError when no row has the key.
func requireParent[T any](ctx context.Context, repo repository.Repository[T], name string, key any) error {
	ok, err := repo.Exists(ctx, types.Eq("id", key))
	if err != nil {
		return err
	}
	if !ok {
		return errs.ParentNotFound(name, key)
	}
	return nil
}

// commit saves the manager's staged changes and logs the outcome.
func commit(ctx context.Context, m *repository.Manager, fields logrus.Fields, msg string) error {
	if _, err := m.SaveChanges(ctx); err != nil {
		return err
	}
	log.WithFields(fields).Info(msg)
	return nil
}

// Entity names carried by NotFoundError.
const (
	entityTodoList        = "TodoList"
	entityTodoItem        = "TodoItem"
	entityBiller          = "Biller"
	entityCustomer        = "Customer"
	entityCustomerAddress = "CustomerAddress"
	entityPaymentGateway  = "PaymentGateway"
	entityPaymentMethod   = "PaymentMethod"
	entityInvoice         = "Invoice"
)
