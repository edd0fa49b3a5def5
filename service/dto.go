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

package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tomoncle/starter/entity"
	"github.com/tomoncle/starter/errs"
)

type TodoListForCreation struct {
	Name        string `json:"name" validate:"required,max=150"`
	Description string `json:"description" validate:"max=500"`
}

type TodoListForUpdate struct {
	Name        string `json:"name" validate:"required,max=150"`
	Description string `json:"description" validate:"max=500"`
}

// TodoItemForCreation leaves Priority unset to mean Medium.
type TodoItemForCreation struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	DueDate     *time.Time      `json:"dueDate"`
	Priority    entity.Priority `json:"priority,omitempty" validate:"omitempty,enum"`
	TodoListID  uuid.UUID       `json:"todoListId" validate:"required"`
}

type TodoItemForUpdate struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	DueDate     *time.Time      `json:"dueDate"`
	Priority    entity.Priority `json:"priority,omitempty" validate:"omitempty,enum"`
}

type BillerForCreation struct {
	Name   string `json:"name" validate:"required,max=255"`
	APIKey string `json:"apiKey" validate:"required,max=255"`
}

type BillerForUpdate struct {
	Name   string `json:"name" validate:"required,max=255"`
	APIKey string `json:"apiKey" validate:"required,max=255"`
}

type CustomerForCreation struct {
	BillerID         int64  `json:"billerId" validate:"required"`
	PaymentGatewayID int64  `json:"paymentGatewayId" validate:"required"`
	Name             string `json:"name" validate:"required,max=100"`
	AutopayEnabled   bool   `json:"autopayEnabled"`
}

type CustomerForUpdate struct {
	PaymentGatewayID int64  `json:"paymentGatewayId" validate:"required"`
	Name             string `json:"name" validate:"required,max=100"`
	AutopayEnabled   bool   `json:"autopayEnabled"`
}

// CustomerAddressForCreation defaults AddressType to Billing and Country to
// entity.DefaultCountry.
type CustomerAddressForCreation struct {
	CustomerID     int64              `json:"customerId" validate:"required"`
	AddressType    entity.AddressType `json:"addressType,omitempty" validate:"omitempty,enum"`
	StreetAddress1 string             `json:"streetAddress1" validate:"required,max=255"`
	StreetAddress2 string             `json:"streetAddress2" validate:"max=255"`
	City           string             `json:"city" validate:"required,max=100"`
	State          string             `json:"state" validate:"required,max=100"`
	PostalCode     string             `json:"postalCode" validate:"required,max=20"`
	Country        string             `json:"country" validate:"omitempty,iso3166_1_alpha2"`
	IsDefault      bool               `json:"isDefault"`
}

// CustomerAddressForUpdate is a partial update: nil fields are left alone.
type CustomerAddressForUpdate struct {
	AddressType    *entity.AddressType `json:"addressType,omitempty" validate:"omitempty,enum"`
	StreetAddress1 *string             `json:"streetAddress1" validate:"omitempty,min=1,max=255"`
	StreetAddress2 *string             `json:"streetAddress2" validate:"omitempty,max=255"`
	City           *string             `json:"city" validate:"omitempty,min=1,max=100"`
	State          *string             `json:"state" validate:"omitempty,min=1,max=100"`
	PostalCode     *string             `json:"postalCode" validate:"omitempty,min=1,max=20"`
	Country        *string             `json:"country" validate:"omitempty,iso3166_1_alpha2"`
	IsDefault      *bool               `json:"isDefault"`
}

type LineItemForCreation struct {
	Description string          `json:"description" validate:"required,max=500"`
	Quantity    int             `json:"quantity" validate:"gt=0"`
	UnitPrice   decimal.Decimal `json:"unitPrice" validate:"gte=0"`
}

// InvoiceForCreation takes the biller from the customer. Status defaults to
// Draft.
type InvoiceForCreation struct {
	CustomerID   int64                 `json:"customerId" validate:"required"`
	DueDate      time.Time             `json:"dueDate" validate:"required"`
	Currency     string                `json:"currency" validate:"required,iso4217"`
	SalesTax     decimal.Decimal       `json:"salesTax" validate:"gte=0"`
	Fees         map[string]any        `json:"fees"`
	PassThruFees bool                  `json:"passThruFees"`
	Status       string                `json:"status" validate:"omitempty,oneof=Draft Open"`
	LineItems    []LineItemForCreation `json:"lineItems" validate:"required,min=1,dive"`
}

type InvoiceStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=Draft Open Paid Void"`
}

type PaymentForCreation struct {
	PaymentMethodID      int64           `json:"paymentMethodId" validate:"required"`
	Amount               decimal.Decimal `json:"amount" validate:"gt=0"`
	TransactionReference string          `json:"transactionReference" validate:"max=100"`
}

type PaymentGatewayForCreation struct {
	Name string `json:"name" validate:"required,max=100"`
	Type string `json:"type" validate:"required,max=50"`
}

// Validate rejects due dates before the Unix epoch.
func (dto InvoiceForCreation) Validate() error {
	if dto.DueDate.Before(time.Unix(0, 0)) {
		return errs.Invalid("dueDate", "must be after 1970-01-01")
	}
	return nil
}
