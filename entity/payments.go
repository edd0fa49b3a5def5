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

package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tomoncle/starter/types"
	"github.com/uptrace/bun"
)

// Payments entities use an autoincrement key internally and expose PublicID
// to callers.

type Biller struct {
	bun.BaseModel `bun:"table:billers,alias:b"`

	ID             int64                  `bun:"id,pk,autoincrement" json:"id"`
	PublicID       uuid.UUID              `bun:"public_id,notnull,unique,type:varchar(36)" json:"publicId"`
	Name           string                 `bun:"name,notnull,type:varchar(255)" json:"name"`
	APIKey         string                 `bun:"api_key,notnull,type:varchar(255)" json:"-"`
	Customers      []*Customer            `bun:"rel:has-many,join:id=biller_id" json:"customers,omitempty"`
	Invoices       []*Invoice             `bun:"rel:has-many,join:id=biller_id" json:"invoices,omitempty"`
	Configurations []*BillerConfiguration `bun:"rel:has-many,join:id=biller_id" json:"configurations,omitempty"`
	Audit
}

type BillerConfiguration struct {
	bun.BaseModel `bun:"table:biller_configurations,alias:bc"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	BillerID    int64  `bun:"biller_id,notnull" json:"billerId"`
	ConfigType  string `bun:"config_type,notnull,type:varchar(100)" json:"configType"`
	ConfigValue string `bun:"config_value,type:text" json:"configValue"`
	Audit
}

type PaymentGateway struct {
	bun.BaseModel `bun:"table:payment_gateways,alias:pg"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull,unique,type:varchar(100)" json:"name"`
	Type string `bun:"type,notnull,type:varchar(50)" json:"type"`
	Audit
}

type Customer struct {
	bun.BaseModel `bun:"table:customers,alias:c"`

	ID               int64              `bun:"id,pk,autoincrement" json:"id"`
	PublicID         uuid.UUID          `bun:"public_id,notnull,unique,type:varchar(36)" json:"publicId"`
	BillerID         int64              `bun:"biller_id,notnull" json:"billerId"`
	PaymentGatewayID int64              `bun:"payment_gateway_id,notnull" json:"paymentGatewayId"`
	Name             string             `bun:"name,notnull,type:varchar(100)" json:"name"`
	AutopayEnabled   bool               `bun:"autopay_enabled,notnull" json:"autopayEnabled"`
	Addresses        []*CustomerAddress `bun:"rel:has-many,join:id=customer_id" json:"addresses,omitempty"`
	Users            []*User            `bun:"rel:has-many,join:id=customer_id" json:"users,omitempty"`
	PaymentMethods   []*PaymentMethod   `bun:"rel:has-many,join:id=customer_id" json:"paymentMethods,omitempty"`
	Invoices         []*Invoice         `bun:"rel:has-many,join:id=customer_id" json:"invoices,omitempty"`
	Audit
}

type CustomerAddress struct {
	bun.BaseModel `bun:"table:customer_addresses,alias:ca"`

	ID             int64       `bun:"id,pk,autoincrement" json:"id"`
	PublicID       uuid.UUID   `bun:"public_id,notnull,unique,type:varchar(36)" json:"publicId"`
	CustomerID     int64       `bun:"customer_id,notnull" json:"customerId"`
	AddressType    AddressType `bun:"address_type,notnull,type:varchar(16)" json:"addressType"`
	StreetAddress1 string      `bun:"street_address1,notnull,type:varchar(255)" json:"streetAddress1"`
	StreetAddress2 string      `bun:"street_address2,type:varchar(255)" json:"streetAddress2,omitempty"`
	City           string      `bun:"city,notnull,type:varchar(100)" json:"city"`
	State          string      `bun:"state,notnull,type:varchar(100)" json:"state"`
	PostalCode     string      `bun:"postal_code,notnull,type:varchar(20)" json:"postalCode"`
	Country        string      `bun:"country,notnull,type:varchar(2)" json:"country"`
	IsDefault      bool        `bun:"is_default,notnull" json:"isDefault"`
	Audit
}

// DefaultCountry is used when an address is stored without a country.
const DefaultCountry = "US"

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	PublicID   uuid.UUID `bun:"public_id,notnull,unique,type:varchar(36)" json:"publicId"`
	CustomerID int64     `bun:"customer_id,notnull" json:"customerId"`
	Email      string    `bun:"email,notnull,unique,type:varchar(255)" json:"email"`
	Name       string    `bun:"name,notnull,type:varchar(100)" json:"name"`
	Audit
}

type PaymentMethod struct {
	bun.BaseModel `bun:"table:payment_methods,alias:pm"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	PublicID    uuid.UUID `bun:"public_id,notnull,unique,type:varchar(36)" json:"publicId"`
	CustomerID  int64     `bun:"customer_id,notnull" json:"customerId"`
	OwnerUserID *int64    `bun:"owner_user_id" json:"ownerUserId,omitempty"`
	Token       string    `bun:"token,notnull,type:varchar(255)" json:"-"`
	Type        string    `bun:"type,notnull,type:varchar(50)" json:"type"`
	Last4       string    `bun:"last4,type:varchar(4)" json:"last4"`
	Brand       string    `bun:"brand,type:varchar(50)" json:"brand"`
	ExpiryDate  time.Time `bun:"expiry_date,notnull" json:"expiryDate"`
	IsShared    bool      `bun:"is_shared,notnull" json:"isShared"`
	Audit
}

// Invoice statuses used by the service layer.
const (
	InvoiceStatusDraft = "Draft"
	InvoiceStatusOpen  = "Open"
	InvoiceStatusPaid  = "Paid"
	InvoiceStatusVoid  = "Void"
)

type Invoice struct {
	bun.BaseModel `bun:"table:invoices,alias:inv"`

	ID           int64              `bun:"id,pk,autoincrement" json:"id"`
	PublicID     uuid.UUID          `bun:"public_id,notnull,unique,type:varchar(36)" json:"publicId"`
	BillerID     int64              `bun:"biller_id,notnull" json:"billerId"`
	CustomerID   int64              `bun:"customer_id,notnull" json:"customerId"`
	DueDate      time.Time          `bun:"due_date,notnull" json:"dueDate"`
	Fees         types.JsonObject   `bun:"fees,type:json" json:"fees,omitempty"`
	PassThruFees bool               `bun:"pass_thru_fees,notnull" json:"passThruFees"`
	SalesTax     decimal.Decimal    `bun:"sales_tax,notnull,type:decimal(18,2)" json:"salesTax"`
	TotalAmount  decimal.Decimal    `bun:"total_amount,notnull,type:decimal(18,2)" json:"totalAmount"`
	Currency     string             `bun:"currency,notnull,type:varchar(3)" json:"currency"`
	Status       string             `bun:"status,notnull,type:varchar(20)" json:"status"`
	LineItems    []*InvoiceLineItem `bun:"rel:has-many,join:id=invoice_id" json:"lineItems,omitempty"`
	Payments     []*Payment         `bun:"rel:has-many,join:id=invoice_id" json:"payments,omitempty"`
	Audit
}

type InvoiceLineItem struct {
	bun.BaseModel `bun:"table:invoice_line_items,alias:li"`

	ID          int64           `bun:"id,pk,autoincrement" json:"id"`
	InvoiceID   int64           `bun:"invoice_id,notnull" json:"invoiceId"`
	Description string          `bun:"description,notnull,type:varchar(500)" json:"description"`
	Quantity    int             `bun:"quantity,notnull" json:"quantity"`
	UnitPrice   decimal.Decimal `bun:"unit_price,notnull,type:decimal(18,2)" json:"unitPrice"`
	Invoice     *Invoice        `bun:"rel:belongs-to,join:invoice_id=id" json:"-"`
	Audit
}

var _ bun.BeforeAppendModelHook = (*InvoiceLineItem)(nil)

// BeforeAppendModel copies the key of an invoice inserted earlier in the same
// commit, so line items can be staged before the invoice has an ID.
func (li *InvoiceLineItem) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok && li.InvoiceID == 0 && li.Invoice != nil {
		li.InvoiceID = li.Invoice.ID
	}
	return nil
}

// Amount is Quantity times UnitPrice.
func (li *InvoiceLineItem) Amount() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Payment statuses.
const (
	PaymentStatusPending   = "Pending"
	PaymentStatusSucceeded = "Succeeded"
	PaymentStatusFailed    = "Failed"
)

type Payment struct {
	bun.BaseModel `bun:"table:payments,alias:p"`

	ID                   int64           `bun:"id,pk,autoincrement" json:"id"`
	PublicID             uuid.UUID       `bun:"public_id,notnull,unique,type:varchar(36)" json:"publicId"`
	InvoiceID            int64           `bun:"invoice_id,notnull" json:"invoiceId"`
	PaymentMethodID      int64           `bun:"payment_method_id,notnull" json:"paymentMethodId"`
	Status               string          `bun:"status,notnull,type:varchar(20)" json:"status"`
	AttemptCount         int             `bun:"attempt_count,notnull" json:"attemptCount"`
	Amount               decimal.Decimal `bun:"amount,notnull,type:decimal(18,2)" json:"amount"`
	TransactionReference string          `bun:"transaction_reference,type:varchar(100)" json:"transactionReference,omitempty"`
	Audit
}

// InvoiceLog records a change made to an invoice-related object.
type InvoiceLog struct {
	bun.BaseModel `bun:"table:invoice_logs,alias:il"`

	ID       int64            `bun:"id,pk,autoincrement" json:"id"`
	Object   string           `bun:"object,notnull,type:varchar(50)" json:"object"`
	ObjectID int64            `bun:"object_id,notnull" json:"objectId"`
	Changes  types.JsonObject `bun:"changes,type:json" json:"changes,omitempty"`
	Audit
}
