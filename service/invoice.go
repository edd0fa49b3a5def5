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
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/tomoncle/starter/entity"
	"github.com/tomoncle/starter/errs"
	"github.com/tomoncle/starter/repository"
	"github.com/tomoncle/starter/types"
	"github.com/tomoncle/starter/validation"
)

type InvoiceService interface {
	GetByCustomer(ctx context.Context, customerID int64) ([]*entity.Invoice, error)

	// GetByID returns the invoice with its line items and payments.
	GetByID(ctx context.Context, id int64) (*entity.Invoice, error)

	GetByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.Invoice, error)

	// Create stores the invoice and its line items in one commit. The biller
	// is the customer's and TotalAmount is the line item sum plus SalesTax.
	Create(ctx context.Context, dto InvoiceForCreation) (*entity.Invoice, error)

	// UpdateStatus changes the status and records an InvoiceLog entry.
	// A void invoice keeps its status.
	UpdateStatus(ctx context.Context, id int64, dto InvoiceStatusUpdate) error

	// RecordPayment stores a succeeded payment made with one of the
	// customer's payment methods. The invoice becomes Paid once succeeded
	// payments cover TotalAmount.
	RecordPayment(ctx context.Context, invoiceID int64, dto PaymentForCreation) (*entity.Payment, error)

	Delete(ctx context.Context, id int64) error
}

type invoiceService struct {
	repos *repository.Provider
}

func (s *invoiceService) GetByCustomer(ctx context.Context, customerID int64) ([]*entity.Invoice, error) {
	return repository.For[entity.Invoice](s.repos.New()).Find(ctx, types.Eq("customer_id", customerID))
}

func (s *invoiceService) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	return load(ctx, repository.For[entity.Invoice](s.repos.New()), entityInvoice, id, "LineItems", "Payments")
}

func (s *invoiceService) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.Invoice, error) {
	return loadPublic(ctx, repository.For[entity.Invoice](s.repos.New()), entityInvoice, publicID)
}

func (s *invoiceService) Create(ctx context.Context, dto InvoiceForCreation) (*entity.Invoice, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	m := s.repos.New()
	customer, err := repository.For[entity.Customer](m).GetByID(ctx, dto.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, errs.ParentNotFound(entityCustomer, dto.CustomerID)
	}

	invoice := &entity.Invoice{
		PublicID:     uuid.New(),
		BillerID:     customer.BillerID,
		CustomerID:   customer.ID,
		DueDate:      dto.DueDate.UTC(),
		Fees:         types.JsonObject(dto.Fees),
		PassThruFees: dto.PassThruFees,
		SalesTax:     dto.SalesTax.Round(2),
		Currency:     dto.Currency,
		Status:       dto.Status,
	}
	if invoice.Status == "" {
		invoice.Status = entity.InvoiceStatusDraft
	}
	total := invoice.SalesTax
	for _, li := range dto.LineItems {
		item := &entity.InvoiceLineItem{
			Invoice:     invoice,
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice.Round(2),
		}
		total = total.Add(item.Amount())
		invoice.LineItems = append(invoice.LineItems, item)
	}
	invoice.TotalAmount = total.Round(2)

	repository.For[entity.Invoice](m).Insert(invoice)
	lineItems := repository.For[entity.InvoiceLineItem](m)
	for _, item := range invoice.LineItems {
		lineItems.Insert(item)
	}
	fields := logrus.Fields{
		"invoice_id": invoice.PublicID,
		"customer":   customer.ID,
		"total":      invoice.TotalAmount.StringFixed(2),
	}
	if err := commit(ctx, m, fields, "created invoice"); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *invoiceService) UpdateStatus(ctx context.Context, id int64, dto InvoiceStatusUpdate) error {
	if err := validation.Struct(dto); err != nil {
		return err
	}
	m := s.repos.New()
	invoices := repository.For[entity.Invoice](m)
	invoice, err := load(ctx, invoices, entityInvoice, id)
	if err != nil {
		return err
	}
	if invoice.Status == dto.Status {
		return nil
	}
	if invoice.Status == entity.InvoiceStatusVoid {
		return errs.Invalid("status", "a void invoice cannot change status")
	}
	logStatusChange(m, invoice, dto.Status)
	invoices.Update(invoice)
	return commit(ctx, m, logrus.Fields{"invoice_id": invoice.PublicID, "status": dto.Status}, "updated invoice status")
}

func (s *invoiceService) RecordPayment(ctx context.Context, invoiceID int64, dto PaymentForCreation) (*entity.Payment, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	m := s.repos.New()
	invoices := repository.For[entity.Invoice](m)
	invoice, err := invoices.GetWithRelations(ctx, invoiceID, "Payments")
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, errs.ParentNotFound(entityInvoice, invoiceID)
	}
	if invoice.Status == entity.InvoiceStatusVoid {
		return nil, errs.Invalid("invoiceId", "a void invoice cannot take payments")
	}
	method, err := repository.For[entity.PaymentMethod](m).GetByID(ctx, dto.PaymentMethodID)
	if err != nil {
		return nil, err
	}
	if method == nil {
		return nil, errs.ParentNotFound(entityPaymentMethod, dto.PaymentMethodID)
	}
	if method.CustomerID != invoice.CustomerID {
		return nil, errs.Invalid("paymentMethodId", "belongs to another customer")
	}

	payment := &entity.Payment{
		PublicID:             uuid.New(),
		InvoiceID:            invoice.ID,
		PaymentMethodID:      method.ID,
		Status:               entity.PaymentStatusSucceeded,
		AttemptCount:         1,
		Amount:               dto.Amount.Round(2),
		TransactionReference: dto.TransactionReference,
	}
	repository.For[entity.Payment](m).Insert(payment)

	if invoice.Status != entity.InvoiceStatusPaid && paidAmount(invoice.Payments).Add(payment.Amount).GreaterThanOrEqual(invoice.TotalAmount) {
		logStatusChange(m, invoice, entity.InvoiceStatusPaid)
		invoices.Update(invoice)
	}
	fields := logrus.Fields{"invoice_id": invoice.PublicID, "payment_id": payment.PublicID, "amount": payment.Amount.StringFixed(2)}
	if err := commit(ctx, m, fields, "recorded payment"); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *invoiceService) Delete(ctx context.Context, id int64) error {
	m := s.repos.New()
	invoices := repository.For[entity.Invoice](m)
	invoice, err := load(ctx, invoices, entityInvoice, id)
	if err != nil {
		return err
	}
	invoices.Remove(invoice)
	return commit(ctx, m, logrus.Fields{"invoice_id": invoice.PublicID}, "deleted invoice")
}

// logStatusChange sets the new status and stages the matching log row.
func logStatusChange(m *repository.Manager, invoice *entity.Invoice, status string) {
	repository.For[entity.InvoiceLog](m).Insert(&entity.InvoiceLog{
		Object:   "invoice",
		ObjectID: invoice.ID,
		Changes: types.JsonObject{
			"status": map[string]any{"from": invoice.Status, "to": status},
		},
	})
	invoice.Status = status
}

func paidAmount(payments []*entity.Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		if p.Status == entity.PaymentStatusSucceeded {
			sum = sum.Add(p.Amount)
		}
	}
	return sum
}
