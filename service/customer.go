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
	"github.com/sirupsen/logrus"
	"github.com/tomoncle/starter/entity"
	"github.com/tomoncle/starter/repository"
	"github.com/tomoncle/starter/types"
	"github.com/tomoncle/starter/validation"
)

type CustomerService interface {
	GetByBiller(ctx context.Context, billerID int64) ([]*entity.Customer, error)
	GetByID(ctx context.Context, id int64) (*entity.Customer, error)
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.Customer, error)
	// Create requires both the biller and the payment gateway to exist.
	Create(ctx context.Context, dto CustomerForCreation) (*entity.Customer, error)
	Update(ctx context.Context, id int64, dto CustomerForUpdate) error
	Delete(ctx context.Context, id int64) error
}

type customerService struct {
	repos *repository.Provider
}

func (s *customerService) GetByBiller(ctx context.Context, billerID int64) ([]*entity.Customer, error) {
	return repository.For[entity.Customer](s.repos.New()).Find(ctx, types.Eq("biller_id", billerID))
}

func (s *customerService) GetByID(ctx context.Context, id int64) (*entity.Customer, error) {
	return load(ctx, repository.For[entity.Customer](s.repos.New()), entityCustomer, id, "Addresses")
}

func (s *customerService) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.Customer, error) {
	return loadPublic(ctx, repository.For[entity.Customer](s.repos.New()), entityCustomer, publicID)
}

func (s *customerService) Create(ctx context.Context, dto CustomerForCreation) (*entity.Customer, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	m := s.repos.New()
	if err := requireParent[entity.Biller](ctx, m.Billers(), entityBiller, dto.BillerID); err != nil {
		return nil, err
	}
	if err := requireParent(ctx, repository.For[entity.PaymentGateway](m), entityPaymentGateway, dto.PaymentGatewayID); err != nil {
		return nil, err
	}
	customer := &entity.Customer{
		PublicID:         uuid.New(),
		BillerID:         dto.BillerID,
		PaymentGatewayID: dto.PaymentGatewayID,
		Name:             dto.Name,
		AutopayEnabled:   dto.AutopayEnabled,
	}
	repository.For[entity.Customer](m).Insert(customer)
	fields := logrus.Fields{"customer_id": customer.PublicID, "biller": dto.BillerID}
	if err := commit(ctx, m, fields, "created customer"); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) Update(ctx context.Context, id int64, dto CustomerForUpdate) error {
	if err := validation.Struct(dto); err != nil {
		return err
	}
	m := s.repos.New()
	customers := repository.For[entity.Customer](m)
	customer, err := load(ctx, customers, entityCustomer, id)
	if err != nil {
		return err
	}
	if dto.PaymentGatewayID != customer.PaymentGatewayID {
		if err := requireParent(ctx, repository.For[entity.PaymentGateway](m), entityPaymentGateway, dto.PaymentGatewayID); err != nil {
			return err
		}
	}
	customer.Name = dto.Name
	customer.AutopayEnabled = dto.AutopayEnabled
	customer.PaymentGatewayID = dto.PaymentGatewayID
	customers.Update(customer)
	return commit(ctx, m, logrus.Fields{"customer_id": customer.PublicID}, "updated customer")
}

func (s *customerService) Delete(ctx context.Context, id int64) error {
	m := s.repos.New()
	customers := repository.For[entity.Customer](m)
	customer, err := load(ctx, customers, entityCustomer, id)
	if err != nil {
		return err
	}
	customers.Remove(customer)
	return commit(ctx, m, logrus.Fields{"customer_id": customer.PublicID}, "deleted customer")
}
