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

	"github.com/sirupsen/logrus"
	"github.com/tomoncle/starter/entity"
	"github.com/tomoncle/starter/repository"
	"github.com/tomoncle/starter/validation"
)

type PaymentGatewayService interface {
	GetAll(ctx context.Context) ([]*entity.PaymentGateway, error)
	// Create fails with errs.ErrIntegrity when the name is taken.
	Create(ctx context.Context, dto PaymentGatewayForCreation) (*entity.PaymentGateway, error)
	// Save creates the gateway or updates the type of the one with that name.
	Save(ctx context.Context, dto PaymentGatewayForCreation) error
}

type paymentGatewayService struct {
	repos *repository.Provider
}

func (s *paymentGatewayService) GetAll(ctx context.Context) ([]*entity.PaymentGateway, error) {
	return repository.For[entity.PaymentGateway](s.repos.New()).GetAll(ctx)
}

func (s *paymentGatewayService) Create(ctx context.Context, dto PaymentGatewayForCreation) (*entity.PaymentGateway, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	m := s.repos.New()
	gateway := &entity.PaymentGateway{Name: dto.Name, Type: dto.Type}
	repository.For[entity.PaymentGateway](m).Insert(gateway)
	if err := commit(ctx, m, logrus.Fields{"gateway": gateway.Name}, "created payment gateway"); err != nil {
		return nil, err
	}
	return gateway, nil
}

func (s *paymentGatewayService) Save(ctx context.Context, dto PaymentGatewayForCreation) error {
	if err := validation.Struct(dto); err != nil {
		return err
	}
	m := s.repos.New()
	gateway := &entity.PaymentGateway{Name: dto.Name, Type: dto.Type}
	repository.For[entity.PaymentGateway](m).Upsert(gateway, []string{"type"}, "name")
	return commit(ctx, m, logrus.Fields{"gateway": gateway.Name}, "saved payment gateway")
}
