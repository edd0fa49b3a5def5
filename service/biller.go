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
	"github.com/tomoncle/starter/errs"
	"github.com/tomoncle/starter/repository"
	"github.com/tomoncle/starter/validation"
)

type BillerService interface {
	GetAll(ctx context.Context) ([]*entity.Biller, error)
	GetByID(ctx context.Context, id int64) (*entity.Biller, error)
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.Biller, error)
	// GetWithChildren returns the biller with its customers and invoices.
	GetWithChildren(ctx context.Context, id int64) (*entity.Biller, error)
	Create(ctx context.Context, dto BillerForCreation) (*entity.Biller, error)
	Update(ctx context.Context, id int64, dto BillerForUpdate) error
	// Delete cascades to customers, invoices and configurations.
	Delete(ctx context.Context, id int64) error
}

type billerService struct {
	repos *repository.Provider
}

func (s *billerService) GetAll(ctx context.Context) ([]*entity.Biller, error) {
	return s.repos.New().Billers().GetAll(ctx)
}

func (s *billerService) GetByID(ctx context.Context, id int64) (*entity.Biller, error) {
	return load[entity.Biller](ctx, s.repos.New().Billers(), entityBiller, id)
}

func (s *billerService) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.Biller, error) {
	biller, err := s.repos.New().Billers().GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if biller == nil {
		return nil, errs.NotFound(entityBiller, publicID)
	}
	return biller, nil
}

func (s *billerService) GetWithChildren(ctx context.Context, id int64) (*entity.Biller, error) {
	biller, err := s.repos.New().Billers().GetWithChildren(ctx, id)
	if err != nil {
		return nil, err
	}
	if biller == nil {
		return nil, errs.NotFound(entityBiller, id)
	}
	return biller, nil
}

func (s *billerService) Create(ctx context.Context, dto BillerForCreation) (*entity.Biller, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	m := s.repos.New()
	biller := &entity.Biller{
		PublicID: uuid.New(),
		Name:     dto.Name,
		APIKey:   dto.APIKey,
	}
	m.Billers().Insert(biller)
	if err := commit(ctx, m, logrus.Fields{"biller_id": biller.PublicID}, "created biller"); err != nil {
		return nil, err
	}
	return biller, nil
}

func (s *billerService) Update(ctx context.Context, id int64, dto BillerForUpdate) error {
	if err := validation.Struct(dto); err != nil {
		return err
	}
	m := s.repos.New()
	biller, err := load[entity.Biller](ctx, m.Billers(), entityBiller, id)
	if err != nil {
		return err
	}
	biller.Name = dto.Name
	biller.APIKey = dto.APIKey
	m.Billers().Update(biller)
	return commit(ctx, m, logrus.Fields{"biller_id": biller.PublicID}, "updated biller")
}

func (s *billerService) Delete(ctx context.Context, id int64) error {
	m := s.repos.New()
	biller, err := load[entity.Biller](ctx, m.Billers(), entityBiller, id)
	if err != nil {
		return err
	}
	m.Billers().Remove(biller)
	return commit(ctx, m, logrus.Fields{"biller_id": biller.PublicID}, "deleted biller")
}
