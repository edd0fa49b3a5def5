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

// CustomerAddressService keeps at most one default address per customer:
// making an address the default clears the flag on the others in the same
// commit. Two concurrent requests can still both win; see DESIGN.md.
type CustomerAddressService interface {
	GetAll(ctx context.Context) ([]*entity.CustomerAddress, error)
	GetByID(ctx context.Context, id int64) (*entity.CustomerAddress, error)
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.CustomerAddress, error)
	GetByCustomerID(ctx context.Context, customerID int64) ([]*entity.CustomerAddress, error)
	Create(ctx context.Context, dto CustomerAddressForCreation) (*entity.CustomerAddress, error)
	Update(ctx context.Context, id int64, dto CustomerAddressForUpdate) error
	Delete(ctx context.Context, id int64) error
}

type customerAddressService struct {
	repos *repository.Provider
}

func (s *customerAddressService) GetAll(ctx context.Context) ([]*entity.CustomerAddress, error) {
	return repository.For[entity.CustomerAddress](s.repos.New()).GetAll(ctx)
}

func (s *customerAddressService) GetByID(ctx context.Context, id int64) (*entity.CustomerAddress, error) {
	return load(ctx, repository.For[entity.CustomerAddress](s.repos.New()), entityCustomerAddress, id)
}

func (s *customerAddressService) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.CustomerAddress, error) {
	return loadPublic(ctx, repository.For[entity.CustomerAddress](s.repos.New()), entityCustomerAddress, publicID)
}

func (s *customerAddressService) GetByCustomerID(ctx context.Context, customerID int64) ([]*entity.CustomerAddress, error) {
	return repository.For[entity.CustomerAddress](s.repos.New()).Find(ctx, types.Eq("customer_id", customerID))
}

func (s *customerAddressService) Create(ctx context.Context, dto CustomerAddressForCreation) (*entity.CustomerAddress, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	m := s.repos.New()
	if err := requireParent(ctx, repository.For[entity.Customer](m), entityCustomer, dto.CustomerID); err != nil {
		return nil, err
	}
	address := &entity.CustomerAddress{
		PublicID:       uuid.New(),
		CustomerID:     dto.CustomerID,
		AddressType:    dto.AddressType,
		StreetAddress1: dto.StreetAddress1,
		StreetAddress2: dto.StreetAddress2,
		City:           dto.City,
		State:          dto.State,
		PostalCode:     dto.PostalCode,
		Country:        dto.Country,
		IsDefault:      dto.IsDefault,
	}
	if address.AddressType == 0 {
		address.AddressType = entity.AddressBilling
	}
	if address.Country == "" {
		address.Country = entity.DefaultCountry
	}
	if address.IsDefault {
		if err := clearDefaults(ctx, m, address.CustomerID, 0); err != nil {
			return nil, err
		}
	}
	repository.For[entity.CustomerAddress](m).Insert(address)
	fields := logrus.Fields{"address_id": address.PublicID, "customer": address.CustomerID}
	if err := commit(ctx, m, fields, "created customer address"); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *customerAddressService) Update(ctx context.Context, id int64, dto CustomerAddressForUpdate) error {
	if err := validation.Struct(dto); err != nil {
		return err
	}
	m := s.repos.New()
	addresses := repository.For[entity.CustomerAddress](m)
	address, err := load(ctx, addresses, entityCustomerAddress, id)
	if err != nil {
		return err
	}
	if dto.IsDefault != nil && *dto.IsDefault && !address.IsDefault {
		if err := clearDefaults(ctx, m, address.CustomerID, address.ID); err != nil {
			return err
		}
	}
	applyAddressUpdate(address, dto)
	addresses.Update(address)
	return commit(ctx, m, logrus.Fields{"address_id": address.PublicID}, "updated customer address")
}

func (s *customerAddressService) Delete(ctx context.Context, id int64) error {
	m := s.repos.New()
	addresses := repository.For[entity.CustomerAddress](m)
	address, err := load(ctx, addresses, entityCustomerAddress, id)
	if err != nil {
		return err
	}
	addresses.Remove(address)
	return commit(ctx, m, logrus.Fields{"address_id": address.PublicID}, "deleted customer address")
}

// clearDefaults stages an update unsetting IsDefault on every default address
// of the customer except keep.
func clearDefaults(ctx context.Context, m *repository.Manager, customerID, keep int64) error {
	addresses := repository.For[entity.CustomerAddress](m)
	defaults, err := addresses.Find(ctx, types.And(
		types.Eq("customer_id", customerID),
		types.Eq("is_default", true),
		types.NewQueryFilter("id <> ?", keep),
	))
	if err != nil {
		return err
	}
	for _, a := range defaults {
		a.IsDefault = false
		addresses.Update(a)
	}
	return nil
}

func applyAddressUpdate(a *entity.CustomerAddress, dto CustomerAddressForUpdate) {
	if dto.AddressType != nil {
		a.AddressType = *dto.AddressType
	}
	if dto.StreetAddress1 != nil {
		a.StreetAddress1 = *dto.StreetAddress1
	}
	if dto.StreetAddress2 != nil {
		a.StreetAddress2 = *dto.StreetAddress2
	}
	if dto.City != nil {
		a.City = *dto.City
	}
	if dto.State != nil {
		a.State = *dto.State
	}
	if dto.PostalCode != nil {
		a.PostalCode = *dto.PostalCode
	}
	if dto.Country != nil {
		a.Country = *dto.Country
	}
	if dto.IsDefault != nil {
		a.IsDefault = *dto.IsDefault
	}
}
