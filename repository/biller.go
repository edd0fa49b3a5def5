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

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tomoncle/starter/entity"
	"github.com/tomoncle/starter/types"
)

type BillerRepository interface {
	Repository[entity.Biller]
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.Biller, error)
	// GetWithChildren loads the biller with its customers and invoices.
	GetWithChildren(ctx context.Context, id int64) (*entity.Biller, error)
}

type billerRepository struct {
	Repository[entity.Biller]
}

func (r *billerRepository) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.Biller, error) {
	return r.FirstOrDefault(ctx, types.Eq("public_id", publicID))
}

func (r *billerRepository) GetWithChildren(ctx context.Context, id int64) (*entity.Biller, error) {
	return r.GetWithRelations(ctx, id, "Customers", "Invoices")
}
