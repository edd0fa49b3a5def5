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

import "github.com/tomoncle/starter/database"

// Table creation priority: parents sort before the tables that reference them.
const (
	priorityRoot = iota * 10
	priorityLevel1
	priorityLevel2
	priorityLevel3
	priorityLevel4
)

func init() {
	database.RegisterModels(
		database.Model{Instance: (*TodoList)(nil), Priority: priorityRoot},
		database.Model{Instance: (*TodoItem)(nil), Priority: priorityLevel1},

		database.Model{Instance: (*Biller)(nil), Priority: priorityRoot},
		database.Model{Instance: (*PaymentGateway)(nil), Priority: priorityRoot},
		database.Model{Instance: (*InvoiceLog)(nil), Priority: priorityRoot},
		database.Model{Instance: (*BillerConfiguration)(nil), Priority: priorityLevel1},
		database.Model{Instance: (*Customer)(nil), Priority: priorityLevel1},
		database.Model{Instance: (*User)(nil), Priority: priorityLevel2},
		database.Model{Instance: (*CustomerAddress)(nil), Priority: priorityLevel2},
		database.Model{Instance: (*PaymentMethod)(nil), Priority: priorityLevel3},
		database.Model{Instance: (*Invoice)(nil), Priority: priorityLevel3},
		database.Model{Instance: (*InvoiceLineItem)(nil), Priority: priorityLevel4},
		database.Model{Instance: (*Payment)(nil), Priority: priorityLevel4},
	)
	database.RegisterForeignKeys(ForeignKeys()...)
	database.RegisterIndex(database.IndexDefinition{
		Table:   "invoice_logs",
		Name:    "idx_invoice_logs_object",
		Columns: []string{"object", "object_id"},
	})
}

func cascade(table, column, refTable string) database.ForeignKeyConstraint {
	return database.ForeignKeyConstraint{
		Table:           table,
		Column:          column,
		ReferenceTable:  refTable,
		ReferenceColumn: "id",
		OnDelete:        "CASCADE",
	}
}

// ForeignKeys returns the ownership graph. Owned rows cascade with their
// parent; plain references restrict or null out instead.
func ForeignKeys() database.ForeignKeys {
	return database.ForeignKeys{
		cascade("todo_items", "todo_list_id", "todo_lists"),

		cascade("biller_configurations", "biller_id", "billers"),
		cascade("customers", "biller_id", "billers"),
		{
			Table:           "customers",
			Column:          "payment_gateway_id",
			ReferenceTable:  "payment_gateways",
			ReferenceColumn: "id",
			OnDelete:        "RESTRICT",
		},
		cascade("customer_addresses", "customer_id", "customers"),
		cascade("users", "customer_id", "customers"),
		cascade("payment_methods", "customer_id", "customers"),
		{
			Table:           "payment_methods",
			Column:          "owner_user_id",
			ReferenceTable:  "users",
			ReferenceColumn: "id",
			OnDelete:        "SET NULL",
		},
		cascade("invoices", "biller_id", "billers"),
		cascade("invoices", "customer_id", "customers"),
		cascade("invoice_line_items", "invoice_id", "invoices"),
		cascade("payments", "invoice_id", "invoices"),
		// NO ACTION is checked at statement end, so a customer delete that
		// cascades to both payment methods and payments still succeeds.
		{
			Table:           "payments",
			Column:          "payment_method_id",
			ReferenceTable:  "payment_methods",
			ReferenceColumn: "id",
			OnDelete:        "NO ACTION",
		},
	}
}
