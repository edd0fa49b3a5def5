// Package repository provides the generic repository, the unit of work that
// commits staged mutations atomically with audit stamping, the repository
// manager and the entity-specific repositories, all built on Bun.
package repository
