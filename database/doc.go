// Package database provides connection management, migrations, foreign key
// handling, seed SQL execution, configuration types, error classification,
// query hooks and metrics built on top of Bun.
package database
