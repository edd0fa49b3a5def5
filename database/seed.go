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
package database

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/uptrace/bun"
)

var seedOrderPattern = regexp.MustCompile(`^(\d+)_`)

const unorderedSeed = 999

// SeedFile is one .sql file found by a Seeder.
type SeedFile struct {
	Path  string // slash separated, relative to the seed root
	Group string // "common" or the environment name
	Order int
}

// Seeder runs the .sql files of a seed tree:
//
//	common/001_payment_gateways.sql
//	environments/dev/001_demo_todo.sql
//
// common/ runs first, then environments/<env>/. Within a group files run by
// their numeric prefix; files without one run last. Each file is rendered as
// a text/template over the process environment plus ENVIRONMENT and
// TIMESTAMP before its statements are executed.
type Seeder struct {
	fsys        fs.FS
	environment string
	logger      Logger
	now         func() time.Time
}

func NewSeeder(fsys fs.FS, environment string, logger Logger) *Seeder {
	if environment == "" {
		environment = "prod"
	}
	if logger == nil {
		logger = GetLogger()
	}
	return &Seeder{fsys: fsys, environment: environment, logger: logger, now: time.Now}
}

// Files lists the seed files in execution order.
func (s *Seeder) Files() ([]SeedFile, error) {
	common, err := s.group("common", "common")
	if err != nil {
		return nil, err
	}
	env, err := s.group(path.Join("environments", s.environment), s.environment)
	if err != nil {
		return nil, err
	}
	return append(common, env...), nil
}

func (s *Seeder) group(dir, name string) ([]SeedFile, error) {
	if _, err := fs.Stat(s.fsys, dir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	var files []SeedFile
	err := fs.WalkDir(s.fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(path.Ext(p), ".sql") {
			files = append(files, SeedFile{Path: p, Group: name, Order: seedOrder(d.Name())})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s seeds: %w", name, err)
	}
	slices.SortStableFunc(files, func(a, b SeedFile) int {
		if a.Order != b.Order {
			return a.Order - b.Order
		}
		return strings.Compare(a.Path, b.Path)
	})
	return files, nil
}

func seedOrder(name string) int {
	if m := seedOrderPattern.FindStringSubmatch(name); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return unorderedSeed
}

// Run executes every seed file on db, normally the migration transaction, and
// stops at the first failure.
func (s *Seeder) Run(ctx context.Context, db bun.IDB) error {
	files, err := s.Files()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		s.logger.Info("No seed files found", "environment", s.environment)
		return nil
	}
	for _, f := range files {
		start := time.Now()
		rows, err := s.exec(ctx, db, f)
		if err != nil {
			s.logger.Error("Seed file failed", "file", f.Path, "error", err)
			return fmt.Errorf("seed %s: %w", f.Path, err)
		}
		s.logger.Info("Seed file executed", "file", f.Path, "rows_affected", rows, "duration", time.Since(start).String())
	}
	s.logger.Info("Seeding completed", "files", len(files), "environment", s.environment)
	return nil
}

func (s *Seeder) exec(ctx context.Context, db bun.IDB, f SeedFile) (int64, error) {
	raw, err := fs.ReadFile(s.fsys, f.Path)
	if err != nil {
		return 0, err
	}
	content, err := s.render(f.Path, string(raw))
	if err != nil {
		return 0, err
	}
	var total int64
	for _, stmt := range splitStatements(content) {
		res, err := db.ExecContext(ctx, stmt)
		if err != nil {
			return total, fmt.Errorf("exec %q: %w", stmt, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}

func (s *Seeder) render(name, content string) (string, error) {
	if !strings.Contains(content, "{{") {
		return content, nil
	}
	tmpl, err := template.New(name).Option("missingkey=error").Parse(content)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}
	vars := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	vars["ENVIRONMENT"] = s.environment
	vars["TIMESTAMP"] = s.now().UTC().Format("2006-01-02 15:04:05")

	var sb strings.Builder
	if err := tmpl.Execute(&sb, vars); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return sb.String(), nil
}

// splitStatements cuts a script at lines ending in ";". Blank lines and "--"
// comment lines are dropped and the lines of a statement are joined by a
// single space.
func splitStatements(content string) []string {
	var (
		stmts []string
		cur   []string
	)
	flush := func() {
		if len(cur) > 0 {
			stmts = append(stmts, strings.Join(cur, " "))
			cur = cur[:0]
		}
	}
	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		cur = append(cur, line)
		if strings.HasSuffix(line, ";") {
			flush()
		}
	}
	flush()
	return stmts
}
