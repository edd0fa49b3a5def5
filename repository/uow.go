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
	"database/sql"
	"fmt"
	"reflect"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/tomoncle/starter/database"
	"github.com/tomoncle/starter/entity"
	"github.com/tomoncle/starter/errs"
	"github.com/tomoncle/starter/utils"
	"github.com/uptrace/bun"
)

var (
	commitTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "starter",
		Subsystem: "uow",
		Name:      "commits_total",
		Help:      "SaveChanges calls by outcome.",
	}, []string{"result"})

	commitDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "starter",
		Subsystem: "uow",
		Name:      "commit_duration_seconds",
		Help:      "Duration of successful SaveChanges transactions.",
		Buckets:   prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(commitTotal, commitDuration)
}

type MutationKind int

const (
	MutationInsert MutationKind = iota
	MutationUpdate
	MutationUpsert
	MutationDelete
)

func (k MutationKind) String() string {
	switch k {
	case MutationInsert:
		return "insert"
	case MutationUpdate:
		return "update"
	case MutationUpsert:
		return "upsert"
	case MutationDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Mutation is one staged change. Entity is the *T handed to the repository,
// or the []*T of a RemoveRange.
type Mutation struct {
	Kind   MutationKind
	Entity any
	exec   func(ctx context.Context, tx bun.Tx) (sql.Result, error)
}

// Clock supplies the commit timestamp.
type Clock func() time.Time

type Option func(*UnitOfWork)

// WithClock replaces time.Now, mostly for tests.
func WithClock(clock Clock) Option {
	return func(u *UnitOfWork) { u.clock = clock }
}

func WithLogger(logger *logrus.Logger) Option {
	return func(u *UnitOfWork) { u.logger = logger }
}

// UnitOfWork collects staged mutations and commits them in one transaction.
// It is not safe for concurrent use: create one per request or message.
type UnitOfWork struct {
	db      *bun.DB
	pending []Mutation
	clock   Clock
	logger  *logrus.Logger
}

func NewUnitOfWork(db *bun.DB, opts ...Option) *UnitOfWork {
	u := &UnitOfWork{
		db:     db,
		clock:  time.Now,
		logger: utils.NewLogger("REPOSITORY"),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *UnitOfWork) stage(m Mutation) {
	u.pending = append(u.pending, m)
}

// Pending returns a copy of the staged mutations in commit order.
func (u *UnitOfWork) Pending() []Mutation {
	out := make([]Mutation, len(u.pending))
	copy(out, u.pending)
	return out
}

func (u *UnitOfWork) HasChanges() bool {
	return len(u.pending) > 0
}

// Discard drops every staged mutation without touching the store.
func (u *UnitOfWork) Discard() {
	u.pending = nil
}

// now is the commit timestamp, truncated to what every dialect stores.
func (u *UnitOfWork) now() time.Time {
	return u.clock().UTC().Truncate(time.Microsecond)
}

// SaveChanges stamps audit timestamps and applies the staged mutations in
// order inside one transaction. It returns the rows affected. The staged
// list is cleared whether or not the commit succeeds.
//
// On rollback every staged entity is restored to the state it had before
// the call, so timestamps and generated keys never describe unsaved rows.
// An Upsert that lands on an existing row leaves the entity's CreatedAt at
// the commit time; reload it when the stored value matters.
func (u *UnitOfWork) SaveChanges(ctx context.Context) (int64, error) {
	if len(u.pending) == 0 {
		return 0, nil
	}
	pending := u.pending
	u.pending = nil

	start := time.Now()
	now := u.now()
	var rows int64

	saved := make([]snapshot, 0, len(pending))
	for _, m := range pending {
		if s, ok := takeSnapshot(m.Entity); ok {
			saved = append(saved, s)
		}
	}

	err := u.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, m := range pending {
			switch m.Kind {
			case MutationInsert, MutationUpsert:
				entity.Touch(m.Entity, now, true)
			case MutationUpdate:
				entity.Touch(m.Entity, now, false)
			}
			res, err := m.exec(ctx, tx)
			if err != nil {
				return fmt.Errorf("%s %T: %w", m.Kind, m.Entity, err)
			}
			if n, err := res.RowsAffected(); err == nil {
				rows += n
			}
		}
		return nil
	})
	if err != nil {
		for _, s := range saved {
			s.restore()
		}
		commitTotal.WithLabelValues("rollback").Inc()
		u.logger.WithError(err).WithField("mutations", len(pending)).Warn("save changes rolled back")
		return 0, classify(err)
	}

	commitTotal.WithLabelValues("commit").Inc()
	commitDuration.Observe(time.Since(start).Seconds())
	u.logger.WithFields(logrus.Fields{
		"mutations": len(pending),
		"rows":      rows,
		"elapsed":   utils.Since(start),
	}).Debug("changes saved")
	return rows, nil
}

// snapshot holds a copy of a staged *T so a failed commit can put it back.
type snapshot struct {
	dst   reflect.Value
	saved reflect.Value
}

func takeSnapshot(v any) (snapshot, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return snapshot{}, false
	}
	saved := reflect.New(rv.Elem().Type()).Elem()
	saved.Set(rv.Elem())
	return snapshot{dst: rv.Elem(), saved: saved}, true
}

func (s snapshot) restore() {
	s.dst.Set(s.saved)
}

// classify maps store failures onto the errs taxonomy, keeping the cause.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if database.IsTransientError(err) {
		return errs.Unavailable(err)
	}
	if _, code := database.IsSqlError(err); code.IsIntegrityViolation() {
		return errs.Integrity(err)
	}
	return err
}
