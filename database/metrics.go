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
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
)

var (
	queryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "starter",
		Subsystem: "db",
		Name:      "query_duration_seconds",
		Help:      "Duration of database queries by operation.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"db", "operation"})

	queryErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "starter",
		Subsystem: "db",
		Name:      "query_errors_total",
		Help:      "Failed database queries by classified error.",
	}, []string{"db", "operation", "error"})
)

func init() {
	prometheus.MustRegister(queryDuration, queryErrors)
}

// MetricsHook records query latency and classified failures in Prometheus.
type MetricsHook struct {
	dbType string
}

var _ bun.QueryHook = (*MetricsHook)(nil)

func NewMetricsHook(dbType string) *MetricsHook {
	return &MetricsHook{dbType: dbType}
}

func (h *MetricsHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *MetricsHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	op := event.Operation()
	queryDuration.WithLabelValues(h.dbType, op).Observe(time.Since(event.StartTime).Seconds())
	if event.Err != nil {
		if _, errType := IsSqlError(event.Err); errType != NoRowsErr {
			queryErrors.WithLabelValues(h.dbType, op, errType.String()).Inc()
		}
	}
}
