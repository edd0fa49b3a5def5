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

package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/tomoncle/starter/utils"
)

// Publisher sends one message to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, msg Typed) error
}

// Handler processes one delivered message. A nil return acknowledges it.
type Handler func(ctx context.Context, msg Message) error

// RedisBus publishes with XADD and consumes through a consumer group.
// Entries whose handler fails stay pending; nothing is redelivered here.
type RedisBus struct {
	client redis.UniversalClient
	prefix string
	maxLen int64
	block  time.Duration
	logger *logrus.Logger
}

type BusOption func(*RedisBus)

// WithStreamPrefix namespaces every stream key, e.g. "starter:".
func WithStreamPrefix(prefix string) BusOption {
	return func(b *RedisBus) { b.prefix = prefix }
}

// WithMaxLen caps each stream approximately; 0 keeps everything.
func WithMaxLen(n int64) BusOption {
	return func(b *RedisBus) { b.maxLen = n }
}

func WithBlock(d time.Duration) BusOption {
	return func(b *RedisBus) { b.block = d }
}

func NewRedisBus(client redis.UniversalClient, opts ...BusOption) *RedisBus {
	b := &RedisBus{
		client: client,
		block:  5 * time.Second,
		logger: utils.NewLogger("MESSAGING"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *RedisBus) stream(topic string) string {
	return b.prefix + topic
}

func (b *RedisBus) Publish(ctx context.Context, topic string, msg Typed) error {
	values, err := encode(msg)
	if err != nil {
		return err
	}
	args := &redis.XAddArgs{Stream: b.stream(topic), Values: values}
	if b.maxLen > 0 {
		args.MaxLen = b.maxLen
		args.Approx = true
	}
	id, err := b.client.XAdd(ctx, args).Result()
	if err != nil {
		return fmt.Errorf("publish %s to %s: %w", msg.MessageType(), topic, err)
	}
	b.logger.WithFields(logrus.Fields{"topic": topic, "type": msg.MessageType(), "id": id}).Debug("published")
	return nil
}

// Consume reads topic as consumer of group until ctx is done, creating the
// group at the start of the stream when missing.
func (b *RedisBus) Consume(ctx context.Context, topic, group, consumer string, handle Handler) error {
	stream := b.stream(topic)
	if err := b.client.XGroupCreateMkStream(ctx, stream, group, "0").Err(); err != nil && !isBusyGroup(err) {
		return fmt.Errorf("create group %s on %s: %w", group, stream, err)
	}
	log := b.logger.WithFields(logrus.Fields{"stream": stream, "group": group, "consumer": consumer})
	log.Info("consumer started")

	for {
		if err := ctx.Err(); err != nil {
			log.Info("consumer stopped")
			return nil
		}
		streams, err := b.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    group,
			Consumer: consumer,
			Streams:  []string{stream, ">"},
			Count:    10,
			Block:    b.block,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				log.Info("consumer stopped")
				return nil
			}
			return fmt.Errorf("read %s: %w", stream, err)
		}
		for _, s := range streams {
			for _, entry := range s.Messages {
				b.dispatch(ctx, log, stream, group, entry, handle)
			}
		}
	}
}

func (b *RedisBus) dispatch(ctx context.Context, log *logrus.Entry, stream, group string, entry redis.XMessage, handle Handler) {
	msg, err := decode(entry.ID, entry.Values)
	if err != nil {
		// malformed entries can never succeed
		log.WithError(err).Warn("dropping stream entry")
		if err := b.client.XAck(ctx, stream, group, entry.ID).Err(); err != nil {
			log.WithError(err).WithField("id", entry.ID).Warn("ack failed")
		}
		return
	}
	start := time.Now()
	if err := handle(ctx, msg); err != nil {
		log.WithError(err).WithFields(logrus.Fields{"id": msg.ID, "type": msg.Type}).Error("handler failed")
		return
	}
	if err := b.client.XAck(ctx, stream, group, entry.ID).Err(); err != nil {
		log.WithError(err).WithField("id", entry.ID).Warn("ack failed")
		return
	}
	log.WithFields(logrus.Fields{"id": msg.ID, "type": msg.Type, "elapsed": utils.Since(start)}).Debug("handled")
}

func isBusyGroup(err error) bool {
	return strings.HasPrefix(err.Error(), "BUSYGROUP")
}
