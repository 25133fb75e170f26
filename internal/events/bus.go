// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// BusConfig configures the in-process bus.
type BusConfig struct {
	// BufferSize is the per-subscriber channel buffer.
	BufferSize int64

	// BlockPublishUntilAcked makes Publish wait for every subscriber.
	BlockPublishUntilAcked bool
}

// DefaultBusConfig returns the production bus settings.
func DefaultBusConfig() BusConfig {
	return BusConfig{BufferSize: 256}
}

// Bus is an in-process Pub/Sub for domain events.
type Bus struct {
	pubsub *gochannel.GoChannel
}

// NewBus creates a bus. logger may be nil.
func NewBus(cfg BusConfig, logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer:            cfg.BufferSize,
			BlockPublishUntilSubscriberAck: cfg.BlockPublishUntilAcked,
		}, logger),
	}
}

// Publish encodes ev and publishes it on its topic.
func (b *Bus) Publish(ctx context.Context, ev Event) error {
	msg, err := Encode(ctx, ev)
	if err != nil {
		return err
	}
	if err := b.pubsub.Publish(ev.Topic(), msg); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Topic(), err)
	}
	return nil
}

// Subscriber exposes the bus to a Router.
func (b *Bus) Subscriber() message.Subscriber {
	return b.pubsub
}

// Close shuts the bus down. Pending messages are dropped.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
