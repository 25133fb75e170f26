// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/recipebox/internal/recipe"
)

// Topics.
const (
	TopicInteractionRecorded = "interaction.recorded"
	TopicWeightsUpdated      = "weights.updated"
)

// Metadata keys set on every message.
const (
	MetadataUserID = "user_id"
	MetadataSignal = "signal"
)

// Event is a payload that knows its topic and partition key.
type Event interface {
	Topic() string
	Key() (userID string, signal recipe.SignalType)
}

// InteractionRecorded is published after an interaction is stored.
type InteractionRecorded struct {
	InteractionID string            `json:"interaction_id"`
	UserID        string            `json:"user_id"`
	Signal        recipe.SignalType `json:"signal"`
	Decision      recipe.Decision   `json:"decision"`
	SubjectIDs    []string          `json:"subject_ids"`
	Count         int               `json:"count"`
	Learned       bool              `json:"learned"`
	Timestamp     time.Time         `json:"timestamp"`
}

// Topic implements Event.
func (InteractionRecorded) Topic() string { return TopicInteractionRecorded }

// Key implements Event.
func (e InteractionRecorded) Key() (string, recipe.SignalType) { return e.UserID, e.Signal }

// WeightsUpdated is published after new weights are stored.
type WeightsUpdated struct {
	UserID  string              `json:"user_id"`
	Signal  recipe.SignalType   `json:"signal"`
	Method  string              `json:"method"`
	Version int                 `json:"version,omitempty"`
	Weights recipe.WeightVector `json:"weights"`
	At      time.Time           `json:"at"`
}

// Topic implements Event.
func (WeightsUpdated) Topic() string { return TopicWeightsUpdated }

// Key implements Event.
func (e WeightsUpdated) Key() (string, recipe.SignalType) { return e.UserID, e.Signal }

// Publisher publishes domain events.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// NopPublisher discards events.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Encode builds a Watermill message for ev.
func Encode(ctx context.Context, ev Event) (*message.Message, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ev.Topic(), err)
	}
	msg := message.NewMessage(uuid.NewString(), payload)
	user, signal := ev.Key()
	msg.Metadata.Set(MetadataUserID, user)
	msg.Metadata.Set(MetadataSignal, string(signal))
	msg.SetContext(ctx)
	return msg, nil
}

// Decode unmarshals a message payload into T.
func Decode[T any](msg *message.Message) (T, error) {
	var out T
	if err := json.Unmarshal(msg.Payload, &out); err != nil {
		return out, fmt.Errorf("decode message %s: %w", msg.UUID, err)
	}
	return out, nil
}
