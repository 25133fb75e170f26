// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package recommend

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/recipebox/internal/events"
	"github.com/tomtom215/recipebox/internal/recipe"
	"github.com/tomtom215/recipebox/internal/recommend/learning"
	"github.com/tomtom215/recipebox/internal/recommend/scoring"
	"github.com/tomtom215/recipebox/internal/recommend/storage"
)

func ignoredWarning(user string) Interaction {
	return Interaction{
		UserID:     user,
		SubjectIDs: []string{"r-curry"},
		Decision:   recipe.DecisionIgnored,
		Features: recipe.FeatureVector{
			recipe.FeatureTitle:       1.0,
			recipe.FeatureIngredients: 0.1,
		},
	}
}

func TestEngine_RecordInteraction_IgnoredWarningsLowerTitleWeight(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cfg := DefaultConfig()
	cfg.Training.BatchEnabled = false
	e := newTestEngine(t, cfg, nil)
	defaults := DefaultWeights()[recipe.SignalSimilarity]

	for i := 1; i <= 15; i++ {
		out := e.RecordInteraction(ctx, ignoredWarning("u1"))
		if !out.Recorded {
			t.Fatalf("call %d not recorded: %v", i, out.Err)
		}
		if out.Count != i {
			t.Errorf("call %d: Count = %d", i, out.Count)
		}
		if out.Training != nil {
			t.Errorf("call %d scheduled training with batch disabled", i)
		}
		if wantLearned := i >= 10; out.Learned != wantLearned {
			t.Errorf("call %d: Learned = %v, want %v", i, out.Learned, wantLearned)
		}
	}

	got := e.GetWeights(ctx, "u1", recipe.SignalSimilarity)
	if got[recipe.FeatureTitle] >= defaults[recipe.FeatureTitle] {
		t.Errorf("title weight = %f, want below default %f", got[recipe.FeatureTitle], defaults[recipe.FeatureTitle])
	}
	gotRatio := got[recipe.FeatureTitle] / got[recipe.FeatureIngredients]
	defRatio := defaults[recipe.FeatureTitle] / defaults[recipe.FeatureIngredients]
	if gotRatio >= defRatio {
		t.Errorf("title/ingredients ratio = %f, want below %f", gotRatio, defRatio)
	}
	for f, w := range got {
		if w < cfg.Online.MinWeight || w > cfg.Online.MaxWeight {
			t.Errorf("weight %s = %f outside clamp range", f, w)
		}
	}
}

func TestEngine_RecordInteraction_BatchCadence(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	e := newTestEngine(t, nil, nil)
	defaults := DefaultWeights()[recipe.SignalSimilarity]

	decisions := []recipe.Decision{recipe.DecisionIgnored, recipe.DecisionAccepted, recipe.DecisionUsedAutofill}
	interaction := func(i int) Interaction {
		return Interaction{
			UserID:   "u1",
			Decision: decisions[i%len(decisions)],
			Features: recipe.FeatureVector{
				recipe.FeatureTitle:       float64(i%5) / 4,
				recipe.FeatureIngredients: float64((i*7)%10) / 10,
			},
		}
	}

	for i := 1; i <= 9; i++ {
		out := e.RecordInteraction(ctx, interaction(i))
		if !out.Recorded || out.Learned || out.Training != nil {
			t.Fatalf("call %d: Recorded=%v Learned=%v Training=%v", i, out.Recorded, out.Learned, out.Training)
		}
		if got := e.GetWeights(ctx, "u1", recipe.SignalSimilarity); !weightsEqual(got, defaults) {
			t.Fatalf("call %d changed weights to %v", i, got)
		}
	}

	out := e.RecordInteraction(ctx, interaction(10))
	if out.Training == nil {
		t.Fatal("call 10 did not schedule training")
	}
	if out.Training.Key != (storage.Key{UserID: "u1", Signal: recipe.SignalSimilarity}) {
		t.Errorf("job key = %v", out.Training.Key)
	}

	serveQueue(t, e)
	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	res, err := out.Training.Wait(waitCtx)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	if math.Abs(res.Weights.Sum()-1) > 1e-6 {
		t.Errorf("trained weights sum = %f, want 1", res.Weights.Sum())
	}
	if res.Metrics.Version != 1 || res.Metrics.Samples != 10 {
		t.Errorf("metrics = %+v, want version 1 over 10 samples", res.Metrics)
	}
	if res.Metrics.MSE < 0 || res.Metrics.R2 > 1 {
		t.Errorf("metrics out of range: mse=%f r2=%f", res.Metrics.MSE, res.Metrics.R2)
	}
	if got := e.GetWeights(ctx, "u1", recipe.SignalSimilarity); !weightsEqual(got, res.Weights) {
		t.Errorf("stored weights = %v, want trained %v", got, res.Weights)
	}
	stored, err := e.ModelMetrics(ctx, "u1", recipe.SignalSimilarity)
	if err != nil || stored.Version != 1 {
		t.Errorf("ModelMetrics() = %+v, %v", stored, err)
	}

	for i := 11; i <= 19; i++ {
		if out := e.RecordInteraction(ctx, interaction(i)); out.Training != nil {
			t.Errorf("call %d scheduled training, want only every 10th", i)
		}
	}
	if out := e.RecordInteraction(ctx, interaction(20)); out.Training == nil {
		t.Error("call 20 did not schedule training")
	}
}

func TestEngine_RecordInteraction_Dedup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := storage.NewMemoryStore()
	e := newTestEngine(t, nil, store)

	in := ignoredWarning("u1")
	in.EventID = "evt-1"

	first := e.RecordInteraction(ctx, in)
	second := e.RecordInteraction(ctx, in)

	if !first.Recorded || first.Duplicate {
		t.Errorf("first = %+v", first)
	}
	if !second.Recorded || !second.Duplicate {
		t.Errorf("second = %+v, want recorded duplicate", second)
	}
	n, err := store.CountInteractions(ctx, "u1", recipe.SignalSimilarity)
	if err != nil || n != 1 {
		t.Errorf("stored count = %d, %v; want 1", n, err)
	}
}

func TestEngine_RecordInteraction_Validation(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, nil, nil)

	tests := []struct {
		name string
		in   Interaction
	}{
		{"empty user", Interaction{Decision: recipe.DecisionIgnored}},
		{"bad user", Interaction{UserID: "u 1", Decision: recipe.DecisionIgnored}},
		{"missing decision", Interaction{UserID: "u1"}},
		{"unknown signal", Interaction{UserID: "u1", Decision: recipe.DecisionLiked, Signal: "rating"}},
		{"bad subject", Interaction{UserID: "u1", Decision: recipe.DecisionLiked, SubjectIDs: []string{""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out := e.RecordInteraction(context.Background(), tt.in)
			if out.Recorded {
				t.Error("invalid interaction recorded")
			}
			if !errors.Is(out.Err, ErrInvalidInteraction) {
				t.Errorf("Err = %v, want ErrInvalidInteraction", out.Err)
			}
		})
	}
}

func TestEngine_RecordInteraction_DerivesSignal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := storage.NewMemoryStore()
	e := newTestEngine(t, nil, store)

	out := e.RecordInteraction(ctx, Interaction{UserID: "u1", Decision: recipe.DecisionSaved, SubjectIDs: []string{"r1"}})
	if !out.Recorded {
		t.Fatalf("not recorded: %v", out.Err)
	}
	recs, err := store.RecentInteractions(ctx, "u1", []recipe.SignalType{recipe.SignalSave}, 10)
	if err != nil || len(recs) != 1 {
		t.Fatalf("RecentInteractions() = %d, %v", len(recs), err)
	}
	if recs[0].Target != 1.0 {
		t.Errorf("Target = %f, want 1.0 for saved", recs[0].Target)
	}
	if !recs[0].Timestamp.Equal(testNow) {
		t.Errorf("Timestamp = %v, want %v", recs[0].Timestamp, testNow)
	}
}

func TestEngine_RecordInteraction_StoreFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("append failure", func(t *testing.T) {
		t.Parallel()
		fs := &failingStore{MemoryStore: storage.NewMemoryStore(), appendRec: true}
		e := newTestEngine(t, nil, fs)

		in := ignoredWarning("u1")
		in.EventID = "evt-retry"
		out := e.RecordInteraction(ctx, in)
		if out.Recorded || !errors.Is(out.Err, ErrStoreUnavailable) {
			t.Fatalf("out = %+v, want unrecorded with ErrStoreUnavailable", out)
		}

		// A failed append must not consume the event ID.
		fs.appendRec = false
		if retry := e.RecordInteraction(ctx, in); !retry.Recorded || retry.Duplicate {
			t.Errorf("retry = %+v, want fresh record", retry)
		}
	})

	t.Run("weight write failure", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.Training.MinInteractions = 1
		cfg.Training.BatchEnabled = false
		e := newTestEngine(t, cfg, &failingStore{MemoryStore: storage.NewMemoryStore(), putWeights: true})

		out := e.RecordInteraction(ctx, ignoredWarning("u1"))
		if !out.Recorded || out.Learned {
			t.Errorf("out = %+v, want recorded without learning", out)
		}
	})

	t.Run("weight read failure skips learning", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.Training.MinInteractions = 1
		cfg.Training.BatchEnabled = false
		fs := &failingStore{MemoryStore: storage.NewMemoryStore(), getWeights: true}
		e := newTestEngine(t, cfg, fs)

		out := e.RecordInteraction(ctx, ignoredWarning("u1"))
		if !out.Recorded || out.Learned {
			t.Errorf("out = %+v, want recorded without learning", out)
		}
		if _, err := fs.MemoryStore.GetWeights(ctx, "u1", recipe.SignalSimilarity); !errors.Is(err, storage.ErrNotFound) {
			t.Error("defaults were written over unreadable weights")
		}
	})
}

func TestEngine_RecordInteraction_UsesSubmittedScore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cfg := DefaultConfig()
	cfg.Training.MinInteractions = 1
	cfg.Training.BatchEnabled = false
	e := newTestEngine(t, cfg, nil)

	// Target for accepted is 0.9; a shown score of 0.9 is a zero error.
	score := 0.9
	out := e.RecordInteraction(ctx, Interaction{
		UserID:   "u1",
		Decision: recipe.DecisionAccepted,
		Score:    &score,
		Features: recipe.FeatureVector{recipe.FeatureTitle: 1, recipe.FeatureIngredients: 1},
	})
	if !out.Learned {
		t.Fatalf("out = %+v, want learned", out)
	}
	if !weightsEqual(out.NewWeights, DefaultWeights()[recipe.SignalSimilarity]) {
		t.Errorf("NewWeights = %v, want unchanged defaults", out.NewWeights)
	}
}

func TestEngine_RecordInteraction_PublishesEvent(t *testing.T) {
	t.Parallel()

	pub := &capturePublisher{}
	e := newTestEngine(t, nil, nil, WithPublisher(pub))

	out := e.RecordInteraction(context.Background(), ignoredWarning("u1"))
	if !out.Recorded {
		t.Fatal(out.Err)
	}

	topics := pub.topics()
	if len(topics) != 1 || topics[0] != events.TopicInteractionRecorded {
		t.Fatalf("topics = %v", topics)
	}
	ev, ok := pub.events[0].(events.InteractionRecorded)
	if !ok {
		t.Fatalf("event type = %T", pub.events[0])
	}
	if ev.InteractionID != out.InteractionID || ev.Count != 1 || ev.Signal != recipe.SignalSimilarity {
		t.Errorf("event = %+v", ev)
	}
}

func TestEngine_RecordInteraction_SanitizesFeatures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cfg := DefaultConfig()
	cfg.Training.MinInteractions = 1
	cfg.Training.BatchEnabled = false
	store := storage.NewMemoryStore()
	e := newTestEngine(t, cfg, store)

	out := e.RecordInteraction(ctx, Interaction{
		UserID:   "u1",
		Decision: recipe.DecisionAccepted,
		Features: recipe.FeatureVector{
			recipe.FeatureTitle:       -5,
			recipe.FeatureIngredients: 3,
			recipe.FeatureTags:        math.NaN(),
		},
	})
	if !out.Recorded || !out.Learned {
		t.Fatalf("out = %+v, want recorded and learned", out)
	}

	recs, err := store.RecentInteractions(ctx, "u1", []recipe.SignalType{recipe.SignalSimilarity}, 1)
	if err != nil || len(recs) != 1 {
		t.Fatalf("RecentInteractions = %v, %v", recs, err)
	}
	rec := recs[0]
	want := recipe.FeatureVector{recipe.FeatureTitle: 0, recipe.FeatureIngredients: 1}
	if len(rec.Features) != len(want) || rec.Features[recipe.FeatureTitle] != 0 || rec.Features[recipe.FeatureIngredients] != 1 {
		t.Fatalf("stored features = %v, want %v", rec.Features, want)
	}

	defaults := DefaultWeights()[recipe.SignalSimilarity]
	wantScore := scoring.Score(rec.Features, defaults).Score
	if rec.Score < 0 || rec.Score > 1 || math.Abs(rec.Score-wantScore) > epsilon {
		t.Errorf("stored score = %f, want %f from the stored features", rec.Score, wantScore)
	}

	wantWeights := learning.OnlineUpdate(defaults, rec.Features, wantScore, learning.TargetFor(recipe.DecisionAccepted), cfg.Online)
	if !weightsEqual(out.NewWeights, wantWeights) {
		t.Errorf("NewWeights = %v, want %v", out.NewWeights, wantWeights)
	}
	if out.NewWeights[recipe.FeatureTitle] != defaults[recipe.FeatureTitle] {
		t.Errorf("title weight moved to %f on a zero feature", out.NewWeights[recipe.FeatureTitle])
	}
}

func TestEngine_RecordInteraction_ConcurrentSameUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	const n = 40

	cfg := DefaultConfig()
	cfg.Training.BatchEnabled = false

	sequential := newTestEngine(t, cfg, nil)
	for i := 0; i < n; i++ {
		if out := sequential.RecordInteraction(ctx, ignoredWarning("u1")); !out.Recorded {
			t.Fatalf("sequential call %d: %v", i, out.Err)
		}
	}

	concurrent := newTestEngine(t, cfg, nil)
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if out := concurrent.RecordInteraction(ctx, ignoredWarning("u1")); !out.Recorded {
				errs <- out.Err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent call not recorded: %v", err)
	}

	count, err := concurrent.tracker.Count(ctx, "u1", recipe.SignalSimilarity)
	if err != nil || count != n {
		t.Fatalf("Count = %d, %v, want %d", count, err, n)
	}

	want := sequential.GetWeights(ctx, "u1", recipe.SignalSimilarity)
	got := concurrent.GetWeights(ctx, "u1", recipe.SignalSimilarity)
	if !weightsEqual(got, want) {
		t.Errorf("concurrent weights = %v, want sequential %v", got, want)
	}
}
