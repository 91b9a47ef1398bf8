package eventbus

import (
	"context"
	"errors"
	"testing"
)

func TestSubscribeAndPublish(t *testing.T) {
	bus := NewGenerationEventBus()

	var got []GenerationEvent
	unsubscribe := bus.Subscribe(GenerationEventProgress, func(ctx context.Context, event GenerationEvent) error {
		got = append(got, event)
		return nil
	})
	defer unsubscribe()

	event := GenerationEvent{
		Type:       GenerationEventProgress,
		RunID:      "run-1",
		Current:    3,
		Total:      7,
		Percentage: 43,
	}
	if err := bus.Publish(context.Background(), GenerationEventProgress, event); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if len(got) != 1 || got[0] != event {
		t.Fatalf("handler did not receive the event: %+v", got)
	}
}

func TestPublishOnlyMatchingType(t *testing.T) {
	bus := NewGenerationEventBus()

	calls := 0
	bus.Subscribe(GenerationEventCompleted, func(ctx context.Context, event GenerationEvent) error {
		calls++
		return nil
	})

	if err := bus.Publish(context.Background(), GenerationEventProgress, GenerationEvent{}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if calls != 0 {
		t.Fatalf("handler for a different type was invoked")
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewGenerationEventBus()

	calls := 0
	unsubscribe := bus.Subscribe(GenerationEventProgress, func(ctx context.Context, event GenerationEvent) error {
		calls++
		return nil
	})
	unsubscribe()

	if err := bus.Publish(context.Background(), GenerationEventProgress, GenerationEvent{}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if calls != 0 {
		t.Fatalf("unsubscribed handler was invoked")
	}
}

func TestPublishJoinsHandlerErrors(t *testing.T) {
	bus := NewGenerationEventBus()

	errA := errors.New("handler a failed")
	calls := 0
	bus.Subscribe(GenerationEventFailed, func(ctx context.Context, event GenerationEvent) error {
		return errA
	})
	bus.Subscribe(GenerationEventFailed, func(ctx context.Context, event GenerationEvent) error {
		calls++
		return nil
	})

	err := bus.Publish(context.Background(), GenerationEventFailed, GenerationEvent{})
	if !errors.Is(err, errA) {
		t.Fatalf("expected joined handler error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("a handler error must not short-circuit delivery, calls=%d", calls)
	}
}

func TestNilHandlerIsIgnored(t *testing.T) {
	bus := NewGenerationEventBus()
	unsubscribe := bus.Subscribe(GenerationEventProgress, nil)
	unsubscribe()

	if err := bus.Publish(context.Background(), GenerationEventProgress, GenerationEvent{}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
}
