package printservice

import (
	"context"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
)

// ------------------------
// Fake Publisher
// ------------------------

type FakePublisher struct {
	mu       sync.Mutex
	trace    []string
	messages []*message.Message

	PublishFunc func(topic string, msgs ...*message.Message) error
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{trace: []string{}}
}

func (f *FakePublisher) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakePublisher) Messages() []*message.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*message.Message(nil), f.messages...)
}

func (f *FakePublisher) Publish(topic string, msgs ...*message.Message) error {
	f.mu.Lock()
	f.trace = append(f.trace, "Publish:"+topic)
	f.mu.Unlock()
	if f.PublishFunc != nil {
		if err := f.PublishFunc(topic, msgs...); err != nil {
			return err
		}
	}
	f.mu.Lock()
	f.messages = append(f.messages, msgs...)
	f.mu.Unlock()
	return nil
}

func (f *FakePublisher) Close() error { return nil }

// ------------------------
// Fake Metrics
// ------------------------

type FakeMetrics struct {
	mu       sync.Mutex
	outcomes []string
	failures int
}

func (f *FakeMetrics) Outcomes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.outcomes...)
}

func (f *FakeMetrics) RecordOperationAttempt(context.Context, string, string)                 {}
func (f *FakeMetrics) RecordOperationSuccess(context.Context, string, string)                 {}
func (f *FakeMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}

func (f *FakeMetrics) RecordOperationFailure(context.Context, string, string) {
	f.mu.Lock()
	f.failures++
	f.mu.Unlock()
}

func (f *FakeMetrics) RecordPrintJob(_ context.Context, outcome string) {
	f.mu.Lock()
	f.outcomes = append(f.outcomes, outcome)
	f.mu.Unlock()
}

var (
	_ message.Publisher = (*FakePublisher)(nil)
	_ Metrics           = (*FakeMetrics)(nil)
)
