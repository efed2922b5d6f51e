package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Ramjayanth123/contracts-4-sub001/pkg/domain"
)

type memAppender struct {
	mu      sync.Mutex
	entries []Entry
	failN   int
}

func (m *memAppender) Append(ctx context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failN > 0 {
		m.failN--
		return errors.New("log store unavailable")
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *memAppender) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func quietLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func entry(id string) Entry {
	return Entry{
		EntryID:    id,
		ContractID: "ctr_1",
		ActorID:    "act_u1",
		Action:     domain.ActionApprove,
		PriorState: domain.StatePendingReview,
		Outcome:    OutcomeOK,
		OccurredAt: time.Now(),
	}
}

func TestRecorderDeliversAndDrainsOnClose(t *testing.T) {
	app := &memAppender{}
	rec := NewRecorder(app, quietLog(), 8)
	for i := 0; i < 5; i++ {
		rec.Record(entry("aud_" + string(rune('a'+i))))
	}
	rec.Close()
	if got := app.count(); got != 5 {
		t.Fatalf("expected 5 entries after drain, got %d", got)
	}
}

func TestRecorderRetriesFailedAppend(t *testing.T) {
	app := &memAppender{failN: 2}
	rec := NewRecorder(app, quietLog(), 1)
	rec.Record(entry("aud_retry"))
	rec.Close()
	if got := app.count(); got != 1 {
		t.Fatalf("expected entry to land after retries, got %d", got)
	}
}

func TestRecorderNeverBlocksWhenFull(t *testing.T) {
	block := make(chan struct{})
	app := &blockingAppender{block: block}
	rec := NewRecorder(app, quietLog(), 1)

	// Worker takes the first entry and blocks; the second fills the buffer;
	// the third must be dropped without blocking the caller.
	rec.Record(entry("aud_1"))
	time.Sleep(20 * time.Millisecond)
	rec.Record(entry("aud_2"))

	recorded := make(chan struct{})
	go func() {
		rec.Record(entry("aud_3"))
		close(recorded)
	}()
	select {
	case <-recorded:
	case <-time.After(time.Second):
		t.Fatalf("Record blocked on a full buffer")
	}
	close(block)
	rec.Close()
}

type blockingAppender struct {
	block <-chan struct{}
}

func (b *blockingAppender) Append(ctx context.Context, e Entry) error {
	<-b.block
	return nil
}
