package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Ramjayanth123/contracts-4-sub001/pkg/domain"
)

// OutcomeOK marks a committed transition; every other outcome is the
// FailureKind that refused the attempt.
const OutcomeOK = "OK"

// Entry is one immutable record of a transition attempt, successful or
// refused. Entries are never updated after being written.
type Entry struct {
	EntryID     string        `json:"entry_id"`
	ContractID  string        `json:"contract_id"`
	ActorID     string        `json:"actor_id"`
	ActorRole   domain.Role   `json:"actor_role,omitempty"`
	Action      domain.Action `json:"action"`
	PriorState  domain.State  `json:"prior_state,omitempty"`
	ResultState domain.State  `json:"result_state,omitempty"`
	Outcome     string        `json:"outcome"`
	Reason      string        `json:"reason,omitempty"`
	OccurredAt  time.Time     `json:"occurred_at"`
}

// Appender is the append-only log store behind the recorder.
type Appender interface {
	Append(ctx context.Context, e Entry) error
}

// Recorder decouples audit writes from the transition path. The transition
// write is authoritative; audit writes may lag, retry, or in the worst case
// be lost, and none of that changes the caller-visible outcome. Losses are
// reported to the log, not to the caller.
type Recorder struct {
	app  Appender
	log  *slog.Logger
	ch   chan Entry
	done chan struct{}

	appendTimeout time.Duration
	maxElapsed    time.Duration
}

func NewRecorder(app Appender, log *slog.Logger, buffer int) *Recorder {
	if buffer <= 0 {
		buffer = 256
	}
	r := &Recorder{
		app:           app,
		log:           log,
		ch:            make(chan Entry, buffer),
		done:          make(chan struct{}),
		appendTimeout: 5 * time.Second,
		maxElapsed:    30 * time.Second,
	}
	go r.run()
	return r
}

// Record enqueues an entry without blocking. A full buffer drops the entry
// and reports the loss.
func (r *Recorder) Record(e Entry) {
	select {
	case r.ch <- e:
	default:
		r.log.Error("audit buffer full, entry dropped",
			"entry_id", e.EntryID, "contract_id", e.ContractID, "action", string(e.Action))
	}
}

// Close drains queued entries and stops the worker.
func (r *Recorder) Close() {
	close(r.ch)
	<-r.done
}

func (r *Recorder) run() {
	defer close(r.done)
	for e := range r.ch {
		r.append(e)
	}
}

func (r *Recorder) append(e Entry) {
	op := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), r.appendTimeout)
		defer cancel()
		return r.app.Append(ctx, e)
	}
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 50 * time.Millisecond
	policy.MaxElapsedTime = r.maxElapsed
	if err := backoff.Retry(op, policy); err != nil {
		r.log.Error("audit append failed",
			"entry_id", e.EntryID, "contract_id", e.ContractID, "error", err)
	}
}
