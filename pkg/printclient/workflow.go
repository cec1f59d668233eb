package printclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/Black-And-White-Club/printboard/pkg/printclient"

// GuardMode decides what Submit does while another run is in flight.
type GuardMode int

const (
	// GuardReject fails the second trigger with ErrRunInFlight.
	GuardReject GuardMode = iota
	// GuardQueue makes the second trigger wait for the slot, then run in
	// full. Only one trigger may wait; a third fails with ErrRunInFlight.
	GuardQueue
)

// Result describes one run.
type Result struct {
	RunID      string
	State      State
	Identity   string
	FailedStep Step
	Err        error
}

// Succeeded reports whether every step completed.
func (r Result) Succeeded() bool { return r.State == StateDone }

// WorkflowOption configures a Workflow.
type WorkflowOption func(*Workflow)

// WithLogger sets the diagnostic sink. Defaults to a discarding logger.
func WithLogger(logger *slog.Logger) WorkflowOption {
	return func(w *Workflow) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithGuardMode selects how concurrent triggers are handled.
func WithGuardMode(mode GuardMode) WorkflowOption {
	return func(w *Workflow) { w.mode = mode }
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(tracer trace.Tracer) WorkflowOption {
	return func(w *Workflow) {
		if tracer != nil {
			w.tracer = tracer
		}
	}
}

// Workflow runs print submissions. At most one run is in flight per Workflow.
type Workflow struct {
	client *Client
	logger *slog.Logger
	tracer trace.Tracer
	mode   GuardMode
	slot   chan struct{}

	// waiting holds the single queued trigger in GuardQueue mode.
	waiting chan struct{}
}

// NewWorkflow returns a Workflow using client for every remote call.
func NewWorkflow(client *Client, opts ...WorkflowOption) *Workflow {
	w := &Workflow{
		client: client,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer: otel.Tracer(tracerName),
		mode:   GuardReject,
		slot:   make(chan struct{}, 1),

		waiting: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Submit performs one full run: resolve identity, dispatch the print, insert
// the leaderboard entry. The first failing step ends the run and later steps
// are not attempted. The returned error is also stored in Result.Err.
func (w *Workflow) Submit(ctx context.Context) (Result, error) {
	if err := w.acquire(ctx); err != nil {
		w.logger.WarnContext(ctx, "print submission not started", slog.String("error", err.Error()))
		return Result{State: StateIdle, Err: err}, err
	}
	defer w.release()

	r := &run{
		wf:     w,
		result: Result{RunID: uuid.NewString(), State: StateIdle},
	}
	return r.execute(ctx)
}

func (w *Workflow) acquire(ctx context.Context) error {
	if w.mode == GuardQueue {
		return w.acquireQueued(ctx)
	}

	select {
	case w.slot <- struct{}{}:
		return nil
	default:
		return ErrRunInFlight
	}
}

// acquireQueued lets one trigger wait behind the active run. Any further
// trigger is rejected.
func (w *Workflow) acquireQueued(ctx context.Context) error {
	select {
	case w.slot <- struct{}{}:
		return nil
	default:
	}

	select {
	case w.waiting <- struct{}{}:
	default:
		return ErrRunInFlight
	}
	defer func() { <-w.waiting }()

	select {
	case w.slot <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Workflow) release() { <-w.slot }

// run holds the state of a single submission.
type run struct {
	wf     *Workflow
	result Result
}

func (r *run) execute(ctx context.Context) (Result, error) {
	w := r.wf
	cfg := w.client.Config()

	ctx, span := w.tracer.Start(ctx, "printclient.Submit", trace.WithAttributes(
		attribute.String("run_id", r.result.RunID),
	))
	defer span.End()

	log := w.logger.With(slog.String("run_id", r.result.RunID))
	log.InfoContext(ctx, "print submission started")

	err := r.step(ctx, StepResolveIdentity, func(ctx context.Context) error {
		identity, err := w.client.ResolveIdentity(ctx)
		if err != nil {
			return err
		}
		r.result.Identity = identity
		return nil
	})
	if err == nil {
		err = r.step(ctx, StepDispatchPrint, func(ctx context.Context) error {
			return w.client.SendPrint(ctx, cfg.PrintMessage)
		})
	}
	if err == nil {
		err = r.step(ctx, StepInsertEntry, func(ctx context.Context) error {
			return w.client.InsertLeaderboardEntry(ctx, r.result.Identity)
		})
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorContext(ctx, "print submission failed",
			slog.String("step", r.result.FailedStep.String()),
			slog.String("identity", r.result.Identity),
			slog.String("error", err.Error()),
		)
		return r.result, err
	}

	if terr := r.transition(StateDone); terr != nil {
		return r.result, terr
	}
	log.InfoContext(ctx, "print submission completed", slog.String("identity", r.result.Identity))
	return r.result, nil
}

// step moves the run into the step's state and executes fn under the step
// timeout. A failure moves the run to Failed and is wrapped in the step's
// error kind.
func (r *run) step(ctx context.Context, s Step, fn func(context.Context) error) error {
	if err := r.transition(s.state()); err != nil {
		return err
	}

	ctx, span := r.wf.tracer.Start(ctx, "printclient."+s.String())
	defer span.End()

	if timeout := r.wf.client.Config().StepTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := fn(ctx); err != nil {
		wrapped := wrapStepError(s, err)
		span.RecordError(wrapped)
		r.result.FailedStep = s
		r.result.Err = wrapped
		if terr := r.transition(StateFailed); terr != nil {
			return terr
		}
		return wrapped
	}
	return nil
}

func (r *run) transition(next State) error {
	if !r.result.State.CanTransition(next) {
		err := fmt.Errorf("invalid state transition %s -> %s", r.result.State, next)
		r.result.Err = err
		return err
	}
	r.result.State = next
	return nil
}
