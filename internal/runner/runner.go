// Package runner hosts long-lived cooperative processes on a single logical
// thread of control.
//
// Every process runs in its own goroutine, but the runner hands execution to
// exactly one of them at a time: a process only gives control back when it
// suspends in Effects.Take or returns. Messages are handled in dispatch
// order. For each message the reducers run first, then every process that
// was waiting for the message's kind is resumed in registration order.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/3-lines-studio/monocle/internal/core"
)

var (
	ErrAlreadyStarted = errors.New("runner already started")
	ErrNoKinds        = errors.New("take requires at least one message kind")
)

// Reducer applies a message to state owned outside the processes.
type Reducer interface {
	Apply(msg core.Message)
}

// ProcessFunc is the body of a cooperative process.
type ProcessFunc func(ctx context.Context, eff Effects) error

// Effects is the only way a process interacts with the runner.
type Effects interface {
	// Take suspends until a message of one of kinds is handled.
	Take(ctx context.Context, kinds ...core.Kind) (core.Message, error)
	// Put queues msg. It never blocks.
	Put(msg core.Message)
}

// Option customizes Runner construction.
type Option func(*Runner)

func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

func WithReducer(reducer Reducer) Option {
	return func(r *Runner) {
		if reducer != nil {
			r.reducers = append(r.reducers, reducer)
		}
	}
}

// WithObserver registers fn to be called after a message has been reduced
// and delivered to the waiting processes.
func WithObserver(fn func(core.Message)) Option {
	return func(r *Runner) {
		if fn != nil {
			r.observers = append(r.observers, fn)
		}
	}
}

type Runner struct {
	mu        sync.Mutex
	queue     []core.Message
	wake      chan struct{}
	started   bool
	reducers  []Reducer
	observers []func(core.Message)
	procs     []*process
	logger    zerolog.Logger
}

type process struct {
	name   string
	fn     ProcessFunc
	kinds  map[core.Kind]bool
	resume chan core.Message
	yield  chan yieldEvent
	done   bool
}

type yieldEvent struct {
	done     bool
	err      error
	panicked bool
}

func New(opts ...Option) *Runner {
	r := &Runner{
		wake:   make(chan struct{}, 1),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Spawn registers a process. Processes must be registered before the runner
// starts; registration order is wake-up order.
func (r *Runner) Spawn(name string, fn ProcessFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return fmt.Errorf("spawn %s: %w", name, ErrAlreadyStarted)
	}
	r.procs = append(r.procs, &process{
		name:   name,
		fn:     fn,
		resume: make(chan core.Message),
		yield:  make(chan yieldEvent),
	})
	return nil
}

// Dispatch queues msg for processing. Safe to call from any goroutine.
func (r *Runner) Dispatch(msg core.Message) {
	if msg == nil {
		return
	}
	r.mu.Lock()
	r.queue = append(r.queue, msg)
	r.mu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Run starts the processes and handles messages until ctx is cancelled.
// It returns nil on cancellation and an error when a process panics.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.start(ctx); err != nil {
		return r.stopped(ctx, err)
	}

	for {
		if err := r.drain(ctx); err != nil {
			return r.stopped(ctx, err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-r.wake:
		}
	}
}

// Drain starts the processes if needed and handles queued messages, including
// the ones queued while draining, until the queue is empty. It must not be
// called concurrently with Run.
func (r *Runner) Drain(ctx context.Context) error {
	r.mu.Lock()
	started := r.started
	r.mu.Unlock()

	if !started {
		if err := r.start(ctx); err != nil {
			return err
		}
	}
	return r.drain(ctx)
}

func (r *Runner) stopped(ctx context.Context, err error) error {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}
	return err
}

func (r *Runner) start(ctx context.Context) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.started = true
	procs := append([]*process(nil), r.procs...)
	r.mu.Unlock()

	for _, p := range procs {
		r.logger.Debug().Str("process", p.name).Msg("process starting")
		go r.execute(ctx, p)
		if err := r.await(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) execute(ctx context.Context, p *process) {
	ev := yieldEvent{done: true}
	defer func() {
		if rec := recover(); rec != nil {
			ev = yieldEvent{done: true, panicked: true, err: fmt.Errorf("process %s panicked: %v", p.name, rec)}
		}
		select {
		case p.yield <- ev:
		case <-ctx.Done():
		}
	}()

	ev.err = p.fn(ctx, &effects{runner: r, proc: p})
}

// await blocks until p suspends or returns.
func (r *Runner) await(ctx context.Context, p *process) error {
	var ev yieldEvent
	select {
	case ev = <-p.yield:
	case <-ctx.Done():
		return ctx.Err()
	}
	return r.settle(p, ev)
}

func (r *Runner) settle(p *process, ev yieldEvent) error {
	if !ev.done {
		return nil
	}

	p.done = true
	p.kinds = nil
	switch {
	case ev.panicked:
		r.logger.Error().Str("process", p.name).Err(ev.err).Msg("process panicked")
		return ev.err
	case ev.err != nil && !errors.Is(ev.err, context.Canceled):
		r.logger.Error().Str("process", p.name).Err(ev.err).Msg("process failed")
	default:
		r.logger.Debug().Str("process", p.name).Msg("process finished")
	}
	return nil
}

func (r *Runner) drain(ctx context.Context) error {
	for {
		msg, ok := r.next()
		if !ok {
			return nil
		}
		if err := r.deliver(ctx, msg); err != nil {
			return err
		}
	}
}

func (r *Runner) next() (core.Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.queue) == 0 {
		return nil, false
	}
	msg := r.queue[0]
	r.queue[0] = nil
	r.queue = r.queue[1:]
	return msg, true
}

func (r *Runner) deliver(ctx context.Context, msg core.Message) error {
	for _, reducer := range r.reducers {
		reducer.Apply(msg)
	}

	var waiting []*process
	for _, p := range r.procs {
		if !p.done && p.kinds[msg.Kind()] {
			waiting = append(waiting, p)
		}
	}

	for _, p := range waiting {
		p.kinds = nil
		select {
		case p.resume <- msg:
		case ev := <-p.yield:
			// gave up waiting on its own context before the message arrived
			if err := r.settle(p, ev); err != nil {
				return err
			}
			continue
		case <-ctx.Done():
			return ctx.Err()
		}
		if err := r.await(ctx, p); err != nil {
			return err
		}
	}

	for _, fn := range r.observers {
		fn(msg)
	}
	return nil
}

type effects struct {
	runner *Runner
	proc   *process
}

func (e *effects) Take(ctx context.Context, kinds ...core.Kind) (core.Message, error) {
	if len(kinds) == 0 {
		return nil, ErrNoKinds
	}

	wanted := make(map[core.Kind]bool, len(kinds))
	for _, kind := range kinds {
		wanted[kind] = true
	}
	e.proc.kinds = wanted

	select {
	case e.proc.yield <- yieldEvent{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case msg := <-e.proc.resume:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (e *effects) Put(msg core.Message) {
	e.runner.Dispatch(msg)
}
