package forwarding

import (
	"context"
	"time"

	"github.com/dmitrijs2005/mailgate/internal/logging"
	"github.com/dmitrijs2005/mailgate/internal/server/models"
	"github.com/dmitrijs2005/mailgate/internal/server/tasks"
)

// Outcome of a single forwarding attempt.
type Outcome string

const (
	Delivered Outcome = "delivered"
	Failed    Outcome = "failed"
	Skipped   Outcome = "skipped"
)

// Result describes a finished forwarding attempt.
type Result struct {
	MessageID string
	Owner     string
	Transport string
	Outcome   Outcome
	Err       error
	Duration  time.Duration
}

// ResultSink receives the outcome of every forwarding attempt.
type ResultSink interface {
	Record(ctx context.Context, r Result)
}

// SinkFunc adapts a function to ResultSink.
type SinkFunc func(ctx context.Context, r Result)

func (f SinkFunc) Record(ctx context.Context, r Result) { f(ctx, r) }

// MultiSink fans a result out to several sinks.
type MultiSink []ResultSink

func (m MultiSink) Record(ctx context.Context, r Result) {
	for _, s := range m {
		s.Record(ctx, r)
	}
}

// LogSink writes results to a logger. Destination addresses are logged,
// message bodies are not.
type LogSink struct {
	logger logging.Logger
}

func NewLogSink(logger logging.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Record(ctx context.Context, r Result) {
	args := []any{"message_id", r.MessageID, "owner", r.Owner, "transport", r.Transport, "duration", r.Duration}
	switch r.Outcome {
	case Delivered:
		s.logger.Info(ctx, "message forwarded", args...)
	case Skipped:
		s.logger.Debug(ctx, "forwarding skipped: transport disabled", args...)
	default:
		s.logger.Error(ctx, "forwarding failed", append(args, "error", r.Err)...)
	}
}

// Relay delivers forwarded copies in the background.
type Relay struct {
	transport Transport
	from      string
	timeout   time.Duration
	sink      ResultSink
	tasks     *tasks.Group
	now       func() time.Time
}

// NewRelay returns a Relay sending through transport. A nil transport
// disables delivery: every attempt is recorded as Skipped.
func NewRelay(transport Transport, from string, timeout time.Duration, sink ResultSink, group *tasks.Group) *Relay {
	if group == nil {
		group = &tasks.Group{}
	}
	if sink == nil {
		sink = SinkFunc(func(context.Context, Result) {})
	}
	return &Relay{
		transport: transport,
		from:      from,
		timeout:   timeout,
		sink:      sink,
		tasks:     group,
		now:       time.Now,
	}
}

// ForwardBestEffort schedules delivery of m to destination and returns
// immediately. The attempt runs on a context detached from ctx's
// cancellation and bounded by the relay timeout. Its outcome only reaches
// the ResultSink.
func (r *Relay) ForwardBestEffort(ctx context.Context, m *models.Message, destination string) {
	out := NewOutbound(m, r.from, destination)

	r.tasks.Go(ctx, r.timeout, func(ctx context.Context) {
		r.sink.Record(ctx, r.deliver(ctx, m.Owner, out))
	})
}

// Wait blocks until in-flight deliveries finish or ctx is done.
func (r *Relay) Wait(ctx context.Context) error {
	return r.tasks.Wait(ctx)
}

func (r *Relay) deliver(ctx context.Context, owner string, out *Outbound) (res Result) {
	res = Result{MessageID: out.MessageID, Owner: owner}

	if r.transport == nil {
		res.Outcome = Skipped
		return res
	}
	res.Transport = r.transport.Name()

	start := r.now()
	defer func() {
		res.Duration = r.now().Sub(start)
		if p := recover(); p != nil {
			res.Outcome = Failed
			res.Err = panicError{p}
		}
	}()

	if err := r.transport.Send(ctx, out); err != nil {
		res.Outcome = Failed
		res.Err = err
		return res
	}

	res.Outcome = Delivered
	return res
}
