package tasksvc

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/NexPlugs/pl-flow/internal/journal"
	"github.com/NexPlugs/pl-flow/internal/runner"
	"github.com/NexPlugs/pl-flow/pkg/id"
	logpkg "github.com/NexPlugs/pl-flow/pkg/log"
)

// Options configures a Service.
type Options struct {
	MaxConcurrentTasks int
	TTL                time.Duration
	MaxQueueSize       int
	// Journal, when non-nil, durably records every successful completion.
	Journal *journal.Journal
	Logger  logpkg.Logger
	// Clock overrides time.Now, for tests.
	Clock func() time.Time
}

// Service maps topics to handlers and runs submissions through a coalescing
// bounded runner. Submissions dedupe by identity across topics.
type Service struct {
	runner *runner.Runner[string, Result]
	jr     *journal.Journal
	logger logpkg.Logger
	clock  func() time.Time

	mu       sync.RWMutex
	handlers map[string]Handler
}

// New returns a Service with no topics registered.
func New(opts Options) *Service {
	l := opts.Logger
	if l == nil {
		l = logpkg.NewLogger().With(logpkg.Component("tasks"))
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		runner: runner.New[string, Result](runner.Options{
			MaxConcurrent: opts.MaxConcurrentTasks,
			TTL:           opts.TTL,
			MaxQueue:      opts.MaxQueueSize,
			Clock:         opts.Clock,
		}),
		jr:       opts.Journal,
		logger:   l,
		clock:    clock,
		handlers: map[string]Handler{},
	}
}

// Register binds a handler to a topic. Registering an already-bound topic or
// an empty topic is an error.
func (s *Service) Register(topic string, h Handler) error {
	if topic == "" {
		return fmt.Errorf("tasks: empty topic")
	}
	if h == nil {
		return fmt.Errorf("tasks: nil handler for topic %q", topic)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.handlers[topic]; ok {
		return fmt.Errorf("tasks: topic %q already registered", topic)
	}
	s.handlers[topic] = h
	return nil
}

// Topics returns the registered topic names.
func (s *Service) Topics() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.handlers))
	for t := range s.handlers {
		out = append(out, t)
	}
	return out
}

// Submit queues a task under identity and returns its shared handle without
// waiting. Submitting an identity that is already pending coalesces onto the
// pending entry regardless of topic or payload.
func (s *Service) Submit(identity, topic string, payload []byte) (*runner.Handle[Result], error) {
	if identity == "" {
		return nil, fmt.Errorf("tasks: empty identity")
	}
	s.mu.RLock()
	h, ok := s.handlers[topic]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("tasks: unknown topic %q", topic)
	}
	task := Task{Identity: identity, Topic: topic, Payload: payload}
	return s.runner.Submit(identity, func(ctx context.Context) (Result, error) {
		res, err := h(ctx, task)
		if err != nil {
			s.logger.Debugf("task failed: identity=%s topic=%s err=%v", identity, topic, err)
			return Result{}, err
		}
		s.journalCompletion(ctx, identity, res)
		return res, nil
	}), nil
}

// SubmitWait submits and blocks until the entry settles or ctx is done.
func (s *Service) SubmitWait(ctx context.Context, identity, topic string, payload []byte) (Result, error) {
	h, err := s.Submit(identity, topic, payload)
	if err != nil {
		return Result{}, err
	}
	return h.Wait(ctx)
}

// Remove cancels one pending claim on identity. See runner.Runner.Remove for
// the exact coalesced-claim semantics.
func (s *Service) Remove(identity string) bool {
	return s.runner.Remove(identity)
}

// Clear settles every pending entry as removed. Running tasks finish on their
// own.
func (s *Service) Clear() {
	s.runner.Clear()
}

// Stats snapshots the underlying runner.
func (s *Service) Stats() runner.Stats {
	return s.runner.Stats()
}

// Journal returns the completion journal, or nil when journaling is off.
func (s *Service) Journal() *journal.Journal {
	return s.jr
}

// Close clears pending work and shuts the feed down.
func (s *Service) Close() {
	s.runner.Close()
}

// journalHeader is the JSON header stored with every journaled completion.
type journalHeader struct {
	Identity string `json:"identity"`
	Topic    string `json:"topic"`
	AtMs     int64  `json:"atMs"`
}

func (s *Service) journalCompletion(ctx context.Context, identity string, res Result) {
	if s.jr == nil {
		return
	}
	hdr, err := json.Marshal(journalHeader{
		Identity: identity,
		Topic:    res.Topic,
		AtMs:     s.clock().UnixMilli(),
	})
	if err != nil {
		return
	}
	if _, err := s.jr.Append(ctx, []journal.Record{{Header: hdr, Payload: res.Payload}}); err != nil {
		s.logger.Warnf("journal append failed: identity=%s err=%v", identity, err)
	}
}

// JournaledCompletion is one completion read back from the journal.
type JournaledCompletion struct {
	ID       string `json:"id"`
	Identity string `json:"identity"`
	Topic    string `json:"topic"`
	Payload  []byte `json:"payload,omitempty"`
	AtMs     int64  `json:"atMs"`
}

// ReadJournal returns up to limit journaled completions after the given entry
// ID (hex, empty for the beginning), ascending.
func (s *Service) ReadJournal(afterHex string, limit int) ([]JournaledCompletion, error) {
	if s.jr == nil {
		return nil, fmt.Errorf("tasks: journal disabled")
	}
	opts := journal.ReadOptions{Limit: limit}
	if afterHex != "" {
		after, err := id.Parse(afterHex)
		if err != nil {
			return nil, fmt.Errorf("tasks: bad after id: %w", err)
		}
		opts.After = after
	}
	entries, err := s.jr.Read(opts)
	if err != nil {
		return nil, err
	}
	out := make([]JournaledCompletion, 0, len(entries))
	for _, e := range entries {
		var hdr journalHeader
		if err := json.Unmarshal(e.Header, &hdr); err != nil {
			continue
		}
		out = append(out, JournaledCompletion{
			ID:       e.ID.String(),
			Identity: hdr.Identity,
			Topic:    hdr.Topic,
			Payload:  e.Payload,
			AtMs:     hdr.AtMs,
		})
	}
	return out, nil
}

// Subscription carries filtered completions to one observer. ID is unique per
// subscriber and shows up in logs and the HTTP stream preamble.
type Subscription struct {
	ID string

	ch    chan Completion
	inner *runner.Subscription[string, Result]
	once  sync.Once
}

// C returns the delivery channel. It closes after Close and when the service
// shuts down.
func (sub *Subscription) C() <-chan Completion { return sub.ch }

// Close detaches the subscriber. Safe to call more than once.
func (sub *Subscription) Close() {
	sub.once.Do(func() { sub.inner.Close() })
}

// Subscribe attaches an observer to the success feed. filterExpr is an
// optional CEL expression over identity, topic, ts_ms, size, text, json and
// now_ms; completions it rejects are not delivered. buffer below 1 gets a
// small default.
func (s *Service) Subscribe(filterExpr string, buffer int) (*Subscription, error) {
	f, err := newCELFilter(filterExpr)
	if err != nil {
		return nil, fmt.Errorf("tasks: bad filter: %w", err)
	}
	if buffer < 1 {
		buffer = 16
	}
	sub := &Subscription{
		ID:    uuid.NewString(),
		ch:    make(chan Completion, buffer),
		inner: s.runner.Subscribe(buffer),
	}
	go func() {
		defer close(sub.ch)
		for c := range sub.inner.C() {
			ev := Completion{
				Identity: c.Identity,
				Topic:    c.Value.Topic,
				Payload:  c.Value.Payload,
				AtMs:     c.At.UnixMilli(),
			}
			if !f.Eval(ev) {
				continue
			}
			select {
			case sub.ch <- ev:
			default:
				// subscriber buffer full; drop rather than stall the pump
			}
		}
	}()
	s.logger.Debugf("subscriber attached: id=%s filter=%q", sub.ID, filterExpr)
	return sub, nil
}
