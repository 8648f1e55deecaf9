package conversation

import (
	"context"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"github.com/csheth/proppilot/internal/proposal"
)

// DefaultDelay is the simulated thinking time before a reply lands.
const DefaultDelay = 1500 * time.Millisecond

// Responder derives the next draft and its narration from free text.
// *proposal.Mutator satisfies it.
type Responder interface {
	Apply(doc proposal.Document, text string) (proposal.Document, string)
}

// Config tunes an Engine. Zero values fall back to defaults; a zero Delay
// means DefaultDelay, use a negative Delay for immediate replies.
type Config struct {
	Delay    time.Duration
	Greeting string
	Logger   *zap.Logger
	// After starts the reply timer. Defaults to time.After.
	After func(time.Duration) <-chan time.Time
	// Now stamps messages. Defaults to time.Now.
	Now func() time.Time
}

type request struct {
	ctx   context.Context
	text  string
	ready <-chan time.Time
	user  Message
}

// subscriberBuffer is how many replies a subscriber may fall behind before
// further replies to it are dropped.
const subscriberBuffer = 8

// Engine appends user messages synchronously and commits replies from a
// single worker in submission order. Each reply is derived from the draft
// left by every earlier reply, so overlapping submissions never lose edits.
type Engine struct {
	cfg       Config
	responder Responder
	logger    *zap.Logger

	mu      sync.Mutex
	history []Message
	doc     proposal.Document
	queue   []request
	pending int
	closed  bool
	subs    map[int]chan Event
	nextSub int

	signal chan struct{}
	done   chan struct{}
	wg     sync.WaitGroup
}

// New starts an engine over doc. Close must be called to stop its worker.
func New(cfg Config, doc proposal.Document, responder Responder) *Engine {
	if cfg.Delay == 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	if cfg.After == nil {
		cfg.After = time.After
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if responder == nil {
		responder = proposal.NewMutator()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		cfg:       cfg,
		responder: responder,
		logger:    logger.Named("conversation"),
		doc:       doc.Clone(),
		subs:      make(map[int]chan Event),
		signal:    make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	if greeting := strings.TrimSpace(cfg.Greeting); greeting != "" {
		e.history = append(e.history, newMessage(SenderAI, greeting, cfg.Now()))
	}
	e.wg.Add(1)
	go e.run()
	return e
}

// Submit appends the trimmed text as a user message and schedules the reply.
// When ctx ends before the reply is due the reply is dropped.
func (e *Engine) Submit(ctx context.Context, text string) (Message, error) {
	trimmed := strings.TrimSpace(text)
	if err := validation.Validate(trimmed, validation.Required); err != nil {
		return Message{}, ErrEmptyMessage
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return Message{}, ErrClosed
	}
	msg := newMessage(SenderUser, trimmed, e.cfg.Now())
	e.history = append(e.history, msg)
	e.queue = append(e.queue, request{ctx: ctx, text: trimmed, ready: e.cfg.After(e.cfg.Delay), user: msg})
	e.pending++
	e.mu.Unlock()

	select {
	case e.signal <- struct{}{}:
	default:
	}
	e.logger.Debug("submit", zap.String("id", msg.ID), zap.Int("pending", e.Pending()))
	return msg, nil
}

func (e *Engine) run() {
	defer e.wg.Done()
	for {
		req, ok := e.next()
		if !ok {
			return
		}
		select {
		case <-req.ready:
		case <-req.ctx.Done():
			e.drop(req, req.ctx.Err())
			continue
		case <-e.done:
			return
		}
		if err := req.ctx.Err(); err != nil {
			e.drop(req, err)
			continue
		}
		e.commit(req)
	}
}

func (e *Engine) next() (request, bool) {
	for {
		e.mu.Lock()
		if len(e.queue) > 0 {
			req := e.queue[0]
			e.queue = e.queue[1:]
			e.mu.Unlock()
			return req, true
		}
		e.mu.Unlock()
		select {
		case <-e.signal:
		case <-e.done:
			return request{}, false
		}
	}
}

func (e *Engine) drop(req request, cause error) {
	e.mu.Lock()
	if !e.closed {
		e.pending--
	}
	e.mu.Unlock()
	e.logger.Warn("reply dropped", zap.String("reply_to", req.user.ID), zap.Error(cause))
}

func (e *Engine) commit(req request) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	doc, narration := e.responder.Apply(e.doc, req.text)
	msg := newMessage(SenderAI, narration, e.cfg.Now())
	e.doc = doc.Clone()
	e.history = append(e.history, msg)
	e.pending--
	for id, ch := range e.subs {
		select {
		case ch <- Event{Message: msg, Document: e.doc.Clone()}:
		default:
			e.logger.Warn("subscriber lagging, reply not delivered", zap.Int("subscriber", id), zap.String("id", msg.ID))
		}
	}
	e.mu.Unlock()

	e.logger.Debug("reply committed", zap.String("id", msg.ID), zap.String("reply_to", req.user.ID))
}

// Subscribe returns a channel receiving every committed reply and a func that
// stops delivery and closes the channel. The channel is also closed when the
// engine closes. Replies to a subscriber that falls more than a few replies
// behind are dropped rather than stalling the engine.
func (e *Engine) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		close(ch)
		return ch, func() {}
	}
	id := e.nextSub
	e.nextSub++
	e.subs[id] = ch

	return ch, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if _, ok := e.subs[id]; ok {
			delete(e.subs, id)
			close(ch)
		}
	}
}

// History returns a copy of every message in order.
func (e *Engine) History() []Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Message(nil), e.history...)
}

// Document returns a deep copy of the current draft.
func (e *Engine) Document() proposal.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Clone()
}

// Pending counts submissions still waiting for a reply.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending
}

// Busy reports whether the assistant is "typing".
func (e *Engine) Busy() bool {
	return e.Pending() > 0
}

// Close stops the worker, drops replies still pending and closes every
// subscription. It is safe to call more than once.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	dropped := e.pending
	e.queue = nil
	e.pending = 0
	close(e.done)
	e.mu.Unlock()

	e.wg.Wait()

	e.mu.Lock()
	for id, ch := range e.subs {
		delete(e.subs, id)
		close(ch)
	}
	e.mu.Unlock()
	if dropped > 0 {
		e.logger.Warn("closed with pending replies", zap.Int("dropped", dropped))
	}
}
