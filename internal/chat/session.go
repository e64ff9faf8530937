package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Apology replaces the assistant reply when a turn fails
const Apology = "Xin lỗi, có lỗi xảy ra. Vui lòng thử lại."

// DefaultGreeting opens a new session
const DefaultGreeting = "Xin chào! Tôi có thể giúp bạn tìm kiếm sản phẩm và so sánh giá."

// DefaultScrollEvery is the unit cadence of auto-scroll during a reveal
const DefaultScrollEvery = 20

var errEmptyReply = errors.New("empty reply")

// Backend answers one chat message
type Backend interface {
	Reply(ctx context.Context, message string) (string, error)
}

// Phase is the state of the current turn
type Phase string

const (
	PhaseIdle          Phase = "IDLE"
	PhaseAwaitingReply Phase = "AWAITING_REPLY"
	PhaseRevealing     Phase = "REVEALING"
	PhaseFailed        Phase = "FAILED"
)

func (p Phase) String() string {
	return string(p)
}

// acceptsInput reports whether a new turn may start. A failed turn leaves the
// session in Failed until the next message moves it on.
func (p Phase) acceptsInput() bool {
	return p == PhaseIdle || p == PhaseFailed
}

// Options tune a session. Zero values fall back to defaults.
type Options struct {
	Greeting    string
	Pacing      Pacing
	ScrollEvery int
	Timeout     time.Duration
	// Sleep waits between revealed units; replaced in tests.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Session owns the message log of one chat and renders assistant replies as a
// timed reveal. At most one turn is in flight at a time.
type Session struct {
	mu       sync.Mutex
	id       string
	messages []domain.ChatMessage
	phase    Phase
	seq      uint64
	closed   bool

	backend  Backend
	viewport *Viewport
	opts     Options
	log      *zap.Logger
	now      func() time.Time

	life   context.Context
	cancel context.CancelFunc
}

// NewSession starts a session, appending the greeting when one is set
func NewSession(backend Backend, viewport *Viewport, opts Options, logger *zap.Logger) *Session {
	if viewport == nil {
		viewport = NewViewport(DefaultScrollThreshold)
	}
	if opts.Pacing == (Pacing{}) {
		opts.Pacing = DefaultPacing()
	}
	if opts.ScrollEvery <= 0 {
		opts.ScrollEvery = DefaultScrollEvery
	}
	if opts.Sleep == nil {
		opts.Sleep = sleep
	}

	life, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()
	s := &Session{
		id:       id,
		phase:    PhaseIdle,
		backend:  backend,
		viewport: viewport,
		opts:     opts,
		log:      logger.With(zap.String("component", "chat"), zap.String("session_id", id)),
		now:      time.Now,
		life:     life,
		cancel:   cancel,
	}
	if opts.Greeting != "" {
		s.appendLocked(domain.AuthorAssistant, opts.Greeting, false)
	}
	return s
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Viewport returns the scroll tracker driving auto-scroll
func (s *Session) Viewport() *Viewport {
	return s.viewport
}

// Phase returns the state of the current turn
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Messages returns a copy of the log in creation order
func (s *Session) Messages() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ChatMessage(nil), s.messages...)
}

// Turn is a handle on one send
type Turn struct {
	UserMessageID  string
	ReplyMessageID string
	done           chan struct{}
}

// Done is closed once the reply is fully revealed or replaced by the apology
func (t *Turn) Done() <-chan struct{} {
	return t.done
}

// Send appends the user message and an empty streaming placeholder, then
// fetches and reveals the reply in the background. It reports false and does
// nothing when text is blank, a turn is in flight, or the session is closed.
// The turn is detached from ctx.
func (s *Session) Send(ctx context.Context, text string) (*Turn, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	s.mu.Lock()
	if s.closed || !s.phase.acceptsInput() {
		s.mu.Unlock()
		return nil, false
	}
	user := s.appendLocked(domain.AuthorUser, text, false)
	reply := s.appendLocked(domain.AuthorAssistant, "", true)
	s.phase = PhaseAwaitingReply
	s.mu.Unlock()

	turn := &Turn{UserMessageID: user, ReplyMessageID: reply, done: make(chan struct{})}
	go func() {
		defer close(turn.done)
		s.run(text, reply)
	}()
	return turn, true
}

// Close tears the log down. Pending reveals stop and their updates are dropped.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.messages = nil
	s.cancel()
}

func (s *Session) run(text, replyID string) {
	ctx := s.life
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	answer, err := s.backend.Reply(ctx, text)
	if err == nil && answer == "" {
		err = errEmptyReply
	}
	if err != nil {
		s.fail(replyID, err)
		return
	}

	if !s.update(replyID, func(*domain.ChatMessage) { s.phase = PhaseRevealing }) {
		return
	}

	i := 0
	for unit, delay := range Reveal(answer, s.opts.Pacing) {
		index := i
		ok := s.update(replyID, func(m *domain.ChatMessage) {
			m.Text += unit
		})
		if !ok {
			return
		}
		if ShouldScroll(index, unit, s.opts.ScrollEvery) {
			s.viewport.autoScroll()
		}
		i++
		if err := s.opts.Sleep(s.life, delay); err != nil {
			s.log.Debug("Reveal interrupted", zap.String("message_id", replyID), zap.Error(err))
			return
		}
	}

	s.update(replyID, func(m *domain.ChatMessage) {
		m.Streaming = false
		s.phase = PhaseIdle
	})
	s.log.Debug("Chat turn completed", zap.String("message_id", replyID), zap.Int("units", i))
}

func (s *Session) fail(replyID string, cause error) {
	s.log.Warn("Chat backend failed", zap.String("message_id", replyID), zap.Error(cause))
	s.update(replyID, func(m *domain.ChatMessage) {
		m.Text = Apology
		m.Streaming = false
		s.phase = PhaseFailed
	})
}

// update applies fn to the message under the lock. It reports false when the
// log was torn down, in which case the change is lost.
func (s *Session) update(id string, fn func(*domain.ChatMessage)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].ID == id {
			fn(&s.messages[i])
			return true
		}
	}
	return false
}

// appendLocked adds a message with the next sequence id. Callers hold s.mu.
func (s *Session) appendLocked(author domain.Author, text string, streaming bool) string {
	s.seq++
	id := fmt.Sprintf("%010d", s.seq)
	s.messages = append(s.messages, domain.ChatMessage{
		ID:        id,
		Author:    author,
		Text:      text,
		CreatedAt: s.now(),
		Streaming: streaming,
	})
	return id
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
