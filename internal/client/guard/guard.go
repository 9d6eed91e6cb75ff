// Package guard decides which screen the application shows. It derives one
// of three states from the session and only moves between them along the
// allowed transitions:
//
//	Loading         -> Unauthenticated | Authenticated
//	Unauthenticated -> Authenticated
//	Authenticated   -> Unauthenticated
//
// Protected content is rendered only in the Authenticated state.
package guard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/schoolconnect/internal/logging"
)

type State int

const (
	StateLoading State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrInvalidTransition is returned when the session implies a state change
// the guard does not allow.
var ErrInvalidTransition = errors.New("invalid guard transition")

// SessionView is what the guard reads from the session.
type SessionView interface {
	IsLoading() bool
	IsAuthenticated() bool
}

// Screens renders one guard state each. Login receives a callback to call
// once the user has signed in.
type Screens interface {
	Loading(ctx context.Context) error
	Login(ctx context.Context, onSuccess func(context.Context) error) error
	Protected(ctx context.Context) error
}

// Transition is a recorded state change.
type Transition struct {
	From State
	To   State
	At   time.Time
}

// TransitionHook runs after a transition has been applied.
type TransitionHook func(ctx context.Context, t Transition)

type Option func(*Guard)

func WithTransitionHook(h TransitionHook) Option {
	return func(g *Guard) {
		if h != nil {
			g.hooks = append(g.hooks, h)
		}
	}
}

// WithClock injects a custom clock (useful for tests).
func WithClock(now func() time.Time) Option {
	return func(g *Guard) {
		if now != nil {
			g.now = now
		}
	}
}

func WithLogger(log logging.Logger) Option {
	return func(g *Guard) {
		if log != nil {
			g.log = log.With("component", "guard")
		}
	}
}

type Guard struct {
	session     SessionView
	transitions map[State]map[State]struct{}
	hooks       []TransitionHook
	now         func() time.Time
	log         logging.Logger

	mu      sync.Mutex
	state   State
	history []Transition
}

func New(session SessionView, opts ...Option) *Guard {
	g := &Guard{
		session: session,
		transitions: map[State]map[State]struct{}{
			StateLoading: {
				StateUnauthenticated: {},
				StateAuthenticated:   {},
			},
			StateUnauthenticated: {
				StateAuthenticated: {},
			},
			StateAuthenticated: {
				StateUnauthenticated: {},
			},
		},
		now:   time.Now,
		log:   logging.Nop(),
		state: StateLoading,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Transitions returns the transitions applied so far, oldest first.
func (g *Guard) Transitions() []Transition {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Transition(nil), g.history...)
}

// Refresh re-derives the state from the session. An unchanged state is a
// no-op; a disallowed change returns ErrInvalidTransition and keeps the
// current state.
func (g *Guard) Refresh(ctx context.Context) error {
	target := g.derive()

	g.mu.Lock()
	from := g.state
	if from == target {
		g.mu.Unlock()
		return nil
	}
	if !g.canTransition(from, target) {
		g.mu.Unlock()
		g.log.Error(ctx, "refusing guard transition", "from", from.String(), "to", target.String())
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, target)
	}

	t := Transition{From: from, To: target, At: g.now()}
	g.state = target
	g.history = append(g.history, t)
	g.mu.Unlock()

	g.log.Debug(ctx, "guard transition", "from", from.String(), "to", target.String())
	for _, hook := range g.hooks {
		hook(ctx, t)
	}
	return nil
}

// Render refreshes the state and renders the matching screen.
func (g *Guard) Render(ctx context.Context, screens Screens) error {
	if err := g.Refresh(ctx); err != nil {
		return err
	}

	switch g.State() {
	case StateAuthenticated:
		return screens.Protected(ctx)
	case StateUnauthenticated:
		return screens.Login(ctx, g.Refresh)
	default:
		return screens.Loading(ctx)
	}
}

func (g *Guard) derive() State {
	switch {
	case g.session.IsLoading():
		return StateLoading
	case g.session.IsAuthenticated():
		return StateAuthenticated
	default:
		return StateUnauthenticated
	}
}

func (g *Guard) canTransition(from, to State) bool {
	next, ok := g.transitions[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}
