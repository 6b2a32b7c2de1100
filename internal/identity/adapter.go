package identity

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

type State int

const (
	// StateUnknown holds until the first session event of either kind
	// arrives; the UI shows a loading indicator meanwhile.
	StateUnknown State = iota
	StateSignedOut
	StateSignedIn
)

func (s State) String() string {
	switch s {
	case StateSignedOut:
		return "signed-out"
	case StateSignedIn:
		return "signed-in"
	default:
		return "unknown"
	}
}

// Provider is the external identity boundary. SignIn/SignOut are
// fire-and-forget commands; outcomes arrive later as session events, never as
// return values.
type Provider interface {
	SignIn(ctx context.Context) error
	SignOut(ctx context.Context) error
}

// Subscriber receives session-change notifications. user is nil unless state
// is StateSignedIn.
type Subscriber func(state State, user *User)

// Adapter tracks the provider session and maps provider records into local
// users. All state changes are driven by HandleSessionEvent; the adapter
// never polls.
type Adapter struct {
	mu              sync.RWMutex
	provider        Provider
	superAdminEmail string
	state           State
	user            User
	subscribers     []Subscriber
	log             *logrus.Logger
}

func NewAdapter(provider Provider, superAdminEmail string, log *logrus.Logger) *Adapter {
	return &Adapter{
		provider:        provider,
		superAdminEmail: superAdminEmail,
		state:           StateUnknown,
		log:             log,
	}
}

// SignInRequest asks the provider to start its sign-in flow. Callers must not
// assume the session changed when this returns.
func (a *Adapter) SignInRequest(ctx context.Context) {
	if err := a.provider.SignIn(ctx); err != nil {
		a.log.WithError(err).Error("sign-in request failed")
	}
}

func (a *Adapter) SignOutRequest(ctx context.Context) {
	if err := a.provider.SignOut(ctx); err != nil {
		a.log.WithError(err).Error("sign-out request failed")
	}
}

// HandleSessionEvent is the inbound notification from the provider. A record
// signs the session in; nil signs it out.
func (a *Adapter) HandleSessionEvent(rec *ProviderRecord) {
	a.mu.Lock()
	if rec != nil {
		a.state = StateSignedIn
		a.user = mapUser(*rec, a.superAdminEmail)
		a.log.WithFields(logrus.Fields{
			"user": a.user.Name,
			"role": a.user.Role,
		}).Info("session signed in")
	} else {
		a.state = StateSignedOut
		a.user = User{}
		a.log.Info("session signed out")
	}
	state, user := a.state, a.user
	subs := make([]Subscriber, len(a.subscribers))
	copy(subs, a.subscribers)
	a.mu.Unlock()

	for _, fn := range subs {
		if state == StateSignedIn {
			u := user
			fn(state, &u)
		} else {
			fn(state, nil)
		}
	}
}

// Subscribe registers fn for future session changes. Consumers register here
// instead of polling Current.
func (a *Adapter) Subscribe(fn Subscriber) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.subscribers = append(a.subscribers, fn)
}

// Current returns the session state and, when signed in, the mapped user.
func (a *Adapter) Current() (User, State) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.user, a.state
}
