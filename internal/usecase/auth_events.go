package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type AuthEvent string

const (
	AuthSignedIn         AuthEvent = "SIGNED_IN"
	AuthSignedOut        AuthEvent = "SIGNED_OUT"
	AuthUserUpdated      AuthEvent = "USER_UPDATED"
	AuthPasswordRecovery AuthEvent = "PASSWORD_RECOVERY"
)

type AuthStateChange struct {
	Event  AuthEvent
	UserID uuid.UUID
	At     time.Time
}

type AuthListener func(AuthStateChange)

// AuthEvents fans auth state changes out to in-process subscribers.
type AuthEvents struct {
	mu        sync.RWMutex
	next      int
	listeners map[int]AuthListener
}

func NewAuthEvents() *AuthEvents {
	return &AuthEvents{listeners: make(map[int]AuthListener)}
}

// Subscribe registers fn and returns its unsubscribe function, which is
// safe to call more than once.
func (e *AuthEvents) Subscribe(fn AuthListener) func() {
	e.mu.Lock()
	id := e.next
	e.next++
	e.listeners[id] = fn
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.listeners, id)
			e.mu.Unlock()
		})
	}
}

func (e *AuthEvents) Emit(event AuthEvent, userID uuid.UUID) {
	change := AuthStateChange{Event: event, UserID: userID, At: time.Now()}

	e.mu.RLock()
	listeners := make([]AuthListener, 0, len(e.listeners))
	for _, fn := range e.listeners {
		listeners = append(listeners, fn)
	}
	e.mu.RUnlock()

	for _, fn := range listeners {
		fn(change)
	}
}
