package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"mytube/domain/model"
	"mytube/domain/repository"
	"mytube/infrastructure/logger"
	"mytube/infrastructure/realtime"
)

// ErrAuthInFlight rejects a sign-in or sign-up attempt while a previous one
// is still talking to the identity service.
var ErrAuthInFlight = errors.New("authentication already in progress")

// ISessionUsecase owns the identity lifecycle for one client: session
// restore, the auth-change subscription, and the cached user and profile.
type ISessionUsecase interface {
	Start(ctx context.Context)
	Close()
	SignUp(ctx context.Context, username, email, password string) (*model.Session, error)
	SignIn(ctx context.Context, email, password string) (*model.Session, error)
	SignOut(ctx context.Context) error
	Refresh(ctx context.Context) (*model.Session, error)
	CurrentUser() *model.User
	CurrentProfile() *model.Profile
}

type SessionUsecase struct {
	identity repository.IIdentity
	lists    IInteractionUsecase
	hub      *realtime.Hub
	clientID string

	mu      sync.RWMutex
	user    *model.User
	profile *model.Profile

	sub       repository.IAuthSubscription
	closeOnce sync.Once
	authBusy  atomic.Bool
}

func NewSessionUsecase(identity repository.IIdentity, lists IInteractionUsecase) *SessionUsecase {
	return &SessionUsecase{identity: identity, lists: lists}
}

// WithHub attaches the SSE hub session changes are pushed through (fluent).
func (u *SessionUsecase) WithHub(hub *realtime.Hub, clientID string) *SessionUsecase {
	u.hub = hub
	u.clientID = clientID
	return u
}

// Start restores any persisted session and registers the auth-change
// subscription. Restore failures leave the client signed out.
func (u *SessionUsecase) Start(ctx context.Context) {
	session, err := u.identity.GetSession(ctx)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("session restore failed")
	}
	if session != nil && session.User != nil {
		u.setUser(session.User)
		u.loadUserData(ctx, session.User.ID)
	}
	u.sub = u.identity.OnAuthStateChange(u.handleAuthEvent)
}

// Close cancels the auth-change subscription. Safe to call more than once.
func (u *SessionUsecase) Close() {
	u.closeOnce.Do(func() {
		if u.sub != nil {
			u.sub.Unsubscribe()
		}
	})
}

// SignUp registers the account and seeds its profile row. The profile write
// is part of the operation: its failure fails the sign-up, though the
// account itself already exists upstream.
func (u *SessionUsecase) SignUp(ctx context.Context, username, email, password string) (*model.Session, error) {
	if !u.authBusy.CompareAndSwap(false, true) {
		return nil, ErrAuthInFlight
	}
	defer u.authBusy.Store(false)

	session, err := u.identity.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	profile := model.Profile{
		ID:        session.User.ID,
		Username:  username,
		AvatarURL: model.DefaultAvatarURL,
	}
	if err := u.identity.UpsertProfile(ctx, &profile); err != nil {
		return nil, err
	}
	u.mu.Lock()
	u.profile = &profile
	u.mu.Unlock()
	return session, nil
}

func (u *SessionUsecase) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	if !u.authBusy.CompareAndSwap(false, true) {
		return nil, ErrAuthInFlight
	}
	defer u.authBusy.Store(false)
	return u.identity.SignInWithPassword(ctx, email, password)
}

func (u *SessionUsecase) SignOut(ctx context.Context) error {
	return u.identity.SignOut(ctx)
}

func (u *SessionUsecase) Refresh(ctx context.Context) (*model.Session, error) {
	return u.identity.RefreshSession(ctx)
}

// CurrentUser returns the signed-in user, or nil.
func (u *SessionUsecase) CurrentUser() *model.User {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if u.user == nil {
		return nil
	}
	user := *u.user
	return &user
}

// CurrentProfile returns the cached profile, or nil when it never loaded.
func (u *SessionUsecase) CurrentProfile() *model.Profile {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if u.profile == nil {
		return nil
	}
	profile := *u.profile
	return &profile
}

func (u *SessionUsecase) handleAuthEvent(evt model.AuthEvent) {
	switch evt.Type {
	case model.AuthSignedIn:
		if evt.Session == nil || evt.Session.User == nil {
			return
		}
		u.setUser(evt.Session.User)
		u.loadUserData(context.Background(), evt.Session.User.ID)
		u.broadcast(evt.Type, evt.Session.User.ID)
	case model.AuthSignedOut:
		u.mu.Lock()
		u.user = nil
		u.profile = nil
		u.mu.Unlock()
		u.lists.ClearLists()
		u.broadcast(evt.Type, "")
	case model.AuthTokenRefreshed:
		if evt.Session != nil && evt.Session.User != nil {
			u.setUser(evt.Session.User)
		}
		userID := ""
		if user := u.CurrentUser(); user != nil {
			userID = user.ID
		}
		u.broadcast(evt.Type, userID)
	}
}

func (u *SessionUsecase) setUser(user *model.User) {
	u.mu.Lock()
	copied := *user
	u.user = &copied
	u.mu.Unlock()
}

// loadUserData fetches the profile and rehydrates the persisted lists. A
// missing or failing profile fetch is logged and leaves the session usable.
func (u *SessionUsecase) loadUserData(ctx context.Context, userID string) {
	profile, err := u.identity.GetProfile(ctx, userID)
	if err != nil {
		logger.GetLogger().WithField("user_id", userID).WithField("error", err).Warn("profile fetch failed")
	} else if profile != nil {
		u.mu.Lock()
		u.profile = profile
		u.mu.Unlock()
	}
	u.lists.LoadLists(ctx, userID)
}

func (u *SessionUsecase) broadcast(eventType model.AuthEventType, userID string) {
	if u.hub == nil {
		return
	}
	u.hub.Broadcast(u.clientID, realtime.SessionEvent{Type: eventType, UserID: userID})
}
