package repository

import (
	"context"

	"mytube/domain/model"
)

// IAuthSubscription is a cancellable handle on the session-change stream.
// Unsubscribe is idempotent; it must be called exactly once per subscription
// lifecycle, on controller teardown.
type IAuthSubscription interface {
	Unsubscribe()
}

// IIdentity is the hosted identity service: session issuance, credential
// validation and the remote profiles table.
type IIdentity interface {
	// GetSession returns the current session, or nil when signed out.
	GetSession(ctx context.Context) (*model.Session, error)
	SignUp(ctx context.Context, email, password string) (*model.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*model.Session, error)
	SignOut(ctx context.Context) error
	RefreshSession(ctx context.Context) (*model.Session, error)

	// OnAuthStateChange registers fn for sign-in, sign-out and token-refresh
	// notifications for the lifetime of the returned subscription.
	OnAuthStateChange(fn func(model.AuthEvent)) IAuthSubscription

	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	UpsertProfile(ctx context.Context, profile *model.Profile) error
}
