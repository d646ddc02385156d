package usecase

import (
	"context"
	"sync"
	"time"

	"mytube/domain/dto"
	"mytube/domain/model"
	"mytube/domain/repository"
	"mytube/infrastructure/logger"
	"mytube/infrastructure/realtime"
)

// App bundles the four controllers that make up one client's state: session,
// catalog, view and interactions. One App exists per client id.
type App struct {
	ClientID     string
	Session      *SessionUsecase
	Catalog      *CatalogUsecase
	View         *ViewUsecase
	Interactions *InteractionUsecase
}

func NewApp(clientID string, identity repository.IIdentity, catalog repository.ICatalog, store repository.IPreferenceStore, hub *realtime.Hub) *App {
	interactions := NewInteractionUsecase(store)
	catalogUC := NewCatalogUsecase(catalog)
	interactions.WithResolver(catalogUC.Find)
	session := NewSessionUsecase(identity, interactions).WithHub(hub, clientID)
	interactions.WithUserSource(session)
	view := NewViewUsecase(catalogUC, interactions)
	return &App{
		ClientID:     clientID,
		Session:      session,
		Catalog:      catalogUC,
		View:         view,
		Interactions: interactions,
	}
}

// Start restores the session and enters the home view, which loads its
// curated grid.
func (a *App) Start(ctx context.Context) {
	a.Session.Start(ctx)
	a.View.Navigate(ctx, model.ViewHome)
}

// Close releases the auth-change subscription.
func (a *App) Close() {
	a.Session.Close()
}

// Snapshot assembles the full client-facing state in one read.
func (a *App) Snapshot() dto.StateSnapshot {
	view, selected := a.View.Current()
	return dto.StateSnapshot{
		View:          view,
		SelectedVideo: selected,
		Videos:        a.Catalog.Videos(),
		User:          a.Session.CurrentUser(),
		Profile:       a.Session.CurrentProfile(),
		WatchHistory:  a.Interactions.WatchHistory(),
		WatchLater:    a.Interactions.WatchLater(),
		LikedVideos:   a.Interactions.LikedVideos(),
		Likes:         a.Interactions.Likes(),
		Dislikes:      a.Interactions.Dislikes(),
	}
}

// IdentityFactory builds a per-client identity client, seeded with the
// client's restore token when it presented one.
type IdentityFactory func(accessToken string) repository.IIdentity

// Registry tracks the live Apps by client id and retires idle ones.
type Registry struct {
	newIdentity IdentityFactory
	catalog     repository.ICatalog
	store       repository.IPreferenceStore
	hub         *realtime.Hub

	mu   sync.Mutex
	apps map[string]*appEntry
}

type appEntry struct {
	app      *App
	lastSeen time.Time
}

func NewRegistry(newIdentity IdentityFactory, catalog repository.ICatalog, store repository.IPreferenceStore, hub *realtime.Hub) *Registry {
	return &Registry{
		newIdentity: newIdentity,
		catalog:     catalog,
		store:       store,
		hub:         hub,
		apps:        make(map[string]*appEntry),
	}
}

// Resolve returns the App for clientID, creating and starting it on first
// sight. accessToken seeds the session restore for new Apps.
func (r *Registry) Resolve(ctx context.Context, clientID, accessToken string) *App {
	r.mu.Lock()
	entry, ok := r.apps[clientID]
	if ok {
		entry.lastSeen = time.Now()
		r.mu.Unlock()
		return entry.app
	}
	app := NewApp(clientID, r.newIdentity(accessToken), r.catalog, r.store, r.hub)
	r.apps[clientID] = &appEntry{app: app, lastSeen: time.Now()}
	r.mu.Unlock()

	app.Start(ctx)
	return app
}

// Sweep closes and evicts Apps idle for longer than idleFor, returning how
// many were retired.
func (r *Registry) Sweep(idleFor time.Duration) int {
	cutoff := time.Now().Add(-idleFor)
	var stale []*App

	r.mu.Lock()
	for id, entry := range r.apps {
		if entry.lastSeen.Before(cutoff) {
			stale = append(stale, entry.app)
			delete(r.apps, id)
		}
	}
	r.mu.Unlock()

	for _, app := range stale {
		app.Close()
	}
	if len(stale) > 0 {
		logger.GetLogger().WithField("count", len(stale)).Info("retired idle client apps")
	}
	return len(stale)
}

// Len reports the number of live Apps.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.apps)
}
