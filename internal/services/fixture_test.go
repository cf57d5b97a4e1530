package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/auth"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/devicestore"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/events"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/identity"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/models"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/remote"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/remote/memory"
	repository "github.com/aaravmahajanofficial/uniform-storefront/internal/repositories"
	service "github.com/aaravmahajanofficial/uniform-storefront/internal/services"
)

var fixedNow = time.Date(2024, 8, 20, 8, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// faultyClient fails selected calls of an in-memory remote store.
type faultyClient struct {
	*memory.Client

	mu        sync.Mutex
	adds      int
	failAddOn int
	addErr    error
	listErr   error
	updateErr error
	queryErr  func(path string, q remote.Query) error
}

func (c *faultyClient) AddDocument(ctx context.Context, path string, fields map[string]any) (string, error) {
	c.mu.Lock()
	c.adds++
	fail := c.addErr != nil && (c.failAddOn == 0 || c.adds == c.failAddOn)
	c.mu.Unlock()

	if fail {
		return "", c.addErr
	}
	return c.Client.AddDocument(ctx, path, fields)
}

func (c *faultyClient) GetCollection(ctx context.Context, path string) ([]remote.Document, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}
	return c.Client.GetCollection(ctx, path)
}

func (c *faultyClient) UpdateDocument(ctx context.Context, path string, fields map[string]any) error {
	if c.updateErr != nil {
		return c.updateErr
	}
	return c.Client.UpdateDocument(ctx, path, fields)
}

func (c *faultyClient) Query(ctx context.Context, path string, q remote.Query) ([]remote.Document, error) {
	if c.queryErr != nil {
		if err := c.queryErr(path, q); err != nil {
			return nil, err
		}
	}
	return c.Client.Query(ctx, path, q)
}

type fixture struct {
	remote   *faultyClient
	device   devicestore.Store
	bus      *events.Bus
	resolver *identity.Resolver
	cart     service.Backends[models.CartItem]
	wishlist service.Backends[models.WishlistItem]

	mu       sync.Mutex
	received []events.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		remote: &faultyClient{Client: memory.New().WithClock(clock)},
		device: devicestore.NewMemoryStore(),
		bus:    events.NewBus(),
	}

	f.resolver = identity.NewResolver(auth.ContextProvider{}, f.device)
	f.cart = service.Backends[models.CartItem]{
		Schema: repository.CartSchema,
		Local:  repository.NewLocalRepo(f.device, repository.CartSchema, clock),
		Remote: repository.NewRemoteRepo(f.remote, repository.CartSchema, time.Second),
	}
	f.wishlist = service.Backends[models.WishlistItem]{
		Schema: repository.WishlistSchema,
		Local:  repository.NewLocalRepo(f.device, repository.WishlistSchema, clock),
		Remote: repository.NewRemoteRepo(f.remote, repository.WishlistSchema, time.Second),
	}

	t.Cleanup(f.bus.Subscribe(func(e events.Event) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.received = append(f.received, e)
	}))

	return f
}

func (f *fixture) events() []events.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]events.Event(nil), f.received...)
}

func (f *fixture) cartService() service.CartService {
	return service.NewCartService(f.resolver, f.cart, f.bus)
}

func (f *fixture) wishlistService() service.WishlistService {
	return service.NewWishlistService(f.resolver, f.wishlist, f.bus)
}

func anonCtx(t *testing.T) context.Context {
	t.Helper()
	return devicestore.WithPartition(t.Context(), "device-1")
}

func userCtx(t *testing.T, uid string) context.Context {
	t.Helper()
	return auth.WithUser(anonCtx(t), models.AuthUser{UID: uid, Email: uid + "@example.com"})
}

func blazer(size string) models.CartItem {
	return models.CartItem{ProductID: "P1", Size: size, Name: "Blazer", Price: 49.5, Image: "https://img.example.com/p1.png", SchoolName: "Hillside"}
}

func tie() models.WishlistItem {
	return models.WishlistItem{ProductID: "W1", Name: "Tie", Price: 9.99, SchoolName: "Hillside"}
}
