package cart

import (
	"context"
	"fmt"
	"strings"
	"sync"

	pkgerrors "github.com/snapformstudio/storefront-backend/pkg/errors"
	"github.com/snapformstudio/storefront-backend/pkg/logger"
	"github.com/snapformstudio/storefront-backend/pkg/metrics"
	"github.com/snapformstudio/storefront-backend/pkg/shopify"
)

// Status describes the sync state of a session's cart mirror.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// LineItem is one confirmed line in the mirrored cart.
type LineItem struct {
	VariantID  string              `json:"variant_id"`
	Title      string              `json:"title"`
	Quantity   int                 `json:"quantity"`
	Price      shopify.Money       `json:"price"`
	Attributes []shopify.Attribute `json:"attributes,omitempty"`
}

// Record is the durable per-session cart mirror. It only ever holds
// state confirmed by the commerce backend.
type Record struct {
	CartID      string     `json:"cartId"`
	Lines       []LineItem `json:"lines"`
	CheckoutURL string     `json:"checkoutUrl"`
}

func (r Record) clone() Record {
	copied := r
	copied.Lines = append([]LineItem(nil), r.Lines...)
	return copied
}

// AddItemInput carries everything needed to add one variant to the cart.
// The snapshots are display fallbacks; the backend response wins.
type AddItemInput struct {
	VariantID       string
	Quantity        int
	PriceSnapshot   shopify.Money
	TitleSnapshot   string
	SelectedOptions []shopify.SelectedOption
	Attributes      []shopify.Attribute
}

func (in AddItemInput) validate() error {
	if strings.TrimSpace(in.VariantID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	if in.Quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if !in.PriceSnapshot.IsZeroValue() {
		if err := in.PriceSnapshot.Validate(); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price snapshot")
		}
	}
	return nil
}

// Gateway is the slice of the commerce backend the store mutates through.
type Gateway interface {
	CartCreate(ctx context.Context, line shopify.CartLineInput) (*shopify.Cart, error)
	CartLinesAdd(ctx context.Context, cartID string, line shopify.CartLineInput) (*shopify.Cart, error)
}

// Snapshot is a point-in-time read of a session's cart state.
type Snapshot struct {
	CartID      string
	Lines       []LineItem
	CheckoutURL string
	Status      Status
	IsLoading   bool
	LastError   error
}

type sessionState struct {
	// mu serializes mutations for the session; held across gateway calls.
	mu sync.Mutex
	// snapMu guards the fields below for concurrent readers.
	snapMu  sync.RWMutex
	loaded  bool
	record  Record
	status  Status
	lastErr error
}

func (st *sessionState) set(fn func()) {
	st.snapMu.Lock()
	defer st.snapMu.Unlock()
	fn()
}

// Store is the single writer of session cart mirrors. All mutations for a
// session are totally ordered behind a per-session mutex, which is what
// makes remote cart creation exactly-once under concurrent adds.
type Store struct {
	gateway  Gateway
	sessions SessionStore
	logg     *logger.Logger
	metrics  *metrics.StorefrontMetrics

	mu     sync.Mutex
	states map[string]*sessionState
}

func NewStore(gw Gateway, sessions SessionStore, logg *logger.Logger, m *metrics.StorefrontMetrics) (*Store, error) {
	if gw == nil {
		return nil, fmt.Errorf("cart gateway required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Store{
		gateway:  gw,
		sessions: sessions,
		logg:     logg,
		metrics:  m,
		states:   make(map[string]*sessionState),
	}, nil
}

func (s *Store) state(sessionKey string) *sessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[sessionKey]
	if !ok {
		st = &sessionState{status: StatusIdle}
		s.states[sessionKey] = st
	}
	return st
}

// AddItem adds one variant to the session's cart. The first mutation of a
// session with no stored cart creates the remote cart; every later one adds
// a line to it. On failure the last confirmed record is left untouched.
func (s *Store) AddItem(ctx context.Context, sessionKey string, input AddItemInput) (*Record, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	st := s.state(sessionKey)
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := s.ensureLoaded(ctx, sessionKey, st); err != nil {
		return nil, err
	}

	st.set(func() {
		st.status = StatusSyncing
		st.lastErr = nil
	})

	line := shopify.CartLineInput{
		VariantID:  input.VariantID,
		Quantity:   input.Quantity,
		Attributes: shopify.FilterAttributes(input.Attributes),
	}
	logCtx := s.logg.WithSessionKey(ctx, sessionKey)

	var (
		remote  *shopify.Cart
		err     error
		created bool
	)
	if st.record.CartID == "" {
		remote, err = s.gateway.CartCreate(ctx, line)
		created = true
	} else {
		remote, err = s.gateway.CartLinesAdd(ctx, st.record.CartID, line)
		if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
			// The stored cart no longer exists remotely (expired or
			// completed). Drop it and retry once as a fresh create.
			s.logg.Warn(s.logg.WithCartID(logCtx, st.record.CartID), "remote cart gone, recreating")
			st.set(func() {
				st.record.CartID = ""
				st.record.CheckoutURL = ""
			})
			if persistErr := s.persist(ctx, sessionKey, st); persistErr != nil {
				s.logg.Warn(logCtx, "failed to persist cleared cart record")
			}
			remote, err = s.gateway.CartCreate(ctx, line)
			created = true
		}
	}

	if err != nil {
		st.set(func() {
			st.status = StatusError
			st.lastErr = err
		})
		s.logg.Error(logCtx, "cart mutation failed", err)
		return nil, err
	}

	if created {
		s.metrics.IncCartCreation()
	}

	st.set(func() {
		st.record = recordFromRemote(remote, input)
	})
	if err := s.persist(ctx, sessionKey, st); err != nil {
		st.set(func() {
			st.status = StatusError
			st.lastErr = err
		})
		s.logg.Error(logCtx, "failed to persist cart record", err)
		return nil, err
	}

	st.set(func() {
		st.status = StatusReady
	})
	result := st.record.clone()
	return &result, nil
}

// Cart returns the session's mirrored cart, rehydrating it from the
// session store on first access.
func (s *Store) Cart(ctx context.Context, sessionKey string) (*Snapshot, error) {
	st := s.state(sessionKey)
	if err := s.loadIfNeeded(ctx, sessionKey, st); err != nil {
		return nil, err
	}

	st.snapMu.RLock()
	defer st.snapMu.RUnlock()
	return &Snapshot{
		CartID:      st.record.CartID,
		Lines:       append([]LineItem(nil), st.record.Lines...),
		CheckoutURL: st.record.CheckoutURL,
		Status:      st.status,
		IsLoading:   st.status == StatusSyncing,
		LastError:   st.lastErr,
	}, nil
}

// CheckoutURL returns the cached checkout URL, or empty if no successful
// mutation has produced one yet. It never calls the commerce backend.
func (s *Store) CheckoutURL(ctx context.Context, sessionKey string) (string, error) {
	st := s.state(sessionKey)
	if err := s.loadIfNeeded(ctx, sessionKey, st); err != nil {
		return "", err
	}

	st.snapMu.RLock()
	defer st.snapMu.RUnlock()
	return st.record.CheckoutURL, nil
}

// IsLoading reports whether a mutation for the session is in flight.
func (s *Store) IsLoading(sessionKey string) bool {
	st := s.state(sessionKey)
	st.snapMu.RLock()
	defer st.snapMu.RUnlock()
	return st.status == StatusSyncing
}

// Clear drops the session's cart mirror, locally and from the session
// store. The remote cart is left alone.
func (s *Store) Clear(ctx context.Context, sessionKey string) error {
	st := s.state(sessionKey)
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := s.sessions.Delete(ctx, sessionKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete session cart record")
	}
	st.set(func() {
		st.record = Record{}
		st.status = StatusIdle
		st.lastErr = nil
		st.loaded = true
	})
	return nil
}

// ensureLoaded rehydrates the in-memory state from the session store.
// Callers must hold st.mu.
func (s *Store) ensureLoaded(ctx context.Context, sessionKey string, st *sessionState) error {
	st.snapMu.RLock()
	loaded := st.loaded
	st.snapMu.RUnlock()
	if loaded {
		return nil
	}

	record, err := s.sessions.Load(ctx, sessionKey)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load session cart record")
	}
	st.set(func() {
		if record != nil {
			st.record = record.clone()
		}
		st.loaded = true
	})
	return nil
}

func (s *Store) loadIfNeeded(ctx context.Context, sessionKey string, st *sessionState) error {
	st.snapMu.RLock()
	loaded := st.loaded
	st.snapMu.RUnlock()
	if loaded {
		return nil
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	return s.ensureLoaded(ctx, sessionKey, st)
}

func (s *Store) persist(ctx context.Context, sessionKey string, st *sessionState) error {
	record := st.record.clone()
	if err := s.sessions.Save(ctx, sessionKey, &record); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save session cart record")
	}
	return nil
}

// recordFromRemote rebuilds the mirror from the authoritative cart returned
// by a mutation, falling back to the caller's snapshots when the backend
// omits display fields.
func recordFromRemote(remote *shopify.Cart, input AddItemInput) Record {
	record := Record{
		CartID:      remote.ID,
		CheckoutURL: remote.CheckoutURL,
		Lines:       make([]LineItem, 0, len(remote.Lines)),
	}
	for _, line := range remote.Lines {
		item := LineItem{
			VariantID:  line.VariantID,
			Title:      line.Title,
			Quantity:   line.Quantity,
			Price:      line.Price,
			Attributes: line.Attributes,
		}
		if line.VariantID == input.VariantID {
			if item.Title == "" {
				item.Title = input.TitleSnapshot
			}
			if item.Price.IsZeroValue() {
				item.Price = input.PriceSnapshot
			}
		}
		record.Lines = append(record.Lines, item)
	}
	return record
}
