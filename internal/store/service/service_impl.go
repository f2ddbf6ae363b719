package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/ledgerpad/ledgerpad/internal/clock"
	"github.com/ledgerpad/ledgerpad/internal/observability/metrics"
	"github.com/ledgerpad/ledgerpad/internal/store/domain"
	"github.com/ledgerpad/ledgerpad/pkg/blobstore"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	keyClients  = "clients"
	keyInvoices = "invoices"
)

type Params struct {
	fx.In

	Blob    *blobstore.Store
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Metrics *metrics.AppMetrics `optional:"true"`
}

// Service keeps the authoritative in-memory copies of both collections
// behind one mutex, so every mutation runs to completion before the
// next is accepted, and mirrors them wholesale to the blob store.
type Service struct {
	blob    *blobstore.Store
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	metrics *metrics.AppMetrics

	mu       sync.Mutex
	clients  []domain.Client
	invoices []domain.Invoice
}

func New(p Params) domain.Service {
	return &Service{
		blob:    p.Blob,
		log:     p.Log.Named("store.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		metrics: p.Metrics,
	}
}

// Load reads both collections. Absent keys default to empty; corrupt
// documents are logged and fall back to empty rather than failing
// startup.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clients = loadCollection[domain.Client](ctx, s.blob, s.log, keyClients)
	s.invoices = loadCollection[domain.Invoice](ctx, s.blob, s.log, keyInvoices)

	s.log.Info("collections loaded",
		zap.Int("clients", len(s.clients)),
		zap.Int("invoices", len(s.invoices)),
	)
	return nil
}

func loadCollection[T any](ctx context.Context, blob *blobstore.Store, log *zap.Logger, key string) []T {
	var items []T
	err := blob.Load(ctx, key, &items)
	switch {
	case errors.Is(err, blobstore.ErrNotFound):
		return []T{}
	case err != nil:
		log.Error("loading collection failed, starting empty",
			zap.String("key", key),
			zap.Error(err),
		)
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

func (s *Service) AddClient(ctx context.Context, req domain.CreateClientRequest) (domain.Client, error) {
	client, err := s.addClient(ctx, req)
	s.metrics.ObserveStoreOp("add_client", err)
	return client, err
}

func (s *Service) addClient(ctx context.Context, req domain.CreateClientRequest) (domain.Client, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Client{}, domain.ErrInvalidName
	}
	email := strings.TrimSpace(req.Email)
	if email != "" && !strings.Contains(email, "@") {
		return domain.Client{}, domain.ErrInvalidEmail
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	client := domain.Client{
		ID:      s.genID.Generate().String(),
		Name:    name,
		Email:   email,
		Phone:   strings.TrimSpace(req.Phone),
		Address: strings.TrimSpace(req.Address),
	}

	updated := append(append([]domain.Client{}, s.clients...), client)
	if err := s.blob.Save(ctx, keyClients, updated); err != nil {
		return domain.Client{}, err
	}
	s.clients = updated

	return client, nil
}

// UpdateClient merges the patch over the canonical record and rewrites
// the client snapshot embedded in every referencing invoice, so edits
// never silently diverge from the copies.
func (s *Service) UpdateClient(ctx context.Context, id string, patch domain.ClientPatch) (domain.Client, error) {
	client, err := s.updateClient(ctx, id, patch)
	s.metrics.ObserveStoreOp("update_client", err)
	return client, err
}

func (s *Service) updateClient(ctx context.Context, id string, patch domain.ClientPatch) (domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.clientIndex(id)
	if idx < 0 {
		return domain.Client{}, domain.ErrClientNotFound
	}

	merged := s.clients[idx]
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return domain.Client{}, domain.ErrInvalidName
		}
		merged.Name = name
	}
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if email != "" && !strings.Contains(email, "@") {
			return domain.Client{}, domain.ErrInvalidEmail
		}
		merged.Email = email
	}
	if patch.Phone != nil {
		merged.Phone = strings.TrimSpace(*patch.Phone)
	}
	if patch.Address != nil {
		merged.Address = strings.TrimSpace(*patch.Address)
	}

	clients := append([]domain.Client{}, s.clients...)
	clients[idx] = merged

	now := s.clock.Now().UTC()
	invoices := append([]domain.Invoice{}, s.invoices...)
	touched := false
	for i := range invoices {
		if invoices[i].Client.ID == id {
			invoices[i].Client = merged
			invoices[i].UpdatedAt = now
			touched = true
		}
	}

	if touched {
		err := s.blob.SaveAll(ctx, map[string]any{
			keyClients:  clients,
			keyInvoices: invoices,
		})
		if err != nil {
			return domain.Client{}, err
		}
		s.invoices = invoices
	} else {
		if err := s.blob.Save(ctx, keyClients, clients); err != nil {
			return domain.Client{}, err
		}
	}
	s.clients = clients

	return merged, nil
}

func (s *Service) DeleteClient(ctx context.Context, id string) error {
	err := s.deleteClient(ctx, id)
	s.metrics.ObserveStoreOp("delete_client", err)
	return err
}

func (s *Service) deleteClient(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.clientIndex(id)
	if idx < 0 {
		return domain.ErrClientNotFound
	}

	for _, invoice := range s.invoices {
		if invoice.Client.ID == id {
			return domain.ErrClientInUse
		}
	}

	clients := append([]domain.Client{}, s.clients[:idx]...)
	clients = append(clients, s.clients[idx+1:]...)
	if err := s.blob.Save(ctx, keyClients, clients); err != nil {
		return err
	}
	s.clients = clients

	return nil
}

func (s *Service) Clients(ctx context.Context) []domain.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Client{}, s.clients...)
}

func (s *Service) ClientByID(ctx context.Context, id string) (domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.clientIndex(id)
	if idx < 0 {
		return domain.Client{}, domain.ErrClientNotFound
	}
	return s.clients[idx], nil
}

func (s *Service) clientIndex(id string) int {
	for i, client := range s.clients {
		if client.ID == id {
			return i
		}
	}
	return -1
}
