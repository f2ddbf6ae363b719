package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/ledgerpad/ledgerpad/internal/settings/domain"
	"github.com/ledgerpad/ledgerpad/pkg/blobstore"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keySettings = "business_settings"

// notificationCap is how many times the email-setup reminder is shown
// before going quiet.
const notificationCap = 3

type Params struct {
	fx.In

	Blob *blobstore.Store
	Log  *zap.Logger
}

// Service keeps the single settings document in memory, merged over
// defaults, and rewrites it wholesale on every change.
type Service struct {
	blob *blobstore.Store
	log  *zap.Logger

	mu       sync.Mutex
	settings domain.BusinessSettings
}

func New(p Params) domain.Service {
	return &Service{
		blob:     p.Blob,
		log:      p.Log.Named("settings.service"),
		settings: domain.Defaults(),
	}
}

// Load merges the stored document over defaults, so fields added after
// an older document was written still pick up their default values.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := domain.Defaults()
	err := s.blob.Load(ctx, keySettings, &stored)
	switch {
	case errors.Is(err, blobstore.ErrNotFound):
	case err != nil:
		s.log.Error("loading settings failed, using defaults", zap.Error(err))
		stored = domain.Defaults()
	}
	if strings.TrimSpace(stored.EmailTemplate) == "" {
		stored.EmailTemplate = domain.DefaultEmailTemplate
	}
	s.settings = stored

	return nil
}

func (s *Service) Get(ctx context.Context) domain.BusinessSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *Service) Update(ctx context.Context, patch domain.SettingsPatch) (domain.BusinessSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.settings
	if patch.BusinessName != nil {
		merged.BusinessName = strings.TrimSpace(*patch.BusinessName)
	}
	if patch.BusinessAddress != nil {
		merged.BusinessAddress = strings.TrimSpace(*patch.BusinessAddress)
	}
	if patch.BusinessPhone != nil {
		merged.BusinessPhone = strings.TrimSpace(*patch.BusinessPhone)
	}
	if patch.BusinessEmail != nil {
		merged.BusinessEmail = strings.TrimSpace(*patch.BusinessEmail)
	}
	if patch.EmailTemplate != nil {
		merged.EmailTemplate = *patch.EmailTemplate
	}
	if patch.LogoURI != nil {
		merged.LogoURI = *patch.LogoURI
	}
	if patch.NotificationCount != nil {
		merged.NotificationCount = *patch.NotificationCount
	}

	if err := s.blob.Save(ctx, keySettings, merged); err != nil {
		return domain.BusinessSettings{}, err
	}
	s.settings = merged

	return merged, nil
}

func (s *Service) RemoveLogo(ctx context.Context) (domain.BusinessSettings, error) {
	empty := ""
	return s.Update(ctx, domain.SettingsPatch{LogoURI: &empty})
}

// RenderEmailTemplate substitutes the template tokens literally. No
// escaping: the result is a plain-text email body.
func (s *Service) RenderEmailTemplate(ctx context.Context, data domain.TemplateData) string {
	s.mu.Lock()
	template := s.settings.EmailTemplate
	businessName := s.settings.BusinessName
	s.mu.Unlock()

	replacer := strings.NewReplacer(
		"{clientName}", data.ClientName,
		"{invoiceNumber}", data.InvoiceNumber,
		"{invoiceDate}", data.InvoiceDate,
		"{dueDate}", data.DueDate,
		"{totalAmount}", data.TotalAmount,
		"{businessName}", businessName,
	)
	return replacer.Replace(template)
}

func (s *Service) IncrementNotificationCount(ctx context.Context) error {
	s.mu.Lock()
	next := s.settings.NotificationCount + 1
	s.mu.Unlock()

	_, err := s.Update(ctx, domain.SettingsPatch{NotificationCount: &next})
	return err
}

func (s *Service) ShouldShowNotification(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.NotificationCount < notificationCap
}
