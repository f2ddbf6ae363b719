package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/ledgerpad/ledgerpad/internal/settings/domain"
	"github.com/ledgerpad/ledgerpad/pkg/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newService(t *testing.T) (domain.Service, *blobstore.Store) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	blob, err := blobstore.New(db)
	require.NoError(t, err)

	svc := New(Params{Blob: blob, Log: zaptest.NewLogger(t)})
	require.NoError(t, svc.Load(context.Background()))
	return svc, blob
}

func TestLoad_DefaultsWhenUnset(t *testing.T) {
	svc, _ := newService(t)

	settings := svc.Get(context.Background())
	assert.Equal(t, "Your Business", settings.BusinessName)
	assert.Contains(t, settings.EmailTemplate, "{invoiceNumber}")
	assert.Zero(t, settings.NotificationCount)
	assert.Empty(t, settings.LogoURI)
}

func TestLoad_MergesStoredOverDefaults(t *testing.T) {
	svc, blob := newService(t)
	ctx := context.Background()

	// A partial document from an older install: no email template field.
	require.NoError(t, blob.Save(ctx, "business_settings", map[string]any{
		"businessName": "Riverside Plumbing",
	}))
	require.NoError(t, svc.Load(ctx))

	settings := svc.Get(ctx)
	assert.Equal(t, "Riverside Plumbing", settings.BusinessName)
	assert.Equal(t, domain.DefaultEmailTemplate, settings.EmailTemplate)
}

func TestUpdate_Persists(t *testing.T) {
	svc, blob := newService(t)
	ctx := context.Background()

	name := "Riverside Plumbing"
	email := "office@riverside.example"
	updated, err := svc.Update(ctx, domain.SettingsPatch{
		BusinessName:  &name,
		BusinessEmail: &email,
	})
	require.NoError(t, err)
	assert.Equal(t, "Riverside Plumbing", updated.BusinessName)

	fresh := New(Params{Blob: blob, Log: zaptest.NewLogger(t)})
	require.NoError(t, fresh.Load(ctx))
	assert.Equal(t, "Riverside Plumbing", fresh.Get(ctx).BusinessName)
	assert.Equal(t, "office@riverside.example", fresh.Get(ctx).BusinessEmail)
}

func TestRenderEmailTemplate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	name := "Riverside Plumbing"
	_, err := svc.Update(ctx, domain.SettingsPatch{BusinessName: &name})
	require.NoError(t, err)

	body := svc.RenderEmailTemplate(ctx, domain.TemplateData{
		ClientName:    "Acme Corp",
		InvoiceNumber: "0001",
		InvoiceDate:   "3/10/2025",
		DueDate:       "4/10/2025",
		TotalAmount:   "$100.00",
	})

	assert.Contains(t, body, "Dear Acme Corp,")
	assert.Contains(t, body, "Invoice #0001")
	assert.Contains(t, body, "- Invoice Date: 3/10/2025")
	assert.Contains(t, body, "- Due Date: 4/10/2025")
	assert.Contains(t, body, "- Total Amount: $100.00")
	assert.Contains(t, body, "Best regards,\nRiverside Plumbing")
	assert.NotContains(t, body, "{")
}

func TestRenderEmailTemplate_RepeatedTokens(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	tmpl := "{clientName} {clientName} owes {totalAmount}"
	_, err := svc.Update(ctx, domain.SettingsPatch{EmailTemplate: &tmpl})
	require.NoError(t, err)

	body := svc.RenderEmailTemplate(ctx, domain.TemplateData{
		ClientName:  "Acme",
		TotalAmount: "$5.00",
	})
	assert.Equal(t, "Acme Acme owes $5.00", body)
}

func TestRemoveLogo(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	uri := "file:///logos/mine.png"
	_, err := svc.Update(ctx, domain.SettingsPatch{LogoURI: &uri})
	require.NoError(t, err)

	updated, err := svc.RemoveLogo(ctx)
	require.NoError(t, err)
	assert.Empty(t, updated.LogoURI)
}

func TestNotificationCount(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	assert.True(t, svc.ShouldShowNotification(ctx))
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.IncrementNotificationCount(ctx))
	}
	assert.False(t, svc.ShouldShowNotification(ctx))
	assert.Equal(t, 3, svc.Get(ctx).NotificationCount)
}
