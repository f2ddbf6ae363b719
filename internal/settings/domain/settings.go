// Package domain contains the business settings model. There is exactly
// one settings document per installation.
package domain

import "context"

// BusinessSettings carries the issuer identity printed on documents,
// the outgoing email template and a few UI counters.
type BusinessSettings struct {
	BusinessName      string `json:"businessName"`
	BusinessAddress   string `json:"businessAddress"`
	BusinessPhone     string `json:"businessPhone"`
	BusinessEmail     string `json:"businessEmail"`
	EmailTemplate     string `json:"emailTemplate"`
	LogoURI           string `json:"logoUri,omitempty"`
	NotificationCount int    `json:"notificationCount,omitempty"`
}

// DefaultEmailTemplate is the outgoing email body used until the owner
// customizes it. Tokens are substituted literally at send time.
const DefaultEmailTemplate = `Dear {clientName},

Please find attached Invoice #{invoiceNumber} for your review.

Invoice Details:
- Invoice Date: {invoiceDate}
- Due Date: {dueDate}
- Total Amount: {totalAmount}

Please let me know if you have any questions.

Thank you for your business!

Best regards,
{businessName}`

// Defaults returns the settings used before any were saved.
func Defaults() BusinessSettings {
	return BusinessSettings{
		BusinessName:  "Your Business",
		EmailTemplate: DefaultEmailTemplate,
	}
}

// SettingsPatch merges over the stored settings. Nil fields are
// untouched.
type SettingsPatch struct {
	BusinessName      *string
	BusinessAddress   *string
	BusinessPhone     *string
	BusinessEmail     *string
	EmailTemplate     *string
	LogoURI           *string
	NotificationCount *int
}

// TemplateData carries the pre-formatted values substituted into the
// email template tokens.
type TemplateData struct {
	ClientName    string
	InvoiceNumber string
	InvoiceDate   string
	DueDate       string
	TotalAmount   string
}

type Service interface {
	Load(ctx context.Context) error
	Get(ctx context.Context) BusinessSettings
	Update(ctx context.Context, patch SettingsPatch) (BusinessSettings, error)
	RemoveLogo(ctx context.Context) (BusinessSettings, error)
	RenderEmailTemplate(ctx context.Context, data TemplateData) string
	IncrementNotificationCount(ctx context.Context) error
	ShouldShowNotification(ctx context.Context) bool
}
