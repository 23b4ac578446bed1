package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Govind-619/Bookstore/models"
	"github.com/Govind-619/Bookstore/templates"
	"github.com/Govind-619/Bookstore/utils"
)

// Mailer delivers a single HTML e-mail
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Renderer renders a named template
type Renderer interface {
	Render(name string, data any) (string, error)
}

// AudienceStore finds the readers a promotion is sent to
type AudienceStore interface {
	// VerifiedViewers returns the distinct users with a confirmed e-mail who
	// have viewed at least one book of the category
	VerifiedViewers(ctx context.Context, categoryID uint) ([]models.User, error)
}

// DefaultPromotionTemplates maps category names to their promotion e-mail
var DefaultPromotionTemplates = map[string]string{
	"Poetry":  templates.PromotionPoetry,
	"Fiction": templates.PromotionFiction,
}

// PromotionEmail is the data passed to promotion templates
type PromotionEmail struct {
	User       models.User
	Promotion  *models.Promotion
	ExpiryDate time.Time
}

// PromotionNotifier e-mails a new promotion to readers of its categories
type PromotionNotifier struct {
	audience  AudienceStore
	mailer    Mailer
	renderer  Renderer
	templates map[string]string
}

// NewPromotionNotifier creates a notifier. A nil mapping uses DefaultPromotionTemplates.
func NewPromotionNotifier(audience AudienceStore, mailer Mailer, renderer Renderer, templateByCategory map[string]string) *PromotionNotifier {
	if templateByCategory == nil {
		templateByCategory = DefaultPromotionTemplates
	}
	return &PromotionNotifier{
		audience:  audience,
		mailer:    mailer,
		renderer:  renderer,
		templates: templateByCategory,
	}
}

// NotifyPromotion sends the promotion to every verified user who viewed a book
// in one of its categories and returns the number of e-mails delivered.
//
// Categories are handled one at a time: a user who qualifies through two
// mapped categories gets two e-mails. Categories without a template are
// skipped. A failed delivery is logged and the batch continues; an error
// loading an audience stops the fanout and is returned with the count so far.
func (n *PromotionNotifier) NotifyPromotion(ctx context.Context, promo *models.Promotion) (int, error) {
	sent := 0
	for _, category := range promo.Categories {
		tmpl, ok := n.templates[category.Name]
		if !ok {
			promotionCategoriesSkipped.Inc()
			utils.LogDebug("Promotion %q: no template for category %q, skipping", promo.Name, category.Name)
			continue
		}

		users, err := n.audience.VerifiedViewers(ctx, category.ID)
		if err != nil {
			return sent, fmt.Errorf("load audience for category %q: %w", category.Name, err)
		}

		subject := fmt.Sprintf("Promotion %s - %s", promo.Name, category.Name)
		for _, user := range users {
			if err := n.deliver(ctx, tmpl, subject, user, promo); err != nil {
				promotionEmails.WithLabelValues(category.Name, "failed").Inc()
				utils.LogError("Failed to send promotion %q to %s: %v", promo.Name, user.Email, err)
				continue
			}
			promotionEmails.WithLabelValues(category.Name, "sent").Inc()
			sent++
		}
	}

	if sent > 0 {
		utils.LogInfo("Promotion %s sent to %d users", promo.Name, sent)
	}
	return sent, nil
}

func (n *PromotionNotifier) deliver(ctx context.Context, tmpl, subject string, user models.User, promo *models.Promotion) error {
	body, err := n.renderer.Render(tmpl, PromotionEmail{
		User:       user,
		Promotion:  promo,
		ExpiryDate: promo.ExpiresAt,
	})
	if err != nil {
		return err
	}
	return n.mailer.Send(ctx, user.Email, subject, body)
}
