package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/todobabyrio/todobaby_api/internal/checkout"
	"github.com/todobabyrio/todobaby_api/internal/utils"
)

// CheckoutResult is the WhatsApp hand-off for a submitted cart.
type CheckoutResult struct {
	URL     string `json:"url"`
	Message string `json:"message"`
}

// ContactInfo are the store's outbound links.
type ContactInfo struct {
	WhatsAppURL string `json:"whatsappUrl"`
	Instagram   string `json:"instagram"`
	Facebook    string `json:"facebook"`
	TikTok      string `json:"tiktok"`
	Address     string `json:"address"`
}

// CheckoutService turns a cart into a pre-filled WhatsApp message.
type CheckoutService struct {
	carts    *CartService
	settings *SettingsService
}

// NewCheckoutService constructs a CheckoutService.
func NewCheckoutService(carts *CartService, settings *SettingsService) *CheckoutService {
	return &CheckoutService{carts: carts, settings: settings}
}

// Submit builds the order message and link, then clears the cart. Orders are
// not stored; the conversation continues on WhatsApp.
func (s *CheckoutService) Submit(ctx context.Context, cartID, name, address string) (*CheckoutResult, error) {
	name = strings.TrimSpace(name)
	address = strings.TrimSpace(address)
	if name == "" {
		return nil, utils.NewValidationError("name", "Por favor ingresa tu nombre")
	}
	if address == "" {
		return nil, utils.NewValidationError("address", "Por favor ingresa tu dirección de entrega")
	}

	view, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(view.Items) == 0 {
		return nil, utils.ErrEmptyCart
	}

	settings := s.settings.Get(ctx)
	msg := checkout.BuildOrderMessage(&settings, name, address, view.Items)
	result := &CheckoutResult{
		URL:     checkout.WhatsAppURL(settings.WhatsAppNumber, msg),
		Message: msg,
	}

	if _, err := s.carts.Clear(ctx, cartID); err != nil {
		log.Warn().Err(err).Str("cart_id", cartID).Msg("Cart not cleared after checkout")
	}
	log.Info().Str("cart_id", cartID).Int("items", view.Count).Str("total", view.Total.StringFixed(2)).Msg("Checkout handed off to WhatsApp")
	return result, nil
}

// Contact returns the WhatsApp chat link and social profiles.
func (s *CheckoutService) Contact(ctx context.Context) ContactInfo {
	settings := s.settings.Get(ctx)
	return ContactInfo{
		WhatsAppURL: checkout.ContactURL(settings.WhatsAppNumber),
		Instagram:   settings.Instagram,
		Facebook:    settings.Facebook,
		TikTok:      settings.TikTok,
		Address:     settings.Address,
	}
}
