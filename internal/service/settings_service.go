package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/todobabyrio/todobaby_api/internal/cache"
	"github.com/todobabyrio/todobaby_api/internal/config"
	"github.com/todobabyrio/todobaby_api/internal/models"
	"github.com/todobabyrio/todobaby_api/internal/sse"
	"github.com/todobabyrio/todobaby_api/internal/utils"
)

// DefaultSettings returns the store profile used until an admin saves one.
func DefaultSettings(store config.StoreConfig) models.StoreSettings {
	return models.StoreSettings{
		WhatsAppNumber: store.WhatsAppNumber,
		StoreName:      store.Name,
		Instagram:      "https://www.instagram.com/todobabyrio/",
		Facebook:       "https://www.facebook.com/profile.php?id=100068834140041",
		TikTok:         "https://tiktok.com/@todobaby",
		Address:        "Calle 14 #8-25, Local 109, Riohacha, La Guajira",
		AboutUs: "En Todo Baby Rio, entendemos que la llegada de un bebé es el comienzo de una increíble aventura. " +
			"Nacimos en el corazón de Riohacha con el propósito de ser más que una tienda: queremos ser tu compañero de confianza en cada paso. " +
			"Ofrecemos una cuidada selección de productos que garantizan la seguridad, el confort y el bienestar de tu pequeño, " +
			"desde artículos de higiene formulados con ingredientes naturales hasta los accesorios más prácticos para el día a día. " +
			"Somos un equipo apasionado por apoyar a las familias de La Guajira, brindando asesoramiento cercano y productos de la más alta calidad.",
		Mission: "Acompañar a las familias en la maravillosa etapa de la paternidad, ofreciendo productos de la más alta calidad, " +
			"seguros y delicados, que garanticen el bienestar y confort de cada bebé en Riohacha y La Guajira.",
		Vision: "Ser la tienda para bebés de referencia en La Guajira, reconocida por nuestra selección experta de productos, " +
			"el asesoramiento cercano y una comunidad de apoyo que celebra el crecimiento y la felicidad de cada niño.",
		Values: []models.StoreValue{
			{Title: "Calidad y Seguridad", Description: "Cada producto es seleccionado rigurosamente, priorizando fórmulas hipoalergénicas y materiales seguros para la delicada piel de tu bebé."},
			{Title: "Confianza", Description: "Actuamos con transparencia y honestidad, construyendo relaciones duraderas con nuestros clientes para ser su fuente más fiable."},
			{Title: "Cercanía", Description: "Ofrecemos un trato cálido y personalizado, escuchando las necesidades de cada familia para brindar la mejor orientación."},
			{Title: "Compromiso", Description: "Estamos dedicados al bienestar de los más pequeños y a la tranquilidad de sus padres, apoyando a nuestra comunidad local."},
		},
		LogoURL:   "https://lh3.googleusercontent.com/pw/AP1GczNWx_WgPtf8IncAvSxqO9iMkm27LcCxzzqaYAZ2qFhOZRCXo9bfLaQ29Mio2UGiFZkEHfZBmUIhYO_hZgWhfOdJvk9zQFZ1smwHZucyzi6cfeciul3or1JEVl4bSEWcZAUIibrXFHy7WMX4IezVIJ7R=w636-h203-s-no-gm?authuser=0",
		BannerURL: "https://picsum.photos/seed/banner/1200/400",
	}
}

// SettingsService reads and writes the singleton store profile.
type SettingsService struct {
	repo     SettingsRepository
	cache    SettingsStore
	defaults models.StoreSettings
	notifier sse.Notifier
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(repo SettingsRepository, cache SettingsStore, defaults models.StoreSettings, notifier sse.Notifier) *SettingsService {
	if notifier == nil {
		notifier = sse.NopNotifier{}
	}
	return &SettingsService{repo: repo, cache: cache, defaults: defaults, notifier: notifier}
}

// Get returns the settings from the key-value store, then the table, then
// the defaults. Backend failures are logged and fall through.
func (s *SettingsService) Get(ctx context.Context) models.StoreSettings {
	cached, err := s.cache.Get(ctx)
	if err == nil {
		return *cached
	}
	if !cache.IsMiss(err) {
		log.Warn().Err(err).Msg("Failed to read cached settings")
	}

	stored, err := s.repo.Get(ctx)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error().Err(err).Msg("Failed to load settings")
		}
		return s.defaults
	}

	if err := s.cache.Set(ctx, stored); err != nil {
		log.Warn().Err(err).Msg("Failed to cache settings")
	}
	return *stored
}

// Update validates and saves the settings. The table write must succeed;
// the cache write is best effort.
func (s *SettingsService) Update(ctx context.Context, in models.StoreSettings) (*models.StoreSettings, error) {
	in.StoreName = strings.TrimSpace(in.StoreName)
	in.WhatsAppNumber = strings.TrimSpace(in.WhatsAppNumber)
	if in.StoreName == "" {
		return nil, utils.NewValidationError("storeName", "El nombre de la tienda es obligatorio")
	}
	if in.WhatsAppNumber == "" {
		return nil, utils.NewValidationError("whatsappNumber", "El número de WhatsApp es obligatorio")
	}
	if in.Values == nil {
		in.Values = []models.StoreValue{}
	}

	if err := s.repo.Upsert(ctx, &in); err != nil {
		log.Error().Err(err).Msg("Failed to save settings")
		return nil, err
	}
	if err := s.cache.Set(ctx, &in); err != nil {
		log.Warn().Err(err).Msg("Failed to cache settings")
	}

	log.Info().Str("store_name", in.StoreName).Msg("Store settings updated")
	s.notifier.Notify(sse.EventSettingsUpdated, in)
	return &in, nil
}

// Seed writes the defaults when nothing is stored yet.
func (s *SettingsService) Seed(ctx context.Context) error {
	if _, err := s.repo.Get(ctx); err == nil {
		return nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	d := s.defaults
	if err := s.repo.Upsert(ctx, &d); err != nil {
		return err
	}
	return s.cache.Set(ctx, &d)
}
