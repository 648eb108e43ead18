package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/todobabyrio/todobaby_api/internal/catalog"
	"github.com/todobabyrio/todobaby_api/internal/config"
	"github.com/todobabyrio/todobaby_api/internal/models"
	"github.com/todobabyrio/todobaby_api/internal/utils"
	"github.com/todobabyrio/todobaby_api/internal/voice"
	"github.com/todobabyrio/todobaby_api/pkg/gemini"
)

// Messages returned in place of a model answer.
const (
	FallbackDescriptionNoKey = "API Key not configured. Please contact support."
	FallbackDescriptionError = "Error generating description. Please try again."
	FallbackChatNoKey        = "API Key no configurada. Por favor, contacta a soporte."
	FallbackChatError        = "Lo siento, estoy teniendo problemas para conectarme. Por favor, intenta de nuevo más tarde."
)

const descriptionPrompt = `You are an expert copywriter for a baby store named "TODO BABY".
Your tone is warm, reassuring, and trustworthy, targeting new parents.
Write a short, appealing, and SEO-friendly product description (2-3 sentences) for the following product.
Do not use markdown or special formatting. Just output the plain text of the description.

Product Name: %s
Category: %s`

const assistantInstruction = `Eres 'Laudith', una asistente amigable y experta de una tienda para bebés llamada 'TODO BABY'.
Tu objetivo es ayudar a los nuevos padres a encontrar los mejores productos para sus necesidades en nuestra tienda.
SOLAMENTE debes recomendar productos de la siguiente lista. No inventes productos.
Mantén tus respuestas útiles, concisas y tranquilizadoras.
Cuando recomiendes un producto, indica su nombre claramente.

Aquí está la lista de productos disponibles:
%s`

// AssistantService proxies the generative-AI provider for the storefront
// assistant and the admin description helper.
type AssistantService struct {
	gen      Generator
	products *catalog.Store
	settings *SettingsService
	cfg      config.GeminiConfig
}

// NewAssistantService constructs an AssistantService.
func NewAssistantService(gen Generator, products *catalog.Store, settings *SettingsService, cfg config.GeminiConfig) *AssistantService {
	return &AssistantService{gen: gen, products: products, settings: settings, cfg: cfg}
}

// Enabled reports whether the provider has credentials.
func (s *AssistantService) Enabled() bool {
	return s.gen != nil && s.gen.Configured()
}

// GenerateProductDescription writes marketing copy for the admin form.
func (s *AssistantService) GenerateProductDescription(ctx context.Context, name, category string) string {
	if !s.Enabled() {
		return FallbackDescriptionNoKey
	}

	resp, err := s.gen.GenerateContent(ctx, s.cfg.TextModel, &gemini.GenerateContentRequest{
		Contents: []gemini.Content{{
			Role:  models.ChatRoleUser,
			Parts: []gemini.Part{gemini.TextPart(fmt.Sprintf(descriptionPrompt, name, category))},
		}},
	})
	if err != nil {
		log.Error().Err(err).Str("product", name).Msg("Error generating product description")
		return FallbackDescriptionError
	}
	return strings.TrimSpace(resp.Text())
}

// Greeting is the first assistant turn shown when the chat opens.
func (s *AssistantService) Greeting(ctx context.Context) string {
	settings := s.settings.Get(ctx)
	return fmt.Sprintf("¡Hola! Soy Laudith, tu asistente de %s. ¿Cómo puedo ayudarte a prepararte para la llegada de tu bebé?", settings.StoreName)
}

// SystemInstruction lists the active catalog the assistant may recommend.
func (s *AssistantService) SystemInstruction() string {
	products := catalog.Filter(s.products.All(), catalog.Query{})
	lines := make([]string, 0, len(products))
	for _, p := range products {
		lines = append(lines, fmt.Sprintf("- %s (Categoría: %s)", p.Name, p.Category))
	}
	return fmt.Sprintf(assistantInstruction, strings.Join(lines, "\n"))
}

// Chat answers a text message in the context of the conversation so far.
func (s *AssistantService) Chat(ctx context.Context, history []models.ChatMessage, message string) string {
	return s.chat(ctx, history, gemini.TextPart(message))
}

// ChatWithImage answers a message about an attached photo.
func (s *AssistantService) ChatWithImage(ctx context.Context, history []models.ChatMessage, message string, image []byte, mimeType string) string {
	parts := []gemini.Part{{InlineData: &gemini.InlineData{
		MimeType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(image),
	}}}
	if strings.TrimSpace(message) != "" {
		parts = append(parts, gemini.TextPart(message))
	}
	return s.chat(ctx, history, parts...)
}

func (s *AssistantService) chat(ctx context.Context, history []models.ChatMessage, parts ...gemini.Part) string {
	if !s.Enabled() {
		return FallbackChatNoKey
	}

	contents := make([]gemini.Content, 0, len(history)+1)
	for _, m := range history {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		role := models.ChatRoleUser
		if m.Role == models.ChatRoleModel || m.Role == models.TranscriptRoleAssistant {
			role = models.ChatRoleModel
		}
		contents = append(contents, gemini.Content{Role: role, Parts: []gemini.Part{gemini.TextPart(m.Text)}})
	}
	contents = append(contents, gemini.Content{Role: models.ChatRoleUser, Parts: parts})

	resp, err := s.gen.GenerateContent(ctx, s.cfg.TextModel, &gemini.GenerateContentRequest{
		Contents:          contents,
		SystemInstruction: gemini.SystemInstruction(s.SystemInstruction()),
	})
	if err != nil {
		log.Error().Err(err).Int("history", len(history)).Msg("Error generating chatbot response")
		return FallbackChatError
	}
	return strings.TrimSpace(resp.Text())
}

// Speak synthesizes text and returns a playable WAV file.
func (s *AssistantService) Speak(ctx context.Context, text string) ([]byte, error) {
	if !s.Enabled() {
		return nil, utils.ErrAssistantDisabled
	}
	pcm, err := s.gen.Speak(ctx, s.cfg.TTSModel, s.cfg.Voice, text)
	if err != nil {
		log.Error().Err(err).Msg("Error generating speech")
		return nil, err
	}
	return voice.WAV(pcm, voice.OutputSampleRate), nil
}

// LiveConfig describes a realtime voice session with the assistant persona.
func (s *AssistantService) LiveConfig() gemini.LiveConfig {
	return gemini.LiveConfig{
		Model:             s.cfg.LiveModel,
		Voice:             s.cfg.Voice,
		SystemInstruction: s.SystemInstruction(),
	}
}
