package voice

import (
	"strings"
	"sync"
	"time"

	"github.com/todobabyrio/todobaby_api/internal/models"
)

// Transcript accumulates transcription fragments of the current turn and
// keeps the finalized chat log of the session.
type Transcript struct {
	mu        sync.Mutex
	user      strings.Builder
	assistant strings.Builder
	entries   []models.TranscriptEntry
	now       func() time.Time
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{now: time.Now}
}

// AddInput appends a fragment of the user's recognized speech.
func (t *Transcript) AddInput(text string) {
	t.mu.Lock()
	t.user.WriteString(text)
	t.mu.Unlock()
}

// AddOutput appends a fragment of the assistant's spoken answer.
func (t *Transcript) AddOutput(text string) {
	t.mu.Lock()
	t.assistant.WriteString(text)
	t.mu.Unlock()
}

// Finalize closes the current turn. Non-empty user and assistant texts are
// appended to the log, in that order, and returned.
func (t *Transcript) Finalize() []models.TranscriptEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	at := t.now()
	var turn []models.TranscriptEntry
	if text := strings.TrimSpace(t.user.String()); text != "" {
		turn = append(turn, models.TranscriptEntry{Role: models.TranscriptRoleUser, Text: text, At: at})
	}
	if text := strings.TrimSpace(t.assistant.String()); text != "" {
		turn = append(turn, models.TranscriptEntry{Role: models.TranscriptRoleAssistant, Text: text, At: at})
	}
	t.user.Reset()
	t.assistant.Reset()
	t.entries = append(t.entries, turn...)
	return turn
}

// Entries returns a copy of the finalized log.
func (t *Transcript) Entries() []models.TranscriptEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.TranscriptEntry, len(t.entries))
	copy(out, t.entries)
	return out
}
