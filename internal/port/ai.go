package port

import (
	"context"
	"io"
)

// AIProvider abstracts the AI backend for embeddings and chat completions.
// Implementations can target OpenAI or any compatible API.
type AIProvider interface {
	// Configured reports whether the provider has credentials. Callers are
	// expected to degrade gracefully when it returns false.
	Configured() bool

	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Chat sends a system instruction plus the user's question and returns
	// the model's reply.
	Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// SpeechProvider abstracts text-to-speech and speech-to-text services.
// Both operations are pure pass-throughs: text in, audio out and back.
type SpeechProvider interface {
	// Configured reports whether the provider has credentials.
	Configured() bool

	// Synthesize converts text to spoken audio (MPEG bytes).
	Synthesize(ctx context.Context, text string) ([]byte, error)

	// Transcribe converts spoken audio into text.
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}
