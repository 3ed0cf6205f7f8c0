package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/voxinvoice/invoice-assistant/internal/port"
)

// OpenAIConfig holds connection settings for an OpenAI-compatible API.
type OpenAIConfig struct {
	BaseURL    string // e.g. https://api.openai.com
	APIKey     string // empty = not configured, callers degrade gracefully
	EmbedModel string // e.g. text-embedding-ada-002
	ChatModel  string // e.g. gpt-3.5-turbo
	TTSModel   string // e.g. tts-1
	TTSVoice   string // e.g. alloy
	STTModel   string // e.g. whisper-1
}

// OpenAIProvider implements port.AIProvider and port.SpeechProvider against
// the OpenAI REST API or any compatible endpoint.
type OpenAIProvider struct {
	cfg        OpenAIConfig
	httpClient *http.Client
}

// NewOpenAIProvider creates a provider from the given config.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	return &OpenAIProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

// Configured reports whether an API key is present.
func (o *OpenAIProvider) Configured() bool {
	return o.cfg.APIKey != ""
}

// Embed generates a vector embedding for the given text.
func (o *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if !o.Configured() {
		return nil, port.ErrNotConfigured
	}

	payload := map[string]interface{}{
		"model": o.cfg.EmbedModel,
		"input": text,
	}

	body, err := o.postJSON(ctx, "/v1/embeddings", payload)
	if err != nil {
		return nil, fmt.Errorf("openai embed: %w", err)
	}

	var resp struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("openai embed decode: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai embed: empty response")
	}

	return resp.Data[0].Embedding, nil
}

// Chat sends a system instruction plus the user's question and returns the
// model's reply.
func (o *OpenAIProvider) Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !o.Configured() {
		return "", port.ErrNotConfigured
	}

	payload := map[string]interface{}{
		"model": o.cfg.ChatModel,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
		"max_tokens":  150,
		"temperature": 0.7,
	}

	body, err := o.postJSON(ctx, "/v1/chat/completions", payload)
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}

	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("openai chat decode: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat: empty response")
	}

	return resp.Choices[0].Message.Content, nil
}

// Synthesize converts text to spoken audio and returns the MPEG bytes.
func (o *OpenAIProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if !o.Configured() {
		return nil, port.ErrNotConfigured
	}

	payload := map[string]interface{}{
		"model": o.cfg.TTSModel,
		"voice": o.cfg.TTSVoice,
		"input": text,
	}

	audio, err := o.postJSON(ctx, "/v1/audio/speech", payload)
	if err != nil {
		return nil, fmt.Errorf("openai tts: %w", err)
	}
	return audio, nil
}

// Transcribe converts spoken audio into text via the transcription endpoint.
func (o *OpenAIProvider) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	if !o.Configured() {
		return "", port.ErrNotConfigured
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("openai stt: form file: %w", err)
	}
	if _, err := io.Copy(fw, audio); err != nil {
		return "", fmt.Errorf("openai stt: copy audio: %w", err)
	}
	if err := mw.WriteField("model", o.cfg.STTModel); err != nil {
		return "", fmt.Errorf("openai stt: model field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("openai stt: close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.cfg.BaseURL+"/v1/audio/transcriptions", &buf)
	if err != nil {
		return "", fmt.Errorf("openai stt: create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)

	body, err := o.do(req)
	if err != nil {
		return "", fmt.Errorf("openai stt: %w", err)
	}

	var resp struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("openai stt decode: %w", err)
	}
	return resp.Text, nil
}

// postJSON is a helper for JSON POST requests with bearer auth.
func (o *OpenAIProvider) postJSON(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.cfg.BaseURL+path, bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)

	return o.do(req)
}

func (o *OpenAIProvider) do(req *http.Request) ([]byte, error) {
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
