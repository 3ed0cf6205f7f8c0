package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxinvoice/invoice-assistant/internal/port"
)

func testProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAIProvider(OpenAIConfig{
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		EmbedModel: "text-embedding-ada-002",
		ChatModel:  "gpt-3.5-turbo",
		TTSModel:   "tts-1",
		TTSVoice:   "alloy",
		STTModel:   "whisper-1",
	})
}

func TestOpenAIEmbed(t *testing.T) {
	provider := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "text-embedding-ada-002", body["model"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"embedding": []float32{0.1, 0.2, 0.3}},
			},
		})
	})

	vec, err := provider.Embed(context.Background(), "invoice text")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestOpenAIEmbedErrors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		provider := NewOpenAIProvider(OpenAIConfig{})
		_, err := provider.Embed(context.Background(), "text")
		assert.ErrorIs(t, err, port.ErrNotConfigured)
	})

	t.Run("server error", func(t *testing.T) {
		provider := testProvider(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		})
		_, err := provider.Embed(context.Background(), "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("empty data", func(t *testing.T) {
		provider := testProvider(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"data":[]}`))
		})
		_, err := provider.Embed(context.Background(), "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty response")
	})
}

func TestOpenAIChat(t *testing.T) {
	provider := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var body struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Equal(t, "user", body.Messages[1].Role)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "The total is $42.50."}},
			},
		})
	})

	reply, err := provider.Chat(context.Background(), "you are an invoice assistant", "what is the total?")
	require.NoError(t, err)
	assert.Equal(t, "The total is $42.50.", reply)
}

func TestOpenAISynthesize(t *testing.T) {
	provider := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/speech", r.URL.Path)
		w.Write([]byte("mpeg-bytes"))
	})

	audio, err := provider.Synthesize(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []byte("mpeg-bytes"), audio)
}

func TestOpenAITranscribe(t *testing.T) {
	provider := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "question.mp3", hdr.Filename)

		json.NewEncoder(w).Encode(map[string]string{"text": "what is the total on invoice INV-000123"})
	})

	text, err := provider.Transcribe(context.Background(), "question.mp3", strings.NewReader("audio-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "what is the total on invoice INV-000123", text)
}
