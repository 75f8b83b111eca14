// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/legalease-tui/internal/audio"
)

func newTestClient(url string) *Client {
	return NewClientWithConfig(&ClientConfig{
		BaseURL:           url,
		Timeout:           5 * time.Second,
		RequestsPerSecond: 1000,
		Burst:             100,
	})
}

// =============================================================================
// STREAMING ANALYSIS
// =============================================================================

func TestAnalyzeTextStream_Sections(t *testing.T) {
	const document = "This agreement auto-renews unless cancelled 30 days prior."
	chunks := []string{
		"### Summary\nAuto-renews.\n",
		"### Key Clauses Explained\nRenewal clause.\n",
		"### My Advice To You\nSet a reminder.",
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathAnalyzeText, r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req AnalyzeTextRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, document, req.Document)
		assert.Equal(t, "English", req.Language)

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		flusher := w.(http.Flusher)
		for _, c := range chunks {
			io.WriteString(w, c)
			flusher.Flush()
		}
	}))
	defer server.Close()

	var seen []string
	text, err := newTestClient(server.URL).AnalyzeTextStream(context.Background(), document, "English",
		func(acc, chunk string) { seen = append(seen, acc) })
	require.NoError(t, err)

	want := strings.Join(chunks, "")
	assert.Equal(t, want, text)
	require.NotEmpty(t, seen)
	assert.Equal(t, want, seen[len(seen)-1])
	for i := 1; i < len(seen); i++ {
		assert.True(t, strings.HasPrefix(seen[i], seen[i-1]), "accumulated text must only grow")
	}
}

func TestAnalyzeImageStream_SendsBase64(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte{0xFF, 0xD8, 0xFF})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathAnalyzeImage, r.URL.Path)
		var req AnalyzeImageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, payload, req.ImageData)
		assert.Equal(t, "Marathi", req.Language)
		io.WriteString(w, "### Summary\n\nCould not find any text in the image. Please try another one.")
	}))
	defer server.Close()

	text, err := newTestClient(server.URL).AnalyzeImageStream(context.Background(), payload, "Marathi", nil)
	require.NoError(t, err)
	assert.Contains(t, text, "Could not find any text")
}

func TestAnalyzeTextStream_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	called := false
	text, err := newTestClient(server.URL).AnalyzeTextStream(context.Background(), "doc", "English",
		func(acc, chunk string) { called = true })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Internal error")
	assert.True(t, IsStatus(err))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	assert.Empty(t, text)
	assert.False(t, called)
}

func TestAnalyzeTextStream_EmptyErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).AnalyzeTextStream(context.Background(), "doc", "English", nil)
	require.Error(t, err)
	assert.Equal(t, "request failed: 502 Bad Gateway", err.Error())
}

func TestAnalyzeTextStream_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := newTestClient(url).AnalyzeTextStream(context.Background(), "doc", "English", nil)
	require.Error(t, err)
	var clientErr *ClientError
	require.True(t, errors.As(err, &clientErr))
	assert.Equal(t, ErrTypeConnection, clientErr.Type)
}

func TestAnalyzeTextStream_Canceled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "### Summary\n")
		w.(http.Flusher).Flush()
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := newTestClient(server.URL).AnalyzeTextStream(ctx, "doc", "English", func(acc, chunk string) {
		cancel()
	})
	require.Error(t, err)
	assert.True(t, IsCanceled(err), "got %v", err)
}

// =============================================================================
// TEXT TO SPEECH
// =============================================================================

func TestTextToSpeech(t *testing.T) {
	pcm := make([]byte, 8) // four samples
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathTextToSpeech, r.URL.Path)
		var req SpeechRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Set a reminder.", req.Text)
		assert.Equal(t, "Hindi", req.Language)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(SpeechResponse{
			AudioData: base64.StdEncoding.EncodeToString(pcm),
			MimeType:  "audio/L16;rate=16000",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	speech, err := client.Synthesize(context.Background(), "Set a reminder.", "Hindi")
	require.NoError(t, err)

	wav, err := audio.BuildWAV(speech.AudioData, speech.MimeType)
	require.NoError(t, err)
	assert.Len(t, wav, 44+8)
	hdr, err := audio.ReadHeader(wav)
	require.NoError(t, err)
	assert.Equal(t, 16000, hdr.SampleRate)
}

func TestTextToSpeech_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"detail", 500, `{"detail":"Error generating speech: quota exceeded"}`, "Error generating speech: quota exceeded"},
		{"validation", 422, `{"detail":[{"loc":["body","text"],"msg":"field required"}]}`, "field required"},
		{"malformed json", 200, `{"audio_data":`, "malformed speech response"},
		{"no audio", 200, `{"mime_type":"audio/L16"}`, "speech response has no audio"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).TextToSpeech(context.Background(), "hello", "English")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

// =============================================================================
// CHAT
// =============================================================================

func TestChat_JSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathChat, r.URL.Path)
		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "the lease", req.Document)
		assert.Equal(t, "Can I cancel?", req.Question)
		assert.Equal(t, "Tamil", req.Language)
		require.Len(t, req.History, 1)
		assert.Equal(t, RoleModel, req.History[0].Role)
		assert.Equal(t, "Hello!", req.History[0].Parts[0].Text)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"response":"Yes, with 30 days notice."}`)
	}))
	defer server.Close()

	reply, err := newTestClient(server.URL).Chat(context.Background(), ChatRequest{
		Document: "the lease",
		History:  []HistoryTurn{NewTurn(RoleModel, "Hello!")},
		Question: "Can I cancel?",
		Language: "Tamil",
	})
	require.NoError(t, err)
	assert.Equal(t, "Yes, with 30 days notice.", reply)
}

func TestChat_PlainTextResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		io.WriteString(w, "Yes. ")
		w.(http.Flusher).Flush()
		io.WriteString(w, "Give notice.")
	}))
	defer server.Close()

	reply, err := newTestClient(server.URL).Chat(context.Background(), ChatRequest{Question: "q"})
	require.NoError(t, err)
	assert.Equal(t, "Yes. Give notice.", reply)
}

func TestChat_EmptyHistorySerializesAsArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"history":[]`)
		io.WriteString(w, `{"response":"ok"}`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Chat(context.Background(), ChatRequest{Question: "q"})
	require.NoError(t, err)
}

func TestChat_ErrorDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"detail":"model overloaded"}`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Chat(context.Background(), ChatRequest{Question: "q"})
	require.Error(t, err)
	assert.Equal(t, "model overloaded", err.Error())
}

// =============================================================================
// BASE URL
// =============================================================================

func TestResolveBaseURL(t *testing.T) {
	const local, deployed = "http://127.0.0.1:8000", "https://api.example.com"
	tests := []struct {
		host string
		want string
	}{
		{"localhost", local},
		{"LOCALHOST:5173", local},
		{"127.0.0.1", local},
		{"127.1.2.3:8080", local},
		{"[::1]:3000", local},
		{"::1", local},
		{"app.localhost", local},
		{"legalease.example.com", deployed},
		{"192.168.1.10", deployed},
		{"", deployed},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveBaseURL(tt.host, local, deployed))
		})
	}
}

func TestNewClientTrimsSlash(t *testing.T) {
	c := NewClient("http://example.com/")
	assert.Equal(t, "http://example.com", c.BaseURL())
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"message":"LegalEase API is running"}`)
	}))
	defer server.Close()
	assert.NoError(t, newTestClient(server.URL).Ping(context.Background()))
}
