package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mdjvazquez/finmks-v/internal/application/dto"
	"github.com/mdjvazquez/finmks-v/internal/application/ports"
)

var (
	_ ports.ReceiptAnalyzer = (*AnthropicService)(nil)
	_ ports.ReportNarrator  = (*AnthropicService)(nil)
)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"
)

// AnthropicService adaptador sobre la Messages API de Anthropic (Claude).
type AnthropicService struct {
	apiKey     string
	model      string
	url        string
	httpClient *http.Client
}

// AnthropicOption configura el adaptador.
type AnthropicOption func(*AnthropicService)

// WithAnthropicURL cambia el endpoint de mensajes (pruebas con httptest).
func WithAnthropicURL(url string) AnthropicOption {
	return func(s *AnthropicService) { s.url = url }
}

// NewAnthropicService construye el adaptador.
// Si apiKey está vacío las llamadas devuelven error descriptivo en lugar de panic.
func NewAnthropicService(apiKey, model string, opts ...AnthropicOption) *AnthropicService {
	s := &AnthropicService{
		apiKey: apiKey,
		model:  model,
		url:    anthropicMessagesURL,
		httpClient: &http.Client{
			// El use case impone además un context.WithTimeout de 10 s.
			Timeout: 25 * time.Second,
		},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ── Protocolo Messages API ────────────────────────────────────────────────────

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string           `json:"role"`
	Content []anthropicBlock `json:"content"`
}

type anthropicBlock struct {
	Type   string           `json:"type"`
	Text   string           `json:"text,omitempty"`
	Source *anthropicSource `json:"source,omitempty"`
}

type anthropicSource struct {
	Type      string `json:"type"` // base64
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// AnalyzeReceipt envía el comprobante como bloque de imagen.
func (s *AnthropicService) AnalyzeReceipt(ctx context.Context, image []byte, mimeType string) (*dto.ReceiptSuggestion, error) {
	img, mime, err := PrepareReceiptImage(image, mimeType)
	if err != nil {
		return nil, err
	}
	text, err := s.send(ctx, anthropicRequest{
		Model:     s.model,
		MaxTokens: 512,
		System:    receiptPrompt,
		Messages: []anthropicMessage{{
			Role: "user",
			Content: []anthropicBlock{
				{Type: "image", Source: &anthropicSource{
					Type: "base64", MediaType: mime, Data: base64.StdEncoding.EncodeToString(img),
				}},
				{Type: "text", Text: "Extrae la transacción de este comprobante."},
			},
		}},
	})
	if err != nil {
		return nil, err
	}
	return parseReceipt(text)
}

// Narrate pide el análisis del reporte.
func (s *AnthropicService) Narrate(ctx context.Context, req dto.NarrationRequest) (*dto.NarrationResult, error) {
	system, user, err := narrationInput(req)
	if err != nil {
		return nil, err
	}
	text, err := s.send(ctx, anthropicRequest{
		Model:     s.model,
		MaxTokens: 2048,
		System:    system,
		Messages:  []anthropicMessage{{Role: "user", Content: []anthropicBlock{{Type: "text", Text: user}}}},
	})
	if err != nil {
		return nil, err
	}
	return parseNarration(text)
}

func (s *AnthropicService) send(ctx context.Context, payload anthropicRequest) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: ANTHROPIC_API_KEY no configurado")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("AI: leer respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp anthropicResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return "", fmt.Errorf("AI: Anthropic error (%s): %s", errResp.Error.Type, errResp.Error.Message)
		}
		return "", fmt.Errorf("AI: Anthropic HTTP %d", resp.StatusCode)
	}

	var anthResp anthropicResponse
	if err := json.Unmarshal(rawBody, &anthResp); err != nil {
		return "", fmt.Errorf("AI: deserializar respuesta Anthropic: %w", err)
	}
	var sb strings.Builder
	for _, c := range anthResp.Content {
		if c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("AI: Claude devolvió respuesta vacía")
	}
	return sb.String(), nil
}
