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

// Verificar en tiempo de compilación que GeminiService implementa ambos puertos.
var (
	_ ports.ReceiptAnalyzer = (*GeminiService)(nil)
	_ ports.ReportNarrator  = (*GeminiService)(nil)
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiService adaptador sobre la API REST de Google Gemini: analiza comprobantes (imagen inline)
// y narra reportes. response_mime_type=application/json obliga al modelo a devolver JSON puro.
type GeminiService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// GeminiOption configura el adaptador.
type GeminiOption func(*GeminiService)

// WithGeminiBaseURL cambia el endpoint (pruebas con httptest).
func WithGeminiBaseURL(url string) GeminiOption {
	return func(s *GeminiService) { s.baseURL = strings.TrimRight(url, "/") }
}

// NewGeminiService construye el adaptador. model suele ser "gemini-1.5-flash".
func NewGeminiService(apiKey, model string, opts ...GeminiOption) *GeminiService {
	s := &GeminiService{
		apiKey:  apiKey,
		model:   model,
		baseURL: geminiBaseURL,
		httpClient: &http.Client{
			Timeout: 20 * time.Second, // timeout de red; el use case también pone WithTimeout
		},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ── Estructuras internas para la API de Gemini ────────────────────────────────

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  genConfig       `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

type genConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"`
	Temperature      float32 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ── Implementación de los puertos ─────────────────────────────────────────────

// AnalyzeReceipt envía la imagen preprocesada y devuelve la transacción sugerida.
func (s *GeminiService) AnalyzeReceipt(ctx context.Context, image []byte, mimeType string) (*dto.ReceiptSuggestion, error) {
	img, mime, err := PrepareReceiptImage(image, mimeType)
	if err != nil {
		return nil, err
	}
	text, err := s.generate(ctx, geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: receiptPrompt}}},
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{InlineData: &inlineData{MimeType: mime, Data: base64.StdEncoding.EncodeToString(img)}},
				{Text: "Extrae la transacción de este comprobante."},
			},
		}},
		GenerationConfig: genConfig{ResponseMIMEType: "application/json", Temperature: 0.1, MaxOutputTokens: 512},
	})
	if err != nil {
		return nil, err
	}
	return parseReceipt(text)
}

// Narrate pide el análisis del reporte en el idioma indicado.
func (s *GeminiService) Narrate(ctx context.Context, req dto.NarrationRequest) (*dto.NarrationResult, error) {
	system, user, err := narrationInput(req)
	if err != nil {
		return nil, err
	}
	text, err := s.generate(ctx, geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: system}}},
		Contents:          []geminiContent{{Role: "user", Parts: []geminiPart{{Text: user}}}},
		GenerationConfig:  genConfig{ResponseMIMEType: "application/json", Temperature: 0.3, MaxOutputTokens: 2048},
	})
	if err != nil {
		return nil, err
	}
	return parseNarration(text)
}

// generate hace la llamada generateContent y devuelve el texto del primer candidato.
func (s *GeminiService) generate(ctx context.Context, payload geminiRequest) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: GEMINI_API_KEY no configurado")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

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
		var errResp geminiResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return "", fmt.Errorf("AI: Gemini error %d: %s", errResp.Error.Code, errResp.Error.Message)
		}
		return "", fmt.Errorf("AI: Gemini HTTP %d", resp.StatusCode)
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(rawBody, &gemResp); err != nil {
		return "", fmt.Errorf("AI: deserializar respuesta Gemini: %w", err)
	}
	if len(gemResp.Candidates) == 0 || len(gemResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("AI: Gemini devolvió respuesta vacía")
	}
	return strings.TrimSpace(gemResp.Candidates[0].Content.Parts[0].Text), nil
}
