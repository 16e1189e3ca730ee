package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/mdjvazquez/finmks-v/internal/application/dto"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
)

// maxResponseBytes límite de lectura del cuerpo de respuesta de los proveedores.
const maxResponseBytes = 256 * 1024

const receiptPrompt = `Eres un asistente contable. Analiza la imagen del comprobante (ticket, factura o recibo)
y devuelve ÚNICAMENTE un objeto JSON (sin texto adicional) con esta estructura; omite los campos que no puedas leer:
{
  "amount": <número, total del comprobante>,
  "date": "<YYYY-MM-DD>",
  "due_date": "<YYYY-MM-DD, solo si el comprobante indica vencimiento>",
  "description": "<concepto breve, máximo 80 caracteres>",
  "group": "OPERATING" | "INVESTING" | "FINANCING",
  "type": "INCOME" | "EXPENSE",
  "account_type": "CASH" | "RECEIVABLE" | "PAYABLE",
  "status": "PENDING" | "PAID"
}

Reglas:
- Un ticket pagado en el momento es EXPENSE, CASH, PAID.
- Una factura con fecha de vencimiento futura es PAYABLE, PENDING.
- Compra de equipo, mobiliario o vehículos es INVESTING; préstamos y aportaciones son FINANCING.`

const narrationPrompt = `Eres un analista financiero. Recibes un estado financiero (%s) en JSON y sus razones financieras.
Responde en %s y devuelve ÚNICAMENTE un objeto JSON con esta estructura:
{
  "summary": "<análisis general en 2 a 4 párrafos>",
  "ratios": [{"name": "<nombre exacto recibido>", "value": "<valor exacto recibido>", "analysis": "<interpretación breve>"}]
}

Reglas:
- No cambies el nombre ni el valor de ninguna razón; solo agrega "analysis".
- No inventes cifras que no estén en el estado financiero.`

// jsonBlockRe extrae el primer objeto JSON del texto aunque el modelo lo envuelva en markdown.
// Captura desde el primer '{' hasta el último '}'.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSON extrae el objeto JSON de un texto libre.
//  1. Elimina bloques de código markdown (```json … ``` o ``` … ```).
//  2. Usa regex para capturar el primer bloque { … }.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	return strings.TrimSpace(jsonBlockRe.FindString(text))
}

// languageName nombre del idioma para el prompt.
func languageName(lang string) string {
	if strings.EqualFold(lang, entity.LanguageEN) {
		return "inglés"
	}
	return "español"
}

// narrationInput arma el mensaje de usuario con el payload y las razones.
func narrationInput(req dto.NarrationRequest) (system, user string, err error) {
	payload, err := json.Marshal(struct {
		Data   entity.ReportData       `json:"data"`
		Ratios []entity.FinancialRatio `json:"ratios"`
	}{req.Data, req.Ratios})
	if err != nil {
		return "", "", fmt.Errorf("AI: serializar reporte: %w", err)
	}
	return fmt.Sprintf(narrationPrompt, req.ReportType, languageName(req.Language)), string(payload), nil
}

type narrationPayload struct {
	Summary string                  `json:"summary"`
	Ratios  []entity.FinancialRatio `json:"ratios"`
}

// parseNarration interpreta la respuesta del modelo. Un resumen vacío es error.
func parseNarration(raw string) (*dto.NarrationResult, error) {
	clean := extractJSON(raw)
	if clean == "" {
		return nil, fmt.Errorf("AI: no se encontró JSON en la narración")
	}
	var p narrationPayload
	if err := json.Unmarshal([]byte(clean), &p); err != nil {
		return nil, fmt.Errorf("AI: parsear narración: %w", err)
	}
	if strings.TrimSpace(p.Summary) == "" {
		return nil, fmt.Errorf("AI: narración vacía")
	}
	return &dto.NarrationResult{Summary: strings.TrimSpace(p.Summary), Ratios: p.Ratios}, nil
}

// parseReceipt interpreta la sugerencia; la validación de cada campo la hace el use case.
func parseReceipt(raw string) (*dto.ReceiptSuggestion, error) {
	clean := extractJSON(raw)
	if clean == "" {
		return nil, fmt.Errorf("AI: no se encontró JSON en el análisis del comprobante")
	}
	var s dto.ReceiptSuggestion
	if err := json.Unmarshal([]byte(clean), &s); err != nil {
		return nil, fmt.Errorf("AI: parsear comprobante: %w", err)
	}
	return &s, nil
}
