package dto

// NotificationResponse alerta de vencimiento.
type NotificationResponse struct {
	ID            string `json:"id"`
	TransactionID string `json:"transaction_id"`
	Message       string `json:"message"`
	Severity      string `json:"severity"`
	Date          string `json:"date"`
	Type          string `json:"type"`
}
