package entity

import "time"

// Severity de una notificación.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// NotificationType ventana de vencimiento.
type NotificationType string

const (
	NotificationOverdue  NotificationType = "OVERDUE"
	NotificationDueSoon  NotificationType = "DUE_SOON"
	NotificationUpcoming NotificationType = "UPCOMING"
)

// Notification alerta derivada de una transacción pendiente; nunca se persiste.
type Notification struct {
	ID            string
	TransactionID string
	Message       string
	Severity      Severity
	Date          time.Time
	Type          NotificationType
}
