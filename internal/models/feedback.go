package models

import "time"

// FeedbackStatus - статус сообщения обратной связи
type FeedbackStatus string

const (
	UnreadFeedback FeedbackStatus = "unread" // Сообщение не прочитано
	ReadFeedback   FeedbackStatus = "read"   // Сообщение прочитано
)

// Feedback представляет модель сообщения обратной связи.
type Feedback struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Message string         `json:"message"`
	Date    time.Time      `json:"date"`
	Status  FeedbackStatus `json:"status"`
}

// FeedbackRequest представляет структуру запроса для отправки сообщения.
type FeedbackRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// FeedbackStatusUpdate представляет структуру запроса смены статуса сообщения.
type FeedbackStatusUpdate struct {
	Status string `json:"status"`
}
