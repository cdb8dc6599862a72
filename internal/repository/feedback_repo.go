package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/senyabanana/estate-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FeedbackRepository - интерфейс для работы с сообщениями обратной связи.
type FeedbackRepository interface {
	CreateFeedback(ctx context.Context, feedbackReq models.FeedbackRequest) (*models.Feedback, error)
	GetFeedback(ctx context.Context) ([]models.Feedback, error)
	UpdateFeedbackStatus(ctx context.Context, feedbackId string, status models.FeedbackStatus) (bool, error)
	DeleteFeedback(ctx context.Context, feedbackId string) (bool, error)
}

// PostgresFeedbackRepository - реализация FeedbackRepository для базы данных.
type PostgresFeedbackRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresFeedbackRepository создаёт новый экземпляр PostgresFeedbackRepository.
func NewPostgresFeedbackRepository(db *pgxpool.Pool) *PostgresFeedbackRepository {
	return &PostgresFeedbackRepository{DB: db}
}

// CreateFeedback сохраняет новое сообщение со статусом unread.
func (r *PostgresFeedbackRepository) CreateFeedback(ctx context.Context, feedbackReq models.FeedbackRequest) (*models.Feedback, error) {
	newFeedback := models.Feedback{
		ID:      uuid.New().String(),
		Name:    feedbackReq.Name,
		Email:   feedbackReq.Email,
		Message: feedbackReq.Message,
		Date:    time.Now().UTC(),
		Status:  models.UnreadFeedback,
	}
	_, err := r.DB.Exec(ctx, `
       INSERT INTO feedback (id, name, email, message, date, status)
       VALUES ($1, $2, $3, $4, $5, $6)
   `,
		newFeedback.ID,
		newFeedback.Name,
		newFeedback.Email,
		newFeedback.Message,
		newFeedback.Date,
		newFeedback.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to insert feedback: %w", err)
	}
	return &newFeedback, nil
}

// GetFeedback возвращает все сообщения от новых к старым.
func (r *PostgresFeedbackRepository) GetFeedback(ctx context.Context) ([]models.Feedback, error) {
	query := `SELECT id, name, email, message, date, status FROM feedback ORDER BY date DESC, id DESC`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Feedback
	for rows.Next() {
		var feedback models.Feedback
		if err := rows.Scan(
			&feedback.ID,
			&feedback.Name,
			&feedback.Email,
			&feedback.Message,
			&feedback.Date,
			&feedback.Status); err != nil {
			return nil, err
		}
		messages = append(messages, feedback)
	}
	return messages, rows.Err()
}

// UpdateFeedbackStatus меняет статус сообщения. Возвращает false, если сообщения нет.
func (r *PostgresFeedbackRepository) UpdateFeedbackStatus(ctx context.Context, feedbackId string, status models.FeedbackStatus) (bool, error) {
	tag, err := r.DB.Exec(ctx, `UPDATE feedback SET status = $1 WHERE id = $2`, status, feedbackId)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteFeedback удаляет сообщение. Возвращает false, если сообщения нет.
func (r *PostgresFeedbackRepository) DeleteFeedback(ctx context.Context, feedbackId string) (bool, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM feedback WHERE id = $1`, feedbackId)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
