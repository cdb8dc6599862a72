package services

import (
	"context"
	"net/http"

	"github.com/senyabanana/estate-service/internal/models"
	"github.com/senyabanana/estate-service/internal/repository"
)

type FeedbackService struct {
	Repo repository.FeedbackRepository
}

// NewFeedbackService создаёт новый экземпляр FeedbackService.
func NewFeedbackService(repo repository.FeedbackRepository) *FeedbackService {
	return &FeedbackService{Repo: repo}
}

// SubmitFeedback сохраняет новое сообщение обратной связи.
func (s *FeedbackService) SubmitFeedback(ctx context.Context, feedbackReq models.FeedbackRequest) (*models.Feedback, error) {
	if feedbackReq.Name == "" || feedbackReq.Email == "" || feedbackReq.Message == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "all fields are required")
	}
	feedback, err := s.Repo.CreateFeedback(ctx, feedbackReq)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to submit feedback")
	}
	return feedback, nil
}

// FetchFeedback возвращает все сообщения от новых к старым.
func (s *FeedbackService) FetchFeedback(ctx context.Context) ([]models.Feedback, error) {
	messages, err := s.Repo.GetFeedback(ctx)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to retrieve feedback")
	}
	return messages, nil
}

// UpdateFeedbackStatus меняет статус сообщения, по умолчанию на read.
func (s *FeedbackService) UpdateFeedbackStatus(ctx context.Context, feedbackId, status string) error {
	if status == "" {
		status = string(models.ReadFeedback)
	}
	updated, err := s.Repo.UpdateFeedbackStatus(ctx, feedbackId, models.FeedbackStatus(status))
	if err != nil {
		return models.NewErrorResponse(http.StatusInternalServerError, "failed to update feedback")
	}
	if !updated {
		return models.NewErrorResponse(http.StatusNotFound, "feedback not found")
	}
	return nil
}

// DeleteFeedback удаляет сообщение.
func (s *FeedbackService) DeleteFeedback(ctx context.Context, feedbackId string) error {
	deleted, err := s.Repo.DeleteFeedback(ctx, feedbackId)
	if err != nil {
		return models.NewErrorResponse(http.StatusInternalServerError, "failed to delete feedback")
	}
	if !deleted {
		return models.NewErrorResponse(http.StatusNotFound, "feedback not found")
	}
	return nil
}
