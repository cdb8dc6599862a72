package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/senyabanana/estate-service/internal/models"
	"github.com/senyabanana/estate-service/internal/services"
	"github.com/senyabanana/estate-service/internal/utils"
)

// FeedbackHandler - структура для обработки HTTP-запросов обратной связи.
type FeedbackHandler struct {
	Service *services.FeedbackService
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewFeedbackHandler создаёт новый экземпляр FeedbackHandler.
func NewFeedbackHandler(service *services.FeedbackService, logger *slog.Logger, timeout time.Duration) *FeedbackHandler {
	return &FeedbackHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// SubmitFeedback обрабатывает отправку сообщения обратной связи.
func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var feedbackReq models.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&feedbackReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	feedback, err := h.Service.SubmitFeedback(ctx, feedbackReq)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Error("failed to submit feedback", "error", err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Error("failed to submit feedback", "error", err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to submit feedback")
		return
	}

	utils.SendJSONResponse(w, map[string]interface{}{
		"success": true,
		"id":      feedback.ID,
		"message": "Feedback submitted successfully!",
	})
}

// GetFeedback обрабатывает запрос всех сообщений обратной связи.
func (h *FeedbackHandler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	messages, err := h.Service.FetchFeedback(ctx)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Error("failed to fetch feedback", "error", err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Error("failed to fetch feedback", "error", err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to retrieve feedback")
		return
	}

	if messages == nil {
		messages = []models.Feedback{}
	}
	utils.SendJSONResponse(w, messages)
}

// UpdateFeedback обрабатывает смену статуса сообщения.
func (h *FeedbackHandler) UpdateFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only PUT is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	feedbackId := r.PathValue("feedbackId")

	var statusUpdate models.FeedbackStatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&statusUpdate); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.UpdateFeedbackStatus(ctx, feedbackId, statusUpdate.Status); err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Error("failed to update feedback", "error", err, "feedback_id", feedbackId)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Error("failed to update feedback", "error", err, "feedback_id", feedbackId)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to update feedback")
		return
	}

	utils.SendJSONResponse(w, map[string]interface{}{"success": true})
}

// DeleteFeedback обрабатывает удаление сообщения.
func (h *FeedbackHandler) DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only DELETE is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	feedbackId := r.PathValue("feedbackId")

	if err := h.Service.DeleteFeedback(ctx, feedbackId); err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Error("failed to delete feedback", "error", err, "feedback_id", feedbackId)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Error("failed to delete feedback", "error", err, "feedback_id", feedbackId)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to delete feedback")
		return
	}

	utils.SendJSONResponse(w, map[string]interface{}{"success": true})
}
