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

// brokerTokenHeader - заголовок с токеном брокера.
const brokerTokenHeader = "X-Broker-Token"

// BrokerHandler - структура для обработки HTTP-запросов входа брокеров.
type BrokerHandler struct {
	Service *services.BrokerService
	Secret  string
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewBrokerHandler создаёт новый экземпляр BrokerHandler.
func NewBrokerHandler(service *services.BrokerService, secret string, logger *slog.Logger, timeout time.Duration) *BrokerHandler {
	return &BrokerHandler{
		Service: service,
		Secret:  secret,
		Logger:  logger,
		Timeout: timeout,
	}
}

// VerifyBroker обрабатывает вход брокера. Пароль здесь - общий для всех
// брокеров секрет из конфигурации, он сверяется до обращения к реестру.
func (h *BrokerHandler) VerifyBroker(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var verifyReq models.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&verifyReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if verifyReq.Password != h.Secret {
		h.Logger.Warn("broker login with wrong password", "username", verifyReq.Username)
		utils.SendErrorResponse(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	broker, err := h.Service.Login(ctx, verifyReq.Username)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Error("failed to verify broker", "error", err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Error("failed to verify broker", "error", err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to verify broker")
		return
	}

	utils.SendJSONResponse(w, broker)
}

// GetProfile обрабатывает запрос профиля брокера по токену.
func (h *BrokerHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	broker, err := h.Service.Authenticate(ctx, r.Header.Get(brokerTokenHeader))
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Error("failed to load broker profile", "error", err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to load broker profile")
		return
	}

	broker.Token = ""
	utils.SendJSONResponse(w, broker)
}
