package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/senyabanana/estate-service/internal/models"
	"github.com/senyabanana/estate-service/internal/services"
	"github.com/senyabanana/estate-service/internal/storage"
	"github.com/senyabanana/estate-service/internal/utils"
)

// RequestHandler - структура для обработки HTTP-запросов заявок брокеров
// и решений администратора по ним.
type RequestHandler struct {
	Service *services.RequestService
	Brokers *services.BrokerService
	Uploads *storage.Uploads
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewRequestHandler создаёт новый экземпляр RequestHandler.
func NewRequestHandler(service *services.RequestService, brokers *services.BrokerService, uploads *storage.Uploads, logger *slog.Logger, timeout time.Duration) *RequestHandler {
	return &RequestHandler{
		Service: service,
		Brokers: brokers,
		Uploads: uploads,
		Logger:  logger,
		Timeout: timeout,
	}
}

// CreateRequest обрабатывает подачу заявки брокером.
func (h *RequestHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	broker := h.authBroker(ctx, w, r)
	if broker == nil {
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid form data")
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) > maxImages {
		utils.SendErrorResponse(w, http.StatusBadRequest, "a maximum of 10 images is allowed")
		return
	}
	images, err := h.Uploads.SaveAll(files)
	if err != nil {
		h.Logger.Error("failed to store uploaded images", "error", err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to store uploaded images")
		return
	}

	form := models.BrokerRequestForm{
		Title:         r.FormValue("title"),
		Description:   r.FormValue("description"),
		Price:         r.FormValue("price"),
		SquareMeter:   r.FormValue("square_meter"),
		Bedrooms:      r.FormValue("bedrooms"),
		Location:      r.FormValue("location"),
		City:          r.FormValue("city"),
		Type:          r.FormValue("type"),
		Floor:         r.FormValue("floor"),
		ContactName:   r.FormValue("contact_name"),
		ContactEmail:  r.FormValue("contact_email"),
		ContactPhone:  r.FormValue("contact_phone"),
		TitleAm:       r.FormValue("title_am"),
		TitleTi:       r.FormValue("title_ti"),
		DescriptionAm: r.FormValue("description_am"),
		DescriptionTi: r.FormValue("description_ti"),
		Amenities:     utils.AmenityFormValues(url.Values(r.MultipartForm.Value)),
		Images:        images,
	}

	request, err := h.Service.SubmitRequest(ctx, broker.ID, form)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Error("failed to create broker request", "error", err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Error("failed to create broker request", "error", err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to create broker request")
		return
	}

	utils.SendJSONResponse(w, map[string]interface{}{"success": true, "id": request.ID})
}

// GetMyRequests обрабатывает запрос заявок текущего брокера.
func (h *RequestHandler) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	broker := h.authBroker(ctx, w, r)
	if broker == nil {
		return
	}

	requests, err := h.Service.FetchUserRequests(ctx, broker.ID)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Error("failed to load broker requests", "error", err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Error("failed to load broker requests", "error", err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to load requests")
		return
	}

	if requests == nil {
		requests = []models.BrokerRequest{}
	}
	utils.SendJSONResponse(w, requests)
}

// GetAdminRequests обрабатывает запрос всех заявок для модерации.
func (h *RequestHandler) GetAdminRequests(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	requests, err := h.Service.FetchAdminRequests(ctx)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Error("failed to load broker requests", "error", err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Error("failed to load broker requests", "error", err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to load broker requests")
		return
	}

	if requests == nil {
		requests = []models.AdminBrokerRequest{}
	}
	utils.SendJSONResponse(w, requests)
}

// DecideRequest обрабатывает решение администратора по заявке.
func (h *RequestHandler) DecideRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	requestId := r.PathValue("requestId")

	var decision models.DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&decision); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	houseId, err := h.Service.Decide(ctx, requestId, decision.Action, decision.Note)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Error("failed to decide broker request", "error", err, "request_id", requestId)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Error("failed to decide broker request", "error", err, "request_id", requestId)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to update request")
		return
	}

	response := map[string]interface{}{"success": true}
	if houseId != nil {
		response["houseId"] = *houseId
	}
	utils.SendJSONResponse(w, response)
}

// UpdateBrokerHouse обрабатывает правку опубликованного объявления брокером.
func (h *RequestHandler) UpdateBrokerHouse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only PUT is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	broker := h.authBroker(ctx, w, r)
	if broker == nil {
		return
	}

	houseId := r.PathValue("houseId")

	var update models.BrokerHouseUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.EditBrokerHouse(ctx, broker.ID, houseId, update); err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Error("failed to update broker house", "error", err, "house_id", houseId)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Error("failed to update broker house", "error", err, "house_id", houseId)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to update property")
		return
	}

	utils.SendJSONResponse(w, map[string]interface{}{"success": true})
}

// DeleteBrokerHouse обрабатывает удаление опубликованного объявления брокером.
func (h *RequestHandler) DeleteBrokerHouse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only DELETE is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	broker := h.authBroker(ctx, w, r)
	if broker == nil {
		return
	}

	houseId := r.PathValue("houseId")

	if err := h.Service.DeleteBrokerHouse(ctx, broker.ID, houseId); err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Error("failed to delete broker house", "error", err, "house_id", houseId)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Error("failed to delete broker house", "error", err, "house_id", houseId)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to delete property")
		return
	}

	utils.SendJSONResponse(w, map[string]interface{}{"success": true})
}

// authBroker аутентифицирует брокера по токену из заголовка.
// При неудаче ответ уже отправлен и возвращается nil.
func (h *RequestHandler) authBroker(ctx context.Context, w http.ResponseWriter, r *http.Request) *models.Broker {
	broker, err := h.Brokers.Authenticate(ctx, r.Header.Get(brokerTokenHeader))
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return nil
		}
		h.Logger.Error("failed to authenticate broker", "error", err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "internal server error")
		return nil
	}
	return broker
}
