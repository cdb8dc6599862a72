package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/senyabanana/estate-service/internal/models"
	"github.com/senyabanana/estate-service/internal/services"
	"github.com/senyabanana/estate-service/internal/storage"
	"github.com/senyabanana/estate-service/internal/utils"
)

// maxImages ограничивает число изображений в одной форме.
const maxImages = 10

// HouseHandler - структура для обработки HTTP-запросов каталога объявлений.
type HouseHandler struct {
	Service *services.HouseService
	Uploads *storage.Uploads
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewHouseHandler создаёт новый экземпляр HouseHandler.
func NewHouseHandler(service *services.HouseService, uploads *storage.Uploads, logger *slog.Logger, timeout time.Duration) *HouseHandler {
	return &HouseHandler{
		Service: service,
		Uploads: uploads,
		Logger:  logger,
		Timeout: timeout,
	}
}

// GetHouses обрабатывает запросы для получения каталога объявлений.
func (h *HouseHandler) GetHouses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	lang := r.URL.Query().Get("lang")

	houses, err := h.Service.FetchHouses(ctx, lang)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Error("failed to fetch houses", "error", err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Error("failed to fetch houses", "error", err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to load houses")
		return
	}

	if houses == nil {
		houses = []models.House{}
	}
	utils.SendJSONResponse(w, houses)
}

// CreateHouse обрабатывает запросы для создания объявления администратором.
func (h *HouseHandler) CreateHouse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	form, ok := h.parseHouseForm(w, r)
	if !ok {
		return
	}

	house, err := h.Service.CreateHouse(ctx, *form)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Error("failed to create house", "error", err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Error("failed to create house", "error", err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to add house")
		return
	}

	utils.SendJSONResponse(w, map[string]interface{}{"success": true, "id": house.ID})
}

// UpdateHouse обрабатывает запросы для полного обновления объявления.
func (h *HouseHandler) UpdateHouse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only PUT is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	houseId := r.PathValue("houseId")

	form, ok := h.parseHouseForm(w, r)
	if !ok {
		return
	}

	if _, err := h.Service.UpdateHouse(ctx, houseId, *form); err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Error("failed to update house", "error", err, "house_id", houseId)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Error("failed to update house", "error", err, "house_id", houseId)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to update house")
		return
	}

	utils.SendJSONResponse(w, map[string]interface{}{"success": true})
}

// DeleteHouse обрабатывает запросы для удаления объявления.
func (h *HouseHandler) DeleteHouse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only DELETE is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	houseId := r.PathValue("houseId")

	if err := h.Service.DeleteHouse(ctx, houseId); err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Error("failed to delete house", "error", err, "house_id", houseId)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Error("failed to delete house", "error", err, "house_id", houseId)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to delete house")
		return
	}

	utils.SendJSONResponse(w, map[string]interface{}{"success": true})
}

// parseHouseForm разбирает multipart-форму объявления и сохраняет загруженные
// файлы. Ответ об ошибке уже отправлен, если второй результат false.
func (h *HouseHandler) parseHouseForm(w http.ResponseWriter, r *http.Request) (*models.HouseForm, bool) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid form data")
		return nil, false
	}

	files := r.MultipartForm.File["images"]
	if len(files) > maxImages {
		utils.SendErrorResponse(w, http.StatusBadRequest, "a maximum of 10 images is allowed")
		return nil, false
	}
	images, err := h.Uploads.SaveAll(files)
	if err != nil {
		h.Logger.Error("failed to store uploaded images", "error", err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to store uploaded images")
		return nil, false
	}

	form := models.HouseForm{
		Title:         r.FormValue("title"),
		Description:   r.FormValue("description"),
		Price:         r.FormValue("price"),
		SquareMeter:   r.FormValue("square_meter"),
		Bedrooms:      r.FormValue("bedrooms"),
		Location:      r.FormValue("location"),
		City:          r.FormValue("city"),
		Type:          r.FormValue("type"),
		Status:        r.FormValue("status"),
		Floor:         r.FormValue("floor"),
		TitleEn:       r.FormValue("title_en"),
		TitleAm:       r.FormValue("title_am"),
		TitleTi:       r.FormValue("title_ti"),
		DescriptionEn: r.FormValue("description_en"),
		DescriptionAm: r.FormValue("description_am"),
		DescriptionTi: r.FormValue("description_ti"),
		AdminName:     r.FormValue("admin_name"),
		AdminEmail:    r.FormValue("admin_email"),
		AdminPhone:    r.FormValue("admin_phone"),
		Amenities:     utils.AmenityFormValues(url.Values(r.MultipartForm.Value)),
		Images:        images,
	}
	return &form, true
}
