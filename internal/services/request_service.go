package services

import (
	"context"
	"net/http"

	"github.com/senyabanana/estate-service/internal/models"
	"github.com/senyabanana/estate-service/internal/repository"
	"github.com/senyabanana/estate-service/internal/utils"
)

type RequestService struct {
	Repo repository.BrokerRequestRepository
}

// NewRequestService создаёт новый экземпляр RequestService.
func NewRequestService(repo repository.BrokerRequestRepository) *RequestService {
	return &RequestService{Repo: repo}
}

// SubmitRequest создает заявку брокера со статусом pending.
func (s *RequestService) SubmitRequest(ctx context.Context, brokerId string, form models.BrokerRequestForm) (*models.BrokerRequest, error) {
	if form.Title == "" || form.Description == "" || form.Price == "" || len(form.Images) == 0 {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "title, description, price and at least one image are required")
	}

	request := &models.BrokerRequest{
		BrokerID:      brokerId,
		Title:         form.Title,
		Description:   form.Description,
		Price:         utils.ParsePrice(form.Price),
		SquareMeter:   utils.ParseOptionalInt(form.SquareMeter),
		Bedrooms:      utils.ParseOptionalInt(form.Bedrooms),
		Location:      utils.OptionalString(form.Location),
		City:          utils.OptionalString(form.City),
		Type:          models.HouseType(utils.StringOrDefault(form.Type, string(models.TypeHouse))),
		Floor:         utils.ParseOptionalInt(form.Floor),
		Amenities:     utils.CoerceAmenities(form.Amenities),
		ContactName:   utils.OptionalString(form.ContactName),
		ContactEmail:  utils.OptionalString(form.ContactEmail),
		ContactPhone:  utils.OptionalString(form.ContactPhone),
		TitleAm:       utils.OptionalString(form.TitleAm),
		TitleTi:       utils.OptionalString(form.TitleTi),
		DescriptionAm: utils.OptionalString(form.DescriptionAm),
		DescriptionTi: utils.OptionalString(form.DescriptionTi),
		Images:        form.Images,
	}

	created, err := s.Repo.CreateRequest(ctx, request)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to create broker request")
	}
	return created, nil
}

// FetchUserRequests возвращает неудаленные заявки брокера от новых к старым.
func (s *RequestService) FetchUserRequests(ctx context.Context, brokerId string) ([]models.BrokerRequest, error) {
	requests, err := s.Repo.GetUserRequests(ctx, brokerId)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to load requests")
	}
	return requests, nil
}

// FetchAdminRequests возвращает заявки с контактами брокеров для модерации.
func (s *RequestService) FetchAdminRequests(ctx context.Context) ([]models.AdminBrokerRequest, error) {
	requests, err := s.Repo.GetAdminRequests(ctx)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to load broker requests")
	}
	return requests, nil
}

// Decide применяет решение администратора по заявке. Отклонение лишь
// сохраняет статус и заметку, одобрение публикует объявление и возвращает
// его идентификатор. Повторное одобрение запрещено.
func (s *RequestService) Decide(ctx context.Context, requestId, action string, note *string) (*string, error) {
	request, err := s.Repo.GetRequestByID(ctx, requestId)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if request == nil {
		return nil, models.NewErrorResponse(http.StatusNotFound, "request not found")
	}

	switch action {
	case "reject":
		if err := s.Repo.RejectRequest(ctx, requestId, note); err != nil {
			return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to update request")
		}
		return nil, nil
	case "approve":
		if request.Status == models.ApprovedRequest {
			return nil, models.NewErrorResponse(http.StatusBadRequest, "request is already approved")
		}
		houseId, err := s.Repo.ApproveRequest(ctx, request, note)
		if err != nil {
			if errorResponse, ok := err.(*models.ErrorResponse); ok {
				return nil, errorResponse
			}
			return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to update request")
		}
		return &houseId, nil
	default:
		return nil, models.NewErrorResponse(http.StatusBadRequest, "invalid action")
	}
}

// EditBrokerHouse обновляет опубликованное объявление от имени брокера.
// Право на правку дает только заявка этого брокера, породившая объявление.
func (s *RequestService) EditBrokerHouse(ctx context.Context, brokerId, houseId string, update models.BrokerHouseUpdate) error {
	request, err := s.ownedRequest(ctx, brokerId, houseId, "not authorized to edit this property")
	if err != nil {
		return err
	}
	if err := s.Repo.UpdateBrokerHouse(ctx, request.ID, houseId, update); err != nil {
		return models.NewErrorResponse(http.StatusInternalServerError, "failed to update property")
	}
	return nil
}

// DeleteBrokerHouse удаляет опубликованное объявление от имени брокера и
// переводит породившую его заявку в статус deleted.
func (s *RequestService) DeleteBrokerHouse(ctx context.Context, brokerId, houseId string) error {
	request, err := s.ownedRequest(ctx, brokerId, houseId, "not authorized to delete this property")
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteBrokerHouse(ctx, request.ID, houseId); err != nil {
		return models.NewErrorResponse(http.StatusInternalServerError, "failed to delete property")
	}
	return nil
}

func (s *RequestService) ownedRequest(ctx context.Context, brokerId, houseId, forbiddenMessage string) (*models.BrokerRequest, error) {
	request, err := s.Repo.GetOwnedRequest(ctx, brokerId, houseId)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if request == nil {
		return nil, models.NewErrorResponse(http.StatusForbidden, forbiddenMessage)
	}
	return request, nil
}
