// Package testutil содержит in-memory реализации репозиториев для тестов,
// воспроизводящие контракты Postgres-реализаций без реальной базы.
package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/senyabanana/estate-service/internal/models"

	"github.com/google/uuid"
)

// FakeHouseRepo - in-memory реализация repository.HouseRepository.
type FakeHouseRepo struct {
	Houses []*models.House
}

// NewFakeHouseRepo создаёт пустое хранилище объявлений.
func NewFakeHouseRepo() *FakeHouseRepo {
	return &FakeHouseRepo{}
}

func (r *FakeHouseRepo) GetHouses(ctx context.Context) ([]models.House, error) {
	var houses []models.House
	for i := len(r.Houses) - 1; i >= 0; i-- {
		houses = append(houses, *r.Houses[i])
	}
	return houses, nil
}

func (r *FakeHouseRepo) GetHouseByID(ctx context.Context, houseId string) (*models.House, error) {
	for _, house := range r.Houses {
		if house.ID == houseId {
			copied := *house
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *FakeHouseRepo) CreateHouse(ctx context.Context, house *models.House) (*models.House, error) {
	house.ID = uuid.New().String()
	house.CreatedAt = time.Now().UTC()
	house.Image = house.Cover()
	stored := *house
	r.Houses = append(r.Houses, &stored)
	return house, nil
}

func (r *FakeHouseRepo) UpdateHouse(ctx context.Context, house *models.House, replaceImages bool) error {
	for i, stored := range r.Houses {
		if stored.ID == house.ID {
			updated := *house
			if !replaceImages {
				updated.Images = stored.Images
			}
			updated.Image = updated.Cover()
			updated.CreatedAt = stored.CreatedAt
			r.Houses[i] = &updated
			return nil
		}
	}
	return nil
}

func (r *FakeHouseRepo) DeleteHouse(ctx context.Context, houseId string) error {
	for i, stored := range r.Houses {
		if stored.ID == houseId {
			r.Houses = append(r.Houses[:i], r.Houses[i+1:]...)
			return nil
		}
	}
	return nil
}

// FakeBrokerRepo - in-memory реализация repository.BrokerRepository.
type FakeBrokerRepo struct {
	Brokers []*models.Broker
}

// NewFakeBrokerRepo создаёт пустое хранилище брокеров.
func NewFakeBrokerRepo() *FakeBrokerRepo {
	return &FakeBrokerRepo{}
}

func (r *FakeBrokerRepo) GetBrokerByHandle(ctx context.Context, handle string) (*models.Broker, error) {
	for _, broker := range r.Brokers {
		if broker.Handle == handle {
			copied := *broker
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *FakeBrokerRepo) GetBrokerByToken(ctx context.Context, token string) (*models.Broker, error) {
	if token == "" {
		return nil, nil
	}
	for _, broker := range r.Brokers {
		if broker.Token == token {
			copied := *broker
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *FakeBrokerRepo) CreateBroker(ctx context.Context, handle, token string) (*models.Broker, error) {
	broker := &models.Broker{
		ID:     uuid.New().String(),
		Name:   handle,
		Handle: handle,
		Status: models.ApprovedBroker,
		Token:  token,
	}
	r.Brokers = append(r.Brokers, broker)
	copied := *broker
	return &copied, nil
}

func (r *FakeBrokerRepo) RefreshLogin(ctx context.Context, brokerId, name, token string) (*models.Broker, error) {
	for _, broker := range r.Brokers {
		if broker.ID == brokerId {
			if name != "" {
				broker.Name = name
			}
			broker.Token = token
			broker.Status = models.ApprovedBroker
			copied := *broker
			return &copied, nil
		}
	}
	return nil, nil
}

// FakeRequestRepo - in-memory реализация repository.BrokerRequestRepository.
// Одобрение создает объявление в связанном FakeHouseRepo по тем же правилам,
// что и транзакция Postgres-реализации.
type FakeRequestRepo struct {
	Requests []*models.BrokerRequest
	Houses   *FakeHouseRepo
	Brokers  *FakeBrokerRepo
}

// NewFakeRequestRepo создаёт хранилище заявок поверх хранилищ объявлений и брокеров.
func NewFakeRequestRepo(houses *FakeHouseRepo, brokers *FakeBrokerRepo) *FakeRequestRepo {
	return &FakeRequestRepo{Houses: houses, Brokers: brokers}
}

func (r *FakeRequestRepo) CreateRequest(ctx context.Context, request *models.BrokerRequest) (*models.BrokerRequest, error) {
	request.ID = uuid.New().String()
	request.Status = models.PendingRequest
	request.CreatedAt = time.Now().UTC()
	if request.AmenitiesJSON == "" {
		amenitiesJSON, err := json.Marshal(request.Amenities)
		if err != nil {
			return nil, err
		}
		request.AmenitiesJSON = string(amenitiesJSON)
	}
	stored := *request
	r.Requests = append(r.Requests, &stored)
	return request, nil
}

func (r *FakeRequestRepo) GetUserRequests(ctx context.Context, brokerId string) ([]models.BrokerRequest, error) {
	var requests []models.BrokerRequest
	for i := len(r.Requests) - 1; i >= 0; i-- {
		request := r.Requests[i]
		if request.BrokerID == brokerId && request.Status != models.DeletedRequest {
			requests = append(requests, *request)
		}
	}
	return requests, nil
}

func (r *FakeRequestRepo) GetAdminRequests(ctx context.Context) ([]models.AdminBrokerRequest, error) {
	var requests []models.AdminBrokerRequest
	for i := len(r.Requests) - 1; i >= 0; i-- {
		request := r.Requests[i]
		if request.Status == models.DeletedRequest {
			continue
		}
		admin := models.AdminBrokerRequest{BrokerRequest: *request}
		for _, broker := range r.Brokers.Brokers {
			if broker.ID == request.BrokerID {
				admin.BrokerName = broker.Name
				admin.BrokerHandle = broker.Handle
				admin.BrokerPhone = broker.Phone
			}
		}
		requests = append(requests, admin)
	}
	return requests, nil
}

func (r *FakeRequestRepo) GetRequestByID(ctx context.Context, requestId string) (*models.BrokerRequest, error) {
	for _, request := range r.Requests {
		if request.ID == requestId {
			copied := *request
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *FakeRequestRepo) RejectRequest(ctx context.Context, requestId string, note *string) error {
	for _, request := range r.Requests {
		if request.ID == requestId {
			request.Status = models.RejectedRequest
			request.AdminNote = note
		}
	}
	return nil
}

func (r *FakeRequestRepo) ApproveRequest(ctx context.Context, request *models.BrokerRequest, note *string) (string, error) {
	var stored *models.BrokerRequest
	for _, candidate := range r.Requests {
		if candidate.ID == request.ID {
			stored = candidate
		}
	}
	if stored == nil || stored.Status == models.ApprovedRequest {
		return "", models.NewErrorResponse(http.StatusBadRequest, "request is already approved")
	}

	contactName := "Broker Listing"
	if stored.ContactName != nil && *stored.ContactName != "" {
		contactName = *stored.ContactName
	}
	house := &models.House{
		Title:           stored.Title,
		Description:     stored.Description,
		TitleJSON:       &models.LocalizedText{En: stored.Title},
		DescriptionJSON: &models.LocalizedText{En: stored.Description},
		Price:           stored.Price,
		Bedrooms:        stored.Bedrooms,
		Location:        stored.Location,
		City:            stored.City,
		Type:            stored.Type,
		Status:          models.AvailableHouse,
		Floor:           stored.Floor,
		Amenities:       stored.Amenities,
		Admin: models.ContactAdmin{
			Name:   &contactName,
			Email:  stored.ContactEmail,
			Phone:  stored.ContactPhone,
			Status: "online",
		},
		Images: append([]string(nil), stored.Images...),
	}
	created, err := r.Houses.CreateHouse(ctx, house)
	if err != nil {
		return "", err
	}

	stored.Status = models.ApprovedRequest
	stored.AdminNote = note
	stored.CreatedHouseID = &created.ID
	return created.ID, nil
}

func (r *FakeRequestRepo) GetOwnedRequest(ctx context.Context, brokerId, houseId string) (*models.BrokerRequest, error) {
	for _, request := range r.Requests {
		if request.BrokerID == brokerId && request.CreatedHouseID != nil && *request.CreatedHouseID == houseId {
			copied := *request
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *FakeRequestRepo) UpdateBrokerHouse(ctx context.Context, requestId, houseId string, update models.BrokerHouseUpdate) error {
	house, err := r.Houses.GetHouseByID(ctx, houseId)
	if err != nil || house == nil {
		return err
	}
	house.Title = update.Title
	house.Description = update.Description
	house.Price = update.Price
	house.SquareMeter = update.SquareMeter
	house.Bedrooms = update.Bedrooms
	house.Location = update.Location
	house.City = update.City
	house.Type = update.Type
	if house.Type == "" {
		house.Type = models.TypeHouse
	}
	house.Floor = update.Floor
	house.TitleJSON = &models.LocalizedText{
		En: update.Title,
		Am: derefString(update.TitleAm),
		Ti: derefString(update.TitleTi),
	}
	house.DescriptionJSON = &models.LocalizedText{
		En: update.Description,
		Am: derefString(update.DescriptionAm),
		Ti: derefString(update.DescriptionTi),
	}
	if update.AmenitiesJSON != "" {
		var amenities models.Amenities
		if err := json.Unmarshal([]byte(update.AmenitiesJSON), &amenities); err == nil {
			house.Amenities = amenities
		}
	}
	if err := r.Houses.UpdateHouse(ctx, house, false); err != nil {
		return err
	}

	for _, request := range r.Requests {
		if request.ID == requestId {
			request.Title = update.Title
			request.Description = update.Description
			request.Price = update.Price
			request.SquareMeter = update.SquareMeter
			request.Bedrooms = update.Bedrooms
			request.Location = update.Location
			request.City = update.City
			request.Type = house.Type
			request.Floor = update.Floor
			request.AmenitiesJSON = update.AmenitiesJSON
			request.TitleAm = update.TitleAm
			request.TitleTi = update.TitleTi
			request.DescriptionAm = update.DescriptionAm
			request.DescriptionTi = update.DescriptionTi
		}
	}
	return nil
}

func (r *FakeRequestRepo) DeleteBrokerHouse(ctx context.Context, requestId, houseId string) error {
	if err := r.Houses.DeleteHouse(ctx, houseId); err != nil {
		return err
	}
	for _, request := range r.Requests {
		if request.ID == requestId {
			request.Status = models.DeletedRequest
			request.CreatedHouseID = nil
		}
	}
	return nil
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// FakeFeedbackRepo - in-memory реализация repository.FeedbackRepository.
type FakeFeedbackRepo struct {
	Messages []*models.Feedback
}

// NewFakeFeedbackRepo создаёт пустое хранилище сообщений.
func NewFakeFeedbackRepo() *FakeFeedbackRepo {
	return &FakeFeedbackRepo{}
}

func (r *FakeFeedbackRepo) CreateFeedback(ctx context.Context, feedbackReq models.FeedbackRequest) (*models.Feedback, error) {
	feedback := &models.Feedback{
		ID:      uuid.New().String(),
		Name:    feedbackReq.Name,
		Email:   feedbackReq.Email,
		Message: feedbackReq.Message,
		Date:    time.Now().UTC(),
		Status:  models.UnreadFeedback,
	}
	r.Messages = append(r.Messages, feedback)
	copied := *feedback
	return &copied, nil
}

func (r *FakeFeedbackRepo) GetFeedback(ctx context.Context) ([]models.Feedback, error) {
	var messages []models.Feedback
	for i := len(r.Messages) - 1; i >= 0; i-- {
		messages = append(messages, *r.Messages[i])
	}
	return messages, nil
}

func (r *FakeFeedbackRepo) UpdateFeedbackStatus(ctx context.Context, feedbackId string, status models.FeedbackStatus) (bool, error) {
	for _, feedback := range r.Messages {
		if feedback.ID == feedbackId {
			feedback.Status = status
			return true, nil
		}
	}
	return false, nil
}

func (r *FakeFeedbackRepo) DeleteFeedback(ctx context.Context, feedbackId string) (bool, error) {
	for i, feedback := range r.Messages {
		if feedback.ID == feedbackId {
			r.Messages = append(r.Messages[:i], r.Messages[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
