package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/senyabanana/estate-service/internal/models"
	"github.com/senyabanana/estate-service/internal/repository"

	"github.com/google/uuid"
)

type BrokerService struct {
	Repo repository.BrokerRepository
}

// NewBrokerService создаёт новый экземпляр BrokerService.
func NewBrokerService(repo repository.BrokerRepository) *BrokerService {
	return &BrokerService{Repo: repo}
}

// Login выполняет вход брокера по логину. Общий секрет проверяется на уровне
// HTTP до вызова этого метода. Существующему брокеру обновляются имя и токен,
// нового создаём сразу со статусом approved. Прежний токен перестает действовать.
func (s *BrokerService) Login(ctx context.Context, handle string) (*models.Broker, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "username is required")
	}

	broker, err := s.Repo.GetBrokerByHandle(ctx, handle)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}

	token := uuid.New().String()
	if broker != nil {
		refreshed, err := s.Repo.RefreshLogin(ctx, broker.ID, handle, token)
		if err != nil {
			return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
		}
		return refreshed, nil
	}

	created, err := s.Repo.CreateBroker(ctx, handle, token)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return created, nil
}

// Authenticate возвращает брокера по токену из заголовка запроса.
func (s *BrokerService) Authenticate(ctx context.Context, token string) (*models.Broker, error) {
	if token == "" {
		return nil, models.NewErrorResponse(http.StatusUnauthorized, "not authorized")
	}
	broker, err := s.Repo.GetBrokerByToken(ctx, token)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if broker == nil {
		return nil, models.NewErrorResponse(http.StatusUnauthorized, "not authorized")
	}
	return broker, nil
}
