package services

import (
	"context"
	"net/http"

	"github.com/senyabanana/estate-service/internal/models"
	"github.com/senyabanana/estate-service/internal/repository"
	"github.com/senyabanana/estate-service/internal/utils"
)

type HouseService struct {
	Repo repository.HouseRepository
}

// NewHouseService создаёт новый экземпляр HouseService.
func NewHouseService(repo repository.HouseRepository) *HouseService {
	return &HouseService{Repo: repo}
}

// FetchHouses возвращает каталог объявлений. Непустой lang подставляет
// в title и description перевод на запрошенный язык с откатом на базовый.
func (s *HouseService) FetchHouses(ctx context.Context, lang string) ([]models.House, error) {
	houses, err := s.Repo.GetHouses(ctx)
	if err != nil {
		return nil, err
	}
	if lang != "" {
		for i := range houses {
			houses[i].Title = houses[i].TitleJSON.Resolve(lang, houses[i].Title)
			houses[i].Description = houses[i].DescriptionJSON.Resolve(lang, houses[i].Description)
		}
	}
	return houses, nil
}

// CreateHouse создает объявление напрямую от администратора.
func (s *HouseService) CreateHouse(ctx context.Context, form models.HouseForm) (*models.House, error) {
	if form.Title == "" || form.Description == "" || form.Price == "" || len(form.Images) == 0 {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "title, description, price and at least one image are required")
	}

	house := buildHouseFromForm(form)
	house.Type = models.HouseType(utils.StringOrDefault(form.Type, string(models.TypeHouse)))
	house.Status = models.NormalizeHouseStatus(form.Status)

	created, err := s.Repo.CreateHouse(ctx, house)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to add house")
	}
	return created, nil
}

// UpdateHouse полностью заменяет поля объявления. Категория и статус при
// отсутствии в форме берутся из текущей записи. Переданные изображения
// заменяют всю последовательность, отсутствие файлов сохраняет прежнюю.
func (s *HouseService) UpdateHouse(ctx context.Context, houseId string, form models.HouseForm) (*models.House, error) {
	existing, err := s.Repo.GetHouseByID(ctx, houseId)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if existing == nil {
		return nil, models.NewErrorResponse(http.StatusNotFound, "house not found")
	}

	house := buildHouseFromForm(form)
	house.ID = houseId
	house.CreatedAt = existing.CreatedAt
	house.Type = models.HouseType(utils.StringOrDefault(form.Type, string(existing.Type)))
	if form.Status == "" {
		house.Status = existing.Status
	} else {
		house.Status = models.NormalizeHouseStatus(form.Status)
	}

	replaceImages := len(form.Images) > 0
	if !replaceImages {
		house.Images = existing.Images
	}
	house.Image = house.Cover()

	if err := s.Repo.UpdateHouse(ctx, house, replaceImages); err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to update house")
	}
	return house, nil
}

// DeleteHouse удаляет объявление вместе с изображениями.
func (s *HouseService) DeleteHouse(ctx context.Context, houseId string) error {
	existing, err := s.Repo.GetHouseByID(ctx, houseId)
	if err != nil {
		return models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if existing == nil {
		return models.NewErrorResponse(http.StatusNotFound, "house not found")
	}
	if err := s.Repo.DeleteHouse(ctx, houseId); err != nil {
		return models.NewErrorResponse(http.StatusInternalServerError, "failed to delete house")
	}
	return nil
}

// buildHouseFromForm приводит сырые поля формы к модели объявления.
func buildHouseFromForm(form models.HouseForm) *models.House {
	adminName := utils.OptionalString(form.AdminName)
	titleJSON := &models.LocalizedText{
		En: utils.StringOrDefault(form.TitleEn, form.Title),
		Am: form.TitleAm,
		Ti: form.TitleTi,
	}
	descriptionJSON := &models.LocalizedText{
		En: utils.StringOrDefault(form.DescriptionEn, form.Description),
		Am: form.DescriptionAm,
		Ti: form.DescriptionTi,
	}

	return &models.House{
		Title:           form.Title,
		Description:     form.Description,
		TitleJSON:       titleJSON,
		DescriptionJSON: descriptionJSON,
		Price:           utils.ParsePrice(form.Price),
		SquareMeter:     utils.ParseOptionalInt(form.SquareMeter),
		Bedrooms:        utils.ParseOptionalInt(form.Bedrooms),
		Location:        utils.OptionalString(form.Location),
		City:            utils.OptionalString(form.City),
		Floor:           utils.ParseOptionalInt(form.Floor),
		Amenities:       utils.CoerceAmenities(form.Amenities),
		Admin: models.ContactAdmin{
			Name:   adminName,
			Email:  utils.OptionalString(form.AdminEmail),
			Phone:  utils.OptionalString(form.AdminPhone),
			Status: "online",
		},
		Images: form.Images,
	}
}
