package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/senyabanana/estate-service/internal/models"
	"github.com/senyabanana/estate-service/internal/testutil"
)

func houseForm() models.HouseForm {
	return models.HouseForm{
		Title:       "Downtown apartment",
		Description: "Two bedrooms near the stadium",
		Price:       "1800000",
		Type:        "apartment",
		City:        "Addis Ababa",
		Images:      []string{"a.jpg", "b.jpg"},
	}
}

func TestCreateHouseValidation(t *testing.T) {
	service := NewHouseService(testutil.NewFakeHouseRepo())
	ctx := context.Background()

	form := houseForm()
	form.Price = ""
	_, err := service.CreateHouse(ctx, form)
	assertErrorStatus(t, err, http.StatusBadRequest)

	form = houseForm()
	form.Images = nil
	_, err = service.CreateHouse(ctx, form)
	assertErrorStatus(t, err, http.StatusBadRequest)
}

func TestCreateHouseDefaults(t *testing.T) {
	service := NewHouseService(testutil.NewFakeHouseRepo())

	form := houseForm()
	form.Type = ""
	form.Status = "weird"
	form.AdminName = " "

	house, err := service.CreateHouse(context.Background(), form)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if house.Type != models.TypeHouse {
		t.Errorf("empty type must default to house, got %q", house.Type)
	}
	if house.Status != models.AvailableHouse {
		t.Errorf("unknown status must normalize to available, got %q", house.Status)
	}
	if house.Admin.Name != nil {
		t.Error("blank admin name must stay nil")
	}
	if house.Admin.Status != "online" {
		t.Errorf("contact status must be online, got %q", house.Admin.Status)
	}
	if house.Image == nil || *house.Image != "a.jpg" {
		t.Error("cover must be the first image")
	}
}

func TestFetchHousesLocalization(t *testing.T) {
	repo := testutil.NewFakeHouseRepo()
	service := NewHouseService(repo)
	ctx := context.Background()

	form := houseForm()
	form.TitleAm = "አፓርታማ"
	if _, err := service.CreateHouse(ctx, form); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	houses, err := service.FetchHouses(ctx, "am")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if houses[0].Title != "አፓርታማ" {
		t.Errorf("amharic title expected, got %q", houses[0].Title)
	}

	houses, err = service.FetchHouses(ctx, "ti")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if houses[0].Title != "Downtown apartment" {
		t.Errorf("missing tigrinya must fall back to english, got %q", houses[0].Title)
	}
}

func TestUpdateHouseNotFound(t *testing.T) {
	service := NewHouseService(testutil.NewFakeHouseRepo())

	_, err := service.UpdateHouse(context.Background(), "no-such-id", houseForm())
	assertErrorStatus(t, err, http.StatusNotFound)
}

func TestUpdateHouseImageReplacement(t *testing.T) {
	repo := testutil.NewFakeHouseRepo()
	service := NewHouseService(repo)
	ctx := context.Background()

	created, err := service.CreateHouse(ctx, houseForm())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Форма без файлов сохраняет прежнюю последовательность.
	form := houseForm()
	form.Images = nil
	form.Price = "2000000"
	updated, err := service.UpdateHouse(ctx, created.ID, form)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(updated.Images) != 2 || updated.Images[0] != "a.jpg" {
		t.Errorf("update without files must keep images, got %v", updated.Images)
	}
	if updated.Price != 2000000 {
		t.Errorf("price not updated: %v", updated.Price)
	}

	// Форма с файлами заменяет всю последовательность.
	form = houseForm()
	form.Images = []string{"c.jpg"}
	updated, err = service.UpdateHouse(ctx, created.ID, form)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	stored, _ := repo.GetHouseByID(ctx, created.ID)
	if len(stored.Images) != 1 || stored.Images[0] != "c.jpg" {
		t.Errorf("update with files must replace images, got %v", stored.Images)
	}
	if stored.Image == nil || *stored.Image != "c.jpg" {
		t.Error("cover must follow the new first image")
	}
}

func TestUpdateHouseKeepsTypeAndStatus(t *testing.T) {
	repo := testutil.NewFakeHouseRepo()
	service := NewHouseService(repo)
	ctx := context.Background()

	form := houseForm()
	form.Status = "sold"
	created, err := service.CreateHouse(ctx, form)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	update := houseForm()
	update.Type = ""
	update.Status = ""
	updated, err := service.UpdateHouse(ctx, created.ID, update)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Type != models.TypeApartment {
		t.Errorf("empty type must keep existing, got %q", updated.Type)
	}
	if updated.Status != models.SoldHouse {
		t.Errorf("empty status must keep existing, got %q", updated.Status)
	}
}

func TestDeleteHouse(t *testing.T) {
	repo := testutil.NewFakeHouseRepo()
	service := NewHouseService(repo)
	ctx := context.Background()

	err := service.DeleteHouse(ctx, "no-such-id")
	assertErrorStatus(t, err, http.StatusNotFound)

	created, err := service.CreateHouse(ctx, houseForm())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := service.DeleteHouse(ctx, created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	house, _ := repo.GetHouseByID(ctx, created.ID)
	if house != nil {
		t.Error("house must be gone after delete")
	}
}
