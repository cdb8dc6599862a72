package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/senyabanana/estate-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// HouseRepository - интерфейс для работы с опубликованными объявлениями.
type HouseRepository interface {
	GetHouses(ctx context.Context) ([]models.House, error)
	GetHouseByID(ctx context.Context, houseId string) (*models.House, error)
	CreateHouse(ctx context.Context, house *models.House) (*models.House, error)
	UpdateHouse(ctx context.Context, house *models.House, replaceImages bool) error
	DeleteHouse(ctx context.Context, houseId string) error
}

// PostgresHouseRepository - реализация HouseRepository для базы данных.
type PostgresHouseRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresHouseRepository создаёт новый экземпляр PostgresHouseRepository.
func NewPostgresHouseRepository(db *pgxpool.Pool) *PostgresHouseRepository {
	return &PostgresHouseRepository{DB: db}
}

// GetHouses возвращает все объявления от новых к старым вместе с изображениями.
func (r *PostgresHouseRepository) GetHouses(ctx context.Context) ([]models.House, error) {
	query := `SELECT id, title, description, price, square_meter, bedrooms, location, city, type, status, floor,
	                 amenities_json, admin_json, title_json, description_json, created_at
	          FROM houses ORDER BY created_at DESC, id DESC`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var houses []models.House
	var houseIds []string
	for rows.Next() {
		house, err := scanHouseRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		houses = append(houses, *house)
		houseIds = append(houseIds, house.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	imagesByHouse, err := r.getImagesByHouse(ctx, houseIds)
	if err != nil {
		return nil, err
	}
	for i := range houses {
		houses[i].Images = imagesByHouse[houses[i].ID]
		houses[i].Image = houses[i].Cover()
	}
	return houses, nil
}

// GetHouseByID возвращает объявление по идентификатору, nil - если его нет.
func (r *PostgresHouseRepository) GetHouseByID(ctx context.Context, houseId string) (*models.House, error) {
	query := `SELECT id, title, description, price, square_meter, bedrooms, location, city, type, status, floor,
	                 amenities_json, admin_json, title_json, description_json, created_at
	          FROM houses WHERE id = $1`

	row := r.DB.QueryRow(ctx, query, houseId)
	house, err := scanHouseRow(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	imagesByHouse, err := r.getImagesByHouse(ctx, []string{houseId})
	if err != nil {
		return nil, err
	}
	house.Images = imagesByHouse[houseId]
	house.Image = house.Cover()
	return house, nil
}

// CreateHouse создает новое объявление вместе с изображениями одной транзакцией.
func (r *PostgresHouseRepository) CreateHouse(ctx context.Context, house *models.House) (*models.House, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	house.ID = uuid.New().String()
	house.CreatedAt = time.Now().UTC()
	house.Image = house.Cover()

	amenitiesJSON, adminJSON, titleJSON, descriptionJSON, err := marshalHouseJSON(house)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
       INSERT INTO houses (id, title, description, price, square_meter, bedrooms, location, city, type, status, floor,
                           amenities_json, admin_json, title_json, description_json, created_at)
       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
   `,
		house.ID,
		house.Title,
		house.Description,
		house.Price,
		house.SquareMeter,
		house.Bedrooms,
		house.Location,
		house.City,
		house.Type,
		house.Status,
		house.Floor,
		amenitiesJSON,
		adminJSON,
		titleJSON,
		descriptionJSON,
		house.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert house: %w", err)
	}

	if err := insertImages(ctx, tx, "house_images", "house_id", house.ID, house.Images); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return house, nil
}

// UpdateHouse полностью заменяет поля объявления. Новые изображения, если они
// переданы, заменяют всю прежнюю последовательность.
func (r *PostgresHouseRepository) UpdateHouse(ctx context.Context, house *models.House, replaceImages bool) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	amenitiesJSON, adminJSON, titleJSON, descriptionJSON, err := marshalHouseJSON(house)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
       UPDATE houses SET title = $1, description = $2, price = $3, square_meter = $4, bedrooms = $5,
                         location = $6, city = $7, type = $8, status = $9, floor = $10,
                         amenities_json = $11, admin_json = $12, title_json = $13, description_json = $14
       WHERE id = $15
   `,
		house.Title,
		house.Description,
		house.Price,
		house.SquareMeter,
		house.Bedrooms,
		house.Location,
		house.City,
		house.Type,
		house.Status,
		house.Floor,
		amenitiesJSON,
		adminJSON,
		titleJSON,
		descriptionJSON,
		house.ID)
	if err != nil {
		return fmt.Errorf("failed to update house: %w", err)
	}

	if replaceImages {
		if _, err := tx.Exec(ctx, `DELETE FROM house_images WHERE house_id = $1`, house.ID); err != nil {
			return err
		}
		if err := insertImages(ctx, tx, "house_images", "house_id", house.ID, house.Images); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// DeleteHouse удаляет объявление вместе с изображениями.
func (r *PostgresHouseRepository) DeleteHouse(ctx context.Context, houseId string) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM house_images WHERE house_id = $1`, houseId); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM houses WHERE id = $1`, houseId); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// getImagesByHouse возвращает имена изображений по объявлениям в порядке позиций.
func (r *PostgresHouseRepository) getImagesByHouse(ctx context.Context, houseIds []string) (map[string][]string, error) {
	imagesByHouse := make(map[string][]string)
	if len(houseIds) == 0 {
		return imagesByHouse, nil
	}

	query := `SELECT house_id, filename FROM house_images WHERE house_id = ANY($1) ORDER BY position ASC, seq ASC`
	rows, err := r.DB.Query(ctx, query, pq.Array(houseIds))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var houseId, filename string
		if err := rows.Scan(&houseId, &filename); err != nil {
			return nil, err
		}
		imagesByHouse[houseId] = append(imagesByHouse[houseId], filename)
	}
	return imagesByHouse, rows.Err()
}

// insertImages вставляет упорядоченный список изображений в дочернюю таблицу.
func insertImages(ctx context.Context, tx pgx.Tx, table, parentColumn, parentId string, images []string) error {
	for i, filename := range images {
		query := fmt.Sprintf(`INSERT INTO %s (%s, filename, position) VALUES ($1, $2, $3)`, table, parentColumn)
		if _, err := tx.Exec(ctx, query, parentId, filename, i); err != nil {
			return fmt.Errorf("failed to insert image: %w", err)
		}
	}
	return nil
}

// scanHouseRow читает строку houses и разбирает JSON-колонки.
func scanHouseRow(scan func(dest ...any) error) (*models.House, error) {
	var house models.House
	var amenitiesJSON, adminJSON, titleJSON, descriptionJSON *string
	var status string

	if err := scan(
		&house.ID,
		&house.Title,
		&house.Description,
		&house.Price,
		&house.SquareMeter,
		&house.Bedrooms,
		&house.Location,
		&house.City,
		&house.Type,
		&status,
		&house.Floor,
		&amenitiesJSON,
		&adminJSON,
		&titleJSON,
		&descriptionJSON,
		&house.CreatedAt); err != nil {
		return nil, err
	}

	house.Status = models.NormalizeHouseStatus(status)
	if house.Type == "" {
		house.Type = models.TypeHouse
	}
	if amenitiesJSON != nil {
		// Некорректный JSON оставляет нулевые флаги, как в старых записях.
		_ = json.Unmarshal([]byte(*amenitiesJSON), &house.Amenities)
	}
	if adminJSON != nil {
		_ = json.Unmarshal([]byte(*adminJSON), &house.Admin)
	}
	if titleJSON != nil {
		house.TitleJSON = &models.LocalizedText{}
		_ = json.Unmarshal([]byte(*titleJSON), house.TitleJSON)
	}
	if descriptionJSON != nil {
		house.DescriptionJSON = &models.LocalizedText{}
		_ = json.Unmarshal([]byte(*descriptionJSON), house.DescriptionJSON)
	}
	return &house, nil
}

// marshalHouseJSON кодирует JSON-колонки объявления.
func marshalHouseJSON(house *models.House) (string, string, string, string, error) {
	amenitiesJSON, err := json.Marshal(house.Amenities)
	if err != nil {
		return "", "", "", "", err
	}
	adminJSON, err := json.Marshal(house.Admin)
	if err != nil {
		return "", "", "", "", err
	}
	titleJSON, err := json.Marshal(house.TitleJSON)
	if err != nil {
		return "", "", "", "", err
	}
	descriptionJSON, err := json.Marshal(house.DescriptionJSON)
	if err != nil {
		return "", "", "", "", err
	}
	return string(amenitiesJSON), string(adminJSON), string(titleJSON), string(descriptionJSON), nil
}
