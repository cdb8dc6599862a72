package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/senyabanana/estate-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const requestColumns = `id, broker_id, title, description, price, square_meter, bedrooms, location, city, type, floor,
	amenities_json, contact_name, contact_email, contact_phone, title_am, title_ti, description_am, description_ti,
	status, admin_note, created_house_id, created_at`

// BrokerRequestRepository - интерфейс для работы с заявками брокеров.
type BrokerRequestRepository interface {
	CreateRequest(ctx context.Context, request *models.BrokerRequest) (*models.BrokerRequest, error)
	GetUserRequests(ctx context.Context, brokerId string) ([]models.BrokerRequest, error)
	GetAdminRequests(ctx context.Context) ([]models.AdminBrokerRequest, error)
	GetRequestByID(ctx context.Context, requestId string) (*models.BrokerRequest, error)
	RejectRequest(ctx context.Context, requestId string, note *string) error
	ApproveRequest(ctx context.Context, request *models.BrokerRequest, note *string) (string, error)
	GetOwnedRequest(ctx context.Context, brokerId, houseId string) (*models.BrokerRequest, error)
	UpdateBrokerHouse(ctx context.Context, requestId, houseId string, update models.BrokerHouseUpdate) error
	DeleteBrokerHouse(ctx context.Context, requestId, houseId string) error
}

// PostgresBrokerRequestRepository - реализация BrokerRequestRepository для базы данных.
type PostgresBrokerRequestRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresBrokerRequestRepository создаёт новый экземпляр PostgresBrokerRequestRepository.
func NewPostgresBrokerRequestRepository(db *pgxpool.Pool) *PostgresBrokerRequestRepository {
	return &PostgresBrokerRequestRepository{DB: db}
}

// CreateRequest создает заявку вместе с изображениями одной транзакцией.
func (r *PostgresBrokerRequestRepository) CreateRequest(ctx context.Context, request *models.BrokerRequest) (*models.BrokerRequest, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

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

	_, err = tx.Exec(ctx, `
       INSERT INTO broker_requests (id, broker_id, title, description, price, square_meter, bedrooms, location, city,
                                    type, floor, amenities_json, contact_name, contact_email, contact_phone,
                                    title_am, title_ti, description_am, description_ti, status, created_at)
       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
   `,
		request.ID,
		request.BrokerID,
		request.Title,
		request.Description,
		request.Price,
		request.SquareMeter,
		request.Bedrooms,
		request.Location,
		request.City,
		request.Type,
		request.Floor,
		request.AmenitiesJSON,
		request.ContactName,
		request.ContactEmail,
		request.ContactPhone,
		request.TitleAm,
		request.TitleTi,
		request.DescriptionAm,
		request.DescriptionTi,
		request.Status,
		request.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert broker request: %w", err)
	}

	if err := insertImages(ctx, tx, "broker_request_images", "request_id", request.ID, request.Images); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return request, nil
}

// GetUserRequests возвращает неудаленные заявки брокера от новых к старым.
func (r *PostgresBrokerRequestRepository) GetUserRequests(ctx context.Context, brokerId string) ([]models.BrokerRequest, error) {
	query := `SELECT ` + requestColumns + `
	          FROM broker_requests WHERE broker_id = $1 AND status != 'deleted'
	          ORDER BY created_at DESC, id DESC`

	rows, err := r.DB.Query(ctx, query, brokerId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.BrokerRequest
	var requestIds []string
	for rows.Next() {
		request, err := scanRequestRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *request)
		requestIds = append(requestIds, request.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	imagesByRequest, err := r.getImagesByRequest(ctx, requestIds)
	if err != nil {
		return nil, err
	}
	for i := range requests {
		requests[i].Images = imagesByRequest[requests[i].ID]
	}
	return requests, nil
}

// GetAdminRequests возвращает все неудаленные заявки с контактами брокеров для модерации.
func (r *PostgresBrokerRequestRepository) GetAdminRequests(ctx context.Context) ([]models.AdminBrokerRequest, error) {
	query := `SELECT br.id, br.broker_id, br.title, br.description, br.price, br.square_meter, br.bedrooms,
	                 br.location, br.city, br.type, br.floor, br.amenities_json, br.contact_name, br.contact_email,
	                 br.contact_phone, br.title_am, br.title_ti, br.description_am, br.description_ti,
	                 br.status, br.admin_note, br.created_house_id, br.created_at,
	                 COALESCE(b.name, ''), b.email, b.phone
	          FROM broker_requests br
	          JOIN brokers b ON br.broker_id = b.id
	          WHERE br.status != 'deleted'
	          ORDER BY br.created_at DESC, br.id DESC`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.AdminBrokerRequest
	var requestIds []string
	for rows.Next() {
		var request models.AdminBrokerRequest
		scan := func(dest ...any) error {
			dest = append(dest, &request.BrokerName, &request.BrokerHandle, &request.BrokerPhone)
			return rows.Scan(dest...)
		}
		inner, err := scanRequestRow(scan)
		if err != nil {
			return nil, err
		}
		request.BrokerRequest = *inner
		requests = append(requests, request)
		requestIds = append(requestIds, request.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	imagesByRequest, err := r.getImagesByRequest(ctx, requestIds)
	if err != nil {
		return nil, err
	}
	for i := range requests {
		requests[i].Images = imagesByRequest[requests[i].ID]
	}
	return requests, nil
}

// GetRequestByID возвращает заявку по идентификатору, nil - если её нет.
func (r *PostgresBrokerRequestRepository) GetRequestByID(ctx context.Context, requestId string) (*models.BrokerRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM broker_requests WHERE id = $1`

	row := r.DB.QueryRow(ctx, query, requestId)
	request, err := scanRequestRow(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	imagesByRequest, err := r.getImagesByRequest(ctx, []string{requestId})
	if err != nil {
		return nil, err
	}
	request.Images = imagesByRequest[requestId]
	return request, nil
}

// RejectRequest переводит заявку в статус rejected и сохраняет заметку администратора.
// Повторное отклонение не запрещено и ничего не меняет по сути.
func (r *PostgresBrokerRequestRepository) RejectRequest(ctx context.Context, requestId string, note *string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE broker_requests SET status = $1, admin_note = $2 WHERE id = $3`,
		models.RejectedRequest, note, requestId)
	return err
}

// ApproveRequest публикует объявление по заявке одной транзакцией: вставка
// объявления, копирование изображений и условное обновление статуса заявки.
// Условие status <> 'approved' закрывает гонку двух одновременных одобрений:
// проигравшая транзакция не затронет ни одной строки и откатится целиком.
func (r *PostgresBrokerRequestRepository) ApproveRequest(ctx context.Context, request *models.BrokerRequest, note *string) (string, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx,
		`SELECT filename FROM broker_request_images WHERE request_id = $1 ORDER BY position ASC, seq ASC`,
		request.ID)
	if err != nil {
		return "", err
	}
	var images []string
	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			rows.Close()
			return "", err
		}
		images = append(images, filename)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return "", err
	}

	contactName := "Broker Listing"
	if request.ContactName != nil && *request.ContactName != "" {
		contactName = *request.ContactName
	}
	admin := models.ContactAdmin{
		Name:   &contactName,
		Email:  request.ContactEmail,
		Phone:  request.ContactPhone,
		Status: "online",
	}
	adminJSON, err := json.Marshal(admin)
	if err != nil {
		return "", err
	}

	// Публикуется только базовый язык: переводы am/ti из заявки сюда не переносятся.
	titleJSON, err := json.Marshal(models.LocalizedText{En: request.Title})
	if err != nil {
		return "", err
	}
	descriptionJSON, err := json.Marshal(models.LocalizedText{En: request.Description})
	if err != nil {
		return "", err
	}

	amenitiesJSON := request.AmenitiesJSON
	if amenitiesJSON == "" {
		amenitiesJSON = "{}"
	}

	houseId := uuid.New().String()
	_, err = tx.Exec(ctx, `
       INSERT INTO houses (id, title, description, price, bedrooms, location, city, type, status, floor,
                           amenities_json, admin_json, title_json, description_json, created_at)
       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
   `,
		houseId,
		request.Title,
		request.Description,
		request.Price,
		request.Bedrooms,
		request.Location,
		request.City,
		defaultHouseType(request.Type),
		models.AvailableHouse,
		request.Floor,
		amenitiesJSON,
		string(adminJSON),
		string(titleJSON),
		string(descriptionJSON),
		time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to insert house: %w", err)
	}

	if err := insertImages(ctx, tx, "house_images", "house_id", houseId, images); err != nil {
		return "", err
	}

	tag, err := tx.Exec(ctx, `
       UPDATE broker_requests SET status = $1, admin_note = $2, created_house_id = $3
       WHERE id = $4 AND status <> $1
   `,
		models.ApprovedRequest, note, houseId, request.ID)
	if err != nil {
		return "", err
	}
	if tag.RowsAffected() == 0 {
		return "", models.NewErrorResponse(http.StatusBadRequest, "request is already approved")
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return houseId, nil
}

// GetOwnedRequest возвращает заявку брокера, по которой создано указанное
// объявление, nil - если такой связки нет. Это единственная проверка прав
// брокера на изменение и удаление опубликованного объявления.
func (r *PostgresBrokerRequestRepository) GetOwnedRequest(ctx context.Context, brokerId, houseId string) (*models.BrokerRequest, error) {
	query := `SELECT ` + requestColumns + `
	          FROM broker_requests WHERE broker_id = $1 AND created_house_id = $2`

	row := r.DB.QueryRow(ctx, query, brokerId, houseId)
	request, err := scanRequestRow(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return request, nil
}

// UpdateBrokerHouse синхронно обновляет объявление и денормализованную копию
// его полей в заявке одной транзакцией.
func (r *PostgresBrokerRequestRepository) UpdateBrokerHouse(ctx context.Context, requestId, houseId string, update models.BrokerHouseUpdate) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	titleJSON, err := json.Marshal(models.LocalizedText{
		En: update.Title,
		Am: stringValue(update.TitleAm),
		Ti: stringValue(update.TitleTi),
	})
	if err != nil {
		return err
	}
	descriptionJSON, err := json.Marshal(models.LocalizedText{
		En: update.Description,
		Am: stringValue(update.DescriptionAm),
		Ti: stringValue(update.DescriptionTi),
	})
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
       UPDATE houses SET title = $1, description = $2, price = $3, square_meter = $4, bedrooms = $5,
                         location = $6, city = $7, type = $8, floor = $9, amenities_json = $10,
                         title_json = $11, description_json = $12
       WHERE id = $13
   `,
		update.Title,
		update.Description,
		update.Price,
		update.SquareMeter,
		update.Bedrooms,
		update.Location,
		update.City,
		defaultHouseType(update.Type),
		update.Floor,
		update.AmenitiesJSON,
		string(titleJSON),
		string(descriptionJSON),
		houseId)
	if err != nil {
		return fmt.Errorf("failed to update house: %w", err)
	}

	_, err = tx.Exec(ctx, `
       UPDATE broker_requests SET title = $1, description = $2, price = $3, square_meter = $4, bedrooms = $5,
                                  location = $6, city = $7, type = $8, floor = $9, amenities_json = $10,
                                  title_am = $11, title_ti = $12, description_am = $13, description_ti = $14
       WHERE id = $15
   `,
		update.Title,
		update.Description,
		update.Price,
		update.SquareMeter,
		update.Bedrooms,
		update.Location,
		update.City,
		defaultHouseType(update.Type),
		update.Floor,
		update.AmenitiesJSON,
		update.TitleAm,
		update.TitleTi,
		update.DescriptionAm,
		update.DescriptionTi,
		requestId)
	if err != nil {
		return fmt.Errorf("failed to update broker request: %w", err)
	}

	return tx.Commit(ctx)
}

// DeleteBrokerHouse удаляет объявление и переводит заявку в терминальный статус
// deleted, обнуляя обратную ссылку. После этого заявку нельзя связать с
// объявлением повторно.
func (r *PostgresBrokerRequestRepository) DeleteBrokerHouse(ctx context.Context, requestId, houseId string) error {
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
	_, err = tx.Exec(ctx,
		`UPDATE broker_requests SET status = $1, created_house_id = NULL WHERE id = $2`,
		models.DeletedRequest, requestId)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// getImagesByRequest возвращает имена изображений по заявкам в порядке позиций.
func (r *PostgresBrokerRequestRepository) getImagesByRequest(ctx context.Context, requestIds []string) (map[string][]string, error) {
	imagesByRequest := make(map[string][]string)
	if len(requestIds) == 0 {
		return imagesByRequest, nil
	}

	query := `SELECT request_id, filename FROM broker_request_images WHERE request_id = ANY($1) ORDER BY position ASC, seq ASC`
	rows, err := r.DB.Query(ctx, query, pq.Array(requestIds))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var requestId, filename string
		if err := rows.Scan(&requestId, &filename); err != nil {
			return nil, err
		}
		imagesByRequest[requestId] = append(imagesByRequest[requestId], filename)
	}
	return imagesByRequest, rows.Err()
}

// scanRequestRow читает строку broker_requests и разбирает JSON удобств.
func scanRequestRow(scan func(dest ...any) error) (*models.BrokerRequest, error) {
	var request models.BrokerRequest
	var amenitiesJSON *string
	var status string

	if err := scan(
		&request.ID,
		&request.BrokerID,
		&request.Title,
		&request.Description,
		&request.Price,
		&request.SquareMeter,
		&request.Bedrooms,
		&request.Location,
		&request.City,
		&request.Type,
		&request.Floor,
		&amenitiesJSON,
		&request.ContactName,
		&request.ContactEmail,
		&request.ContactPhone,
		&request.TitleAm,
		&request.TitleTi,
		&request.DescriptionAm,
		&request.DescriptionTi,
		&status,
		&request.AdminNote,
		&request.CreatedHouseID,
		&request.CreatedAt); err != nil {
		return nil, err
	}

	request.Status = models.RequestStatus(status)
	if request.Type == "" {
		request.Type = models.TypeHouse
	}
	if amenitiesJSON != nil {
		request.AmenitiesJSON = *amenitiesJSON
		_ = json.Unmarshal([]byte(*amenitiesJSON), &request.Amenities)
	}
	return &request, nil
}

// defaultHouseType подставляет категорию по умолчанию.
func defaultHouseType(houseType models.HouseType) models.HouseType {
	if houseType == "" {
		return models.TypeHouse
	}
	return houseType
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
