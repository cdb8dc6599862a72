package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/senyabanana/estate-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BrokerRepository - интерфейс для работы с брокерами.
type BrokerRepository interface {
	GetBrokerByHandle(ctx context.Context, handle string) (*models.Broker, error)
	GetBrokerByToken(ctx context.Context, token string) (*models.Broker, error)
	CreateBroker(ctx context.Context, handle, token string) (*models.Broker, error)
	RefreshLogin(ctx context.Context, brokerId, name, token string) (*models.Broker, error)
}

// PostgresBrokerRepository - реализация BrokerRepository для базы данных.
type PostgresBrokerRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresBrokerRepository создаёт новый экземпляр PostgresBrokerRepository.
func NewPostgresBrokerRepository(db *pgxpool.Pool) *PostgresBrokerRepository {
	return &PostgresBrokerRepository{DB: db}
}

// GetBrokerByHandle возвращает брокера по логину, nil - если его нет.
func (r *PostgresBrokerRepository) GetBrokerByHandle(ctx context.Context, handle string) (*models.Broker, error) {
	query := `SELECT id, name, email, phone, status, COALESCE(token, '') FROM brokers WHERE email = $1`
	return r.scanBroker(ctx, query, handle)
}

// GetBrokerByToken возвращает брокера по действующему токену, nil - если токен неизвестен.
// Токен бессрочный: его аннулирует только следующий вход этого же брокера.
func (r *PostgresBrokerRepository) GetBrokerByToken(ctx context.Context, token string) (*models.Broker, error) {
	query := `SELECT id, name, email, phone, status, COALESCE(token, '') FROM brokers WHERE token = $1`
	return r.scanBroker(ctx, query, token)
}

// CreateBroker создает брокера при первом успешном входе.
func (r *PostgresBrokerRepository) CreateBroker(ctx context.Context, handle, token string) (*models.Broker, error) {
	newBroker := models.Broker{
		ID:     uuid.New().String(),
		Name:   handle,
		Handle: handle,
		Status: models.ApprovedBroker,
		Token:  token,
	}
	_, err := r.DB.Exec(ctx, `
       INSERT INTO brokers (id, name, email, status, token)
       VALUES ($1, $2, $3, $4, $5)
   `,
		newBroker.ID,
		newBroker.Name,
		newBroker.Handle,
		newBroker.Status,
		newBroker.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to insert broker: %w", err)
	}
	return &newBroker, nil
}

// RefreshLogin обновляет имя и токен брокера при повторном входе.
// Прежний токен при этом перестает действовать.
func (r *PostgresBrokerRepository) RefreshLogin(ctx context.Context, brokerId, name, token string) (*models.Broker, error) {
	query := `UPDATE brokers SET name = COALESCE(NULLIF($1, ''), name), token = $2, status = $3
	          WHERE id = $4
	          RETURNING id, name, email, phone, status, COALESCE(token, '')`

	var broker models.Broker
	err := r.DB.QueryRow(ctx, query, name, token, models.ApprovedBroker, brokerId).Scan(
		&broker.ID,
		&broker.Name,
		&broker.Handle,
		&broker.Phone,
		&broker.Status,
		&broker.Token,
	)
	if err != nil {
		return nil, err
	}
	return &broker, nil
}

func (r *PostgresBrokerRepository) scanBroker(ctx context.Context, query string, arg string) (*models.Broker, error) {
	var broker models.Broker
	err := r.DB.QueryRow(ctx, query, arg).Scan(
		&broker.ID,
		&broker.Name,
		&broker.Handle,
		&broker.Phone,
		&broker.Status,
		&broker.Token,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &broker, nil
}
