package models

import "time"

// RequestStatus - статус заявки брокера
type RequestStatus string

const (
	PendingRequest  RequestStatus = "pending"  // Заявка ожидает решения
	ApprovedRequest RequestStatus = "approved" // Заявка одобрена, объявление опубликовано
	RejectedRequest RequestStatus = "rejected" // Заявка отклонена
	DeletedRequest  RequestStatus = "deleted"  // Брокер удалил созданное объявление
)

// BrokerRequest представляет модель заявки брокера на публикацию объявления.
type BrokerRequest struct {
	ID             string        `json:"id"`
	BrokerID       string        `json:"broker_id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Price          float64       `json:"price"`
	SquareMeter    *int          `json:"square_meter"`
	Bedrooms       *int          `json:"bedrooms"`
	Location       *string       `json:"location"`
	City           *string       `json:"city"`
	Type           HouseType     `json:"type"`
	Floor          *int          `json:"floor"`
	Amenities      Amenities     `json:"amenities"`
	AmenitiesJSON  string        `json:"-"`
	ContactName    *string       `json:"contact_name"`
	ContactEmail   *string       `json:"contact_email"`
	ContactPhone   *string       `json:"contact_phone"`
	TitleAm        *string       `json:"title_am"`
	TitleTi        *string       `json:"title_ti"`
	DescriptionAm  *string       `json:"description_am"`
	DescriptionTi  *string       `json:"description_ti"`
	Status         RequestStatus `json:"status"`
	AdminNote      *string       `json:"admin_note"`
	CreatedHouseID *string       `json:"created_house_id"`
	CreatedAt      time.Time     `json:"created_at"`
	Images         []string      `json:"images"`
}

// AdminBrokerRequest представляет заявку вместе с контактами подавшего её брокера.
type AdminBrokerRequest struct {
	BrokerRequest
	BrokerName   string  `json:"broker_name"`
	BrokerHandle string  `json:"broker_email"`
	BrokerPhone  *string `json:"broker_phone"`
}

// BrokerRequestForm представляет сырые поля формы подачи заявки.
type BrokerRequestForm struct {
	Title         string
	Description   string
	Price         string
	SquareMeter   string
	Bedrooms      string
	Location      string
	City          string
	Type          string
	Floor         string
	ContactName   string
	ContactEmail  string
	ContactPhone  string
	TitleAm       string
	TitleTi       string
	DescriptionAm string
	DescriptionTi string
	Amenities     map[string]string
	Images        []string
}

// DecisionRequest представляет структуру запроса решения администратора по заявке.
type DecisionRequest struct {
	Action string  `json:"action"`
	Note   *string `json:"note"`
}

// BrokerHouseUpdate представляет структуру запроса брокера на изменение
// созданного по его заявке объявления.
type BrokerHouseUpdate struct {
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	SquareMeter   *int      `json:"square_meter"`
	Bedrooms      *int      `json:"bedrooms"`
	Location      *string   `json:"location"`
	City          *string   `json:"city"`
	Type          HouseType `json:"type"`
	Floor         *int      `json:"floor"`
	AmenitiesJSON string    `json:"amenities_json"`
	TitleAm       *string   `json:"title_am"`
	TitleTi       *string   `json:"title_ti"`
	DescriptionAm *string   `json:"description_am"`
	DescriptionTi *string   `json:"description_ti"`
}
