package models

import "time"

type (
	HouseType   string // Категория объявления
	HouseStatus string // Статус объявления
)

const (
	TypeHouse     HouseType = "house"
	TypeApartment HouseType = "apartment"
	TypeLand      HouseType = "land"
	TypeCar       HouseType = "car"
	TypeMaterials HouseType = "materials"
	TypeOther     HouseType = "other"

	AvailableHouse HouseStatus = "available" // Объявление опубликовано
	PendingHouse   HouseStatus = "pending"   // Объявление в резерве
	SoldHouse      HouseStatus = "sold"      // Объект продан
)

// NormalizeHouseStatus приводит статус из хранилища к одному из трёх допустимых значений.
func NormalizeHouseStatus(status string) HouseStatus {
	switch HouseStatus(status) {
	case PendingHouse, SoldHouse:
		return HouseStatus(status)
	default:
		return AvailableHouse
	}
}

// Amenities представляет флаги удобств объявления.
type Amenities struct {
	Electricity     bool `json:"electricity"`
	Water           bool `json:"water"`
	Parking         bool `json:"parking"`
	Internet        bool `json:"internet"`
	Furnished       bool `json:"furnished"`
	AirConditioning bool `json:"airConditioning"`
	Balcony         bool `json:"balcony"`
	PetFriendly     bool `json:"petFriendly"`
	Generator       bool `json:"generator"`
	Security        bool `json:"security"`
	Lift            bool `json:"lift"`
}

// ContactAdmin представляет денормализованную карточку контактного лица объявления.
type ContactAdmin struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Phone  *string `json:"phone"`
	Status string  `json:"status"`
}

// House представляет модель опубликованного объявления.
type House struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	TitleJSON       *LocalizedText `json:"title_json"`
	DescriptionJSON *LocalizedText `json:"description_json"`
	Price           float64        `json:"price"`
	SquareMeter     *int           `json:"square_meter"`
	Bedrooms        *int           `json:"bedrooms"`
	Location        *string        `json:"location"`
	City            *string        `json:"city"`
	Type            HouseType      `json:"type"`
	Status          HouseStatus    `json:"status"`
	Floor           *int           `json:"floor"`
	Amenities       Amenities      `json:"amenities"`
	Admin           ContactAdmin   `json:"admin"`
	Images          []string       `json:"images"`
	Image           *string        `json:"image"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// Cover возвращает обложку объявления - первое изображение в порядке позиций.
func (h *House) Cover() *string {
	if len(h.Images) == 0 {
		return nil
	}
	return &h.Images[0]
}

// HouseForm представляет сырые поля формы создания или обновления объявления.
// Числовые и булевы поля хранятся строками до явного приведения в сервисном слое.
type HouseForm struct {
	Title         string
	Description   string
	Price         string
	SquareMeter   string
	Bedrooms      string
	Location      string
	City          string
	Type          string
	Status        string
	Floor         string
	TitleEn       string
	TitleAm       string
	TitleTi       string
	DescriptionEn string
	DescriptionAm string
	DescriptionTi string
	AdminName     string
	AdminEmail    string
	AdminPhone    string
	Amenities     map[string]string // имя удобства -> сырое значение поля формы
	Images        []string          // сохранённые имена файлов в порядке загрузки
}
