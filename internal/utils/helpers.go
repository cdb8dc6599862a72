package utils

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/senyabanana/estate-service/internal/models"
)

// SendErrorResponse отправляет ошибку в формате JSON
func SendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := models.ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
	}
	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		log.Println(err)
	}
}

// SendJSONResponse отправляет успешный ответ в формате JSON
func SendJSONResponse(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Println(err)
	}
}

// ParseFormBool интерпретирует сырое значение флага формы.
// Отсутствующее поле, строка "false" в любом регистре и строка "0" дают false,
// любое другое значение - true.
func ParseFormBool(value string, present bool) bool {
	if !present {
		return false
	}
	if strings.EqualFold(value, "false") || value == "0" {
		return false
	}
	return true
}

// AmenityFields перечисляет имена флагов удобств, как они приходят из формы
// (без префикса amenity_).
var AmenityFields = []string{
	"electricity",
	"water",
	"parking",
	"internet",
	"furnished",
	"air_conditioning",
	"balcony",
	"pet_friendly",
	"generator",
	"security",
	"lift",
}

// AmenityFormValues выбирает из значений формы сырые поля amenity_*.
// Отсутствующие поля не попадают в результат: отсутствие означает false.
func AmenityFormValues(values url.Values) map[string]string {
	raw := make(map[string]string)
	for _, name := range AmenityFields {
		if vals, ok := values["amenity_"+name]; ok {
			value := ""
			if len(vals) > 0 {
				value = vals[0]
			}
			raw[name] = value
		}
	}
	return raw
}

// CoerceAmenities приводит сырые поля формы amenity_* к набору флагов удобств.
func CoerceAmenities(raw map[string]string) models.Amenities {
	flag := func(name string) bool {
		value, present := raw[name]
		return ParseFormBool(value, present)
	}
	return models.Amenities{
		Electricity:     flag("electricity"),
		Water:           flag("water"),
		Parking:         flag("parking"),
		Internet:        flag("internet"),
		Furnished:       flag("furnished"),
		AirConditioning: flag("air_conditioning"),
		Balcony:         flag("balcony"),
		PetFriendly:     flag("pet_friendly"),
		Generator:       flag("generator"),
		Security:        flag("security"),
		Lift:            flag("lift"),
	}
}

// ParsePrice приводит сырую цену к числу. Нечисловой ввод дает 0.
func ParsePrice(value string) float64 {
	price, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return price
}

// ParseOptionalInt приводит необязательное числовое поле формы.
// Пустое или нечисловое значение дает nil, никогда не 0.
func ParseOptionalInt(value string) *int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	number, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil
	}
	return &number
}

// OptionalString обрезает пробелы и возвращает nil для пустой строки.
func OptionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// StringOrDefault возвращает значение строки или запасное значение для пустой.
func StringOrDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
