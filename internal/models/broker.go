package models

// ApprovedBroker - единственный статус брокера: учетная запись
// подтверждается автоматически при первом входе.
const ApprovedBroker = "approved"

// Broker представляет модель внешнего брокера.
// Поле email выполняет роль логина.
type Broker struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Handle string  `json:"email"`
	Phone  *string `json:"phone"`
	Status string  `json:"status"`
	Token  string  `json:"token,omitempty"`
}

// VerifyRequest представляет структуру запроса для входа брокера.
type VerifyRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
