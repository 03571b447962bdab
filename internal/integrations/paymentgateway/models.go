package paymentgateway

// Outcome результат платежной попытки
type Outcome string

const (
	// OutcomeSuccess средства удержаны, можно создавать бронирование
	OutcomeSuccess Outcome = "success"
	// OutcomeAbandoned клиент прервал платежный флоу до подтверждения
	OutcomeAbandoned Outcome = "abandoned"
)

// ChargeRequest запрос на удержание средств
type ChargeRequest struct {
	Amount    float64 `json:"amount"`
	PayeeRef  string  `json:"payeeRef"`  // идентификатор партнера-получателя
	Reference string  `json:"reference"` // ссылка на попытку бронирования
}

// ChargeResult ответ шлюза: id транзакции и исход
type ChargeResult struct {
	TransactionID string  `json:"transactionId"`
	Outcome       Outcome `json:"outcome"`
}

// IsSuccess возвращает true, если средства удержаны
func (r *ChargeResult) IsSuccess() bool {
	return r.Outcome == OutcomeSuccess
}
