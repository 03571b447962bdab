package paymentgateway

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	// (сеть, таймаут, невозможность собрать запрос)
	ErrInternal = errors.New("paymentgateway client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе шлюза
	ErrInvalidResponse = errors.New("paymentgateway client: invalid response")
)
