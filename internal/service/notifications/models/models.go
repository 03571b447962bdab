package models

// NotificationResponse одно уведомление в ленте пользователя
type NotificationResponse struct {
	// ID составной: "booking:<id>" для событий бронирований,
	// "broadcast:<id>" для административных сообщений
	ID        string `json:"id"`
	Kind      string `json:"kind"` // "booking" | "broadcast"
	Title     string `json:"title"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"` // ISO 8601
}

// NotificationListResponse лента уведомлений
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`

	// Alert есть ли уведомления новее отметки клиента
	Alert bool `json:"alert"`
}

// CreateBroadcastRequest запрос на создание административного сообщения
type CreateBroadcastRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// BroadcastResponse созданное административное сообщение
type BroadcastResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}
