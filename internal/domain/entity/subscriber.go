package entity

// Subscriber чат Telegram, получающий снимки по расписанию
type Subscriber struct {
	ChatID     int64 // Telegram Chat ID
	UserID     int64 // Telegram User ID, подписавший чат
	Subscribed bool  // Получать ли рассылку
}

// NewSubscriber создаёт запись о чате без подписки
func NewSubscriber(chatID, userID int64) *Subscriber {
	return &Subscriber{
		ChatID: chatID,
		UserID: userID,
	}
}

// SetSubscribed включает или выключает рассылку
func (s *Subscriber) SetSubscribed(on bool) {
	s.Subscribed = on
}
