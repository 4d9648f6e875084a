package telegram

import (
	"context"
	"fmt"
	"log"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/robfig/cron/v3"

	"invisibility-cloak/internal/domain/entity"
	"invisibility-cloak/internal/domain/port"
	"invisibility-cloak/internal/infrastructure/vision"
)

const (
	msgStart = `👋 Привет! Я пульт «плаща-невидимки».

📋 Команды:
/background — захватить фон
/color — захватить цвет плаща
/snapshot — прислать текущий кадр
/subscribe — получать кадры по расписанию
/unsubscribe — отписаться
/stop — завершить сессию
/help — справка`

	msgHelp = `ℹ️ Как пользоваться:

1️⃣ Уйдите из кадра и отправьте /background
2️⃣ Поднесите плащ к рамке в центре и отправьте /color
3️⃣ Всё, что совпадает по цвету с плащом, заменяется фоном

📸 /snapshot присылает текущий кадр
🛑 /stop завершает сессию`

	msgBackground     = "📸 Захватываю фон, не входите в кадр."
	msgColor          = "🎨 Захватываю цвет плаща."
	msgStop           = "🛑 Завершаю сессию."
	msgSubscribed     = "🔔 Вы подписаны на снимки по расписанию."
	msgUnsubscribed   = "🔕 Подписка отключена."
	msgNoFrame        = "⏳ Кадров пока нет."
	msgQueueFull      = "⚠️ Слишком много команд, повторите позже."
	msgForbidden      = "⛔ Этот чат не может управлять сессией."
	msgUnknownCommand = "❓ Неизвестная команда. Используйте /help для справки."
	msgSnapshotError  = "⚠️ Не удалось подготовить снимок."
)

// signalQueueSize сколько команд может ждать очередного опроса конвейера.
const signalQueueSize = 8

// Sender часть tgbotapi.BotAPI, через которую бот отвечает.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot представляет Telegram-пульт: переводит команды в сигналы конвейера
// и присылает последний выходной кадр.
type Bot struct {
	api         *tgbotapi.BotAPI
	sender      Sender
	subscribers port.SubscriberRepository
	allowed     map[int64]bool
	width       uint

	signals chan entity.Signal

	mu     sync.RWMutex
	latest entity.Frame

	cron *cron.Cron
}

// NewBot создаёт нового бота
func NewBot(token string, subscribers port.SubscriberRepository, allowedChats []int64, snapshotWidth uint) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	b := newBot(api, subscribers, allowedChats, snapshotWidth)
	b.api = api
	return b, nil
}

func newBot(sender Sender, subscribers port.SubscriberRepository, allowedChats []int64, snapshotWidth uint) *Bot {
	allowed := make(map[int64]bool, len(allowedChats))
	for _, id := range allowedChats {
		allowed[id] = true
	}
	return &Bot{
		sender:      sender,
		subscribers: subscribers,
		allowed:     allowed,
		width:       snapshotWidth,
		signals:     make(chan entity.Signal, signalQueueSize),
	}
}

// Run запускает основной цикл обработки сообщений; завершается по отмене контекста.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// Schedule включает рассылку снимков подписчикам по cron-расписанию.
func (b *Bot) Schedule(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { b.broadcast(context.Background()) }); err != nil {
		return fmt.Errorf("parse snapshot schedule %q: %w", spec, err)
	}
	c.Start()
	b.cron = c
	log.Printf("Snapshot broadcast scheduled: %s", spec)
	return nil
}

// Poll отдаёт очередную команду из чата, не блокируясь.
func (b *Bot) Poll() entity.Signal {
	select {
	case s := <-b.signals:
		return s
	default:
		return entity.SignalContinue
	}
}

// Show запоминает последний выходной кадр; остальные окна боту не нужны.
// Кадр не копируется: конвейер не переиспользует выходные кадры.
func (b *Bot) Show(window string, frame entity.Frame) {
	if window != port.WindowOutput {
		return
	}
	b.mu.Lock()
	b.latest = frame
	b.mu.Unlock()
}

// Close останавливает рассылку. Приём сообщений останавливается вместе с Run.
func (b *Bot) Close() error {
	if b.cron != nil {
		<-b.cron.Stop().Done()
	}
	return nil
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if len(b.allowed) > 0 && !b.allowed[msg.Chat.ID] {
		log.Printf("Rejected message from chat %d", msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, msgForbidden)
		return
	}

	if !msg.IsCommand() {
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
		return
	}

	b.handleCommand(ctx, msg)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if signal, reply, ok := commandSignal(msg.Command()); ok {
		if !b.enqueue(signal) {
			b.sendMessage(chatID, msgQueueFull)
			return
		}
		b.sendMessage(chatID, reply)
		return
	}

	switch msg.Command() {
	case "start":
		if _, err := b.subscribers.Get(ctx, chatID, senderID(msg)); err != nil {
			log.Printf("Error getting subscriber: %v", err)
		}
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "snapshot":
		b.sendSnapshot(chatID)

	case "subscribe", "unsubscribe":
		on := msg.Command() == "subscribe"
		if _, err := b.subscribers.Get(ctx, chatID, senderID(msg)); err != nil {
			log.Printf("Error getting subscriber: %v", err)
			return
		}
		if err := b.subscribers.SetSubscribed(ctx, chatID, on); err != nil {
			log.Printf("Error updating subscription: %v", err)
			return
		}
		if on {
			b.sendMessage(chatID, msgSubscribed)
		} else {
			b.sendMessage(chatID, msgUnsubscribed)
		}

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

func senderID(msg *tgbotapi.Message) int64 {
	if msg.From == nil {
		return 0
	}
	return msg.From.ID
}

// commandSignal сопоставляет команду чата сигналу конвейера и ответу пользователю.
func commandSignal(command string) (entity.Signal, string, bool) {
	switch command {
	case "background":
		return entity.SignalCaptureBackground, msgBackground, true
	case "color":
		return entity.SignalCaptureColor, msgColor, true
	case "stop":
		return entity.SignalExit, msgStop, true
	default:
		return entity.SignalContinue, "", false
	}
}

func (b *Bot) enqueue(s entity.Signal) bool {
	select {
	case b.signals <- s:
		return true
	default:
		log.Printf("Signal queue is full, %s dropped", s)
		return false
	}
}

// broadcast рассылает текущий кадр всем подписчикам.
func (b *Bot) broadcast(ctx context.Context) {
	subs, err := b.subscribers.ListSubscribed(ctx)
	if err != nil {
		log.Printf("Error listing subscribers: %v", err)
		return
	}
	for _, s := range subs {
		b.sendSnapshot(s.ChatID)
	}
}

// sendSnapshot отправляет последний выходной кадр в чат
func (b *Bot) sendSnapshot(chatID int64) {
	b.mu.RLock()
	frame := b.latest
	b.mu.RUnlock()

	if frame.Empty() {
		b.sendMessage(chatID, msgNoFrame)
		return
	}

	data, err := vision.EncodeSnapshot(frame, b.width)
	if err != nil {
		log.Printf("Error encoding snapshot: %v", err)
		b.sendMessage(chatID, msgSnapshotError)
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "snapshot.jpg", Bytes: data})
	photo.Caption = fmt.Sprintf("Кадр #%d", frame.Index)
	if _, err := b.sender.Send(photo); err != nil {
		log.Printf("Error sending snapshot: %v", err)
	}
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.sender.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

var (
	_ port.DisplaySink  = (*Bot)(nil)
	_ port.SignalSource = (*Bot)(nil)
)
