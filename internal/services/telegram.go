package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// TelegramService delivers order notifications to the shop's admin chat.
type TelegramService struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, chatID string) *TelegramService {
	return &TelegramService{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  "https://api.telegram.org",
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type telegramMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// SendMessage sends a plain text message to the configured chat.
func (s *TelegramService) SendMessage(text string) error {
	if s.botToken == "" || s.chatID == "" {
		log.Println("[Telegram] bot token or chat ID not configured")
		return nil
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.apiBase, s.botToken)

	body, err := json.Marshal(telegramMessage{ChatID: s.chatID, Text: text})
	if err != nil {
		return err
	}

	resp, err := s.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Telegram] failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Telegram] unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// OrderNotification contains order data for the admin notification.
type OrderNotification struct {
	OrderNumber string
	MobilePhone string
	Items       []OrderItemNotification
}

// OrderItemNotification contains a single order line.
type OrderItemNotification struct {
	Name     string
	Price    float64
	Quantity int
}

// NotifyNewOrder sends the order summary to the admin chat. Delivery is best
// effort; a failure never affects the order itself.
func (s *TelegramService) NotifyNewOrder(order OrderNotification) error {
	var items strings.Builder
	for i, item := range order.Items {
		items.WriteString(fmt.Sprintf("    %d. %s, %.0ftg в количестве: %d\n",
			i+1, item.Name, item.Price, item.Quantity))
	}

	message := fmt.Sprintf("Заказ №%s,\n  Телефон: %s,\n  Товары:\n%s",
		order.OrderNumber, order.MobilePhone, items.String())

	return s.SendMessage(strings.TrimRight(message, "\n"))
}
