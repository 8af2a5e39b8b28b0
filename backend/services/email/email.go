// Package email sends transactional mail. Sendgrid is used when an API key
// is configured; otherwise receipts go to the log, which is what tests and
// local development rely on.
package email

import (
	"fmt"
	"log"
	"strings"

	"learnhub/backend/models"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Mailer interface {
	SendReceipt(toEmail, toName string, order *models.Order) error
}

func receiptBody(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for your purchase!\n\nOrder %s\n\n", order.OrderNumber)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %s (%s): $%.2f\n", item.Title, item.ItemType, item.Price)
	}
	fmt.Fprintf(&b, "\nTotal: $%.2f\n", order.Total)
	return b.String()
}

type SendgridMailer struct {
	client *sendgrid.Client
	from   string
}

func NewSendgridMailer(apiKey, from string) *SendgridMailer {
	return &SendgridMailer{client: sendgrid.NewSendClient(apiKey), from: from}
}

func (m *SendgridMailer) SendReceipt(toEmail, toName string, order *models.Order) error {
	from := mail.NewEmail("LearnHub", m.from)
	to := mail.NewEmail(toName, toEmail)
	subject := fmt.Sprintf("Your LearnHub receipt — order %s", order.OrderNumber)
	body := receiptBody(order)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	resp, err := m.client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

type ConsoleMailer struct {
	Logger *log.Logger
}

func (m *ConsoleMailer) SendReceipt(toEmail, toName string, order *models.Order) error {
	m.Logger.Printf("receipt for %s <%s>:\n%s", toName, toEmail, receiptBody(order))
	return nil
}
