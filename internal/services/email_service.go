package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"dentastore/internal/config"
	"dentastore/internal/models"
	"dentastore/internal/utils"
	"dentastore/pkg/logger"
)

type EmailService interface {
	SendEmail(ctx context.Context, to, subject, htmlBody string) error
	SendWelcomeEmail(ctx context.Context, user *models.User) error
	SendOrderConfirmationEmail(ctx context.Context, user *models.User, order *models.Order) error
}

type emailService struct {
	config *config.SMTPConfig
	logger *logger.Logger
}

func NewEmailService(config *config.SMTPConfig, logger *logger.Logger) EmailService {
	return &emailService{
		config: config,
		logger: logger,
	}
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>Bienvenue chez {{.AppName}}, {{.FirstName}} !</h2>
	<p>Votre compte a bien été créé. Vous pouvez dès maintenant parcourir
	notre catalogue de matériel dentaire et passer vos commandes.</p>
	<p>À très bientôt,<br>L'équipe {{.AppName}}</p>
</body>
</html>
`))

var orderConfirmationTemplate = template.Must(template.New("order_confirmation").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>Merci pour votre commande, {{.FirstName}} !</h2>
	<p>Votre commande <strong>{{.OrderNumber}}</strong> a bien été enregistrée.</p>
	<table style="border-collapse: collapse; width: 100%;">
		<tr><td>Sous-total</td><td style="text-align: right;">{{.Subtotal}}</td></tr>
		{{if .HasDiscount}}<tr><td>Remise{{if .PromoCode}} ({{.PromoCode}}){{end}}</td><td style="text-align: right;">-{{.Discount}}</td></tr>{{end}}
		<tr><td>Livraison</td><td style="text-align: right;">{{.Shipping}}</td></tr>
		<tr><td><strong>Total</strong></td><td style="text-align: right;"><strong>{{.Total}}</strong></td></tr>
	</table>
	<p>Nous vous informerons dès son expédition.</p>
	<p>L'équipe {{.AppName}}</p>
</body>
</html>
`))

func (s *emailService) SendEmail(ctx context.Context, to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, msg.Bytes()); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"to":      to,
		"subject": subject,
	}).Info("Email sent")

	return nil
}

func (s *emailService) SendWelcomeEmail(ctx context.Context, user *models.User) error {
	var body bytes.Buffer
	err := welcomeTemplate.Execute(&body, map[string]interface{}{
		"AppName":   utils.AppName,
		"FirstName": user.FirstName,
	})
	if err != nil {
		return fmt.Errorf("failed to render welcome email: %w", err)
	}

	subject := fmt.Sprintf("Bienvenue chez %s", utils.AppName)
	return s.SendEmail(ctx, user.Email, subject, body.String())
}

func (s *emailService) SendOrderConfirmationEmail(ctx context.Context, user *models.User, order *models.Order) error {
	var body bytes.Buffer
	err := orderConfirmationTemplate.Execute(&body, map[string]interface{}{
		"AppName":     utils.AppName,
		"FirstName":   user.FirstName,
		"OrderNumber": order.OrderNumber,
		"Subtotal":    utils.FormatPrice(order.Subtotal),
		"HasDiscount": order.DiscountAmount > 0,
		"Discount":    utils.FormatPrice(order.DiscountAmount),
		"PromoCode":   order.PromoCode,
		"Shipping":    utils.FormatPrice(order.ShippingCost),
		"Total":       utils.FormatPrice(order.Total),
	})
	if err != nil {
		return fmt.Errorf("failed to render order confirmation email: %w", err)
	}

	subject := fmt.Sprintf("Confirmation de votre commande %s", order.OrderNumber)
	return s.SendEmail(ctx, user.Email, subject, body.String())
}
