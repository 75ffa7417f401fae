package service

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-mail/mail/v2"
	"github.com/sirupsen/logrus"

	"github.com/kvenanzi/debtreduction/internal/model"
)

type EmailSender struct {
	dialer  *mail.Dialer
	logger  *logrus.Logger
	enabled bool
}

func NewEmailSender(logger *logrus.Logger) *EmailSender {
	enabled := os.Getenv("EMAIL_SENDER_ENABLED") == "true"
	if !enabled {
		return &EmailSender{logger: logger, enabled: false}
	}

	smtpHost := os.Getenv("SMTP_HOST")
	smtpPortStr := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	isInsecureSkipVerify := os.Getenv("INSECURE_SKIP_VERIFY") == "true"

	// Преобразуем smtpPort в int
	smtpPort, err := strconv.Atoi(smtpPortStr)
	if err != nil {
		logger.Fatalf("Ошибка преобразования SMTP_PORT: %v", err)
	}

	d := mail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	d.TLSConfig = &tls.Config{
		ServerName:         smtpHost,
		InsecureSkipVerify: isInsecureSkipVerify,
	}

	return &EmailSender{
		dialer:  d,
		logger:  logger,
		enabled: true,
	}
}

func (es *EmailSender) SendSnapshotNotification(email string, snapshot *model.PlanSnapshot) error {
	if !es.enabled {
		es.logger.Warn("Отправка уведомлений отключена")
		return nil
	}

	subject := "Снимок плана погашения долгов"
	content := fmt.Sprintf(`
		<h1>Снимок плана погашения</h1>
		<p>Стратегия: <strong>%s</strong></p>
		<p>Месяцев до погашения: <strong>%d</strong></p>
		<p>Всего процентов: <strong>$%s</strong></p>
		<p>Дата: <strong>%s</strong></p>
		<small>Это автоматическое уведомление, пожалуйста, не отвечайте на него</small>
	`, snapshot.Strategy, snapshot.TotalMonths, snapshot.TotalInterest.StringFixed(2),
		time.Now().Format("02.01.2006 15:04"))

	return es.sendEmail(email, subject, content)
}

func (es *EmailSender) sendEmail(to, subject, body string) error {
	m := mail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_USER"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := es.dialer.DialAndSend(m); err != nil {
		es.logger.WithError(err).Error("Ошибка отправки email")
		return fmt.Errorf("не удалось отправить email: %w", err)
	}

	es.logger.Infof("Email успешно отправлен на %s", to)
	return nil
}
