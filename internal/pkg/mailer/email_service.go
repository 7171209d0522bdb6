package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendWaitlistInvite(toEmail, name string) error
	SendPaymentFailed(toEmail string, amountDue float64) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	clientURL   string
}

func NewEmailService(host string, port int, username, password, senderEmail, clientURL string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		clientURL:   clientURL,
	}
}

func (s *emailService) SendWaitlistInvite(toEmail, name string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "A spot opened up for you")

	greeting := "Hi"
	if name != "" {
		greeting = "Hi " + name
	}
	upgradeLink := fmt.Sprintf("%s/upgrade?src=waitlist", s.clientURL)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>%s, your spot is ready!</h2>
			<p>A paid seat on Creative Flow Studio just opened up and it's yours if you want it.</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Upgrade now</a>
			<p>This invitation expires after a few days, so don't wait too long.</p>
		</div>
	`, greeting, upgradeLink)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send waitlist invite to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Waitlist invite sent to %s\n", toEmail)
	return nil
}

func (s *emailService) SendPaymentFailed(toEmail string, amountDue float64) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Payment failed for your subscription")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>We couldn't process your payment</h2>
			<p>Your latest invoice of $%.2f could not be charged. Please update your payment method to keep your plan active.</p>
			<p><a href="%s/billing">Manage billing</a></p>
		</div>
	`, amountDue, s.clientURL)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send payment failed notice to %s: %v\n", toEmail, err)
		return err
	}

	return nil
}
