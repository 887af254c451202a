package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"log"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/sony/gobreaker"
	"gopkg.in/gomail.v2"

	"github.com/HSouheill/yoga_blog_backend/models"
	"github.com/HSouheill/yoga_blog_backend/utils"
)

var (
	ErrInvalidContact    = errors.New("invalid contact submission")
	ErrOwnerNotification = errors.New("sending message failed")
	ErrAutoReply         = errors.New("auto-reply failed")
	ErrMailDisabled      = errors.New("mail delivery is not configured")
)

// MailTransport delivers composed messages; *gomail.Dialer satisfies it
type MailTransport interface {
	DialAndSend(m ...*gomail.Message) error
}

// ContactConfig addresses and names used in contact emails
type ContactConfig struct {
	FromEmail  string
	OwnerEmail string
	SiteName   string
}

// contactData is what both templates render from
type contactData struct {
	SiteName    string
	Name        string
	Email       string
	Subject     string
	Mobile      string
	Message     string
	Paragraphs  []string
	SubmittedAt string
}

// ContactService sends the owner notification and the visitor auto-reply
type ContactService struct {
	transport MailTransport
	breaker   *gobreaker.CircuitBreaker
	cfg       ContactConfig
	now       func() time.Time

	owner mailTemplate
	reply mailTemplate
}

// mailTemplate renders one email: subject line, plain body and HTML alternative
type mailTemplate struct {
	subject *texttemplate.Template
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

func mustMailTemplate(name, subject, text, html string) mailTemplate {
	return mailTemplate{
		subject: texttemplate.Must(texttemplate.New(name + "-subject").Parse(subject)),
		text:    texttemplate.Must(texttemplate.New(name + "-text").Parse(text)),
		html:    htmltemplate.Must(htmltemplate.New(name + "-html").Parse(html)),
	}
}

// NewSMTPTransport builds the gomail dialer for SMTP delivery
func NewSMTPTransport(host string, port int, user, pass string) *gomail.Dialer {
	return gomail.NewDialer(host, port, user, pass)
}

// NewContactService parses the templates and wraps transport in a circuit breaker.
// A nil transport makes every Send fail with ErrMailDisabled.
func NewContactService(transport MailTransport, cfg ContactConfig) *ContactService {
	s := &ContactService{
		transport: transport,
		cfg:       cfg,
		now:       time.Now,
		owner:     mustMailTemplate("owner", ownerSubjectTemplate, ownerTextTemplate, ownerHTMLTemplate),
		reply:     mustMailTemplate("reply", replySubjectTemplate, replyTextTemplate, replyHTMLTemplate),
	}
	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "SMTP",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})
	return s
}

// Normalize cleans a submission and fills its defaults
func (s *ContactService) Normalize(req models.ContactRequest) (models.ContactRequest, error) {
	req.Name = utils.CleanLine(req.Name)
	req.Subject = utils.CleanLine(req.Subject)
	req.Message = utils.CleanText(req.Message)

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return req, fmt.Errorf("%w: %v", ErrInvalidContact, err)
	}
	req.Email = email

	mobile, err := utils.SanitizePhone(req.Mobile)
	if err != nil {
		return req, fmt.Errorf("%w: %v", ErrInvalidContact, err)
	}
	req.Mobile = mobile

	if req.Name == "" {
		return req, fmt.Errorf("%w: name is required", ErrInvalidContact)
	}
	if req.Subject == "" {
		req.Subject = models.SubjectGeneral
	}
	suggestion := models.SuggestionFor(req.Subject)
	if suggestion == "" {
		return req, fmt.Errorf("%w: unknown subject %q", ErrInvalidContact, req.Subject)
	}
	if req.Message == "" {
		req.Message = suggestion
	}
	return req, nil
}

// Send delivers the owner notification, then the auto-reply. The auto-reply
// is only attempted once the owner has been notified.
func (s *ContactService) Send(ctx context.Context, req models.ContactRequest) error {
	if s.transport == nil {
		return ErrMailDisabled
	}
	req, err := s.Normalize(req)
	if err != nil {
		return err
	}

	data := contactData{
		SiteName:    s.cfg.SiteName,
		Name:        req.Name,
		Email:       req.Email,
		Subject:     req.Subject,
		Mobile:      req.Mobile,
		Message:     req.Message,
		Paragraphs:  utils.Paragraphs(req.Message),
		SubmittedAt: s.now().UTC().Format("January 2, 2006 15:04 MST"),
	}

	owner, err := s.owner.compose(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOwnerNotification, err)
	}
	owner.SetHeader("From", s.cfg.FromEmail)
	owner.SetHeader("To", s.cfg.OwnerEmail)
	owner.SetHeader("Reply-To", owner.FormatAddress(req.Email, req.Name))
	if err := s.deliver(ctx, owner); err != nil {
		return fmt.Errorf("%w: %v", ErrOwnerNotification, err)
	}

	reply, err := s.reply.compose(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAutoReply, err)
	}
	reply.SetHeader("From", reply.FormatAddress(s.cfg.FromEmail, s.cfg.SiteName))
	reply.SetHeader("To", reply.FormatAddress(req.Email, req.Name))
	if err := s.deliver(ctx, reply); err != nil {
		return fmt.Errorf("%w: %v", ErrAutoReply, err)
	}
	return nil
}

func (t mailTemplate) compose(data contactData) (*gomail.Message, error) {
	var subject, text, html bytes.Buffer
	if err := t.subject.Execute(&subject, data); err != nil {
		return nil, fmt.Errorf("render subject: %w", err)
	}
	if err := t.text.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("render text body: %w", err)
	}
	if err := t.html.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("render html body: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("Subject", strings.TrimSpace(subject.String()))
	m.SetBody("text/plain", text.String())
	m.AddAlternative("text/html", html.String())
	return m, nil
}

func (s *ContactService) deliver(ctx context.Context, m *gomail.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.transport.DialAndSend(m)
	})
	return err
}
