package email

import (
	"context"
	"errors"
	"testing"

	"github.com/shandysiswandi/gomailer/internal/notification/entity"
	"github.com/shandysiswandi/gomailer/internal/pkg/mail"
)

type fakeTransport struct {
	sent     []mail.Message
	sendErr  error
	closeErr error
	closed   int
}

func (f *fakeTransport) Send(_ context.Context, msg mail.Message) error {
	f.sent = append(f.sent, msg)
	return f.sendErr
}

func (f *fakeTransport) Close() error {
	f.closed++
	return f.closeErr
}

func recordingFactory(tr *fakeTransport, got *[]mail.SMTPConfig, buildErr error) mail.Factory {
	return func(cfg mail.SMTPConfig) (mail.Mail, error) {
		*got = append(*got, cfg)
		if buildErr != nil {
			return nil, buildErr
		}
		return tr, nil
	}
}

func TestMailSend(t *testing.T) {

	// Arrange
	tr := &fakeTransport{}
	var cfgs []mail.SMTPConfig
	m := New(recordingFactory(tr, &cfgs, nil), nil)

	cfg := entity.MailConfig{
		ID:        1,
		Host:      "smtp.example.com",
		Port:      587,
		Username:  "u",
		Password:  "p",
		FromEmail: "from@example.com",
		UseTLS:    true,
		Active:    true,
	}
	env := entity.Envelope{From: "from@example.com", To: "a@b.com", Subject: "S", Body: "B"}

	// Act
	err := m.Send(context.Background(), cfg, env)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfgs) != 1 {
		t.Fatalf("factory calls = %d, want 1", len(cfgs))
	}
	wantCfg := mail.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "u",
		Password: "p",
		From:     "from@example.com",
		UseTLS:   true,
	}
	if cfgs[0] != wantCfg {
		t.Fatalf("smtp config = %+v, want %+v", cfgs[0], wantCfg)
	}
	if len(tr.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(tr.sent))
	}
	msg := tr.sent[0]
	if msg.From != "from@example.com" || len(msg.To) != 1 || msg.To[0] != "a@b.com" {
		t.Fatalf("addresses = %+v", msg)
	}
	if msg.Subject != "S" || msg.TextBody != "B" {
		t.Fatalf("content = %+v", msg)
	}
	if tr.closed != 1 {
		t.Fatalf("closed = %d, want 1", tr.closed)
	}
}

func TestMailSendErrors(t *testing.T) {
	buildErr := errors.New("smtp host and port are required")
	sendErr := errors.New("dial tcp: connection refused")
	closeErr := errors.New("close failed")

	tests := []struct {
		name     string
		tr       *fakeTransport
		buildErr error
		want     []error
	}{
		{name: "factory fails", tr: &fakeTransport{}, buildErr: buildErr, want: []error{buildErr}},
		{name: "send fails", tr: &fakeTransport{sendErr: sendErr}, want: []error{sendErr}},
		{name: "send and close fail", tr: &fakeTransport{sendErr: sendErr, closeErr: closeErr}, want: []error{sendErr, closeErr}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfgs []mail.SMTPConfig
			m := New(recordingFactory(tt.tr, &cfgs, tt.buildErr), nil)

			err := m.Send(context.Background(), entity.MailConfig{Host: "h", Port: 25}, entity.Envelope{To: "a@b.com"})

			for _, w := range tt.want {
				if !errors.Is(err, w) {
					t.Fatalf("err = %v, want %v in chain", err, w)
				}
			}
		})
	}
}
