package entity

// MailConfig is a stored SMTP server configuration. Rows are maintained
// outside this service; exactly one is expected to be active at a time.
type MailConfig struct {
	ID        int64
	Provider  string
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	UseSSL    bool
	UseTLS    bool
	Active    bool
}

// Envelope is what the transport needs to deliver one message.
type Envelope struct {
	From    string
	To      string
	Subject string
	Body    string
}
