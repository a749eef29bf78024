package inbound

type SendNotificationRequest struct {
	ToMail  string `json:"tomail" example:"user@example.com"`
	Subject string `json:"subject" example:"Your order has shipped"`
	Body    string `json:"body" example:"Hello, your order #123 is on its way."`
}
