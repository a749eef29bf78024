// Package mail defines the contracts for sending email messages.
//
// Use cases work with the Mail interface and the Message payload; the SMTP
// implementation in this package is built from a per-call SMTPConfig so the
// server settings can come from storage instead of process configuration.
package mail
