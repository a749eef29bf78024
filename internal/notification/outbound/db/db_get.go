package db

import (
	"context"

	"github.com/shandysiswandi/gomailer/internal/notification/entity"
)

// Nullable columns collapse to zero values; the transport reports what is
// missing when it dials.
const queryFindActiveMailConfig = `
SELECT
    id,
    COALESCE(provider, ''),
    COALESCE(host, ''),
    COALESCE(port, 0),
    COALESCE(username, ''),
    COALESCE(password, ''),
    COALESCE(from_email, ''),
    COALESCE(use_ssl, FALSE),
    COALESCE(use_tls, FALSE),
    active
FROM mail_config
WHERE active = TRUE
ORDER BY id
LIMIT 1`

// FindActiveConfig returns the active mail configuration with the lowest id,
// or goerror.ErrNotFound when no row is active.
func (s *DB) FindActiveConfig(ctx context.Context) (_ *entity.MailConfig, err error) {
	ctx, span := s.startSpan(ctx, "FindActiveConfig")
	defer func() { s.endSpan(span, err) }()

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var (
		cfg  entity.MailConfig
		port int32
	)
	err = s.conn.QueryRow(ctx, queryFindActiveMailConfig).Scan(
		&cfg.ID,
		&cfg.Provider,
		&cfg.Host,
		&port,
		&cfg.Username,
		&cfg.Password,
		&cfg.FromEmail,
		&cfg.UseSSL,
		&cfg.UseTLS,
		&cfg.Active,
	)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}
	cfg.Port = int(port)

	return &cfg, nil
}
