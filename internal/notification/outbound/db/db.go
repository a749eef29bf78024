package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/gomailer/internal/pkg/goerror"
	"github.com/shandysiswandi/gomailer/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultQueryTimeout bounds a single lookup when no timeout is configured.
const DefaultQueryTimeout = 5 * time.Second

// querier is the subset of pgxpool.Pool used by DB.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type DB struct {
	conn         querier
	queryTimeout time.Duration
	ins          instrument.Instrumentation
}

func NewDB(conn *pgxpool.Pool, queryTimeout time.Duration, ins instrument.Instrumentation) *DB {
	if queryTimeout <= 0 {
		queryTimeout = DefaultQueryTimeout
	}
	if ins == nil {
		ins = instrument.NewNoop()
	}

	return &DB{
		conn:         conn,
		queryTimeout: queryTimeout,
		ins:          ins,
	}
}

func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
