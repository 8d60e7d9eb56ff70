package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/DRSN-tech/inventory/pkg/e"
	"github.com/DRSN-tech/inventory/pkg/jitter"
	"github.com/DRSN-tech/inventory/pkg/logger"
	"github.com/jackc/pgx/v5"
)

// Listener держит отдельное соединение с LISTEN на канал и переподключается с экспоненциальной задержкой.
type Listener struct {
	dsn     string
	channel string
	logger  logger.Logger

	backoff     jitter.Backoff
	waitTimeout time.Duration
}

func NewListener(dsn, channel string, logger logger.Logger) *Listener {
	return &Listener{
		dsn:         dsn,
		channel:     channel,
		logger:      logger,
		backoff:     jitter.NewBackoff(time.Second, 30*time.Second),
		waitTimeout: 30 * time.Second,
	}
}

// Listen вызывает notify на каждое уведомление канала, пока ctx не отменён.
func (l *Listener) Listen(ctx context.Context, notify func()) {
	attempt := 0
	for ctx.Err() == nil {
		conn, err := l.connect(ctx)
		if err != nil {
			delay := l.backoff.Next(attempt)
			l.logger.Warnf("LISTEN %s failed: %v, retry in %s", l.channel, err, delay)
			attempt++

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			continue
		}

		attempt = 0
		// после переподключения могли пропустить уведомления
		notify()
		l.wait(ctx, conn, notify)

		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		_ = conn.Close(closeCtx)
		cancel()
	}
}

func (l *Listener) connect(ctx context.Context) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return nil, e.Wrap("failed to connect for LISTEN", err)
	}

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		_ = conn.Close(ctx)
		return nil, e.Wrap("failed to LISTEN", err)
	}

	l.logger.Infof("Subscribed to '%s' channel", l.channel)
	return conn, nil
}

// wait возвращается при отмене ctx или потере соединения.
func (l *Listener) wait(ctx context.Context, conn *pgx.Conn, notify func()) {
	for {
		waitCtx, cancel := context.WithTimeout(ctx, l.waitTimeout)
		notif, err := conn.WaitForNotification(waitCtx)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, context.DeadlineExceeded) {
				continue
			}

			l.logger.Warnf("LISTEN connection lost: %v. Reconnecting...", err)
			return
		}

		if notif != nil && notif.Channel == l.channel {
			notify()
		}
	}
}
