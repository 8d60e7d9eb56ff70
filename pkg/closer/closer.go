// Package closer останавливает ресурсы приложения в порядке, обратном регистрации.
package closer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/DRSN-tech/inventory/pkg/logger"
)

const defaultForcedTimeout = 2 * time.Second

// Func закрывает один ресурс.
type Func func(ctx context.Context) error

type resource struct {
	name  string
	close Func
}

// Closer потокобезопасно копит ресурсы и закрывает их один раз.
type Closer struct {
	mu            sync.Mutex
	once          sync.Once
	resources     []resource
	forcedTimeout time.Duration
	logger        logger.Logger
}

// NewCloser создаёт Closer. forcedTimeout ограничивает принудительное закрытие ресурсов,
// до которых не дошла очередь, когда истёк контекст Close.
func NewCloser(forcedTimeout time.Duration, log logger.Logger) *Closer {
	if forcedTimeout <= 0 {
		forcedTimeout = defaultForcedTimeout
	}

	return &Closer{
		forcedTimeout: forcedTimeout,
		logger:        log,
	}
}

// Add регистрирует ресурс. Имя попадает в лог и в текст ошибки.
func (c *Closer) Add(name string, f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resources = append(c.resources, resource{name: name, close: f})
}

// Close закрывает ресурсы по одному, начиная с последнего добавленного.
// Если ctx истекает раньше, оставшиеся ресурсы закрываются параллельно с собственным таймаутом.
// Повторные вызовы ничего не делают.
func (c *Closer) Close(ctx context.Context) error {
	var err error

	c.once.Do(func() {
		c.mu.Lock()
		resources := c.resources
		c.mu.Unlock()

		remaining, errs := c.closeInOrder(ctx, resources)
		if remaining == 0 {
			err = errors.Join(errs...)
			return
		}

		c.logger.Warnf("shutdown deadline exceeded, forcing %d resource(s) to close", remaining)
		errs = append(errs, c.forceClose(resources[:remaining])...)

		err = fmt.Errorf("shutdown interrupted, %d/%d resources closed in order",
			len(resources)-remaining, len(resources))
		if joined := errors.Join(errs...); joined != nil {
			err = fmt.Errorf("%w: %w", err, joined)
		}
	})

	return err
}

// closeInOrder возвращает число ресурсов, до которых не дошла очередь.
func (c *Closer) closeInOrder(ctx context.Context, resources []resource) (int, []error) {
	var errs []error

	for i := len(resources) - 1; i >= 0; i-- {
		res := resources[i]
		done := make(chan error, 1)

		go func() {
			done <- res.close(ctx)
		}()

		select {
		case err := <-done:
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", res.name, err))
				continue
			}
			c.logger.Infof("%s closed", res.name)
		case <-ctx.Done():
			// ресурс i ещё закрывается, он попадёт в принудительное закрытие
			return i + 1, errs
		}
	}

	return 0, errs
}

func (c *Closer) forceClose(resources []resource) []error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	for _, res := range resources {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := res.close(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s (forced): %w", res.name, err))
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return errs
}
