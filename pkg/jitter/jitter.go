// Package jitter рассчитывает задержки переподключения со случайной добавкой,
// чтобы несколько экземпляров сервиса не ломились в БД одновременно.
package jitter

import (
	"math/rand/v2"
	"time"
)

// DefaultFactor: к задержке добавляется до 50% её длительности.
const DefaultFactor = 0.5

// Duration возвращает d плюс случайную добавку из [0, d*factor).
func Duration(d time.Duration, factor float64) time.Duration {
	if factor <= 0 || d <= 0 {
		return d
	}

	return d + time.Duration(rand.Float64()*factor*float64(d))
}

// Backoff описывает экспоненциальную задержку: Base удваивается с каждой попыткой, но не выше Max.
type Backoff struct {
	Base   time.Duration
	Max    time.Duration
	Factor float64
}

// NewBackoff возвращает Backoff с коэффициентом DefaultFactor.
func NewBackoff(base, maxDelay time.Duration) Backoff {
	return Backoff{Base: base, Max: maxDelay, Factor: DefaultFactor}
}

// Delay возвращает задержку перед попыткой attempt (нумерация с нуля) без случайной добавки.
func (b Backoff) Delay(attempt int) time.Duration {
	d := b.Base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= b.Max {
			return b.Max
		}
	}

	return min(d, b.Max)
}

// Next возвращает Delay(attempt) со случайной добавкой.
func (b Backoff) Next(attempt int) time.Duration {
	return Duration(b.Delay(attempt), b.Factor)
}
