package eventbus

import (
	"context"
	"sync"
)

var (
	globalBus EventBus
	globalMu  sync.RWMutex
)

// Init устанавливает глобальную шину событий процесса.
func Init(bus EventBus) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalBus = bus
}

// Get возвращает глобальную шину (nil если не инициализирована).
func Get() EventBus {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalBus
}

// Publish публикует событие в глобальную шину; no-op если шина не задана.
func Publish(ctx context.Context, ev *Envelope) error {
	globalMu.RLock()
	bus := globalBus
	globalMu.RUnlock()
	if bus == nil {
		return nil
	}
	return bus.Publish(ctx, ev)
}
