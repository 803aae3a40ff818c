package send_reminders

import (
	"fmt"
	"sync"
)

// sentCache помнит, кому напоминание уже отправлено.
// Ключ включает идентичность слота, поэтому срок жизни записей не нужен.
// Кэш живёт в памяти: после перезапуска процесса напоминание может уйти
// повторно, это принятое ограничение.
type sentCache struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newSentCache() *sentCache {
	return &sentCache{
		keys: make(map[string]struct{}),
	}
}

func reminderKey(userID int64, date, timeRange string) string {
	return fmt.Sprintf("%d_%s_%s", userID, date, timeRange)
}

// markIfNew возвращает true и запоминает ключ, если он встречается впервые
func (c *sentCache) markIfNew(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.keys[key]; ok {
		return false
	}
	c.keys[key] = struct{}{}
	return true
}

// forget удаляет ключ, позволяя отправить напоминание повторно
func (c *sentCache) forget(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.keys, key)
}
