package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// otpKeyPrefix пространство ключей одноразовых кодов.
const otpKeyPrefix = "otp:"

// consumeScript атомарно сравнивает и удаляет код: ровно один
// конкурентный вызов может увидеть совпадение.
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// OTPStore хранилище одноразовых кодов поверх Redis.
// На каждый email живёт не более одного кода: повторная выдача
// перезаписывает предыдущий и перезапускает TTL.
type OTPStore struct {
	db *redis.Client
}

// NewOTPStore создает хранилище одноразовых кодов поверх подключения Cache.
func NewOTPStore(c *Cache) *OTPStore {
	return &OTPStore{db: c.Db}
}

// SaveCode записывает код для email, заменяя предыдущий и перезапуская
// окно жизни кода.
func (s *OTPStore) SaveCode(ctx context.Context, email, code string, ttl time.Duration) error {
	const op = "cache.SaveCode"
	if err := s.db.Set(ctx, otpKeyPrefix+email, code, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ConsumeCode проверяет код и удаляет его при совпадении.
// Возвращает true, только если код существовал и совпал; запись при этом
// удалена, повторная проверка того же кода вернет false.
func (s *OTPStore) ConsumeCode(ctx context.Context, email, code string) (bool, error) {
	const op = "cache.ConsumeCode"
	deleted, err := consumeScript.Run(ctx, s.db, []string{otpKeyPrefix + email}, code).Int()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return deleted == 1, nil
}
