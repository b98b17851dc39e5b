package registry

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	registerStatusOK            int64 = 0
	registerStatusUsernameTaken int64 = 1
	registerStatusKeyTaken      int64 = 2

	consumeStatusAdvanced int64 = 1
	consumeStatusStale    int64 = 0
	consumeStatusMissing  int64 = -1
)

const registerScript = `
if redis.call("EXISTS", KEYS[1]) == 1 then
  return 1
end
if redis.call("EXISTS", KEYS[2]) == 1 then
  return 2
end
redis.call("HSET", KEYS[2], "v", ARGV[1], "c", ARGV[2])
redis.call("SET", KEYS[1], ARGV[3])
redis.call("INCR", KEYS[3])
return 0
`

var registerLua = redis.NewScript(registerScript)

// Markers stay well below 2^53 (window indexes are unix seconds / period),
// so Lua number comparison is exact.
const consumeScript = `
local current = redis.call("HGET", KEYS[1], "c")
if not current then
  return -1
end
if tonumber(ARGV[1]) <= tonumber(current) then
  return 0
end
redis.call("HSET", KEYS[1], "c", ARGV[1])
return 1
`

var consumeLua = redis.NewScript(consumeScript)

// RedisStore is a Redis-backed [Store].
//
// Layout under prefix p, hash-tagged so every key of one registry shares a
// cluster slot and the register script stays single-slot:
//   - {p}:id:<hexkey>  hash {v: encoded record, c: last consumed index}
//   - {p}:u:<username> string, hex public key
//   - {p}:count        registered identity count
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisStore creates a store under the given key prefix ("otp" if empty).
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "otp"
	}
	return &RedisStore{redis: client, prefix: "{" + prefix + "}"}
}

func (s *RedisStore) recordKey(key PublicKey) string {
	return s.prefix + ":id:" + key.Hex()
}

func (s *RedisStore) usernameKey(username string) string {
	return s.prefix + ":u:" + username
}

func (s *RedisStore) countKey() string {
	return s.prefix + ":count"
}

func (s *RedisStore) Register(ctx context.Context, id *Identity) error {
	data, err := Encode(id)
	if err != nil {
		return err
	}

	status, err := registerLua.Run(ctx, s.redis,
		[]string{s.usernameKey(id.Username), s.recordKey(id.PublicKey), s.countKey()},
		data, strconv.FormatInt(id.LastConsumed, 10), id.PublicKey.Hex(),
	).Int64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	switch status {
	case registerStatusOK:
		return nil
	case registerStatusUsernameTaken:
		return ErrUsernameTaken
	case registerStatusKeyTaken:
		return ErrPublicKeyTaken
	default:
		return fmt.Errorf("%w: unexpected register status %d", ErrRedisUnavailable, status)
	}
}

func (s *RedisStore) ByUsername(ctx context.Context, username string) (*Identity, error) {
	hexKey, err := s.redis.Get(ctx, s.usernameKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	key, err := ParsePublicKey(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt username index for %q", ErrInvalidIdentity, username)
	}
	return s.ByPublicKey(ctx, key)
}

func (s *RedisStore) ByPublicKey(ctx context.Context, key PublicKey) (*Identity, error) {
	vals, err := s.redis.HMGet(ctx, s.recordKey(key), "v", "c").Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if len(vals) != 2 || vals[0] == nil || vals[1] == nil {
		return nil, ErrNotFound
	}

	blob, ok := vals[0].(string)
	if !ok {
		return nil, ErrInvalidIdentity
	}
	marker, ok := vals[1].(string)
	if !ok {
		return nil, ErrInvalidIdentity
	}

	id, err := Decode([]byte(blob))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIdentity, err)
	}
	id.LastConsumed, err = strconv.ParseInt(marker, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad consumption marker", ErrInvalidIdentity)
	}
	return id, nil
}

func (s *RedisStore) Consume(ctx context.Context, key PublicKey, index int64) error {
	status, err := consumeLua.Run(ctx, s.redis,
		[]string{s.recordKey(key)},
		strconv.FormatInt(index, 10),
	).Int64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	switch status {
	case consumeStatusAdvanced:
		return nil
	case consumeStatusStale:
		return ErrAlreadyConsumed
	case consumeStatusMissing:
		return ErrNotFound
	default:
		return fmt.Errorf("%w: unexpected consume status %d", ErrRedisUnavailable, status)
	}
}

func (s *RedisStore) Count(ctx context.Context) (int64, error) {
	n, err := s.redis.Get(ctx, s.countKey()).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n, nil
}
