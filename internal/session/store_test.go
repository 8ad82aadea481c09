package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	. "github.com/smartystreets/goconvey/convey"

	"xraychat/internal/model"
	"xraychat/internal/pkg/cache"
	"xraychat/internal/pkg/id"
)

// 需要 Redis：REDIS_ADDR=localhost:6379 go test ./internal/session
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping Redis tests")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	Convey("RedisStore 保存并读取会话", t, func() {
		ctx := context.Background()
		store := NewRedisStore(cache.NewRedisCacheFromClient(client), time.Minute)
		sid := id.New()
		Reset(func() {
			_ = store.Delete(ctx, sid)
		})

		_, err := store.Load(ctx, sid)
		So(errors.Is(err, ErrNotFound), ShouldBeTrue)

		transcript := model.Greeting("请描述这张胸片").Append("有没有结节", "未见结节")
		So(store.Save(ctx, &model.Session{
			ID:         sid,
			Text:       "",
			Transcript: transcript,
			Image:      &model.Image{Key: "uploads/a.png", Name: "a.png", ContentType: "image/png"},
		}), ShouldBeNil)

		s, err := store.Load(ctx, sid)
		So(err, ShouldBeNil)
		So(s.Transcript, ShouldResemble, transcript)
		So(s.Image.Key, ShouldEqual, "uploads/a.png")

		ttl, err := client.TTL(ctx, cache.SessionKey(sid)).Result()
		So(err, ShouldBeNil)
		So(ttl > 0, ShouldBeTrue)

		So(store.Delete(ctx, sid), ShouldBeNil)
		_, err = store.Load(ctx, sid)
		So(errors.Is(err, ErrNotFound), ShouldBeTrue)
	})
}
