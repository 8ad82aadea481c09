package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"xraychat/internal/model"
)

func greeting() (string, model.Transcript) {
	return "请描述这张胸片", model.Greeting("请描述这张胸片")
}

func TestManager(t *testing.T) {
	Convey("Manager 管理会话状态", t, func() {
		ctx := context.Background()
		m := NewManager(NewMemoryStore(0), greeting)

		Convey("新会话为初始状态", func() {
			s, err := m.Get(ctx, "new")
			So(err, ShouldBeNil)
			So(s.ID, ShouldEqual, "new")
			So(s.Text, ShouldEqual, "请描述这张胸片")
			So(s.Transcript, ShouldResemble, model.Greeting("请描述这张胸片"))
			So(s.Image, ShouldBeNil)
		})

		Convey("Update 保存修改", func() {
			_, err := m.Update(ctx, "s1", func(s *model.Session) error {
				s.Image = &model.Image{Key: "uploads/a.png"}
				s.Transcript = s.Transcript.Append("q", "a")
				return nil
			})
			So(err, ShouldBeNil)

			s, err := m.Get(ctx, "s1")
			So(err, ShouldBeNil)
			So(s.Image.Key, ShouldEqual, "uploads/a.png")
			So(len(s.Transcript), ShouldEqual, 2)
		})

		Convey("fn 返回错误时不保存", func() {
			_, err := m.Update(ctx, "s2", func(s *model.Session) error {
				s.Text = "changed"
				return errors.New("abort")
			})
			So(err, ShouldNotBeNil)

			s, _ := m.Get(ctx, "s2")
			So(s.Text, ShouldEqual, "请描述这张胸片")
		})

		Convey("同一会话的更新串行执行", func() {
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, _ = m.Update(ctx, "s3", func(s *model.Session) error {
						s.Transcript = s.Transcript.Append("q", "a")
						return nil
					})
				}()
			}
			wg.Wait()

			s, _ := m.Get(ctx, "s3")
			So(len(s.Transcript), ShouldEqual, 21)
			So(m.locks, ShouldBeEmpty)
		})

		Convey("Delete 后恢复初始状态", func() {
			_, _ = m.Update(ctx, "s4", func(s *model.Session) error {
				s.Text = ""
				return nil
			})
			So(m.Delete(ctx, "s4"), ShouldBeNil)
			s, _ := m.Get(ctx, "s4")
			So(s.Text, ShouldEqual, "请描述这张胸片")
		})
	})
}

func TestMemoryStore_TTL(t *testing.T) {
	Convey("MemoryStore 过期会话不可读", t, func() {
		ctx := context.Background()
		store := NewMemoryStore(time.Millisecond)
		So(store.Save(ctx, &model.Session{ID: "s"}), ShouldBeNil)

		time.Sleep(5 * time.Millisecond)
		_, err := store.Load(ctx, "s")
		So(errors.Is(err, ErrNotFound), ShouldBeTrue)
	})
}

func TestMemoryStore_Sweep(t *testing.T) {
	Convey("MemoryStore 保存时清理未再访问的过期会话", t, func() {
		ctx := context.Background()
		store := NewMemoryStore(20 * time.Millisecond)
		So(store.Save(ctx, &model.Session{ID: "abandoned"}), ShouldBeNil)

		time.Sleep(30 * time.Millisecond)
		So(store.Save(ctx, &model.Session{ID: "active"}), ShouldBeNil)

		store.mu.RLock()
		defer store.mu.RUnlock()
		So(len(store.sessions), ShouldEqual, 1)
		So(store.sessions, ShouldContainKey, "active")
	})
}
