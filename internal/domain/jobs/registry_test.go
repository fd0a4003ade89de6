package jobs

import (
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func steppingClock() func() time.Time {
	t := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func TestRegistry(t *testing.T) {
	Convey("Given an empty registry", t, func() {
		r := NewRegistry(3)
		r.now = steppingClock()

		So(r.Status(KindMatch), ShouldEqual, StatusIdle)

		Convey("When a match job starts", func() {
			j, err := r.TryStart(KindMatch)
			So(err, ShouldBeNil)
			So(j.Status, ShouldEqual, StatusRunning)

			Convey("Then a second match is refused but a collect is allowed", func() {
				running, err := r.TryStart(KindMatch)
				So(errors.Is(err, ErrAlreadyRunning), ShouldBeTrue)
				So(running.ID, ShouldEqual, j.ID)

				_, err = r.TryStart(KindCollect)
				So(err, ShouldBeNil)
			})

			Convey("Then progress is visible", func() {
				r.Progress(j.ID, Counts{Collected: 4, Persisted: 2})
				got, err := r.Get(j.ID)
				So(err, ShouldBeNil)
				So(got.Collected, ShouldEqual, 4)
				So(got.Persisted, ShouldEqual, 2)
			})

			Convey("And it fails", func() {
				done, err := r.Finish(j.ID, Counts{Failed: 1}, errors.New("list persons: boom"))
				So(err, ShouldBeNil)
				So(done.Status, ShouldEqual, StatusFailed)
				So(done.Error, ShouldEqual, "list persons: boom")
				So(done.FinishedAt, ShouldNotBeNil)
				So(r.Status(KindMatch), ShouldEqual, StatusFailed)

				Convey("Then the kind is free again", func() {
					_, ok := r.Running(KindMatch)
					So(ok, ShouldBeFalse)
					_, err := r.TryStart(KindMatch)
					So(err, ShouldBeNil)
				})

				Convey("Then finishing twice keeps the first outcome", func() {
					again, err := r.Finish(j.ID, Counts{}, nil)
					So(err, ShouldBeNil)
					So(again.Status, ShouldEqual, StatusFailed)
				})
			})
		})

		Convey("When more jobs finish than the history keeps", func() {
			var first string
			for i := 0; i < 5; i++ {
				j, err := r.TryStart(KindCollect)
				So(err, ShouldBeNil)
				if i == 0 {
					first = j.ID
				}
				_, err = r.Finish(j.ID, Counts{}, nil)
				So(err, ShouldBeNil)
			}

			Convey("Then the oldest are pruned and the list is newest first", func() {
				list := r.List()
				So(len(list), ShouldBeLessThanOrEqualTo, 3)
				So(list[0].StartedAt.After(list[len(list)-1].StartedAt), ShouldBeTrue)
				_, err := r.Get(first)
				So(errors.Is(err, ErrJobNotFound), ShouldBeTrue)
				So(r.Status(KindCollect), ShouldEqual, StatusDone)
			})
		})

		Convey("When finishing an unknown job", func() {
			_, err := r.Finish("nope", Counts{}, nil)
			So(errors.Is(err, ErrJobNotFound), ShouldBeTrue)
		})
	})
}
