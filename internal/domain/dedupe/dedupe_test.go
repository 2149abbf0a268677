package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/okian/finmacro/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new deduper", t, func() {
		d := dedupe.New()
		So(d.Size(), ShouldEqual, 0)

		Convey("When a ticker is recorded", func() {
			seen := d.SeenAndRecord(ctx, "AAPL")

			Convey("Then it is new the first time", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("Then the same ticker in another spelling is a duplicate", func() {
				So(d.SeenAndRecord(ctx, " aapl "), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("Then unrecording allows it again", func() {
				d.Unrecord(ctx, "aapl")
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "AAPL"), ShouldBeFalse)
			})
		})

		Convey("When unrecording an unknown ticker", func() {
			So(func() { d.Unrecord(ctx, "NOPE") }, ShouldNotPanic)
			So(d.Size(), ShouldEqual, 0)
		})
	})

	Convey("Given a deduper bounded to three keys", t, func() {
		d := dedupe.New(dedupe.WithMaxSize(3))
		for _, k := range []string{"A", "B", "C", "D"} {
			d.SeenAndRecord(ctx, k)
		}

		Convey("Then the oldest key was evicted", func() {
			So(d.Size(), ShouldEqual, 3)
			So(d.SeenAndRecord(ctx, "D"), ShouldBeTrue)
			So(d.SeenAndRecord(ctx, "A"), ShouldBeFalse)
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.New(dedupe.WithMaxSize(0))
		for i := 0; i < 500; i++ {
			d.SeenAndRecord(ctx, fmt.Sprintf("T%d", i))
		}
		So(d.Size(), ShouldEqual, 500)
	})
}

func TestDeduperConcurrent(t *testing.T) {
	Convey("Given many goroutines racing on one ticker", t, func() {
		d := dedupe.New()
		var fresh atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if !d.SeenAndRecord(context.Background(), "MSFT") {
					fresh.Add(1)
				}
			}()
		}
		wg.Wait()

		Convey("Then exactly one wins", func() {
			So(fresh.Load(), ShouldEqual, 1)
			So(d.Size(), ShouldEqual, 1)
		})
	})
}
