package publisher

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/drape/internal/domain/model"
	"github.com/okian/drape/pkg/logger"
)

func TestEncode(t *testing.T) {
	Convey("Given a feedback event", t, func() {
		ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		e := model.FeedbackEvent{EventID: "e1", SessionID: "s1", OutfitID: "o1", Colors: []string{"Navy"}, TS: ts}

		Convey("When it is encoded", func() {
			body, err := Encode(e)
			So(err, ShouldBeNil)

			var decoded map[string]any
			So(json.Unmarshal(body, &decoded), ShouldBeNil)

			Convey("Then the wire fields use snake case", func() {
				So(decoded["event_id"], ShouldEqual, "e1")
				So(decoded["outfit_id"], ShouldEqual, "o1")
				So(decoded["liked"], ShouldEqual, false)
				So(decoded["ts"], ShouldEqual, "2025-03-01T12:00:00Z")
			})
		})

		Convey("When the timestamp is missing", func() {
			e.TS = time.Time{}
			body, err := Encode(e)
			So(err, ShouldBeNil)
			So(string(body), ShouldNotContainSubstring, "0001-01-01")
		})
	})
}

func TestLogPublisher(t *testing.T) {
	_ = logger.Init()

	Convey("Given a log publisher", t, func() {
		p := NewLogPublisher(nil)

		Convey("Then publishing and closing never fail", func() {
			So(p.Publish(context.Background(), model.FeedbackEvent{EventID: "e1", Liked: true}), ShouldBeNil)
			So(p.Close(), ShouldBeNil)
		})
	})
}
