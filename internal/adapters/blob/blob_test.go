package blob

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestMemoryArchive(t *testing.T) {
	convey.Convey("Given a memory archive", t, func() {
		ctx := context.Background()
		a := NewMemoryArchive()

		convey.Convey("When an object is stored", func() {
			data := []byte{0xff, 0xd8, 0xff}
			convey.So(a.Put(ctx, "skin_analysis_s1.jpg", "image/jpeg", data), convey.ShouldBeNil)
			data[0] = 0

			convey.Convey("Then it reads back unchanged", func() {
				got, err := a.Get(ctx, "skin_analysis_s1.jpg")
				convey.So(err, convey.ShouldBeNil)
				convey.So(got, convey.ShouldResemble, []byte{0xff, 0xd8, 0xff})
				convey.So(a.Len(), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("Then missing keys report ErrNotFound", func() {
			_, err := a.Get(ctx, "missing.jpg")
			convey.So(err, convey.ShouldEqual, ErrNotFound)
		})

		convey.Convey("Then invalid keys are rejected", func() {
			convey.So(a.Put(ctx, "", "image/jpeg", nil), convey.ShouldEqual, ErrEmptyKey)
			convey.So(a.Put(ctx, "../etc/passwd", "text/plain", nil), convey.ShouldEqual, ErrInvalidKey)
		})
	})
}

func TestNopArchive(t *testing.T) {
	convey.Convey("Given a nop archive", t, func() {
		var a Archive = NopArchive{}
		ctx := context.Background()

		convey.So(a.Put(ctx, "k.jpg", "image/jpeg", []byte("x")), convey.ShouldBeNil)
		_, err := a.Get(ctx, "k.jpg")
		convey.So(err, convey.ShouldEqual, ErrNotFound)
	})
}

func TestNewS3ArchiveRequiresBucket(t *testing.T) {
	convey.Convey("Given an S3 config without a bucket", t, func() {
		_, err := NewS3Archive(context.Background(), S3Config{Region: "auto"})
		convey.So(err, convey.ShouldNotBeNil)
	})
}

// fakeBucket serves path-style S3 requests for a single bucket.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	fail    bool
}

func (b *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `<Error><Code>InternalError</Code><Message>down</Message></Error>`)
		return
	}
	key := strings.TrimPrefix(r.URL.Path, "/photos/")
	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		b.objects[key] = body
		b.types[key] = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		data, ok := b.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
			return
		}
		_, _ = w.Write(data)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestS3Archive(t *testing.T) {
	convey.Convey("Given an S3 archive on a custom endpoint", t, func() {
		ctx := context.Background()
		bucket := &fakeBucket{objects: map[string][]byte{}, types: map[string]string{}}
		srv := httptest.NewServer(bucket)
		defer srv.Close()

		a, err := NewS3Archive(ctx, S3Config{
			Bucket:      "photos",
			Region:      "auto",
			Endpoint:    srv.URL,
			AccessKey:   "key",
			SecretKey:   "secret",
			MaxAttempts: 1,
		})
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When an upload is stored", func() {
			err := a.Put(ctx, "skin_analysis_s1.jpg", "image/jpeg", []byte("jpeg-bytes"))

			convey.Convey("Then the object lands in the bucket", func() {
				convey.So(err, convey.ShouldBeNil)
				bucket.mu.Lock()
				defer bucket.mu.Unlock()
				convey.So(string(bucket.objects["skin_analysis_s1.jpg"]), convey.ShouldContainSubstring, "jpeg-bytes")
				convey.So(bucket.types["skin_analysis_s1.jpg"], convey.ShouldEqual, "image/jpeg")
			})

			convey.Convey("Then it reads back", func() {
				data, err := a.Get(ctx, "skin_analysis_s1.jpg")
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(data), convey.ShouldContainSubstring, "jpeg-bytes")
			})
		})

		convey.Convey("When the key does not exist", func() {
			_, err := a.Get(ctx, "missing.jpg")
			convey.So(err, convey.ShouldEqual, ErrNotFound)
		})

		convey.Convey("When the bucket answers 500", func() {
			bucket.mu.Lock()
			bucket.fail = true
			bucket.mu.Unlock()

			convey.Convey("Then Put reports the failure", func() {
				err := a.Put(ctx, "skin_analysis_s2.jpg", "image/jpeg", []byte("x"))
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "upload object skin_analysis_s2.jpg")
			})

			convey.Convey("Then Get reports the failure", func() {
				_, err := a.Get(ctx, "skin_analysis_s1.jpg")
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err, convey.ShouldNotEqual, ErrNotFound)
			})
		})

		convey.Convey("When the key is invalid", func() {
			convey.So(a.Put(ctx, "", "image/jpeg", nil), convey.ShouldEqual, ErrEmptyKey)
			_, err := a.Get(ctx, "../secret")
			convey.So(err, convey.ShouldEqual, ErrInvalidKey)
		})
	})
}
