package label

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ixugo/goddd/pkg/orm"
	"github.com/telemon/telemon/internal/core/event"
	"gorm.io/gorm"
)

type fakeSegmentStore struct {
	sessionCalls int
	sessionErr   error
}

func (f *fakeSegmentStore) Find(context.Context, *[]*LabeledSegment, orm.Pager, ...orm.QueryOption) (int64, error) {
	return 0, nil
}

func (f *fakeSegmentStore) Get(context.Context, *LabeledSegment, ...orm.QueryOption) error {
	return nil
}

func (f *fakeSegmentStore) Count(context.Context, ...orm.QueryOption) (int64, error) {
	return 0, nil
}

// Session 只记录调用，事务内函数需要真实连接才能执行
func (f *fakeSegmentStore) Session(context.Context, ...func(*gorm.DB) error) error {
	f.sessionCalls++
	return f.sessionErr
}

type fakeStore struct {
	seg *fakeSegmentStore
}

func (f fakeStore) Segment() SegmentStorer { return f.seg }

type fakeEvents struct {
	events []*event.Event
	total  int64
	err    error
}

func (f *fakeEvents) FetchByIDs(_ context.Context, ids []int64) ([]*event.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fakeEvents) CountByRange(context.Context, string, int64, int64) (int64, error) {
	return f.total, nil
}

type fakeRelocator struct {
	calls []string
	err   error
}

func (f *fakeRelocator) Relocate(_ context.Context, sourceURI string) (string, error) {
	f.calls = append(f.calls, sourceURI)
	if f.err != nil {
		return "", f.err
	}
	return strings.Replace(sourceURI, "unrecognized_frames", "labeled_frames", 1), nil
}

func testEvent(id, ts int64) *event.Event {
	return &event.Event{
		ID:        id,
		DeviceID:  "dev001",
		Timestamp: ts,
		Type:      3,
		Details: event.Details{
			"score":        0.92,
			"image_path":   fmt.Sprintf("s3://frames/unrecognized_frames/dev001/%d.jpg", id),
			"channel_name": "channel one",
		},
	}
}

func newTestCore(store *fakeSegmentStore, events *fakeEvents, relocator *fakeRelocator) Core {
	return NewCore(fakeStore{seg: store}, events, relocator, WithLocation(time.UTC))
}

func TestLabelEventsSingleSegment(t *testing.T) {
	store := &fakeSegmentStore{}
	events := &fakeEvents{events: []*event.Event{testEvent(1, 100), testEvent(2, 130), testEvent(3, 160)}}
	relocator := &fakeRelocator{}
	core := newTestCore(store, events, relocator)

	in := validCommercialInput()
	in.EventIDs = []int64{1, 2, 3}
	out, err := core.LabelEvents(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}

	if out.TimestampStart != 100 || out.TimestampEnd != 160 {
		t.Fatalf("bounds = [%d, %d]", out.TimestampStart, out.TimestampEnd)
	}
	if len(out.OriginalEventIDs) != 3 {
		t.Fatalf("original event ids = %v", out.OriginalEventIDs)
	}
	if out.Date != "01 Jan 1970" || out.Begin != "00:01:40" {
		t.Fatalf("date/begin = %q %q", out.Date, out.Begin)
	}
	if got := out.Details["duration"]; got != int64(60) {
		t.Fatalf("duration = %v", got)
	}
	// 类别字段覆盖首事件详情
	if got := out.Details["category"]; got != "food" {
		t.Fatalf("category = %v", got)
	}
	images, ok := out.Details["images"].([]string)
	if !ok || len(images) != 3 {
		t.Fatalf("images = %v", out.Details["images"])
	}
	for _, img := range images {
		if !strings.Contains(img, "labeled_frames") {
			t.Fatalf("image not relocated: %s", img)
		}
	}
	if len(relocator.calls) != 3 {
		t.Fatalf("relocate calls = %d", len(relocator.calls))
	}
	if store.sessionCalls != 1 {
		t.Fatalf("session calls = %d", store.sessionCalls)
	}
}

func TestLabelEventsValidationFailureHasNoSideEffects(t *testing.T) {
	store := &fakeSegmentStore{}
	relocator := &fakeRelocator{}
	core := newTestCore(store, &fakeEvents{}, relocator)

	in := validCommercialInput()
	in.DetectionType = "bogus"
	if _, err := core.LabelEvents(context.Background(), in); err == nil {
		t.Fatal("expected validation error")
	}
	if len(relocator.calls) != 0 {
		t.Fatalf("relocate must not run on validation failure, calls = %d", len(relocator.calls))
	}
	if store.sessionCalls != 0 {
		t.Fatalf("session must not run on validation failure, calls = %d", store.sessionCalls)
	}
}

func TestLabelEventsMissingEvents(t *testing.T) {
	fetchErr := errors.New("events not found: 5,6")
	relocator := &fakeRelocator{}
	core := newTestCore(&fakeSegmentStore{}, &fakeEvents{err: fetchErr}, relocator)

	in := validCommercialInput()
	in.EventIDs = []int64{4, 5, 6}
	_, err := core.LabelEvents(context.Background(), in)
	if !errors.Is(err, fetchErr) {
		t.Fatalf("expected fetch error passthrough, got %v", err)
	}
	if len(relocator.calls) != 0 {
		t.Fatalf("relocate calls = %d", len(relocator.calls))
	}
}

func TestLabelEventsInvalidDetails(t *testing.T) {
	bad := testEvent(9, 100)
	delete(bad.Details, "image_path")
	relocator := &fakeRelocator{}
	core := newTestCore(&fakeSegmentStore{}, &fakeEvents{events: []*event.Event{bad}}, relocator)

	in := validCommercialInput()
	in.EventIDs = []int64{9}
	_, err := core.LabelEvents(context.Background(), in)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "[9]") {
		t.Fatalf("error should name the event, got %q", err.Error())
	}
	if len(relocator.calls) != 0 {
		t.Fatalf("relocate calls = %d", len(relocator.calls))
	}
}

func TestLabelEventsPersistFailureNamesCopiedFrames(t *testing.T) {
	store := &fakeSegmentStore{sessionErr: errors.New("connection reset")}
	events := &fakeEvents{events: []*event.Event{testEvent(1, 100), testEvent(2, 130)}}
	core := newTestCore(store, events, &fakeRelocator{})

	_, err := core.LabelEvents(context.Background(), validCommercialInput())
	if err == nil {
		t.Fatal("expected persist error")
	}
	// 已复制的帧不回滚，错误信息要能定位它们
	for _, id := range []int64{1, 2} {
		want := fmt.Sprintf("labeled_frames/dev001/%d.jpg", id)
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error should list %q, got %q", want, err.Error())
		}
	}
}

func TestLabelEachEvent(t *testing.T) {
	store := &fakeSegmentStore{}
	events := &fakeEvents{events: []*event.Event{testEvent(1, 100), testEvent(2, 130)}}
	relocator := &fakeRelocator{}
	core := newTestCore(store, events, relocator)

	out, err := core.LabelEachEvent(context.Background(), validCommercialInput())
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("segments = %d", len(out))
	}
	for i, s := range out {
		if len(s.OriginalEventIDs) != 1 {
			t.Fatalf("segment %d ids = %v", i, s.OriginalEventIDs)
		}
		if s.TimestampStart != s.TimestampEnd {
			t.Fatalf("segment %d bounds = [%d, %d]", i, s.TimestampStart, s.TimestampEnd)
		}
		if got := s.Details["duration"]; got != int64(0) {
			t.Fatalf("segment %d duration = %v", i, got)
		}
	}
	// 全部分段在一个事务里写入
	if store.sessionCalls != 1 {
		t.Fatalf("session calls = %d", store.sessionCalls)
	}
	if len(relocator.calls) != 2 {
		t.Fatalf("relocate calls = %d", len(relocator.calls))
	}
}

func TestFindSegmentsRejectsUnknownType(t *testing.T) {
	core := newTestCore(&fakeSegmentStore{}, &fakeEvents{}, &fakeRelocator{})
	_, _, err := core.FindSegments(context.Background(), &FindSegmentInput{DetectionType: "bogus"})
	if err == nil {
		t.Fatal("expected error")
	}
}
