package event

import (
	"context"
	"strings"
	"testing"

	"github.com/ixugo/goddd/pkg/orm"
	"gorm.io/gorm"
)

type fakeEventStore struct {
	events []*Event
}

func (f *fakeEventStore) Find(_ context.Context, items *[]*Event, _ orm.Pager, _ ...orm.QueryOption) (int64, error) {
	*items = append(*items, f.events...)
	return int64(len(f.events)), nil
}

func (f *fakeEventStore) Get(context.Context, *Event, ...orm.QueryOption) error { return nil }

func (f *fakeEventStore) Add(_ context.Context, e *Event) error {
	e.ID = int64(len(f.events) + 1)
	f.events = append(f.events, e)
	return nil
}

func (f *fakeEventStore) Count(context.Context, ...orm.QueryOption) (int64, error) {
	return int64(len(f.events)), nil
}

func (f *fakeEventStore) Session(context.Context, ...func(*gorm.DB) error) error { return nil }

type fakeEventStorer struct {
	s *fakeEventStore
}

func (f fakeEventStorer) Event() EventStorer { return f.s }

func TestFetchByIDsSortsByTimestamp(t *testing.T) {
	store := &fakeEventStore{events: []*Event{
		{ID: 3, Timestamp: 200},
		{ID: 2, Timestamp: 100},
		{ID: 1, Timestamp: 200},
	}}
	core := NewCore(fakeEventStorer{s: store})

	out, err := core.FetchByIDs(context.Background(), []int64{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	// 时间升序，时间相同按 id 升序
	want := []int64{2, 1, 3}
	for i, e := range out {
		if e.ID != want[i] {
			t.Fatalf("order = [%d %d %d], want %v", out[0].ID, out[1].ID, out[2].ID, want)
		}
	}
}

func TestFetchByIDsReportsAllMissing(t *testing.T) {
	store := &fakeEventStore{events: []*Event{{ID: 1, Timestamp: 100}}}
	core := NewCore(fakeEventStorer{s: store})

	_, err := core.FetchByIDs(context.Background(), []int64{1, 5, 6})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "5,6") {
		t.Fatalf("error should list every missing id, got %q", err.Error())
	}
}

func TestFetchByIDsEmpty(t *testing.T) {
	core := NewCore(fakeEventStorer{s: &fakeEventStore{}})
	if _, err := core.FetchByIDs(context.Background(), nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestAddEvent(t *testing.T) {
	store := &fakeEventStore{}
	core := NewCore(fakeEventStorer{s: store})

	out, err := core.AddEvent(context.Background(), &AddEventInput{
		DeviceID:  "dev001",
		Timestamp: 1700000000,
		Type:      3,
		Details:   Details{"score": 0.8, "image_path": "a.jpg", "channel_name": "one"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if out.ID == 0 {
		t.Fatal("id not assigned")
	}
}
