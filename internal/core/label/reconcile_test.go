package label

import (
	"fmt"
	"testing"
)

func testSegment(id, start, end int64) *LabeledSegment {
	return &LabeledSegment{
		ID:             id,
		DeviceID:       "dev001",
		DetectionType:  TypeCommercialBreak,
		Date:           "01 Jan 1970",
		Begin:          "00:01:40",
		Format:         "01",
		Content:        "012",
		TimestampStart: start,
		TimestampEnd:   end,
		Details: Details{
			"image_path": fmt.Sprintf("s3://frames/labeled_frames/dev001/%d.jpg", id),
			"images":     []string{fmt.Sprintf("img-%d", id)},
			"category":   "food",
		},
	}
}

func TestReconcileMergesWithinWindow(t *testing.T) {
	groups := Reconcile([]*LabeledSegment{
		testSegment(1, 100, 100),
		testSegment(2, 130, 130),
	})
	if len(groups) != 1 {
		t.Fatalf("groups = %d", len(groups))
	}
	g := groups[0]
	if g.TimestampStart != 100 || g.TimestampEnd != 130 {
		t.Fatalf("bounds = [%d, %d]", g.TimestampStart, g.TimestampEnd)
	}
	if g.Duration != 30 {
		t.Fatalf("duration = %d", g.Duration)
	}
	if len(g.Images) != 2 || len(g.SegmentIDs) != 2 {
		t.Fatalf("images = %v segment_ids = %v", g.Images, g.SegmentIDs)
	}
}

func TestReconcileSplitsBeyondWindow(t *testing.T) {
	groups := Reconcile([]*LabeledSegment{
		testSegment(1, 100, 100),
		testSegment(2, 190, 190),
	})
	if len(groups) != 2 {
		t.Fatalf("groups = %d", len(groups))
	}
}

// 窗口以最近并入分段为参照，长链条允许整体跨度超过窗口
func TestReconcileChainsAdjacency(t *testing.T) {
	groups := Reconcile([]*LabeledSegment{
		testSegment(1, 100, 100),
		testSegment(2, 150, 150),
		testSegment(3, 200, 200),
	})
	if len(groups) != 1 {
		t.Fatalf("groups = %d", len(groups))
	}
	if groups[0].Duration != 100 {
		t.Fatalf("duration = %d", groups[0].Duration)
	}
}

func TestReconcileSplitsOnDifferentLabels(t *testing.T) {
	other := testSegment(2, 120, 120)
	other.Title = "evening movie"
	groups := Reconcile([]*LabeledSegment{testSegment(1, 100, 100), other})
	if len(groups) != 2 {
		t.Fatalf("groups = %d", len(groups))
	}
}

func TestReconcileSplitsOnDetailField(t *testing.T) {
	other := testSegment(2, 120, 120)
	other.Details["category"] = "auto"
	groups := Reconcile([]*LabeledSegment{testSegment(1, 100, 100), other})
	if len(groups) != 2 {
		t.Fatalf("groups = %d", len(groups))
	}
}

func TestReconcileSkipsInvalidDetails(t *testing.T) {
	bad := testSegment(2, 120, 120)
	delete(bad.Details, "image_path")
	groups := Reconcile([]*LabeledSegment{
		testSegment(1, 100, 100),
		bad,
		testSegment(3, 140, 140),
	})
	if len(groups) != 1 {
		t.Fatalf("groups = %d", len(groups))
	}
	g := groups[0]
	if len(g.SegmentIDs) != 2 {
		t.Fatalf("segment_ids = %v", g.SegmentIDs)
	}
	for _, id := range g.SegmentIDs {
		if id == 2 {
			t.Fatal("invalid segment must not join a group")
		}
	}
}

func TestReconcileEmpty(t *testing.T) {
	if groups := Reconcile(nil); len(groups) != 0 {
		t.Fatalf("groups = %d", len(groups))
	}
}

func TestSimilarIgnoresTimestamps(t *testing.T) {
	a := segmentKey(testSegment(1, 100, 100))
	b := segmentKey(testSegment(2, 500, 500))
	if !similar(a, b) {
		t.Fatal("keys should match regardless of id and timestamps")
	}
}
