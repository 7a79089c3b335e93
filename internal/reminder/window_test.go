package reminder

import (
	"context"
	"errors"
	"testing"

	"RemindHub/internal/model"
)

func TestNextWindowBootstrap(t *testing.T) {
	log := &fakeScanLog{}
	cfg := Config{FirstCycleCutoffSeconds: 5 * daySeconds}
	now := int64(1_700_000_000)

	w, err := NextWindow(context.Background(), log, now, cfg)
	if err != nil {
		t.Fatalf("NextWindow error: %v", err)
	}
	if w.Start != now-5*daySeconds {
		t.Fatalf("Start = %d, want %d", w.Start, now-5*daySeconds)
	}
	if w.End != now {
		t.Fatalf("End = %d, want %d", w.End, now)
	}
}

func TestNextWindowContinuesFromLastRecord(t *testing.T) {
	log := &fakeScanLog{records: []model.ScanLogRecord{
		{Time: 1000, Type: model.ScanResultSent},
		{Time: 2000, Type: model.ScanResultNoEvents},
	}}
	now := int64(2900)

	w, err := NextWindow(context.Background(), log, now, Config{})
	if err != nil {
		t.Fatalf("NextWindow error: %v", err)
	}
	if w.Start != 2001 {
		t.Fatalf("Start = %d, want 2001 (last committed + 1)", w.Start)
	}
	if w.End != 2900 {
		t.Fatalf("End = %d, want 2900", w.End)
	}
}

func TestNextWindowClockBehindWatermark(t *testing.T) {
	log := &fakeScanLog{records: []model.ScanLogRecord{
		{Time: 2000, Type: model.ScanResultSent},
	}}

	// 时钟回拨到水位线或其之前时不能产生倒退的窗口
	for _, now := range []int64{2000, 1500} {
		_, err := NextWindow(context.Background(), log, now, Config{})
		if !errors.Is(err, ErrWindowNotElapsed) {
			t.Fatalf("NextWindow(now=%d) error = %v, want ErrWindowNotElapsed", now, err)
		}
	}
}

func TestCommitWindowAppendsEndpoint(t *testing.T) {
	log := &fakeScanLog{}
	w := ScanWindow{Start: 100, End: 200}

	if err := CommitWindow(context.Background(), log, w, model.ScanResultSent); err != nil {
		t.Fatalf("CommitWindow error: %v", err)
	}
	if len(log.records) != 1 {
		t.Fatalf("records = %d, want 1", len(log.records))
	}
	rec := log.records[0]
	if rec.Time != 200 || rec.Type != model.ScanResultSent {
		t.Fatalf("got record {%d %s}, want {200 sent}", rec.Time, rec.Type)
	}
}

func TestConsecutiveWindowsLeaveNoGap(t *testing.T) {
	log := &fakeScanLog{}
	ctx := context.Background()
	cfg := Config{FirstCycleCutoffSeconds: daySeconds}

	first, err := NextWindow(ctx, log, 10_000, cfg)
	if err != nil {
		t.Fatalf("NextWindow error: %v", err)
	}
	if err := CommitWindow(ctx, log, first, model.ScanResultNoEvents); err != nil {
		t.Fatalf("CommitWindow error: %v", err)
	}

	second, err := NextWindow(ctx, log, 10_900, cfg)
	if err != nil {
		t.Fatalf("NextWindow error: %v", err)
	}
	if second.Start != first.End+1 {
		t.Fatalf("second.Start = %d, want %d", second.Start, first.End+1)
	}
}

func TestScanWindowContainsIsInclusive(t *testing.T) {
	w := ScanWindow{Start: 10, End: 20}
	for _, tc := range []struct {
		t    int64
		want bool
	}{
		{9, false}, {10, true}, {15, true}, {20, true}, {21, false},
	} {
		if got := w.Contains(tc.t); got != tc.want {
			t.Fatalf("Contains(%d) = %v, want %v", tc.t, got, tc.want)
		}
	}
}
