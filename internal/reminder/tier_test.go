package reminder

import (
	"testing"

	"RemindHub/internal/model"
)

func allTiers() TierConfig {
	return TierConfig{Seven: true, Three: true, One: true}
}

func TestResolveTierFixedDays(t *testing.T) {
	// 窗口宽 15 分钟，正常调度下每个固定档恰好命中一次
	w := ScanWindow{Start: 100_000, End: 100_900}

	tests := []struct {
		name     string
		start    int64
		wantDays float64
	}{
		{"one day ahead", w.End + 1*daySeconds, 1},
		{"three days ahead", w.End + 3*daySeconds, 3},
		{"seven days ahead", w.End + 7*daySeconds, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := &model.Event{TimeStart: tt.start}
			tier := ResolveTier(event, w, allTiers())
			if tier == nil {
				t.Fatal("expected a tier, got nil")
			}
			if tier.Days != tt.wantDays {
				t.Fatalf("Days = %v, want %v", tier.Days, tt.wantDays)
			}
			if tier.IsCustom {
				t.Fatal("fixed tier flagged as custom")
			}
		})
	}
}

func TestResolveTierStartedEventSkipped(t *testing.T) {
	w := ScanWindow{Start: 100_000, End: 100_900}
	event := &model.Event{TimeStart: w.End - 10}

	if tier := ResolveTier(event, w, allTiers()); tier != nil {
		t.Fatalf("started event resolved tier %+v, want nil", tier)
	}
}

func TestResolveTierClosestWinsOnWideWindow(t *testing.T) {
	// 积压后的超宽窗口可以同时覆盖多个档位，只发最近的一档
	w := ScanWindow{Start: 0, End: 8 * daySeconds}
	event := &model.Event{TimeStart: w.End + daySeconds}

	tier := ResolveTier(event, w, allTiers())
	if tier == nil {
		t.Fatal("expected a tier, got nil")
	}
	if tier.Days != 1 {
		t.Fatalf("Days = %v, want 1 (closest tier wins)", tier.Days)
	}
}

func TestResolveTierDisabledTierDoesNotFallThrough(t *testing.T) {
	w := ScanWindow{Start: 0, End: 8 * daySeconds}
	event := &model.Event{TimeStart: w.End + daySeconds}

	// 命中 1 天档但该档被关闭，即便 3/7 天档开着也不发
	tc := TierConfig{Seven: true, Three: true, One: false}
	if tier := ResolveTier(event, w, tc); tier != nil {
		t.Fatalf("disabled tier fell through to %+v, want nil", tier)
	}
}

func TestResolveTierCustomLead(t *testing.T) {
	w := ScanWindow{Start: 100_000, End: 100_900}
	custom := int64(2 * daySeconds)
	event := &model.Event{TimeStart: w.End + custom}

	tc := TierConfig{CustomSeconds: custom}
	tier := ResolveTier(event, w, tc)
	if tier == nil {
		t.Fatal("expected custom tier, got nil")
	}
	if !tier.IsCustom || tier.Seconds != custom || tier.Days != 2 {
		t.Fatalf("got %+v, want custom 2-day tier", tier)
	}
}

func TestResolveTierCustomFractionalDays(t *testing.T) {
	w := ScanWindow{Start: 100_000, End: 100_900}
	custom := int64(6 * 3600)
	event := &model.Event{TimeStart: w.End + custom}

	tier := ResolveTier(event, w, TierConfig{CustomSeconds: custom})
	if tier == nil {
		t.Fatal("expected custom tier, got nil")
	}
	if tier.Days != 0.25 {
		t.Fatalf("Days = %v, want 0.25", tier.Days)
	}
}

func TestResolveTierCustomEqualToFixedDefersToFixed(t *testing.T) {
	w := ScanWindow{Start: 100_000, End: 100_900}
	event := &model.Event{TimeStart: w.End + 3*daySeconds}

	// 自定义提前量与 3 天档重合且 3 天档被关闭：按固定档的判定跳过
	tc := TierConfig{Three: false, CustomSeconds: 3 * daySeconds}
	if tier := ResolveTier(event, w, tc); tier != nil {
		t.Fatalf("custom lead equal to fixed tier resolved %+v, want nil", tier)
	}
}

func TestResolveTierNoLeadMatches(t *testing.T) {
	w := ScanWindow{Start: 100_000, End: 100_900}
	// 事件在窗口终点之后 2 天整偏移 1 小时处，不落在任何启用档
	event := &model.Event{TimeStart: w.End + 2*daySeconds + 3600}

	if tier := ResolveTier(event, w, allTiers()); tier != nil {
		t.Fatalf("resolved %+v, want nil", tier)
	}
}
