package reminder

import (
	"RemindHub/internal/model"
)

const daySeconds = 86400

// 固定档位按优先级排列，保证每个事件每周期至多命中一档
var fixedTierDays = []int64{1, 3, 7}

// ResolveTier 判定事件在本窗口命中的提前档位
// 优先级 1 天 > 3 天 > 7 天 > 自定义；已开始的事件一律跳过
// 返回 nil 表示本周期不发
func ResolveTier(event *model.Event, w ScanWindow, tc TierConfig) *Tier {
	// 相对窗口终点（即本周期的 now）已经开始的事件不再提醒
	if event.TimeStart-w.End < 0 {
		return nil
	}

	for _, days := range fixedTierDays {
		lead := days * daySeconds
		if !w.Contains(event.TimeStart - lead) {
			continue
		}
		if !tierEnabled(tc, days) {
			// 命中但被关闭的固定档不落到更低档
			return nil
		}
		return &Tier{Seconds: lead, Days: float64(days)}
	}

	// 自定义档与固定档重合时以固定档的判定为准
	custom := tc.CustomSeconds
	if custom > 0 && !isFixedLead(custom) && w.Contains(event.TimeStart-custom) {
		return &Tier{Seconds: custom, Days: float64(custom) / daySeconds, IsCustom: true}
	}

	return nil
}

func tierEnabled(tc TierConfig, days int64) bool {
	switch days {
	case 1:
		return tc.One
	case 3:
		return tc.Three
	case 7:
		return tc.Seven
	}
	return false
}

func isFixedLead(seconds int64) bool {
	for _, days := range fixedTierDays {
		if seconds == days*daySeconds {
			return true
		}
	}
	return false
}
