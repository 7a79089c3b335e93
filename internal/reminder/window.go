package reminder

import (
	"context"
	"errors"
	"fmt"

	"RemindHub/internal/model"
)

// ErrWindowNotElapsed 水位线不早于当前时钟，多见于时钟回拨
// 本周期应当跳过，否则会提交非单调递增的扫描记录
var ErrWindowNotElapsed = errors.New("scan watermark is not behind the current clock")

// NextWindow 读取最近一条扫描记录并计算下一个窗口
// 没有记录时以首轮回溯期作为起点，避免漏掉部署前已排期的事件
func NextWindow(ctx context.Context, log ScanLog, now int64, cfg Config) (ScanWindow, error) {
	last, err := log.Last(ctx)
	if err != nil {
		return ScanWindow{}, fmt.Errorf("failed to read last scan record: %w", err)
	}

	w := ScanWindow{End: now}
	if last == nil {
		w.Start = now - cfg.FirstCycleCutoffSeconds
	} else {
		if now <= last.Time {
			return ScanWindow{}, ErrWindowNotElapsed
		}
		w.Start = last.Time + 1
	}

	return w, nil
}

// CommitWindow 周期结束后提交窗口终点
// 全部失败的周期不提交，下次以同一起点重扫
func CommitWindow(ctx context.Context, log ScanLog, w ScanWindow, resultType string) error {
	return log.Append(ctx, &model.ScanLogRecord{
		Time: w.End,
		Type: resultType,
	})
}
