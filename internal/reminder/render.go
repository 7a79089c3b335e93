package reminder

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"RemindHub/internal/model"
)

// Renderer 两阶段渲染：先构建与收件人无关的模板，
// 再按收件人时区/偏好产出独立的消息值
type Renderer struct {
	courses  CourseStore
	contents *ContentRegistry
}

func NewRenderer(courses CourseStore, contents *ContentRegistry) *Renderer {
	if contents == nil {
		contents = DefaultContents()
	}
	return &Renderer{courses: courses, contents: contents}
}

// BuildTemplate 构建消息骨架，构建完成后不再修改
// now 由调用方的时钟给出，内容插件据此判断活动是否已开放
func (r *Renderer) BuildTemplate(ctx context.Context, event *model.Event, cfg Config, change ChangeType, tier *Tier, now int64) (*Template, error) {
	tpl := &Template{
		TimeStart: event.TimeStart,
		EventName: event.Name,
		EventID:   event.ID,
		Category:  event.Type,
	}

	var course *model.Course
	if event.CourseID > 0 {
		var err error
		course, err = r.courses.Course(ctx, event.CourseID)
		if err != nil {
			return nil, fmt.Errorf("failed to load course for rendering: %w", err)
		}
	}

	if course != nil {
		tpl.CourseName = course.FullName
	}

	tpl.Subject = buildSubject(event, cfg, change, course)
	tpl.Header = headerFor(change, tier)
	tpl.Footer = cfg.SiteBaseURL + "/calendar/view?event=" + fmt.Sprintf("%d", event.ID)

	rows := []Row{
		{Label: "When", Value: "", IsWhen: true},
	}
	if event.Location != "" {
		rows = append(rows, Row{Label: "Location", Value: event.Location})
	}
	if course != nil {
		rows = append(rows, Row{Label: "Course", Value: course.FullName})
	}
	if event.ModuleName != "" {
		rows = append(rows, Row{Label: "Activity", Value: event.ModuleName})
	}
	if event.CategoryID > 0 {
		category, err := r.courses.Category(ctx, event.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("failed to load category for rendering: %w", err)
		}
		if category != nil {
			rows = append(rows, Row{Label: "Category", Value: category.Name})
		}
	}
	if event.Description != "" {
		rows = append(rows, Row{Label: "Description", Value: event.Description})
	}

	// 模块类型的内容插件可以追加额外行，类型未注册时静默跳过
	if event.ModuleName != "" {
		if handler := r.contents.Lookup(event.ModuleName); handler != nil {
			extra, err := handler.Rows(ctx, r.courses, event, now)
			if err != nil {
				return nil, fmt.Errorf("failed to build %s content: %w", event.ModuleName, err)
			}
			rows = append(rows, extra...)
		}
	}

	tpl.HTMLRows = rows
	tpl.PlainRows = rows
	return tpl, nil
}

// RenderForRecipient 从共享模板产出收件人专属的消息
// when 行按收件人时区重排
func (r *Renderer) RenderForRecipient(tpl *Template, event *model.Event, user *model.User, cfg Config, messageID string) Message {
	fromAddr, fromName := cfg.Sender()

	when := formatWhen(event.TimeStart, event.TimeDuration, user.Timezone)

	var htmlBody, plainBody strings.Builder
	htmlBody.WriteString("<html><body>")
	if tpl.Header != "" {
		htmlBody.WriteString("<p><strong>" + html.EscapeString(tpl.Header) + "</strong></p>")
		plainBody.WriteString(tpl.Header + "\n\n")
	}
	htmlBody.WriteString("<h2><a href=\"" + tpl.Footer + "\">" + html.EscapeString(tpl.EventName) + "</a></h2>")
	plainBody.WriteString(tpl.EventName + "\n")

	htmlBody.WriteString("<table>")
	for _, row := range tpl.HTMLRows {
		value := row.Value
		if row.IsWhen {
			value = when
		}
		htmlBody.WriteString("<tr><td>" + html.EscapeString(row.Label) + "</td><td>" + html.EscapeString(value) + "</td></tr>")
		plainBody.WriteString(row.Label + ": " + value + "\n")
	}
	htmlBody.WriteString("</table>")

	htmlBody.WriteString("<p><a href=\"" + tpl.Footer + "\">View event</a></p>")
	plainBody.WriteString("\n" + tpl.Footer + "\n")
	htmlBody.WriteString("</body></html>")

	headers := []string{
		fmt.Sprintf("X-Event-Id: %d", event.ID),
		"X-Event-Type: " + event.Type,
	}
	if event.CourseID > 0 {
		headers = append(headers, fmt.Sprintf("X-Course-Id: %d", event.CourseID))
	}
	if tpl.CourseName != "" {
		headers = append(headers, "X-Course-Name: "+tpl.CourseName)
	}
	if event.ModuleName != "" {
		headers = append(headers,
			fmt.Sprintf("X-Activity-Id: %d", event.Instance),
			"X-Activity-Name: "+event.ModuleName,
		)
	}

	return Message{
		MessageID: messageID,
		EventID:   event.ID,
		Category:  event.Type,
		To:        user.Email,
		ToName:    user.FullName(),
		From:      fromAddr,
		FromName:  fromName,
		Subject:   tpl.Subject,
		HTMLBody:  htmlBody.String(),
		PlainBody: plainBody.String(),
		Headers:   headers,
	}
}

// buildSubject 标题组合：前缀 + 变更标记 + (课程短名) + 事件名
func buildSubject(event *model.Event, cfg Config, change ChangeType, course *model.Course) string {
	var sb strings.Builder
	if cfg.SubjectPrefix != "" {
		sb.WriteString("[" + cfg.SubjectPrefix + "] ")
	}
	if change != ChangeNone {
		sb.WriteString("[" + string(change) + "] ")
	}
	if course != nil && course.ShortName != "" {
		sb.WriteString("(" + course.ShortName + ") ")
	}
	sb.WriteString(event.Name)
	return sb.String()
}

// headerFor 正文头部的提示行
func headerFor(change ChangeType, tier *Tier) string {
	if change == ChangeOverdue {
		return "This activity is now overdue."
	}
	if change != ChangeNone {
		return "A calendar event has been " + strings.ToLower(string(change)) + "."
	}
	if tier == nil {
		return ""
	}
	days := int64(tier.Days)
	if tier.IsCustom && float64(days) != tier.Days {
		// 自定义档可能不是整数天，按小时提示
		hours := tier.Seconds / 3600
		return fmt.Sprintf("[%d hour(s) to go]", hours)
	}
	if days == 1 {
		return "[1 day to go]"
	}
	return fmt.Sprintf("[%d days to go]", days)
}

// formatWhen 把事件时间换算到收件人时区
// 未知时区回落 UTC
func formatWhen(start, duration int64, tz string) string {
	loc, err := time.LoadLocation(tz)
	if err != nil || tz == "" {
		loc = time.UTC
	}

	const layout = "Monday, 2 January 2006, 3:04 PM MST"
	from := time.Unix(start, 0).In(loc)
	if duration <= 0 {
		return from.Format(layout)
	}

	to := time.Unix(start+duration, 0).In(loc)
	if from.YearDay() == to.YearDay() && from.Year() == to.Year() {
		return from.Format(layout) + " - " + to.Format("3:04 PM MST")
	}
	return from.Format(layout) + " - " + to.Format(layout)
}
