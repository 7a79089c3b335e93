package errors

import "errors"

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 提醒周期相关错误。
var (
	RemindersDisabled  = Definition{Code: "REMINDERS_DISABLED", Message: "Reminder plugin disabled"}
	CycleAlreadyActive = Definition{Code: "CYCLE_ALREADY_ACTIVE", Message: "A reminder cycle is already running"}
	ScheduleMissing    = Definition{Code: "SCHEDULE_MISSING", Message: "No lead-time schedule for event category"}
	EventExpired       = Definition{Code: "EVENT_EXPIRED", Message: "Event start time already passed"}
	EventNotFound      = Definition{Code: "EVENT_NOT_FOUND", Message: "Event not found"}
)

// 收件人解析相关错误。
var (
	CourseNotFound   = Definition{Code: "COURSE_NOT_FOUND", Message: "Course not found"}
	GroupNotFound    = Definition{Code: "GROUP_NOT_FOUND", Message: "Group not found"}
	UserNotFound     = Definition{Code: "USER_NOT_FOUND", Message: "User not found"}
	ModuleNotFound   = Definition{Code: "MODULE_NOT_FOUND", Message: "Module instance not found"}
	CategoryNotFound = Definition{Code: "CATEGORY_NOT_FOUND", Message: "Course category not found"}
)

// 管理接口错误。
var (
	InvalidChangeType = Definition{Code: "INVALID_CHANGE_TYPE", Message: "Invalid calendar change type"}
	InvalidCourseID   = Definition{Code: "INVALID_COURSE_ID", Message: "Invalid course ID format"}
	Unauthorized      = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
)

// Token 相关底层错误。
var (
	ErrTokenGeneratorNotInitialized = errors.New("token generator not initialized")
	ErrUnexpectedSigningMethod      = errors.New("unexpected token signing method")
	ErrInvalidToken                 = errors.New("invalid token")
	ErrInvalidTokenClaims           = errors.New("invalid token claims")
)

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	RemindersDisabled.Code:  RemindersDisabled,
	CycleAlreadyActive.Code: CycleAlreadyActive,
	ScheduleMissing.Code:    ScheduleMissing,
	EventExpired.Code:       EventExpired,
	EventNotFound.Code:      EventNotFound,
	CourseNotFound.Code:     CourseNotFound,
	GroupNotFound.Code:      GroupNotFound,
	UserNotFound.Code:       UserNotFound,
	ModuleNotFound.Code:     ModuleNotFound,
	CategoryNotFound.Code:   CategoryNotFound,
	InvalidChangeType.Code:  InvalidChangeType,
	InvalidCourseID.Code:    InvalidCourseID,
	Unauthorized.Code:       Unauthorized,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}

// SkipMessageError 表示消费者应跳过且不重试的消息。
type SkipMessageError struct {
	Reason string
}

func (e *SkipMessageError) Error() string {
	return "skip message: " + e.Reason
}

// IsSkipMessageError 判断错误链中是否包含 SkipMessageError。
func IsSkipMessageError(err error) bool {
	var skip *SkipMessageError
	return errors.As(err, &skip)
}
