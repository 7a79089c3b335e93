package model

// User 目录服务中的账户快照
// 字段来自外部同步，这个服务不负责账户生命周期
type User struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	Username  string `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email     string `gorm:"type:varchar(128);not null" json:"email"`
	FirstName string `gorm:"type:varchar(64);not null;default:''" json:"first_name"`
	LastName  string `gorm:"type:varchar(64);not null;default:''" json:"last_name"`

	// 收件人本地化偏好
	Timezone string `gorm:"type:varchar(64);not null;default:'UTC'" json:"timezone"`
	Locale   string `gorm:"type:varchar(16);not null;default:'en'" json:"locale"`

	Confirmed bool `gorm:"not null;default:false;index:idx_users_confirmed" json:"confirmed"`
	Deleted   bool `gorm:"not null;default:false" json:"deleted"`
	Suspended bool `gorm:"not null;default:false" json:"suspended"`
}

func (User) TableName() string {
	return "users"
}

// FullName 展示用姓名
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
