package models

// UserSettings holds per-user preferences.
// Stored but not otherwise acted upon (notification delivery is out of scope).
type UserSettings struct {
	Username      string `db:"username" json:"username"`
	Theme         string `db:"theme" json:"theme"`
	Notifications bool   `db:"notifications" json:"notifications"`
	DailyDigest   bool   `db:"daily_digest" json:"daily_digest"`
	WeekStart     string `db:"week_start" json:"week_start"`
}

// DefaultSettings returns the settings applied when a user has never
// saved any.
func DefaultSettings(username string) *UserSettings {
	return &UserSettings{
		Username:      username,
		Theme:         "light",
		Notifications: true,
		DailyDigest:   false,
		WeekStart:     "Monday",
	}
}
