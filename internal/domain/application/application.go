package application

import (
	"regexp"
	"time"
)

type Role string

const (
	RoleMedia     Role = "media"
	RoleDev       Role = "dev"
	RoleSupport   Role = "support"
	RoleQA        Role = "qa"
	RoleBuilder   Role = "builder"
	RoleModerator Role = "moderator"

	// RoleAll is the pseudo-role used in filters to lift the role restriction.
	RoleAll Role = "all"
)

const StatusNew = "new"

var roleLabels = map[Role]string{
	RoleMedia:     "🎥 Медиа Проекта",
	RoleDev:       "💻 Разработчик",
	RoleSupport:   "📞 Поддержка игроков",
	RoleQA:        "🔎 Тестировщик",
	RoleBuilder:   "🏗️ Билдер",
	RoleModerator: "🛡️ Модератор",
	RoleAll:       "Все роли",
}

// Roles lists the role set applicants may choose, in menu order.
func Roles() []Role {
	return []Role{RoleMedia, RoleDev, RoleSupport, RoleQA, RoleBuilder, RoleModerator}
}

func Known(r Role) bool {
	for _, known := range Roles() {
		if r == known {
			return true
		}
	}
	return false
}

// Label returns the display name for the role. Unknown roles render as the
// raw role string; storage accepts them, only rendering falls back.
func (r Role) Label() string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return string(r)
}

// HandlePattern is the accepted Telegram username format.
var HandlePattern = regexp.MustCompile(`^[A-Za-z0-9_]{5,32}$`)

// Column widths. Longer input is clipped, not rejected.
const (
	MaxNickname      = 100
	MaxTimezone      = 50
	MaxTelegram      = 100
	MaxDiscord       = 100
	MaxRole          = 50
	MaxText          = 2000
	MaxTimeAvailable = 100
	MaxStatus        = 20
)

type Application struct {
	ID            int64     `json:"id"`
	Nickname      string    `json:"nickname"`
	Age           int       `json:"age"`
	Timezone      string    `json:"timezone,omitempty"`
	Telegram      string    `json:"telegram"`
	Discord       string    `json:"discord,omitempty"`
	Role          Role      `json:"role"`
	Experience    string    `json:"experience,omitempty"`
	MinecraftExp  string    `json:"minecraft_exp,omitempty"`
	Motivation    string    `json:"motivation,omitempty"`
	Portfolio     string    `json:"portfolio,omitempty"`
	TimeAvailable string    `json:"time_available,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	Status        string    `json:"status"`
}

// Clip truncates every field to its column width.
func (a *Application) Clip() {
	a.Nickname = Truncate(a.Nickname, MaxNickname)
	a.Timezone = Truncate(a.Timezone, MaxTimezone)
	a.Telegram = Truncate(a.Telegram, MaxTelegram)
	a.Discord = Truncate(a.Discord, MaxDiscord)
	a.Role = Role(Truncate(string(a.Role), MaxRole))
	a.Experience = Truncate(a.Experience, MaxText)
	a.MinecraftExp = Truncate(a.MinecraftExp, MaxText)
	a.Motivation = Truncate(a.Motivation, MaxText)
	a.Portfolio = Truncate(a.Portfolio, MaxText)
	a.TimeAvailable = Truncate(a.TimeAvailable, MaxTimeAvailable)
	a.Status = Truncate(a.Status, MaxStatus)
}

// Truncate clips s to at most max runes.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
