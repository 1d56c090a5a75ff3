package models

// Gamification is the persisted document under the "gamification" key.
type Gamification struct {
	Streak int      `json:"streak"`
	Points int      `json:"points"`
	Badges []string `json:"badges"`
}

// HasBadge reports whether id has already been unlocked.
func (g Gamification) HasBadge(id string) bool {
	for _, b := range g.Badges {
		if b == id {
			return true
		}
	}
	return false
}

// Badge identifiers unlocked by the metrics engine.
const (
	BadgeFirstApp   = "first_app"
	Badge10Apps     = "10_apps"
	BadgeWeekStreak = "week_streak"
	BadgeFirstOffer = "first_offer"
)

// Badge describes an unlockable achievement for display.
type Badge struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Emoji string `json:"emoji"`
}

// BadgeCatalog lists the badges in unlock-check order.
var BadgeCatalog = []Badge{
	{ID: BadgeFirstApp, Title: "First Application", Emoji: "🚀"},
	{ID: Badge10Apps, Title: "10 Applications", Emoji: "🔥"},
	{ID: BadgeWeekStreak, Title: "7-Day Streak", Emoji: "📅"},
	{ID: BadgeFirstOffer, Title: "First Offer", Emoji: "🎉"},
}

// ThemeMode is persisted under the "theme_mode" key.
type ThemeMode string

const (
	ThemeDark  ThemeMode = "dark"
	ThemeLight ThemeMode = "light"
)

// Valid reports whether m is one of the two supported modes.
func (m ThemeMode) Valid() bool {
	return m == ThemeDark || m == ThemeLight
}

// Toggled returns the opposite mode.
func (m ThemeMode) Toggled() ThemeMode {
	if m == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
