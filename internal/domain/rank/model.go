package rank

// Category selects which score a participant is ranked on.
type Category string

const (
	CategoryWeekly      Category = "weekly"
	CategoryAllTime     Category = "all-time"
	CategoryReliability Category = "reliability"
)

// scoreField maps a category to the user-document field it ranks on. For
// all-time, lifetimeXP is the ranking field; the spendable "xp" balance is a
// display concern and never enters a rank query.
var scoreField = map[Category]string{
	CategoryWeekly:      "thisWeekXP",
	CategoryAllTime:     "lifetimeXP",
	CategoryReliability: "reliabilityScore",
}

// Field returns the Firestore field for the category, or "" when the
// category is unknown.
func (c Category) Field() string {
	return scoreField[c]
}

// Valid reports whether the category is one of the fixed enumeration.
func (c Category) Valid() bool {
	_, ok := scoreField[c]
	return ok
}

// Entry is one row of a top-N leaderboard listing.
type Entry struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL,omitempty"`
	Score       int64  `json:"score"`
}
