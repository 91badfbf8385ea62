// Package types contains the read shapes returned by the service and the API.
package types

import (
	"time"

	"github.com/okian/alumni/internal/domain/model"
	"github.com/okian/alumni/internal/domain/search"
)

// PersonSummary is the resolved form of a person reference.
type PersonSummary struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Role         model.Role `json:"role"`
	Organization string     `json:"organization,omitempty"`
}

// Summarize reduces a person to the fields shown next to their posts.
func Summarize(p model.Person) *PersonSummary {
	return &PersonSummary{ID: p.ID, Name: p.Name, Role: p.Role, Organization: p.Organization}
}

// LeaderboardEntry is a ranked person with their badges.
type LeaderboardEntry struct {
	Rank         int          `json:"rank"`
	PersonID     string       `json:"person_id"`
	Name         string       `json:"name"`
	Organization string       `json:"organization,omitempty"`
	Cohort       string       `json:"cohort,omitempty"`
	Skills       []string     `json:"skills"`
	Score        int          `json:"score"`
	Tier         model.Tier   `json:"tier"`
	Tiers        []model.Tier `json:"tiers"`
}

// TierCount reports how many ranked people hold a score tier.
type TierCount struct {
	Tier  model.Tier `json:"tier"`
	Count int        `json:"count"`
}

// Leaderboard is the ranked view with its per-tier summary.
type Leaderboard struct {
	Entries    []LeaderboardEntry `json:"entries"`
	Total      int                `json:"total"`
	TierCounts []TierCount        `json:"tier_counts"`
}

// DirectoryFacets are the selectable filter values of the directory.
type DirectoryFacets struct {
	Cohorts       []string `json:"cohorts"`
	Organizations []string `json:"organizations"`
	Skills        []string `json:"skills"`
}

// Directory is the filtered people view. Shown counts the selection, Total
// the population before text and equals-filters.
type Directory struct {
	People []model.Person  `json:"people"`
	Shown  int             `json:"shown"`
	Total  int             `json:"total"`
	Facets DirectoryFacets `json:"facets"`
}

// ResponseView is a response with its answerer resolved.
type ResponseView struct {
	ID        string         `json:"id"`
	Answerer  *PersonSummary `json:"answerer,omitempty"`
	Body      string         `json:"body"`
	Upvotes   int            `json:"upvotes"`
	CreatedAt time.Time      `json:"created_at"`
}

// QuestionView is a question with its asker and answerers resolved.
// Unresolvable references are left nil.
type QuestionView struct {
	ID        string         `json:"id"`
	Asker     *PersonSummary `json:"asker,omitempty"`
	Body      string         `json:"body"`
	Topics    []string       `json:"topics"`
	Responses []ResponseView `json:"responses"`
	Upvotes   int            `json:"upvotes"`
	CreatedAt time.Time      `json:"created_at"`
}

// Questions is the filtered forum view.
type Questions struct {
	Questions []QuestionView `json:"questions"`
	Shown     int            `json:"shown"`
	Total     int            `json:"total"`
	Topics    []string       `json:"topics"`
}

// MaterialView is a material with its contributor resolved.
type MaterialView struct {
	model.Material
	Contributor *PersonSummary `json:"contributor,omitempty"`
}

// Materials is the filtered resource library view.
type Materials struct {
	Materials  []MaterialView      `json:"materials"`
	Shown      int                 `json:"shown"`
	Total      int                 `json:"total"`
	Categories []search.FacetCount `json:"categories"`
}

// Profile is a person with their activity across the portal.
type Profile struct {
	Person         model.Person     `json:"person"`
	Questions      []model.Question `json:"questions"`
	Materials      []model.Material `json:"materials"`
	ResponsesGiven int              `json:"responses_given"`
}

// Stats summarizes the portal for the dashboard.
type Stats struct {
	Alumni          int            `json:"alumni"`
	Students        int            `json:"students"`
	Questions       int            `json:"questions"`
	Materials       int            `json:"materials"`
	RecentQuestions []QuestionView `json:"recent_questions"`
	RecentMaterials []MaterialView `json:"recent_materials"`
}
