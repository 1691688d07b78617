// Package online is the shared recipe library: accounts, submitted recipes
// and upvotes kept as JSON documents in a blob store.
package online

import (
	"strings"
	"time"

	"recipebook/pkg/domain"
)

const (
	drugsPrefix = "drugs/"
	usersPrefix = "users/"
	docSuffix   = ".json"

	// MinPasswordLength is the shortest password SignUp accepts.
	MinPasswordLength = 6
)

// SharedDrug is a recipe submitted to the shared library together with the
// submitter stamp and its upvote state.
type SharedDrug struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	DrugType    domain.DrugType     `json:"drug_type"`
	BasePrice   float64             `json:"base_price"`
	Ingredients []domain.Ingredient `json:"ingredients"`
	Effects     []domain.Effect     `json:"effects"`
	Notes       string              `json:"notes,omitempty"`
	Comments    string              `json:"comments,omitempty"`
	UserID      string              `json:"user_id"`
	UserEmail   string              `json:"user_email"`
	Username    string              `json:"username,omitempty"`
	Timestamp   time.Time           `json:"timestamp"`
	Upvotes     int                 `json:"upvotes"`
	UpvotedBy   []string            `json:"upvoted_by"`
}

// Creator is the display name of the submitter: the username when set,
// otherwise the email.
func (d SharedDrug) Creator() string {
	if d.Username != "" {
		return d.Username
	}
	return d.UserEmail
}

// UpvotedByUser reports whether userID already upvoted the recipe.
func (d SharedDrug) UpvotedByUser(userID string) bool {
	for _, id := range d.UpvotedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// Drug converts the shared document into a local recipe without an id.
func (d SharedDrug) Drug() domain.Drug {
	out := domain.Drug{
		Name:        d.Name,
		DrugType:    d.DrugType.Normalize(),
		BasePrice:   d.BasePrice,
		Ingredients: append([]domain.Ingredient(nil), d.Ingredients...),
		Effects:     append([]domain.Effect(nil), d.Effects...),
		Notes:       d.Notes,
	}
	if c := strings.TrimSpace(d.Comments); c != "" {
		if out.Notes != "" {
			out.Notes += "\n"
		}
		out.Notes += "Comments from " + d.Creator() + ": " + c
	}
	return out
}

func (d SharedDrug) clone() SharedDrug {
	cp := d
	cp.Ingredients = append([]domain.Ingredient(nil), d.Ingredients...)
	cp.Effects = append([]domain.Effect(nil), d.Effects...)
	cp.UpvotedBy = append([]string{}, d.UpvotedBy...)
	return cp
}

// User is an account document.
type User struct {
	ID           string    `json:"user_id"`
	Email        string    `json:"email"`
	Username     string    `json:"username,omitempty"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is the signed-in identity, persisted between runs.
type Session struct {
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	Username   string    `json:"username,omitempty"`
	SignedInAt time.Time `json:"signed_in_at"`
}

// DisplayName returns the username when set, otherwise the email.
func (s Session) DisplayName() string {
	if s.Username != "" {
		return s.Username
	}
	return s.Email
}

func drugKey(id string) string { return drugsPrefix + id + docSuffix }
func userKey(id string) string { return usersPrefix + id + docSuffix }

func idFromKey(prefix, key string) (string, bool) {
	if !strings.HasPrefix(key, prefix) || !strings.HasSuffix(key, docSuffix) {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(key, prefix), docSuffix)
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
