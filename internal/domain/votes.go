package domain

import (
	"encoding/json"
	"slices"
)

// Votes is the set of users interested in reading a book.
// It is persisted as {"userId": true, ...}.
type Votes map[string]bool

// Toggle flips the vote for userID and reports whether the user is now voting.
func (v Votes) Toggle(userID string) bool {
	if v[userID] {
		delete(v, userID)
		return false
	}
	v[userID] = true
	return true
}

// Has reports whether userID has voted.
func (v Votes) Has(userID string) bool {
	return v[userID]
}

// Count returns the number of voters.
func (v Votes) Count() int {
	return len(v)
}

// Users returns the voters in sorted order.
func (v Votes) Users() []string {
	users := make([]string, 0, len(v))
	for u := range v {
		users = append(users, u)
	}
	slices.Sort(users)
	return users
}

// MarshalJSON writes a nil set as {} rather than null.
func (v Votes) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]bool(v))
}

// UnmarshalJSON accepts the persisted presence map. Entries whose value is
// not true are dropped, since presence alone means "has voted".
func (v *Votes) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Votes, len(raw))
	for user, val := range raw {
		if b, ok := val.(bool); ok && !b {
			continue
		}
		out[user] = true
	}
	*v = out
	return nil
}
