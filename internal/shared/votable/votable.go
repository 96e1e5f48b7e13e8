// Package votable holds the shared up/down vote record embedded by questions
// and answers. A voter appears in at most one of the two sets at any time;
// Apply enforces that by moving the voter between sets in a single step.
package votable

import "strings"

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection normalizes transport input into a Direction.
func ParseDirection(raw string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "up", "upvote":
		return DirectionUp, true
	case "down", "downvote":
		return DirectionDown, true
	default:
		return "", false
	}
}

// Votable is the shared vote record. The slices are treated as sets of user
// identifiers; ordering carries no meaning.
type Votable struct {
	Upvoters   []string
	Downvoters []string
}

// Apply records a vote toggle for voterID. A repeat vote in the same
// direction is a no-op, a vote in the opposite direction moves the voter
// across sets, and a first vote adds the voter to the requested set. There is
// no retraction path: voters may only switch direction.
// The returned flag reports whether the record changed.
func (v *Votable) Apply(voterID string, direction Direction) bool {
	voterID = strings.TrimSpace(voterID)
	if voterID == "" {
		return false
	}
	switch direction {
	case DirectionUp:
		if contains(v.Upvoters, voterID) {
			return false
		}
		v.Downvoters = remove(v.Downvoters, voterID)
		v.Upvoters = append(v.Upvoters, voterID)
		return true
	case DirectionDown:
		if contains(v.Downvoters, voterID) {
			return false
		}
		v.Upvoters = remove(v.Upvoters, voterID)
		v.Downvoters = append(v.Downvoters, voterID)
		return true
	default:
		return false
	}
}

// Score is |upvoters| - |downvoters|.
func (v Votable) Score() int {
	return len(v.Upvoters) - len(v.Downvoters)
}

func (v Votable) HasUpvoted(voterID string) bool {
	return contains(v.Upvoters, strings.TrimSpace(voterID))
}

func (v Votable) HasDownvoted(voterID string) bool {
	return contains(v.Downvoters, strings.TrimSpace(voterID))
}

// Clone returns an independent copy so callers can snapshot state without
// sharing backing arrays with the stored record.
func (v Votable) Clone() Votable {
	return Votable{
		Upvoters:   append([]string(nil), v.Upvoters...),
		Downvoters: append([]string(nil), v.Downvoters...),
	}
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

func remove(items []string, target string) []string {
	filtered := items[:0]
	for _, item := range items {
		if item != target {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
