package entities

import (
	"sort"
	"strings"
	"time"

	"stackit/internal/shared/votable"
)

// Question is a posted question. Votes is the shared votable record; the
// answer count is derived from the answer service and never stored here.
type Question struct {
	QuestionID string
	Title      string
	Body       string
	Tags       []string
	OwnerID    string
	Votes      votable.Votable
	Views      int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (q Question) Score() int {
	return q.Votes.Score()
}

// NormalizeTags trims, drops empties, and deduplicates a tag set. Order is
// not significant; the result is sorted for stable storage and responses.
func NormalizeTags(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
