package entities

import (
	"time"

	"stackit/internal/shared/votable"
)

// Answer is a reply to a question. Accepted starts false and is mutated only
// through the acceptance path; at most one answer per question holds it.
type Answer struct {
	AnswerID   string
	QuestionID string
	OwnerID    string
	Body       string
	Votes      votable.Votable
	Accepted   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (a Answer) Score() int {
	return a.Votes.Score()
}
