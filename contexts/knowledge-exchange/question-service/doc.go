// Package questionservice implements the question side of the board inside
// the knowledge-exchange context.
//
// The module owns question lifecycle orchestration (ask/list/view/vote/admin
// delete) and produces question events through outbox-backed workers. Voting
// runs through per-entity atomic updates so the vote record stays consistent
// under concurrent callers. It keeps business rules in application/domain
// layers and isolates infrastructure concerns behind ports and adapters.
package questionservice
