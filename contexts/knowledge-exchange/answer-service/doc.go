// Package answerservice implements the answer side of the board inside the
// knowledge-exchange context.
//
// The module owns answer submission, answer vote toggling, and acceptance.
// Acceptance is the consistency-critical path: at most one answer per
// question carries the accepted flag, enforced by a single atomic update
// scoped to the question. Side-effect notifications go through the Notifier
// port so this module never touches the notification store or live channels
// directly.
package answerservice
