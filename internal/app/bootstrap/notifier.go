package bootstrap

import (
	"context"

	notificationcommands "stackit/contexts/engagement/notification-service/application/commands"
	answerports "stackit/contexts/knowledge-exchange/answer-service/ports"
)

// DispatcherNotifier binds the answer context's Notifier port to the
// notification context's dispatcher. Contexts never import each other; this
// bridge lives in the composition root.
type DispatcherNotifier struct {
	Dispatcher notificationcommands.Dispatcher
}

func (n DispatcherNotifier) AnswerSubmitted(ctx context.Context, note answerports.AnswerSubmittedNote) error {
	_, err := n.Dispatcher.AnswerSubmitted(ctx, notificationcommands.AnswerSubmittedInput{
		QuestionOwnerID: note.QuestionOwnerID,
		AnswererID:      note.AnswererID,
		AnswererName:    note.AnswererName,
		QuestionTitle:   note.QuestionTitle,
	})
	return err
}

func (n DispatcherNotifier) AnswerAccepted(ctx context.Context, note answerports.AnswerAcceptedNote) error {
	_, err := n.Dispatcher.AnswerAccepted(ctx, notificationcommands.AnswerAcceptedInput{
		AnswerOwnerID: note.AnswerOwnerID,
		AccepterID:    note.AccepterID,
		AccepterName:  note.AccepterName,
		QuestionTitle: note.QuestionTitle,
	})
	return err
}
