package answerservice

import (
	"log/slog"

	httpadapter "stackit/contexts/knowledge-exchange/answer-service/adapters/http"
	"stackit/contexts/knowledge-exchange/answer-service/adapters/memory"
	"stackit/contexts/knowledge-exchange/answer-service/application/commands"
	"stackit/contexts/knowledge-exchange/answer-service/application/queries"
	"stackit/contexts/knowledge-exchange/answer-service/domain/entities"
	"stackit/contexts/knowledge-exchange/answer-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Answers   ports.AnswerRepository
	Questions ports.QuestionDirectory
	Users     ports.UserDirectory
	Notifier  ports.Notifier
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	answerUseCase := commands.AnswerUseCase{
		Answers:   deps.Answers,
		Questions: deps.Questions,
		Users:     deps.Users,
		Notifier:  deps.Notifier,
		Outbox:    deps.Outbox,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	threadUseCase := queries.ThreadUseCase{
		Answers: deps.Answers,
	}
	return Module{
		Handler: httpadapter.Handler{
			Answers: answerUseCase,
			Thread:  threadUseCase,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Answer, notifier ports.Notifier, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Answers:   store,
		Questions: store,
		Users:     store,
		Notifier:  notifier,
		Outbox:    store,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
