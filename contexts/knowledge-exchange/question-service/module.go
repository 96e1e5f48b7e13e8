package questionservice

import (
	"log/slog"

	httpadapter "stackit/contexts/knowledge-exchange/question-service/adapters/http"
	"stackit/contexts/knowledge-exchange/question-service/adapters/memory"
	"stackit/contexts/knowledge-exchange/question-service/application/commands"
	"stackit/contexts/knowledge-exchange/question-service/application/queries"
	"stackit/contexts/knowledge-exchange/question-service/domain/entities"
	"stackit/contexts/knowledge-exchange/question-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Questions ports.QuestionRepository
	Users     ports.UserDirectory
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	questionUseCase := commands.QuestionUseCase{
		Questions: deps.Questions,
		Users:     deps.Users,
		Outbox:    deps.Outbox,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	boardUseCase := queries.BoardUseCase{
		Questions: deps.Questions,
	}
	return Module{
		Handler: httpadapter.Handler{
			Questions: questionUseCase,
			Board:     boardUseCase,
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Question, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Questions: store,
		Users:     store,
		Outbox:    store,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
