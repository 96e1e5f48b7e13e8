package notificationservice

import (
	"log/slog"

	httpadapter "stackit/contexts/engagement/notification-service/adapters/http"
	"stackit/contexts/engagement/notification-service/adapters/memory"
	"stackit/contexts/engagement/notification-service/application/commands"
	"stackit/contexts/engagement/notification-service/application/queries"
	"stackit/contexts/engagement/notification-service/ports"
)

type Module struct {
	Handler    httpadapter.Handler
	Dispatcher commands.Dispatcher
	Store      *memory.Store
}

type Dependencies struct {
	Notifications ports.NotificationRepository
	Users         ports.UserDirectory
	Live          ports.LiveStream
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	dispatcher := commands.Dispatcher{
		Notifications: deps.Notifications,
		Users:         deps.Users,
		Live:          deps.Live,
		Clock:         deps.Clock,
		IDGen:         deps.IDGen,
		Logger:        deps.Logger,
	}
	inbox := commands.InboxUseCase{
		Notifications: deps.Notifications,
		Logger:        deps.Logger,
	}
	inboxQueries := queries.InboxQueries{
		Notifications: deps.Notifications,
	}
	return Module{
		Handler: httpadapter.Handler{
			Dispatcher: dispatcher,
			Inbox:      inbox,
			Queries:    inboxQueries,
			Logger:     deps.Logger,
		},
		Dispatcher: dispatcher,
	}
}

func NewInMemoryModule(live ports.LiveStream, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Notifications: store,
		Users:         store,
		Live:          live,
		Clock:         store,
		IDGen:         store,
		Logger:        logger,
	})
	module.Store = store
	return module
}
