package adminservice

import (
	"log/slog"

	httpadapter "stackit/contexts/internal-ops/admin-service/adapters/http"
	"stackit/contexts/internal-ops/admin-service/adapters/memory"
	"stackit/contexts/internal-ops/admin-service/application"
	"stackit/contexts/internal-ops/admin-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Stats  ports.StatsSource
	Users  ports.UserAdminRepository
	Audit  ports.AuditRepository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Service: application.Service{
				Stats:  deps.Stats,
				Users:  deps.Users,
				Audit:  deps.Audit,
				Clock:  deps.Clock,
				IDGen:  deps.IDGen,
				Logger: deps.Logger,
			},
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Stats:  store,
		Users:  store,
		Audit:  store,
		Clock:  store,
		IDGen:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}
