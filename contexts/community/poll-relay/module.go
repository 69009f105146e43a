package pollrelay

import (
	"log/slog"

	httpadapter "quorum/contexts/community/poll-relay/adapters/http"
	"quorum/contexts/community/poll-relay/adapters/memory"
	"quorum/contexts/community/poll-relay/application/commands"
	"quorum/contexts/community/poll-relay/application/queries"
	"quorum/contexts/community/poll-relay/domain/entities"
	"quorum/contexts/community/poll-relay/ports"
)

type Module struct {
	Relay     commands.RelayUseCase
	Reports   queries.ReportUseCase
	Handler   httpadapter.Handler
	Store     *memory.Store
	Messenger *memory.Messenger
}

type Dependencies struct {
	BotID     entities.UserID
	Polls     ports.TrackedPollRepository
	Residents ports.ResidentDirectory
	Roles     ports.Authorizer
	Messenger ports.Messenger
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	ledger := commands.VoteLedger{
		Polls:  deps.Polls,
		Logger: deps.Logger,
	}
	relay := commands.RelayUseCase{
		BotID:     deps.BotID,
		Ledger:    ledger,
		Residents: deps.Residents,
		Roles:     deps.Roles,
		Messenger: deps.Messenger,
		Logger:    deps.Logger,
	}
	reports := queries.ReportUseCase{
		Polls:     deps.Polls,
		Residents: deps.Residents,
	}
	return Module{
		Relay:   relay,
		Reports: reports,
		Handler: httpadapter.Handler{
			Reports: reports,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.TrackedPoll, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	messenger := memory.NewMessenger(ports.BotProfile{ID: 1, Username: "quorum_bot"})
	module := NewModule(Dependencies{
		BotID:     1,
		Polls:     store,
		Residents: store,
		Roles:     store,
		Messenger: messenger,
		Logger:    logger,
	})
	module.Store = store
	module.Messenger = messenger
	return module
}
