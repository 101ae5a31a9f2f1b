package di

import (
	"github.com/goliatone/go-command/dispatcher"

	"github.com/codepilotrules/go-docs/internal/commands"
	pagescmd "github.com/codepilotrules/go-docs/internal/commands/pages"
	"github.com/codepilotrules/go-docs/internal/logging"
)

type subscription interface {
	Unsubscribe()
}

// CommandHandlers groups the page command handlers built by the container.
// Import is nil when the markdown importer is not configured.
type CommandHandlers struct {
	Create    *pagescmd.CreatePageHandler
	Move      *pagescmd.MovePageHandler
	Delete    *pagescmd.DeletePageHandler
	Publish   *pagescmd.StatusHandler[pagescmd.PublishPageCommand]
	Unpublish *pagescmd.StatusHandler[pagescmd.UnpublishPageCommand]
	Archive   *pagescmd.StatusHandler[pagescmd.ArchivePageCommand]
	Import    *pagescmd.ImportPagesHandler
}

func (c *Container) configureCommands() {
	if !c.Config.Commands.Enabled {
		return
	}

	logger := commands.CommandLogger(c.loggerProvider, "pages")
	timeout := c.Config.Commands.Timeout

	handlers := &CommandHandlers{
		Create:    pagescmd.NewCreatePageHandler(c.pageSvc, logger, nil, commands.WithTimeout[pagescmd.CreatePageCommand](timeout)),
		Move:      pagescmd.NewMovePageHandler(c.pageSvc, logger, commands.WithTimeout[pagescmd.MovePageCommand](timeout)),
		Delete:    pagescmd.NewDeletePageHandler(c.pageSvc, logger, commands.WithTimeout[pagescmd.DeletePageCommand](timeout)),
		Publish:   pagescmd.NewPublishPageHandler(c.pageSvc, logger, commands.WithTimeout[pagescmd.PublishPageCommand](timeout)),
		Unpublish: pagescmd.NewUnpublishPageHandler(c.pageSvc, logger, commands.WithTimeout[pagescmd.UnpublishPageCommand](timeout)),
		Archive:   pagescmd.NewArchivePageHandler(c.pageSvc, logger, commands.WithTimeout[pagescmd.ArchivePageCommand](timeout)),
	}
	if c.importer != nil {
		gates := pagescmd.FeatureGates{
			ImportEnabled: func() bool { return c.Config.Features.Import },
		}
		handlers.Import = pagescmd.NewImportPagesHandler(c.importer, logger, gates, nil, commands.WithTimeout[pagescmd.ImportPagesCommand](timeout))
	}
	c.commands = handlers

	if c.Config.Commands.AutoRegisterDispatcher {
		c.registerDispatcher(handlers)
	}
}

func (c *Container) registerDispatcher(h *CommandHandlers) {
	c.subscriptions = append(c.subscriptions,
		dispatcher.SubscribeCommand[pagescmd.CreatePageCommand](h.Create),
		dispatcher.SubscribeCommand[pagescmd.MovePageCommand](h.Move),
		dispatcher.SubscribeCommand[pagescmd.DeletePageCommand](h.Delete),
		dispatcher.SubscribeCommand[pagescmd.PublishPageCommand](h.Publish),
		dispatcher.SubscribeCommand[pagescmd.UnpublishPageCommand](h.Unpublish),
		dispatcher.SubscribeCommand[pagescmd.ArchivePageCommand](h.Archive),
	)
	if h.Import != nil {
		c.subscriptions = append(c.subscriptions, dispatcher.SubscribeCommand[pagescmd.ImportPagesCommand](h.Import))
	}
	logging.WithFields(c.logger, map[string]any{"handlers": len(c.subscriptions)}).Debug("commands.dispatcher_registered")
}
