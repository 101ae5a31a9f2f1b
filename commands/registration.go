// Package commands exposes the container's page command handlers to host
// registries and dispatchers.
package commands

import (
	"errors"

	"github.com/codepilotrules/go-docs/internal/di"
)

// CommandRegistry records command handlers so hosts can expose them via CLI or RPC.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// RegistrationOptions configures how handlers are registered.
type RegistrationOptions struct {
	Registry   CommandRegistry
	Dispatcher CommandDispatcher
}

// RegistrationResult captures the registered handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

var ErrNoHandlers = errors.New("commands: no command handlers registered; ensure commands are enabled")

// RegisterContainerCommands hands the handlers built by container to the
// registry and dispatcher in opts. Registration errors are joined; handlers
// that registered successfully stay registered.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	result := &RegistrationResult{
		Handlers:      make([]any, 0),
		Subscriptions: make([]CommandSubscription, 0),
	}
	if container == nil || container.Commands() == nil {
		return result, ErrNoHandlers
	}

	var errs error
	register := func(handler any) {
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}

		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}
	}

	handlers := container.Commands()
	register(handlers.Create)
	register(handlers.Move)
	register(handlers.Delete)
	register(handlers.Publish)
	register(handlers.Unpublish)
	register(handlers.Archive)
	if handlers.Import != nil {
		register(handlers.Import)
	}

	return result, errs
}
