package commands

import (
	"strings"

	"github.com/codepilotrules/go-docs/internal/logging"
	"github.com/codepilotrules/go-docs/pkg/interfaces"
)

const commandModuleRoot = "docs.commands"

// CommandLogger returns a module-scoped logger for command handlers with the
// component and command_module fields attached. An empty module logs under
// the commands root.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	var logger interfaces.Logger
	if name == "" {
		name = "core"
		logger = logging.CommandsLogger(provider)
	} else {
		logger = logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	}
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}

// EnsureLogger returns logger, or a no-op logger when nil.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
