package models

import "strings"

// CommandType enumerates the queries operators can send over WhatsApp.
type CommandType string

const (
	CommandStock   CommandType = "stock"
	CommandBalance CommandType = "balance"
	CommandTruck   CommandType = "truck"
	CommandConvert CommandType = "convert"
	CommandHelp    CommandType = "help"
	CommandUnknown CommandType = "unknown"
)

// Command represents a parsed operator instruction extracted from WhatsApp text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command instance from free-form text messages.
func ParseCommand(message string) Command {
	tokens := strings.Fields(message)
	if len(tokens) == 0 {
		return Command{Type: CommandUnknown, Raw: message}
	}

	cmd := Command{Raw: message}

	// Only the keyword is case-insensitive; ids keep their case.
	head := strings.TrimPrefix(strings.ToLower(tokens[0]), "/")
	switch head {
	case string(CommandStock):
		cmd.Type = CommandStock
	case string(CommandBalance):
		cmd.Type = CommandBalance
	case string(CommandTruck):
		cmd.Type = CommandTruck
	case string(CommandConvert):
		cmd.Type = CommandConvert
	case string(CommandHelp):
		cmd.Type = CommandHelp
	default:
		cmd.Type = CommandUnknown
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
