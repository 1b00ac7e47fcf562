// Package bot routes inbound chat events to command handlers. Text is
// matched against fixed trigger sets bound to a closed set of commands;
// postbacks carry structured actions such as saving a beer.
package bot

import (
	"context"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// Command identifies one user-facing command.
type Command int

const (
	CommandNone Command = iota
	CommandMenu
	CommandSize
	CommandStaff
	CommandHagehige
	CommandProfileYurie
	CommandProfileAdam
	CommandSavedBeers

	commandCount
)

var commandNames = [commandCount]string{
	CommandNone:         "none",
	CommandMenu:         "menu",
	CommandSize:         "size",
	CommandStaff:        "staff",
	CommandHagehige:     "hagehige",
	CommandProfileYurie: "profile_yurie",
	CommandProfileAdam:  "profile_adam",
	CommandSavedBeers:   "saved_beers",
}

func (c Command) String() string {
	if c < 0 || c >= commandCount {
		return "unknown"
	}
	return commandNames[c]
}

// Valid reports whether c is a routable command.
func (c Command) Valid() bool {
	return c > CommandNone && c < commandCount
}

// Commands returns every routable command in declaration order.
func Commands() []Command {
	out := make([]Command, 0, commandCount-1)
	for c := CommandNone + 1; c < commandCount; c++ {
		out = append(out, c)
	}
	return out
}

// HandlerFunc answers one matched text event. A nil message means no reply.
type HandlerFunc func(ctx context.Context, ev TextEvent) messaging_api.MessageInterface
