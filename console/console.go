// Package console provides an interactive admin command loop: reads
// lines of input (from a terminal via go-prompt, or from any
// io.Reader when scripted/tested), parses a fixed set of "/command
// arg..." lines, and applies them to a running Server.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	prompt "github.com/c-bata/go-prompt"

	"github.com/jmdejong/dezl/world"
)

const (
	defaultPromptPrefix = "> "
	maxHistoryEntries   = 128
)

// Server is the subset of the running game server a console can act
// on. It is deliberately narrow so the console can be tested against a
// fake without spinning up transports or a real world.
type Server interface {
	Players() []world.PlayerID
	Broadcast(text string)
	Kick(player world.PlayerID, reason string) error
	Save() error
	Shutdown()
}

// Console reads admin commands from a reader (stdin by default) and
// executes them against a Server.
type Console struct {
	srv     Server
	log     *slog.Logger
	reader  io.Reader
	history []string
}

// New returns a Console bound to srv. It reads from os.Stdin and logs
// command output to log.
func New(srv Server, log *slog.Logger) *Console {
	if log == nil {
		log = slog.Default()
	}
	return &Console{srv: srv, log: log, reader: os.Stdin}
}

// WithReader overrides the input source, for scripting or testing.
func (c *Console) WithReader(r io.Reader) *Console {
	if r != nil {
		c.reader = r
	}
	return c
}

// Run consumes commands until ctx is cancelled or the reader reaches EOF.
func (c *Console) Run(ctx context.Context) {
	if c.reader != os.Stdin {
		c.runScanner(ctx)
		return
	}
	c.runInteractive(ctx)
}

func (c *Console) runScanner(ctx context.Context) {
	scanner := bufio.NewScanner(c.reader)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				c.log.Error("console input error", "error", err)
			}
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		c.execute(line)
	}
}

func (c *Console) runInteractive(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		line := prompt.Input(defaultPromptPrefix, c.complete,
			prompt.OptionTitle("dezl console"),
			prompt.OptionHistory(c.history),
			prompt.OptionPrefix(defaultPromptPrefix),
			prompt.OptionCompletionOnDown(),
			prompt.OptionMaxSuggestion(12),
		)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		c.execute(line)
	}
}

func (c *Console) execute(line string) {
	input := strings.TrimSpace(line)
	if input == "" {
		return
	}
	if !strings.HasPrefix(input, "/") {
		input = "/" + input
	}
	c.history = append(c.history, input)
	if len(c.history) > maxHistoryEntries {
		c.history = c.history[len(c.history)-maxHistoryEntries:]
	}

	name, args := splitCommand(input)
	cmd, ok := commands[name]
	if !ok {
		c.log.Error(fmt.Sprintf("unknown command %q", name))
		return
	}
	if err := cmd.run(c.srv, args); err != nil {
		c.log.Error(err.Error())
	}
}

func splitCommand(input string) (string, []string) {
	fields := strings.Fields(strings.TrimPrefix(input, "/"))
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}

type command struct {
	usage string
	run   func(srv Server, args []string) error
}

var commands = map[string]command{
	"players": {
		usage: "/players",
		run: func(srv Server, args []string) error {
			players := srv.Players()
			names := make([]string, len(players))
			for i, p := range players {
				names[i] = string(p)
			}
			sort.Strings(names)
			fmt.Println(strings.Join(names, ", "))
			return nil
		},
	},
	"broadcast": {
		usage: "/broadcast <message...>",
		run: func(srv Server, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("usage: /broadcast <message...>")
			}
			srv.Broadcast(strings.Join(args, " "))
			return nil
		},
	},
	"save": {
		usage: "/save",
		run: func(srv Server, args []string) error {
			return srv.Save()
		},
	},
	"kick": {
		usage: "/kick <player> [reason...]",
		run: func(srv Server, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("usage: /kick <player> [reason...]")
			}
			reason := "kicked by an admin"
			if len(args) > 1 {
				reason = strings.Join(args[1:], " ")
			}
			return srv.Kick(world.PlayerID(args[0]), reason)
		},
	},
	"shutdown": {
		usage: "/shutdown",
		run: func(srv Server, args []string) error {
			srv.Shutdown()
			return nil
		},
	},
}

func (c *Console) complete(doc prompt.Document) []prompt.Suggest {
	word := strings.TrimPrefix(doc.GetWordBeforeCursor(), "/")
	if strings.Contains(doc.TextBeforeCursor(), " ") {
		return nil
	}
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	suggestions := make([]prompt.Suggest, 0, len(names))
	for _, name := range names {
		suggestions = append(suggestions, prompt.Suggest{Text: name, Description: commands[name].usage})
	}
	return prompt.FilterHasPrefix(suggestions, word, true)
}
