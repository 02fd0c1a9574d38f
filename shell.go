package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// ErrShellExit is returned by the exit command.
var ErrShellExit = errors.New("shell: exit requested")

// ShellCommand is an operator command. Its key is made of the words typed
// before the first `--option`.
type ShellCommand struct {
	Key     string
	Help    string
	Options []string
	Run     func(ctx context.Context, opts map[string]string) (string, error)
}

// Shell reads operator commands and runs them against the services.
type Shell struct {
	logger   *zap.Logger
	config   *ShellConfig
	services *Services
	commands map[string]ShellCommand

	// isTerminal tells whether stdin is an interactive terminal.
	isTerminal func() bool
}

// NewShell provides a shell with all catalog commands registered.
func NewShell(logger *zap.Logger, config *ShellConfig, services *Services) *Shell {
	sh := &Shell{
		logger:     logger,
		config:     config,
		services:   services,
		commands:   make(map[string]ShellCommand),
		isTerminal: readline.DefaultIsTerminal,
	}
	sh.registerCatalogCommands()
	sh.register(ShellCommand{Key: "help", Help: "List available commands", Run: sh.help})
	sh.register(ShellCommand{Key: "exit", Help: "Leave the shell", Run: func(context.Context, map[string]string) (string, error) {
		return "bye", ErrShellExit
	}})
	return sh
}

func (sh *Shell) register(cmd ShellCommand) {
	sh.commands[cmd.Key] = cmd
}

// keys returns the sorted commands keys.
func (sh *Shell) keys() []string {
	keys := lo.Keys(sh.commands)
	sort.Strings(keys)
	return keys
}

func (sh *Shell) help(context.Context, map[string]string) (string, error) {
	var sb strings.Builder
	for _, key := range sh.keys() {
		cmd := sh.commands[key]
		usage := key
		for _, opt := range cmd.Options {
			usage += " --" + opt + " <" + opt + ">"
		}
		fmt.Fprintf(&sb, "%-60s %s\n", usage, cmd.Help)
	}
	return sb.String(), nil
}

// parseLine splits the line into the command key and its options.
func parseLine(line string) (string, map[string]string, error) {
	tokens, err := shlex.Split(line)
	if err != nil {
		return "", nil, err
	}
	var words []string
	i := 0
	for ; i < len(tokens) && !strings.HasPrefix(tokens[i], "--"); i++ {
		words = append(words, tokens[i])
	}

	opts := make(map[string]string)
	for ; i < len(tokens); i++ {
		name := strings.TrimPrefix(tokens[i], "--")
		if !strings.HasPrefix(tokens[i], "--") || name == "" {
			return "", nil, fmt.Errorf("unexpected argument %q", tokens[i])
		}
		if i+1 >= len(tokens) || strings.HasPrefix(tokens[i+1], "--") {
			return "", nil, fmt.Errorf("missing value for option --%s", name)
		}
		opts[name] = tokens[i+1]
		i++
	}
	return strings.Join(words, " "), opts, nil
}

// Execute runs one command line and returns what to print. ErrShellExit
// is returned when the operator asked to leave.
func (sh *Shell) Execute(ctx context.Context, line string) (string, error) {
	key, opts, err := parseLine(line)
	if err != nil {
		return err.Error(), nil
	}
	if key == "" {
		return "", nil
	}
	cmd, found := sh.commands[key]
	if !found {
		return fmt.Sprintf("unknown command %q. type help to list commands.", key), nil
	}
	missing := lo.Filter(cmd.Options, func(opt string, _ int) bool {
		_, ok := opts[opt]
		return !ok
	})
	if len(missing) > 0 {
		return "missing option(s): --" + strings.Join(missing, ", --"), nil
	}

	out, err := cmd.Run(ctx, opts)
	if errors.Is(err, ErrShellExit) {
		return out, err
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message, nil
	}
	if err != nil {
		sh.logger.Error("shell: command failed", zap.String("command", key), zap.Error(err))
		return "command failed: " + err.Error(), nil
	}
	return out, nil
}

func (sh *Shell) completer() *readline.PrefixCompleter {
	items := lo.Map(sh.keys(), func(key string, _ int) readline.PrefixCompleterInterface {
		return readline.PcItem(key)
	})
	return readline.NewPrefixCompleter(items...)
}

// Run reads commands until the context is done or the input ends. Only
// the exit command (or ^C on an empty line) returns ErrShellExit. Without
// a terminal on stdin the shell does not start and Run returns nil.
func (sh *Shell) Run(ctx context.Context) error {
	if !sh.isTerminal() {
		sh.logger.Info("shell: stdin is not a terminal, shell not started")
		return nil
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          sh.config.Prompt,
		HistoryFile:     sh.config.HistoryFile,
		AutoComplete:    sh.completer(),
		InterruptPrompt: "^C",
	})
	if err != nil {
		return fmt.Errorf("shell: failed to start: %w", err)
	}
	defer rl.Close()

	go func() {
		<-ctx.Done()
		rl.Close()
	}()

	sh.logger.Info("shell: started")
	for {
		line, err := rl.Readline()
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return ErrShellExit
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			sh.logger.Info("shell: end of input, shell stopped")
			return nil
		}
		if err != nil {
			return err
		}

		out, err := sh.Execute(ctx, line)
		if out != "" {
			fmt.Fprintln(rl.Stdout(), strings.TrimRight(out, "\n"))
		}
		if errors.Is(err, ErrShellExit) {
			return err
		}
	}
}
