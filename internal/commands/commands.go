package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
)

const prefix = "cmd "

var (
	// ErrUnknown is returned by Execute for a name that was never registered.
	ErrUnknown = errors.New("unknown command")
	// ErrUsage is returned by a command's Run for bad positional arguments.
	ErrUsage = errors.New("usage")
)

// RunFunc runs a command with its positional arguments. out is shown to the user.
type RunFunc func(args []string) (out string, err error)

// Command is a subcommand with its own flags and a Run function.
// Flags are defined on FlagSet; Run is called after Parse with the remaining positional arguments.
type Command struct {
	Name    string
	Usage   string
	FlagSet *flag.FlagSet
	Run     RunFunc
}

// Registry holds subcommands by name. Add commands with Register; run with Execute.
type Registry struct {
	cmds map[string]*Command
}

// NewRegistry returns a registry with only the help command.
func NewRegistry() *Registry {
	r := &Registry{cmds: make(map[string]*Command)}
	r.Register("help", "list commands", nil, func([]string) (string, error) {
		return r.Help(), nil
	})
	return r
}

// Register adds a subcommand. name is the first token after "cmd" (e.g. "width").
// fs may be nil for a command without flags; otherwise build it with flag.ContinueOnError so
// flag errors come back from Execute.
func (r *Registry) Register(name, usage string, fs *flag.FlagSet, run RunFunc) {
	if fs == nil {
		fs = flag.NewFlagSet(name, flag.ContinueOnError)
	}
	fs.SetOutput(io.Discard)
	r.cmds[name] = &Command{Name: name, Usage: usage, FlagSet: fs, Run: run}
}

// Names returns the registered command names in order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.cmds))
	for n := range r.cmds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Help returns one line per command: name and usage.
func (r *Registry) Help() string {
	var b strings.Builder
	for i, n := range r.Names() {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%-8s %s", n, r.cmds[n].Usage)
	}
	return b.String()
}

// Parse interprets line as a terminal line. If line starts with "cmd " (case-sensitive),
// the rest is tokenized and returned with ok true. Double quotes group words, so paths
// with spaces survive. Otherwise nil, false.
func Parse(line string) (args []string, ok bool) {
	if !strings.HasPrefix(line, prefix) && strings.TrimSpace(line) != strings.TrimSpace(prefix) {
		return nil, false
	}
	return split(strings.TrimPrefix(line, strings.TrimSpace(prefix))), true
}

func split(s string) []string {
	var (
		out     []string
		cur     strings.Builder
		quoted  bool
		pending bool
	)
	for _, c := range s {
		switch {
		case c == '"':
			quoted = !quoted
			pending = true
		case (c == ' ' || c == '\t') && !quoted:
			if pending {
				out = append(out, cur.String())
				cur.Reset()
				pending = false
			}
		default:
			cur.WriteRune(c)
			pending = true
		}
	}
	if pending {
		out = append(out, cur.String())
	}
	return out
}

// Execute runs the subcommand in args[0] with args[1:] as flag/positional arguments.
// Flags start from their defaults on every call. Returns an error for unknown command,
// parse error, or from Run().
func (r *Registry) Execute(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("missing subcommand (try cmd help)")
	}
	name := args[0]
	cmd, ok := r.cmds[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	cmd.FlagSet.VisitAll(func(f *flag.Flag) {
		_ = f.Value.Set(f.DefValue)
	})
	if err := cmd.FlagSet.Parse(args[1:]); err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return cmd.Run(cmd.FlagSet.Args())
}
