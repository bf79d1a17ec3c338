package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/doinkythederp/rush/core"
	"github.com/fatih/color"
	getopt "github.com/pborman/getopt/v2"
)

var allBuiltins = make(map[string]*core.Builtin)

// mustAddBuiltin registers a builtin under its canonical name.
func mustAddBuiltin(name string, aliases []string, short string, fn core.BuiltinFunc) {
	if _, ok := allBuiltins[name]; ok {
		panic(fmt.Sprintf("duplicate builtin %q", name))
	}
	allBuiltins[name] = core.NewBuiltin(name, aliases, short, fn)
}

// ListBuiltins returns every builtin sorted by name.
func ListBuiltins() []*core.Builtin {
	var out []*core.Builtin
	for _, b := range allBuiltins {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// NewCommandManager creates a manager with every builtin registered.
func NewCommandManager() *core.CommandManager {
	return core.NewCommandManager(ListBuiltins()...)
}

func BytesToHuman(bytes int64) string {
	for _, e := range []struct {
		unit  string
		power int64
	}{
		{"P", 1e15},
		{"T", 1e12},
		{"G", 1e9},
		{"M", 1e6},
		{"K", 1e3},
	} {
		quotient := bytes / e.power
		switch {
		case quotient == 0:
			continue
		case quotient > 10:
			return fmt.Sprintf("%d%s", quotient, e.unit)
		default:
			return fmt.Sprintf("%0.1f%s", float64(bytes)/float64(e.power), e.unit)
		}
	}

	return fmt.Sprintf("%d", bytes)
}

type SimpleCommand struct {
	// Use holds a one line usage string
	Use string
	// Short holds a one line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not.
	// If this is non-nil when Run() is called, then the default help flag isn't
	// added.
	ShowHelp *bool
	// NeverBail skips interacting with stdout/stderr on failure and
	// always runs the callback.
	NeverBail bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Args returns the positional arguments left after flag parsing.
func (s *SimpleCommand) Args() []string {
	return s.Flags().Args()
}

// Run the command, if flag parsing was succcessful call the callback.
func (s *SimpleCommand) Run(console core.Console, args []string, callback func() int) int {
	opts := s.Flags()

	// Add help flag if not overridden.
	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	// getopt expects the program name first.
	err := opts.Getopt(append([]string{s.Use}, args...), nil)

	if err != nil && !s.NeverBail {
		core.Errorf(console, "error: %s\n", err)
		core.Errorf(console, "")

		w := core.Stdout(console)
		s.PrintHelp(w)
		w.Flush()
		return 1
	}

	if *s.ShowHelp {
		w := core.Stdout(console)
		s.PrintHelp(w)
		w.Flush()
		return 0
	}

	return callback()
}

// RunEachArg runs the callback for each positional argument, errors are
// printed and make the command fail without stopping the loop.
func (s *SimpleCommand) RunEachArg(console core.Console, args []string, callback func(arg string) error) int {
	return s.Run(console, args, func() int {
		ret := 0
		for _, arg := range s.Args() {
			if err := callback(arg); err != nil {
				core.Errorf(console, "%s: %v", arg, err)
				ret = 1
			}
		}
		return ret
	})
}

// Usage prints the usage line as a diagnostic and returns the failure
// status.
func (s *SimpleCommand) Usage(console core.Console) int {
	core.Errorf(console, "usage: %s", s.Use)
	return 1
}

const (
	colorAlways = "always"
	colorAuto   = "auto"
	colorNever  = "never"
)

var (
	ColorBoldBlue  = color.New(color.FgBlue, color.Bold)
	ColorBoldGreen = color.New(color.FgHiGreen, color.Bold)
	ColorBoldRed   = color.New(color.FgRed, color.Bold)
)

type ColorPrinter struct {
	value *string
}

// Init sets up the flag that determines the color output.
func (c *ColorPrinter) Init(flags *getopt.Set) {
	c.value = flags.EnumLong(
		"color",
		rune(0), // No short flag.
		[]string{colorAlways, colorAuto, colorNever},
		colorAuto,
		"colorize the output (always|auto|never)")
}

func (c *ColorPrinter) ShouldColor() bool {
	switch {
	case c.value == nil || *c.value == colorAuto:
		return !color.NoColor
	case *c.value == colorNever:
		return false
	default:
		return true
	}
}

func (c *ColorPrinter) Sprintf(clr *color.Color, format string, a ...interface{}) string {
	if !c.ShouldColor() {
		return fmt.Sprintf(format, a...)
	}

	// The package level switch would otherwise win over --color=always.
	forced := *clr
	forced.EnableColor()
	return forced.Sprintf(format, a...)
}
