package core

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	colorUser    = color.New(color.FgBlue)
	colorCwd     = color.New(color.FgGreen)
	colorSuccess = color.New(color.FgHiGreen, color.Bold)
	colorFailure = color.New(color.FgHiRed, color.Bold)
)

// Prompt renders the prompt for the next line: who and where on the first
// line and a symbol colored by the last status on the second.
func (s *Shell) Prompt() string {
	return fmt.Sprintf("%s\n%s", s.PromptHeader(), s.PromptSymbol())
}

// PromptHeader renders the first line of the prompt.
func (s *Shell) PromptHeader() string {
	cwd := colorCwd.Sprint(s.Env.WorkingDirectory().Short())
	if !s.Config.Prompt.ShowUser {
		return cwd
	}
	return fmt.Sprintf("%s on %s", colorUser.Sprint(s.Env.User()), cwd)
}

// PromptSymbol renders the part of the prompt input is typed after.
func (s *Shell) PromptSymbol() string {
	symbol := colorSuccess
	if !s.Success() {
		symbol = colorFailure
	}
	return symbol.Sprint(s.Config.Prompt.Symbol) + " "
}
