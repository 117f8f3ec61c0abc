// Package base holds state shared by every glik subcommand.
package base

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
)

// Command is embedded by each subcommand.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui

	// Out receives response bodies. Streams are copied to it as they arrive.
	Out io.Writer

	// Fs is where config, input and upload files are read from.
	Fs afero.Fs

	// Getenv looks up environment overrides.
	Getenv func(string) string
}

// NewCommand returns a Command wired to the process environment.
func NewCommand(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{
		Log:    log,
		UI:     ui,
		Out:    os.Stdout,
		Fs:     afero.NewOsFs(),
		Getenv: os.Getenv,
	}
}

// FlagSet wraps a flag.FlagSet with help rendering and set-detection.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet wraps fs. Output is discarded; parse errors are reported by the caller.
func NewFlagSet(fs *flag.FlagSet) *FlagSet {
	fs.SetOutput(io.Discard)
	return &FlagSet{FlagSet: fs}
}

// IsSet reports whether the named flag was given on the command line.
func (f *FlagSet) IsSet(name string) bool {
	set := false
	f.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			set = true
		}
	})
	return set
}

// Help renders the flags as an options block appended to command help.
func (f *FlagSet) Help() string {
	var flags []*flag.Flag
	f.VisitAll(func(fl *flag.Flag) {
		flags = append(flags, fl)
	})
	if len(flags) == 0 {
		return ""
	}
	sort.Slice(flags, func(i, j int) bool { return flags[i].Name < flags[j].Name })

	var sb strings.Builder
	sb.WriteString("\n\nOptions:\n")
	for _, fl := range flags {
		if fl.DefValue != "" {
			fmt.Fprintf(&sb, "\n  -%s=%s\n", fl.Name, fl.DefValue)
		} else {
			fmt.Fprintf(&sb, "\n  -%s\n", fl.Name)
		}
		fmt.Fprintf(&sb, "      %s\n", fl.Usage)
	}
	return sb.String()
}
