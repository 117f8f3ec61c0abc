// Package commands implements the glik subcommands. Each API command sends one
// request, prints the response status to stderr and copies the raw body to the
// command's output.
package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
	"gopkg.in/yaml.v3"

	glik "github.com/rivalz-glik/glik-go"
	"github.com/rivalz-glik/glik-go/internal/cmd/base"
	"github.com/rivalz-glik/glik-go/internal/config"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitError     = 1
	ExitAPIStatus = 2
)

// APICommand runs a single API call.
type APICommand struct {
	*base.Command

	name     string
	synopsis string
	usage    string

	// flags registers the command's own flags.
	flags func(f *base.FlagSet)
	// call sends the request.
	call func(ctx context.Context, s *Session) (*http.Response, error)

	flagConfig   string
	flagLogLevel string
}

func (c *APICommand) Synopsis() string {
	return c.synopsis
}

func (c *APICommand) Help() string {
	return fmt.Sprintf("Usage: glik %s [options]\n\n  %s", c.name, c.usage) + c.Flags().Help()
}

// Flags returns the command flags plus the shared -config and -log-level.
func (c *APICommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet(c.name, flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "Path to a glik HCL config file.",
	)
	f.StringVar(
		&c.flagLogLevel, "log-level", "", "Log level: trace, debug, info, warn, error or off.",
	)
	if c.flags != nil {
		c.flags(f)
	}

	return f
}

func (c *APICommand) Run(args []string) int {
	ui := c.UI

	// Parse flags.
	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return ExitError
	}

	// Parse configuration.
	cfg, err := config.Load(c.Fs, c.flagConfig, c.Getenv)
	if err != nil {
		ui.Error(err.Error())
		return ExitError
	}
	if c.flagLogLevel != "" {
		cfg.LogLevel = c.flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		ui.Error(fmt.Sprintf("invalid configuration: %v", err))
		return ExitError
	}
	if cfg.LogLevel != "" {
		c.Log.SetLevel(hclog.LevelFromString(cfg.LogLevel))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	session := &Session{command: c, cfg: cfg, flags: flags}
	resp, err := c.call(ctx, session)
	if err != nil {
		ui.Error(err.Error())
		return ExitError
	}
	defer resp.Body.Close()

	ui.Error(resp.Status)
	if _, err := io.Copy(c.Out, resp.Body); err != nil {
		ui.Error(fmt.Sprintf("error reading response: %v", err))
		return ExitError
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ExitAPIStatus
	}
	return ExitOK
}

// Session carries the resolved configuration of one command invocation.
type Session struct {
	command *APICommand
	cfg     *config.Config
	flags   *base.FlagSet
}

func (s *Session) clientConfig() glik.Config {
	return s.cfg.ClientConfig(s.command.Log, s.command.Fs)
}

// Client returns a base client for the app-level endpoints.
func (s *Session) Client() *glik.Client {
	return glik.New(s.clientConfig(), s.cfg.Options()...)
}

// Chat returns a chat client.
func (s *Session) Chat() *glik.ChatClient {
	return glik.NewChat(s.clientConfig(), s.cfg.Options()...)
}

// Completion returns a completion client.
func (s *Session) Completion() *glik.CompletionClient {
	return glik.NewCompletion(s.clientConfig(), s.cfg.Options()...)
}

// Workflow returns a workflow client.
func (s *Session) Workflow() *glik.WorkflowClient {
	return glik.NewWorkflow(s.clientConfig(), s.cfg.Options()...)
}

// Dataset returns a dataset client bound to datasetID, falling back to the
// configured dataset.
func (s *Session) Dataset(datasetID string) *glik.DatasetClient {
	if datasetID == "" {
		datasetID = s.cfg.DatasetID
	}
	return glik.NewDataset(s.clientConfig(), datasetID, s.cfg.Options()...)
}

// User returns user, falling back to the configured user.
func (s *Session) User(user string) string {
	if user == "" {
		return s.cfg.User
	}
	return user
}

// IsSet reports whether the named flag was given.
func (s *Session) IsSet(name string) bool {
	return s.flags.IsSet(name)
}

// ReadObject decodes a YAML or JSON object file. An empty path yields nil.
func (s *Session) ReadObject(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	var out map[string]any
	if err := s.decodeFile(path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadSegments decodes a YAML or JSON list of segments.
func (s *Session) ReadSegments(path string) ([]glik.Segment, error) {
	var raw []struct {
		Content string   `yaml:"content"`
		Answer  string   `yaml:"answer"`
		Keyword []string `yaml:"keyword"`
	}
	if err := s.decodeFile(path, &raw); err != nil {
		return nil, err
	}

	segments := make([]glik.Segment, len(raw))
	for i, r := range raw {
		segments[i] = glik.Segment{Content: r.Content, Answer: r.Answer, Keyword: r.Keyword}
	}
	return segments, nil
}

func (s *Session) decodeFile(path string, out any) error {
	f, err := s.command.Fs.Open(path)
	if err != nil {
		return fmt.Errorf("error opening %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(out); err != nil {
		return fmt.Errorf("error decoding %s: %w", path, err)
	}
	return nil
}

// OpenFile opens path for upload under field.
func (s *Session) OpenFile(field, path, contentType string) (glik.File, io.Closer, error) {
	f, err := s.command.Fs.Open(path)
	if err != nil {
		return glik.File{}, nil, fmt.Errorf("error opening %s: %w", path, err)
	}
	name := path
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		name = path[i+1:]
	}
	return glik.File{Field: field, Name: name, ContentType: contentType, Reader: f}, f, nil
}

// required fails with one message listing every blank flag.
func required(flags map[string]string) error {
	errs := validation.Errors{}
	for name, value := range flags {
		errs["-"+name] = validation.Validate(value, validation.Required)
	}
	return errs.Filter()
}

// splitList splits a comma-separated flag value, dropping empty items.
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// optionalBool parses a tri-state flag: empty means unset.
func optionalBool(name, value string) (*bool, error) {
	switch value {
	case "":
		return nil, nil
	case "true":
		return glik.Ptr(true), nil
	case "false":
		return glik.Ptr(false), nil
	default:
		return nil, fmt.Errorf("-%s must be true or false", name)
	}
}
