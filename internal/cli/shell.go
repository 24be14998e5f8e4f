package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shellHelp = `
Available commands:
  add <URL>           - Add a single seed URL
  remove <URL>        - Remove a specific seed URL
  status [URL]        - Check status of all URLs or a specific URL
  bulk-add <FILE>     - Bulk add URLs from a text file
  seeds               - List seed URLs by number
  discover [N|URL]    - Run discovery for pending seeds, or one seed by number or URL
  leads [STATUS]      - List leads, optionally only those in STATUS
  delete-lead <ID>    - Delete a lead
  errors              - Show recorded errors
  research            - Research every new lead
  setup               - Store API keys
  help                - Show this help message
  exit                - Exit the program
`

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive command loop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := runnerFor(cmd)
			if err != nil {
				return err
			}
			sh := &shell{runner: r, in: newLineReader(cmd.InOrStdin())}
			return sh.run(cmd.Context())
		},
	}
}

type shell struct {
	*runner
	in lineReader
	// menu is the numbered seed list from the last "seeds" command.
	menu []string
}

func (s *shell) welcome() {
	s.printf("Welcome to Lead Agent!\n")
	s.printf("This tool helps you manage seed URLs and research leads.\n")
	s.printf("Use the commands below to interact with the program.\n")
	s.printf("%s", shellHelp)
}

func (s *shell) run(ctx context.Context) error {
	s.welcome()
	if missing := s.app.Credentials().Missing(); len(missing) > 0 {
		s.printf("\nMissing API keys: %s. Run 'setup' to add them.\n", strings.Join(missing, ", "))
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.printf("\nEnter a command: ")
		line, err := s.in.readLine()
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				s.printf("\n")
				return nil
			}
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if strings.ToLower(fields[0]) == "exit" {
			s.printf("Thank you for using Lead Agent. Goodbye!\n")
			return nil
		}
		if err := s.dispatch(ctx, strings.ToLower(fields[0]), fields[1:]); err != nil {
			s.app.Logger.Warn("shell command failed", zap.String("command", fields[0]), zap.Error(err))
			s.printf("Error: %v\n", err)
		}
	}
}

func (s *shell) dispatch(ctx context.Context, verb string, args []string) error {
	switch {
	case verb == "help":
		s.welcome()
	case verb == "add" && len(args) == 1:
		return s.addSeed(ctx, args[0])
	case verb == "remove" && len(args) == 1:
		return s.removeSeed(ctx, args[0])
	case verb == "status" && len(args) <= 1:
		return s.status(ctx, optional(args))
	case verb == "status":
		s.printf("Invalid usage. Use 'status' or 'status <URL>'\n")
	case verb == "bulk-add" && len(args) == 1:
		return s.bulkAdd(ctx, args[0])
	case verb == "seeds" && len(args) == 0:
		return s.seeds(ctx)
	case verb == "discover" && len(args) <= 1:
		target, err := s.resolveSeed(ctx, optional(args))
		if err != nil {
			return err
		}
		return s.withSpinner(" running discovery", func() error {
			return s.discover(ctx, target)
		})
	case verb == "leads" && len(args) <= 1:
		return s.leads(ctx, optional(args))
	case verb == "delete-lead" && len(args) == 1:
		return s.deleteLead(ctx, args[0])
	case verb == "errors" && len(args) == 0:
		return s.errors(ctx)
	case verb == "research" && len(args) == 0:
		return s.withSpinner(" researching leads", func() error {
			return s.research(ctx)
		})
	case verb == "setup" && len(args) == 0:
		return s.setup(s.in)
	default:
		s.printf("Invalid command. Type 'help' for usage information.\n")
	}
	return nil
}

func (s *shell) seeds(ctx context.Context) error {
	urls, err := s.app.Seeds.AllURLs(ctx)
	if err != nil {
		return err
	}
	s.menu = urls
	if len(urls) == 0 {
		s.printf("No seed URLs found.\n")
		return nil
	}
	for i, u := range urls {
		s.printf("%d. %s\n", i+1, u)
	}
	return nil
}

// resolveSeed maps a menu number to its URL. Anything that is not a number
// is treated as a URL.
func (s *shell) resolveSeed(ctx context.Context, arg string) (string, error) {
	n, err := strconv.Atoi(arg)
	if arg == "" || err != nil {
		return arg, nil
	}
	if s.menu == nil {
		if s.menu, err = s.app.Seeds.AllURLs(ctx); err != nil {
			return "", err
		}
	}
	if n < 1 || n > len(s.menu) {
		return "", fmt.Errorf("no seed numbered %d, run 'seeds' to list them", n)
	}
	return s.menu[n-1], nil
}

// withSpinner shows a spinner on terminal output while fn runs. Output
// written by fn is held back until the spinner stops.
func (s *shell) withSpinner(suffix string, fn func() error) error {
	f, ok := s.out.(*os.File)
	if !ok {
		return fn()
	}

	var buf bytes.Buffer
	s.out = &buf
	sp := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriterFile(f))
	sp.Suffix = suffix
	sp.Start()
	err := fn()
	sp.Stop()
	s.out = f
	if _, werr := buf.WriteTo(f); werr != nil && err == nil {
		err = werr
	}
	return err
}

func optional(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
