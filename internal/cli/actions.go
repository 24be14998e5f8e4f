package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rpggio/leadagent/internal/app"
	"github.com/rpggio/leadagent/internal/config"
	"github.com/rpggio/leadagent/internal/domain/discovery"
	"github.com/rpggio/leadagent/internal/domain/lead"
	"github.com/rpggio/leadagent/internal/domain/research"
	"go.uber.org/zap"
)

// runner executes the user-facing operations shared by the one-shot
// commands and the interactive shell.
type runner struct {
	app *app.App
	out io.Writer
}

func (r *runner) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

func (r *runner) addSeed(ctx context.Context, url string) error {
	sd, err := r.app.Seeds.Add(ctx, url)
	if err != nil {
		return err
	}
	r.printf("Added seed URL: %s\n", sd.URL)
	return nil
}

func (r *runner) removeSeed(ctx context.Context, url string) error {
	if err := r.app.Seeds.Remove(ctx, url); err != nil {
		return err
	}
	r.printf("Removed seed URL: %s\n", strings.TrimSpace(url))
	return nil
}

func (r *runner) status(ctx context.Context, url string) error {
	seeds, err := r.app.Seeds.List(ctx, url)
	if err != nil {
		return err
	}
	if len(seeds) == 0 {
		if strings.TrimSpace(url) != "" {
			r.printf("No seed URL found for: %s\n", strings.TrimSpace(url))
		} else {
			r.printf("No seed URLs found.\n")
		}
		return nil
	}
	for _, sd := range seeds {
		r.printf("ID: %d, URL: %s, Status: %s\n", sd.ID, sd.URL, sd.Status)
	}
	return nil
}

func (r *runner) bulkAdd(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed list: %w", err)
	}
	defer f.Close()

	report, err := r.app.Seeds.BulkAdd(ctx, f)
	if err != nil {
		return err
	}
	for _, line := range report.Lines {
		if line.Err != nil {
			r.printf("Skipped %s: %v\n", line.URL, line.Err)
		}
	}
	r.printf("Added %d URLs from %s\n", report.Added(), path)
	return nil
}

func (r *runner) discover(ctx context.Context, url string) error {
	var (
		report discovery.Report
		err    error
	)
	if strings.TrimSpace(url) == "" {
		report, err = r.app.Discovery.RunPending(ctx)
	} else {
		report, err = r.app.Discovery.RunSeed(ctx, strings.TrimSpace(url))
	}
	if err != nil {
		return err
	}
	if len(report.Outcomes) == 0 {
		r.printf("No seed URLs waiting for discovery.\n")
		return nil
	}
	for _, o := range report.Outcomes {
		if o.OK() {
			r.printf("Processed %s: %d leads\n", o.SeedURL, o.Leads)
		} else {
			r.printf("Failed %s: %s\n", o.SeedURL, o.Error)
		}
	}
	r.printf("Discovery finished: %d completed, %d failed, %d leads\n",
		report.Succeeded(), report.Failed(), report.Leads())
	return nil
}

func (r *runner) leads(ctx context.Context, status string) error {
	leads, err := r.app.Leads.List(ctx, lead.Status(strings.TrimSpace(status)))
	if err != nil {
		return err
	}
	if len(leads) == 0 {
		r.printf("No leads found.\n")
		return nil
	}
	for _, l := range leads {
		r.printf("ID: %d, Company: %s, Website: %s, Source: %s, Status: %s, Score: %.2f\n",
			l.ID, l.CompanyName, l.Website, l.SourceURL, l.Status, l.Score)
	}
	return nil
}

func (r *runner) deleteLead(ctx context.Context, rawID string) error {
	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: lead id %q is not a number", lead.ErrInvalidInput, rawID)
	}
	if err := r.app.Leads.Delete(ctx, id); err != nil {
		return err
	}
	r.printf("Deleted lead %d\n", id)
	return nil
}

func (r *runner) errors(ctx context.Context) error {
	records, err := r.app.Errors.List(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		r.printf("No errors recorded.\n")
		return nil
	}
	for _, rec := range records {
		r.printf("ID: %d, URL: %s, Error: %s, Time: %s\n",
			rec.ID, rec.URL, rec.ErrorMessage, rec.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func (r *runner) research(ctx context.Context) error {
	report, err := r.app.Research.Run(ctx)
	if err != nil {
		return err
	}
	if len(report.Outcomes) == 0 {
		r.printf("No new leads to research.\n")
		return nil
	}
	for _, o := range report.Outcomes {
		r.printResearchOutcome(o)
	}
	r.printf("Research finished: %d researched, %d failed\n", report.Succeeded(), report.Failed())
	return nil
}

func (r *runner) printResearchOutcome(o research.Outcome) {
	r.printf("Researching: %s\n", o.CompanyName)
	if !o.OK() {
		r.printf("Error researching %s: %s\n", o.CompanyName, o.Error)
		return
	}
	for _, w := range o.Warnings {
		r.printf("Warning: %s\n", w)
	}
	r.printf("Research completed for %s\n", o.CompanyName)
	doc, err := json.MarshalIndent(o.Document, "", "  ")
	if err != nil {
		r.app.Logger.Warn("encoding research document for display", zap.Int64("lead_id", o.LeadID), zap.Error(err))
		return
	}
	r.printf("%s\n\n%s\n\n", doc, strings.Repeat("=", 50))
}

// setup asks for each credential on in and persists the answers. Blank
// answers keep the stored value.
func (r *runner) setup(in lineReader) error {
	current := r.app.Credentials()
	prompts := map[string]string{
		config.KeySimilarity: "Enter your Exa API key",
		config.KeyCompletion: "Enter your Groq API key",
		config.KeyContacts:   "Enter your Apollo API key",
	}

	var answers config.Credentials
	for _, key := range config.CredentialKeys {
		hint := ""
		if current.Get(key) != "" {
			hint = " (leave blank to keep the current value)"
		}
		r.printf("%s%s: ", prompts[key], hint)
		line, err := in.readLine()
		if err != nil && line == "" {
			return fmt.Errorf("reading %s: %w", key, err)
		}
		setCredential(&answers, key, strings.TrimSpace(line))
	}

	path := r.app.Config.EnvFile
	if err := config.SaveCredentials(path, answers); err != nil {
		return err
	}
	creds, err := config.LoadCredentials(path)
	if err != nil {
		return err
	}
	r.app.ConfigureClients(creds)

	r.printf("Saved credentials to %s\n", path)
	if missing := creds.Missing(); len(missing) > 0 {
		r.printf("Still missing: %s\n", strings.Join(missing, ", "))
	}
	return nil
}

func setCredential(c *config.Credentials, key, val string) {
	switch key {
	case config.KeySimilarity:
		c.Similarity = val
	case config.KeyCompletion:
		c.Completion = val
	case config.KeyContacts:
		c.Contacts = val
	}
}
