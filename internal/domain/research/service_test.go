package research_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rpggio/leadagent/internal/clients"
	"github.com/rpggio/leadagent/internal/domain/errorlog"
	"github.com/rpggio/leadagent/internal/domain/lead"
	"github.com/rpggio/leadagent/internal/domain/research"
	"github.com/rpggio/leadagent/internal/sqlite"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type scraperMock struct{ mock.Mock }

func (m *scraperMock) Scrape(ctx context.Context, url string) (string, error) {
	args := m.Called(ctx, url)
	return args.String(0), args.Error(1)
}

type completerMock struct{ mock.Mock }

func (m *completerMock) Complete(ctx context.Context, req research.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type contactsMock struct{ mock.Mock }

func (m *contactsMock) FindContacts(ctx context.Context, q research.ContactQuery) ([]research.Contact, error) {
	args := m.Called(ctx, q)
	if list, ok := args.Get(0).([]research.Contact); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

type fixture struct {
	leads     *lead.Service
	errors    *errorlog.Service
	scraper   *scraperMock
	completer *completerMock
	contacts  *contactsMock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	return &fixture{
		leads:     lead.NewService(sqlite.NewLeadRepository(db), nil),
		errors:    errorlog.NewService(sqlite.NewErrorLogRepository(db), nil),
		scraper:   &scraperMock{},
		completer: &completerMock{},
		contacts:  &contactsMock{},
	}
}

func (f *fixture) service() *research.Service {
	return research.NewService(research.Deps{
		Scraper:   f.scraper,
		Completer: f.completer,
		Contacts:  f.contacts,
		Leads:     f.leads,
		Errors:    f.errors,
	}, nil)
}

func (f *fixture) addLead(t *testing.T, name, website string) *lead.Lead {
	t.Helper()
	l, err := f.leads.Upsert(context.Background(), lead.UpsertRequest{
		CompanyName: name,
		Website:     website,
		SourceURL:   "https://seed.com",
	})
	require.NoError(t, err)
	return l
}

const factsJSON = `Here you go: {"Company Name":"Acme Inc","Description":"Widgets","Industry":"Manufacturing",` +
	`"Number of Employees":"50","Revenue":"Not found","Address":"1 Main St"}`

func TestResearch_Success(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	l := f.addLead(t, "Acme", "https://acme.com")

	f.scraper.On("Scrape", mock.Anything, "https://acme.com").Return("Acme makes widgets", nil)
	f.completer.On("Complete", mock.Anything, mock.MatchedBy(func(r research.CompletionRequest) bool {
		return r.Temperature == 0.5 && r.MaxTokens == 1000 &&
			strings.Contains(r.Prompt, "Text: Acme makes widgets")
	})).Return(factsJSON, nil)
	f.contacts.On("FindContacts", mock.Anything, research.ContactQuery{
		OrganizationName: "Acme Inc", Page: 1, PerPage: 5,
	}).Return([]research.Contact{
		{Name: "Jane Doe", Email: "jane@acme.com", Phone: research.NotFound, Title: "CEO"},
	}, nil)

	report, err := f.service().Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.Succeeded())
	require.Equal(t, "Acme Inc", report.Outcomes[0].CompanyName)

	stored, err := f.leads.Get(ctx, l.ID)
	require.NoError(t, err)
	require.Equal(t, lead.StatusResearched, stored.Status)
	require.JSONEq(t, `{
		"Company Name":"Acme Inc","Description":"Widgets","Industry":"Manufacturing",
		"Number of Employees":"50","Revenue":"Not found","Address":"1 Main St",
		"website":"https://acme.com",
		"contacts":[{"name":"Jane Doe","email":"jane@acme.com","phone":"Not found","title":"CEO"}]
	}`, string(stored.AdditionalInfo))
}

func TestResearch_OnlyNewLeads(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	done := f.addLead(t, "Done", "https://done.com")
	require.NoError(t, f.leads.SaveResearch(ctx, done.ID, lead.StatusResearched, map[string]any{}))
	f.addLead(t, "Fresh", "https://fresh.com")

	f.scraper.On("Scrape", mock.Anything, "https://fresh.com").Return("text", nil)
	f.completer.On("Complete", mock.Anything, mock.Anything).Return(`{"Company Name":"Fresh"}`, nil)
	f.contacts.On("FindContacts", mock.Anything, mock.Anything).Return([]research.Contact{}, nil)

	report, err := f.service().Run(ctx)
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 1)
	f.scraper.AssertNotCalled(t, "Scrape", mock.Anything, "https://done.com")
}

func TestResearch_MalformedCompletion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	l := f.addLead(t, "Acme", "https://acme.com")

	f.scraper.On("Scrape", mock.Anything, mock.Anything).Return("text", nil)
	f.completer.On("Complete", mock.Anything, mock.Anything).Return("I could not find anything useful.", nil)
	f.contacts.On("FindContacts", mock.Anything, mock.MatchedBy(func(q research.ContactQuery) bool {
		return q.OrganizationName == "Acme"
	})).Return([]research.Contact{}, nil)

	report, err := f.service().Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.Succeeded())
	require.NotEmpty(t, report.Outcomes[0].Warnings)

	stored, err := f.leads.Get(ctx, l.ID)
	require.NoError(t, err)
	require.Equal(t, lead.StatusResearched, stored.Status)

	doc, err := stored.Info()
	require.NoError(t, err)
	require.Contains(t, doc, "error")
	require.Equal(t, "https://acme.com", doc["website"])
	require.Equal(t, []any{}, doc["contacts"])
}

func TestResearch_ContactTimeoutKeepsFacts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	l := f.addLead(t, "Acme", "https://acme.com")

	f.scraper.On("Scrape", mock.Anything, mock.Anything).Return("text", nil)
	f.completer.On("Complete", mock.Anything, mock.Anything).Return(factsJSON, nil)
	f.contacts.On("FindContacts", mock.Anything, mock.Anything).
		Return(nil, clients.Wrap(clients.ErrService, "people search", context.DeadlineExceeded))

	_, err := f.service().Run(ctx)
	require.NoError(t, err)

	stored, err := f.leads.Get(ctx, l.ID)
	require.NoError(t, err)
	require.Equal(t, lead.StatusResearched, stored.Status)

	doc, err := stored.Info()
	require.NoError(t, err)
	require.Equal(t, "Manufacturing", doc["Industry"])
	require.Equal(t, []any{}, doc["contacts"])

	recs, err := f.errors.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "https://acme.com", recs[0].URL)
}

func TestResearch_ScrapeFailureUsesEmptyText(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addLead(t, "Acme", "https://acme.com")

	f.scraper.On("Scrape", mock.Anything, mock.Anything).Return("", errors.New("connection refused"))
	f.completer.On("Complete", mock.Anything, mock.MatchedBy(func(r research.CompletionRequest) bool {
		return strings.Contains(r.Prompt, "Text: \n\nProvide the answer in JSON format.")
	})).Return(`{"Company Name":"Not found"}`, nil)
	f.contacts.On("FindContacts", mock.Anything, mock.MatchedBy(func(q research.ContactQuery) bool {
		return q.OrganizationName == "Acme"
	})).Return([]research.Contact{}, nil)

	report, err := f.service().Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.Succeeded())
	f.completer.AssertExpectations(t)
	f.contacts.AssertExpectations(t)
}

func TestResearch_NotConfigured(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	l := f.addLead(t, "Acme", "https://acme.com")

	svc := research.NewService(research.Deps{
		Scraper:   f.scraper,
		Completer: f.completer,
		Leads:     f.leads,
		Errors:    f.errors,
	}, nil)

	_, err := svc.Run(ctx)
	require.ErrorIs(t, err, clients.ErrNotConfigured)

	stored, err := f.leads.Get(ctx, l.ID)
	require.NoError(t, err)
	require.Equal(t, lead.StatusNew, stored.Status)
}

func TestResearch_NoLeads(t *testing.T) {
	f := newFixture(t)

	report, err := f.service().Run(context.Background())
	require.NoError(t, err)
	require.Empty(t, report.Outcomes)
}

func TestResearch_CancelledContextStops(t *testing.T) {
	f := newFixture(t)
	f.addLead(t, "Acme", "https://acme.com")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.service().Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	f.scraper.AssertNotCalled(t, "Scrape", mock.Anything, mock.Anything)
}

func TestResearch_CancelledMidLeadKeepsLeadNew(t *testing.T) {
	bg := context.Background()
	f := newFixture(t)
	l := f.addLead(t, "Acme", "https://acme.com")

	ctx, cancel := context.WithCancel(bg)
	defer cancel()
	f.scraper.On("Scrape", mock.Anything, "https://acme.com").
		Run(func(mock.Arguments) { cancel() }).
		Return("", context.Canceled)

	_, err := f.service().Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	f.completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)

	stored, err := f.leads.Get(bg, l.ID)
	require.NoError(t, err)
	require.Equal(t, lead.StatusNew, stored.Status)
}

// rejectingLeads fails the first failures SaveResearch calls with a
// non-storage error.
type rejectingLeads struct {
	*lead.Service
	failures int
}

func (s *rejectingLeads) SaveResearch(ctx context.Context, id int64, status lead.Status, doc any) error {
	if s.failures > 0 {
		s.failures--
		return lead.ErrLeadNotFound
	}
	return s.Service.SaveResearch(ctx, id, status, doc)
}

func TestResearch_SaveFailureMarksLeadError(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	l := f.addLead(t, "Acme", "https://acme.com")

	f.scraper.On("Scrape", mock.Anything, "https://acme.com").Return("Acme makes widgets", nil)
	f.completer.On("Complete", mock.Anything, mock.Anything).Return(factsJSON, nil)
	f.contacts.On("FindContacts", mock.Anything, mock.Anything).Return([]research.Contact{}, nil)

	svc := research.NewService(research.Deps{
		Scraper:   f.scraper,
		Completer: f.completer,
		Contacts:  f.contacts,
		Leads:     &rejectingLeads{Service: f.leads, failures: 1},
		Errors:    f.errors,
	}, nil)

	report, err := svc.Run(ctx)
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 1)
	require.Equal(t, 1, report.Failed())
	require.Equal(t, lead.StatusError, report.Outcomes[0].Status)
	require.ErrorIs(t, report.Outcomes[0].Err, lead.ErrLeadNotFound)

	stored, err := f.leads.Get(ctx, l.ID)
	require.NoError(t, err)
	require.Equal(t, lead.StatusError, stored.Status)
	require.JSONEq(t, `{"error":"lead not found"}`, string(stored.AdditionalInfo))

	recs, err := f.errors.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "https://acme.com", recs[0].URL)
	require.Equal(t, "lead not found", recs[0].ErrorMessage)
}
