// Package scrape fetches a website and collects its visible block text.
package scrape

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

// TextSelector matches the elements whose text is collected.
const TextSelector = "p, h1, h2, h3, h4, h5, h6, li"

const defaultTimeout = 30 * time.Second

// Config controls collector behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Scraper fetches pages with a fresh colly collector per call.
type Scraper struct {
	cfg       Config
	transport http.RoundTripper
}

// New builds a Scraper. A nil transport uses a pooled http.Transport.
func New(cfg Config, transport http.RoundTripper) *Scraper {
	if transport == nil {
		transport = newHTTPTransport()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Scraper{cfg: cfg, transport: transport}
}

// Scrape returns the text of every matching element on url, in document
// order, joined by single spaces.
func (s *Scraper) Scrape(ctx context.Context, url string) (string, error) {
	collector := s.buildCollector()

	var (
		parts    []string
		fetchErr error
	)
	collector.OnHTML(TextSelector, func(e *colly.HTMLElement) {
		parts = append(parts, e.Text)
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("scrape %s canceled: %w", url, ctx.Err())
	case err := <-done:
		if err != nil {
			return "", fmt.Errorf("scrape %s: %w", url, err)
		}
		if fetchErr != nil {
			return "", fmt.Errorf("scrape %s: %w", url, fetchErr)
		}
	}
	return strings.Join(parts, " "), nil
}

func (s *Scraper) buildCollector() *colly.Collector {
	c := colly.NewCollector(
		colly.Async(false),
		colly.AllowURLRevisit(),
	)
	if s.cfg.UserAgent != "" {
		c.UserAgent = s.cfg.UserAgent
	}
	c.SetRequestTimeout(s.cfg.Timeout)
	c.WithTransport(s.transport)
	return c
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
