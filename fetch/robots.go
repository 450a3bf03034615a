package fetch

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"

	"phonespecs-scraper/utils"
)

// RobotsGuard answers robots.txt queries, fetching each host's file once.
// A robots.txt that cannot be fetched or parsed, or that answers with a
// server error, allows everything.
type RobotsGuard struct {
	fetcher Fetcher
	agent   string
	logger  *utils.Logger

	mu    sync.Mutex
	hosts map[string]*robotstxt.RobotsData
}

// NewRobotsGuard returns a guard that tests paths for agent using f to load robots.txt.
func NewRobotsGuard(f Fetcher, agent string, logger *utils.Logger) *RobotsGuard {
	return &RobotsGuard{
		fetcher: f,
		agent:   agent,
		logger:  logger,
		hosts:   make(map[string]*robotstxt.RobotsData),
	}
}

// Allowed reports whether rawURL may be fetched.
func (g *RobotsGuard) Allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return true
	}

	data := g.robotsFor(ctx, u)
	if data == nil {
		return true
	}
	return data.TestAgent(u.RequestURI(), g.agent)
}

func (g *RobotsGuard) robotsFor(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	key := u.Scheme + "://" + u.Host

	g.mu.Lock()
	defer g.mu.Unlock()

	if data, ok := g.hosts[key]; ok {
		return data
	}

	// Transport errors and 5xx answers are not cached, so the next fetch asks again.
	page, err := g.fetcher.Fetch(ctx, key+"/robots.txt")
	if err != nil {
		g.logger.Warn("[robots] %s unavailable, allowing all: %v", key, err)
		return nil
	}
	if page.StatusCode >= 500 {
		g.logger.Warn("[robots] %s answered HTTP %d, allowing all", key, page.StatusCode)
		return nil
	}

	data, err := robotstxt.FromStatusAndBytes(page.StatusCode, page.Body)
	if err != nil {
		g.logger.Warn("[robots] %s unparsable, allowing all: %v", key, err)
		data = nil
	}
	g.hosts[key] = data
	return data
}

// Guard wraps f so that every fetch is checked against robots.txt first.
func (g *RobotsGuard) Guard(f Fetcher) Fetcher {
	return &guardedFetcher{next: f, guard: g}
}

type guardedFetcher struct {
	next  Fetcher
	guard *RobotsGuard
}

func (g *guardedFetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	if !g.guard.Allowed(ctx, rawURL) {
		return nil, fmt.Errorf("GET %s: %w", rawURL, ErrDisallowed)
	}
	return g.next.Fetch(ctx, rawURL)
}
