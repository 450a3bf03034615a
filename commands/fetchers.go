package commands

import (
	browser "github.com/EDDYCJY/fake-useragent"

	"phonespecs-scraper/config"
	"phonespecs-scraper/fetch"
)

const robotsAgent = "phonespecs"

// newFetcher builds the configured fetch engine, wrapped in a robots.txt
// guard when RESPECT_ROBOTS is on. The returned func releases the engine.
func newFetcher(userAgent func() string) (fetch.Fetcher, func(), error) {
	var (
		f       fetch.Fetcher
		release = func() {}
	)

	switch cfg.FetchEngine {
	case config.EngineBrowser:
		b, err := fetch.NewBrowserFetcher(fetch.BrowserOptions{
			ChromeBin: cfg.ChromeBin,
			UserAgent: userAgent,
			Timeout:   cfg.RequestTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		f = b
		release = func() { _ = b.Close() }
	default:
		f = fetch.NewHTTPFetcher(fetch.HTTPOptions{
			Timeout:          cfg.RequestTimeout,
			UserAgent:        userAgent,
			CloudflareBypass: cfg.CloudflareBypass,
		})
	}

	if cfg.RespectRobots {
		f = fetch.NewRobotsGuard(f, robotsAgent, logger).Guard(f)
	}
	return f, release, nil
}

// detailUserAgent picks a fresh browser user agent per request unless
// RANDOM_USER_AGENT is off.
func detailUserAgent() func() string {
	if !cfg.RandomUserAgent {
		return fetch.StaticUserAgent(cfg.ListingUserAgent)
	}
	return func() string { return browser.Random() }
}
