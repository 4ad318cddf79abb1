package runner

import (
	"github.com/use-agent/goldrate/config"
	"github.com/use-agent/goldrate/engine"
	"github.com/use-agent/goldrate/notify"
	"github.com/use-agent/goldrate/scraper"
)

// FromConfig wires the browser scraper, the engine chain and the notifier
// named by cfg into a Runner. The chain is returned as well so read-only
// callers can fetch without notifying.
func FromConfig(cfg *config.Config) (*Runner, *engine.Chain, error) {
	sc := scraper.NewScraper(cfg.Browser, cfg.Scraper)

	chain, err := engine.Build(cfg, sc.FetchQuotes)
	if err != nil {
		return nil, nil, err
	}
	return New(cfg, chain, notify.FromConfig(cfg)), chain, nil
}
