package engine

import (
	"fmt"

	"github.com/use-agent/goldrate/config"
)

// Build assembles the engine chain named by cfg.Scraper.Engines.
func Build(cfg *config.Config, rodFetch RodFetchFunc) (*Chain, error) {
	engines := make([]Engine, 0, len(cfg.Scraper.Engines))
	for _, name := range cfg.Scraper.Engines {
		switch name {
		case "browser":
			engines = append(engines, NewRodEngine(rodFetch))
		case "http":
			engines = append(engines, NewHTTPEngine(
				cfg.Scraper.TargetURL,
				cfg.Scraper.SectionHeading(),
				cfg.Browser.UserAgent,
				cfg.Scraper.NavigationTimeout,
			))
		default:
			return nil, fmt.Errorf("engine: unknown engine %q", name)
		}
	}
	if len(engines) == 0 {
		return nil, fmt.Errorf("engine: no engines configured")
	}
	return NewChain(engines...), nil
}
