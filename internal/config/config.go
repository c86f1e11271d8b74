package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	Port                string
	Env                 string // either prod or dev, will disable https and few other bits
	DatabaseURL         string
	SiteName            string // Job site name
	SiteHost            string // Job site hostname
	SiteDescription     string // default meta description
	SiteLogoURL         string // used for Organization structured data and og:image fallbacks
	URLProtocol         string
	PrerenderURL        string        // renderer service endpoint the gateway delegates bot requests to
	PrerenderAuthToken  string        // bearer token sent to the renderer service, optional
	PrerenderTimeout    time.Duration // upper bound for a single gateway -> renderer call
	BotSignaturesFile   string        // optional yaml file overriding the built-in bot signatures
	SPADir              string        // client bundle served to humans and as the fallback for bots
	SentryDSN           string
	MetricsPort         string // prometheus listener, disabled when empty
	RenderCacheTTL      time.Duration
	HomeJobsLimit       int // configures how many jobs are listed on the prerendered home page
	BlogsLimit          int // configures how many posts are listed on the prerendered blog index
	FeedItemsLimit      int
	PrerenderCacheMaxMB int
}

// BaseURL is the public origin every canonical url is built from.
func (c Config) BaseURL() string {
	return c.URLProtocol + c.SiteHost
}

func LoadConfig() (Config, error) {
	// a missing .env is the normal case outside local development
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		return Config{}, fmt.Errorf("PORT cannot be empty")
	}
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "" {
		return Config{}, fmt.Errorf("ENV cannot be empty")
	}
	siteName := os.Getenv("SITE_NAME")
	if siteName == "" {
		return Config{}, fmt.Errorf("SITE_NAME cannot be empty")
	}
	siteHost := strings.TrimSuffix(os.Getenv("SITE_HOST"), "/")
	if siteHost == "" {
		return Config{}, fmt.Errorf("SITE_HOST cannot be empty")
	}
	siteDescription := os.Getenv("SITE_DESCRIPTION")
	if siteDescription == "" {
		siteDescription = fmt.Sprintf("Find the latest jobs, career advice and hiring insights on %s.", siteName)
	}
	prerenderTimeout := 4 * time.Second
	if v := os.Getenv("PRERENDER_TIMEOUT_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, errors.Wrap(err, "unable to convert PRERENDER_TIMEOUT_MS to int")
		}
		if ms <= 0 {
			return Config{}, fmt.Errorf("PRERENDER_TIMEOUT_MS must be > 0")
		}
		prerenderTimeout = time.Duration(ms) * time.Millisecond
	}
	renderCacheTTL := 5 * time.Minute
	if v := os.Getenv("RENDER_CACHE_TTL_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, errors.Wrap(err, "unable to convert RENDER_CACHE_TTL_SECONDS to int")
		}
		if secs < 0 {
			return Config{}, fmt.Errorf("RENDER_CACHE_TTL_SECONDS cannot be negative")
		}
		renderCacheTTL = time.Duration(secs) * time.Second
	}
	spaDir := os.Getenv("SPA_DIR")
	if spaDir == "" {
		spaDir = "./dist"
	}
	urlProtocol := "http://"
	if !strings.EqualFold(env, "dev") {
		urlProtocol = "https://"
	}

	return Config{
		Port:                port,
		Env:                 env,
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		SiteName:            siteName,
		SiteHost:            siteHost,
		SiteDescription:     siteDescription,
		SiteLogoURL:         os.Getenv("SITE_LOGO_URL"),
		URLProtocol:         urlProtocol,
		PrerenderURL:        os.Getenv("PRERENDER_URL"),
		PrerenderAuthToken:  os.Getenv("PRERENDER_AUTH_TOKEN"),
		PrerenderTimeout:    prerenderTimeout,
		BotSignaturesFile:   os.Getenv("BOT_SIGNATURES_FILE"),
		SPADir:              spaDir,
		SentryDSN:           os.Getenv("SENTRY_DSN"),
		MetricsPort:         os.Getenv("METRICS_PORT"),
		RenderCacheTTL:      renderCacheTTL,
		HomeJobsLimit:       50,
		BlogsLimit:          50,
		FeedItemsLimit:      50,
		PrerenderCacheMaxMB: 64,
	}, nil
}
