package gateway

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"github.com/jobboard/prerender/internal/config"
	"github.com/jobboard/prerender/internal/metrics"
)

const (
	maxDocumentBytes = 5 << 20
	defaultTimeout   = 4 * time.Second
)

// Gateway sends crawlers the prerendered document and everyone else, or any
// crawler whose prerender call failed, to next.
type Gateway struct {
	classifier *Classifier
	target     *url.URL
	authToken  string
	timeout    time.Duration
	client     *http.Client
	next       http.Handler
	log        zerolog.Logger
	metrics    *metrics.Metrics
}

func New(cfg config.Config, classifier *Classifier, next http.Handler, log zerolog.Logger, m *metrics.Metrics) (*Gateway, error) {
	if cfg.PrerenderURL == "" {
		return nil, errors.New("PRERENDER_URL cannot be empty")
	}
	target, err := url.Parse(cfg.PrerenderURL)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse PRERENDER_URL")
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, errors.Errorf("PRERENDER_URL %q must be absolute", cfg.PrerenderURL)
	}
	timeout := cfg.PrerenderTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Gateway{
		classifier: classifier,
		target:     target,
		authToken:  cfg.PrerenderAuthToken,
		timeout:    timeout,
		client:     &http.Client{},
		next:       next,
		log:        log,
		metrics:    m,
	}, nil
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if IsAsset(r.URL.Path) {
		g.observe(metrics.DecisionAsset, "")
		g.next.ServeHTTP(w, r)
		return
	}
	class, isBot := g.classifier.Classify(r.UserAgent())
	if !isBot || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
		g.observe(metrics.DecisionHuman, class)
		g.next.ServeHTTP(w, r)
		return
	}

	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = ksuid.New().String()
	}
	body, err := g.fetch(r.Context(), r.URL.Path, requestID)
	if err != nil {
		g.log.Warn().
			Err(err).
			Str("path", r.URL.Path).
			Str("class", class).
			Str("request_id", requestID).
			Msg("prerender failed, serving spa")
		g.observe(metrics.DecisionFallback, class)
		g.next.ServeHTTP(w, r)
		return
	}

	g.observe(metrics.DecisionPrerendered, class)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600, s-maxage=86400")
	w.Header().Set("X-Prerendered", "true")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		w.Write(body)
	}
}

// fetch returns the prerendered document for path. Any non 2xx answer,
// transport error or timeout is an error.
func (g *Gateway) fetch(ctx context.Context, path, requestID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	u := *g.target
	q := u.Query()
	q.Set("path", path)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "unable to build prerender request")
	}
	req.Header.Set("Accept", "text/html")
	req.Header.Set("X-Request-ID", requestID)
	if g.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+g.authToken)
	}

	start := time.Now()
	res, err := g.client.Do(req)
	if g.metrics != nil {
		g.metrics.GatewayUpstreamTime.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return nil, errors.Wrap(err, "unable to reach prerender service")
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, errors.Errorf("prerender service returned %d", res.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(res.Body, maxDocumentBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, "unable to read prerender response")
	}
	if len(body) > maxDocumentBytes {
		return nil, errors.Errorf("prerender response larger than %d bytes", maxDocumentBytes)
	}
	return body, nil
}

func (g *Gateway) observe(decision, class string) {
	if g.metrics == nil {
		return
	}
	g.metrics.GatewayDecisions.WithLabelValues(decision, class).Inc()
}
