package engine

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	tls "github.com/refraction-networking/utls"
	"github.com/use-agent/goldrate/extract"
	"github.com/use-agent/goldrate/models"
)

// HTTPEngine fetches the page without a browser and runs the table lookup
// over the static HTML. It only works while the source page renders the
// table server-side, which makes it a fallback rather than the default.
type HTTPEngine struct {
	client    *http.Client
	targetURL string
	heading   string
	userAgent string
}

// chromeH1Spec is a Chrome-like TLS ClientHello with ALPN forced to http/1.1
// only. Computed once at init time and reused for every connection.
var chromeH1Spec tls.ClientHelloSpec

func init() {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return
	}
	// Go's http.Transport cannot speak h2 over a utls connection, so never
	// let the server negotiate it.
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	chromeH1Spec = spec
}

// NewHTTPEngine creates an HTTPEngine with a Chrome-like TLS fingerprint.
func NewHTTPEngine(targetURL, heading, userAgent string, timeout time.Duration) *HTTPEngine {
	transport := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			dialer := &net.Dialer{Timeout: 10 * time.Second}
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			host, _, _ := net.SplitHostPort(addr)
			tlsConn := tls.UClient(conn, &tls.Config{ServerName: host}, tls.HelloCustom)
			if err := tlsConn.ApplyPreset(&chromeH1Spec); err != nil {
				conn.Close()
				return nil, fmt.Errorf("http_engine: apply tls spec: %w", err)
			}
			if err := tlsConn.HandshakeContext(ctx); err != nil {
				conn.Close()
				return nil, err
			}
			return tlsConn, nil
		},
		ForceAttemptHTTP2: false,
	}
	return newHTTPEngine(&http.Client{Transport: transport, Timeout: timeout}, targetURL, heading, userAgent)
}

func newHTTPEngine(client *http.Client, targetURL, heading, userAgent string) *HTTPEngine {
	return &HTTPEngine{
		client:    client,
		targetURL: targetURL,
		heading:   heading,
		userAgent: userAgent,
	}
}

func (e *HTTPEngine) Name() string { return "http" }

func (e *HTTPEngine) Fetch(ctx context.Context) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.targetURL, nil)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeHTTPFetch, "build request", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeHTTPFetch, "request failed", err)
	}
	defer resp.Body.Close()

	ct := resp.Header.Get("Content-Type")
	if resp.StatusCode >= 400 || !isHTMLContentType(ct) {
		return nil, models.NewScrapeError(
			models.ErrCodeHTTPFetch,
			fmt.Sprintf("non-html or error status %d (content-type: %s)", resp.StatusCode, ct),
			nil,
		)
	}

	// Read body with a 10 MB limit to prevent unbounded memory use.
	const maxBody = 10 << 20
	pair, err := extract.FromHTML(io.LimitReader(resp.Body, maxBody), e.heading)
	if err != nil {
		return nil, err
	}
	return &FetchResult{Pair: pair, EngineName: e.Name()}, nil
}

// isHTMLContentType returns true if the content-type header looks like HTML.
func isHTMLContentType(ct string) bool {
	ct = strings.ToLower(ct)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml+xml")
}
