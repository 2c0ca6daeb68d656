package dataset

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/aalvaropc/inferix/internal/domain"
)

// Remote dataset bodies are capped to keep a bad URL from exhausting memory.
const maxFetchBytes = 32 << 20

type HTTPConfig struct {
	// Total timeout for the entire request (includes redirects, reading body, etc).
	Timeout time.Duration

	// Transport / dial timeouts.
	DialTimeout     time.Duration
	KeepAlive       time.Duration
	TLSHandshake    time.Duration
	ResponseHeader  time.Duration
	ExpectContinue  time.Duration
	IdleConnTimeout time.Duration

	MaxIdleConns        int
	MaxIdleConnsPerHost int
}

func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Timeout:             30 * time.Second,
		DialTimeout:         5 * time.Second,
		KeepAlive:           30 * time.Second,
		TLSHandshake:        5 * time.Second,
		ResponseHeader:      10 * time.Second,
		ExpectContinue:      1 * time.Second,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
	}
}

func newHTTPClient(cfg HTTPConfig) *http.Client {
	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: cfg.KeepAlive,
	}

	tr := &http.Transport{
		Proxy:       http.ProxyFromEnvironment,
		DialContext: dialer.DialContext,

		ForceAttemptHTTP2: true,

		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,

		TLSHandshakeTimeout:   cfg.TLSHandshake,
		ResponseHeaderTimeout: cfg.ResponseHeader,
		ExpectContinueTimeout: cfg.ExpectContinue,
	}

	return &http.Client{
		Transport: tr,
		Timeout:   cfg.Timeout,
	}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// fetch downloads a dataset from a URL. The body is tried as JSON first and
// falls back to CSV, same as local sources.
func (l *Loader) fetch(url string) (domain.Dataset, error) {
	resp, err := l.http.Get(url)
	if err != nil {
		return domain.Dataset{}, &domain.OpError{
			Op:   "dataset.fetch",
			Kind: domain.KindNotFound,
			Path: url,
			Err:  err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Dataset{}, &domain.OpError{
			Op:   "dataset.fetch",
			Kind: domain.KindNotFound,
			Path: url,
			Err:  fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes+1))
	if err != nil {
		return domain.Dataset{}, &domain.OpError{
			Op:   "dataset.fetch",
			Kind: domain.KindInvalidData,
			Path: url,
			Err:  err,
		}
	}
	if len(body) > maxFetchBytes {
		return domain.Dataset{}, &domain.OpError{
			Op:   "dataset.fetch",
			Kind: domain.KindInvalidData,
			Path: url,
			Err:  fmt.Errorf("response exceeds %d bytes", maxFetchBytes),
		}
	}

	if ds, jsonErr := parseJSON(body); jsonErr == nil {
		return ds, nil
	}
	return parseCSV(body, url)
}
