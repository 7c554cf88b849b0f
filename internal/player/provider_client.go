package player

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ProviderProfile is the normalized result of a provider profile fetch.
// The Raw payload is persisted verbatim alongside the extracted fields.
type ProviderProfile struct {
	ExternalID string
	Handle     string
	Raw        string
}

// ProviderClient is the boundary to the external gaming-platform identity
// services. The platform consumes it as an opaque capability: fetch a profile
// after an OAuth callback, clean up provider-side state on disconnect.
type ProviderClient interface {
	FetchProfile(ctx context.Context, provider, code string) (*ProviderProfile, error)
	Cleanup(ctx context.Context, provider, externalID string) error
}

// httpProviderClient talks to the profile aggregation service over HTTP.
type httpProviderClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPProviderClient(baseURL string) ProviderClient {
	return &httpProviderClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *httpProviderClient) FetchProfile(ctx context.Context, provider, code string) (*ProviderProfile, error) {
	endpoint := fmt.Sprintf("%s/%s/profile?code=%s", p.baseURL, url.PathEscape(provider), url.QueryEscape(code))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider %s profile fetch: %w", provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider %s profile fetch: status %d", provider, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var parsed struct {
		ID     string `json:"id"`
		Handle string `json:"handle"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("provider %s profile parse: %w", provider, err)
	}
	if parsed.ID == "" {
		return nil, fmt.Errorf("provider %s profile missing id", provider)
	}

	return &ProviderProfile{
		ExternalID: parsed.ID,
		Handle:     parsed.Handle,
		Raw:        string(body),
	}, nil
}

func (p *httpProviderClient) Cleanup(ctx context.Context, provider, externalID string) error {
	endpoint := fmt.Sprintf("%s/%s/accounts/%s", p.baseURL, url.PathEscape(provider), url.PathEscape(externalID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("provider %s cleanup: %w", provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("provider %s cleanup: status %d", provider, resp.StatusCode)
	}
	return nil
}

// offlineProviderClient is used when no provider service is configured. It
// links accounts using the OAuth code itself as the external id so the
// connect flow stays exercisable in development and tests.
type offlineProviderClient struct{}

func NewOfflineProviderClient() ProviderClient {
	return offlineProviderClient{}
}

func (offlineProviderClient) FetchProfile(_ context.Context, provider, code string) (*ProviderProfile, error) {
	if code == "" {
		return nil, fmt.Errorf("provider %s: empty code", provider)
	}
	return &ProviderProfile{
		ExternalID: code,
		Handle:     provider + ":" + code,
		Raw:        fmt.Sprintf(`{"id":%q,"handle":%q}`, code, provider+":"+code),
	}, nil
}

func (offlineProviderClient) Cleanup(context.Context, string, string) error {
	return nil
}
