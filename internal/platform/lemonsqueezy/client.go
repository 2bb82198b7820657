package lemonsqueezy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAPIBase = "https://api.lemonsqueezy.com/v1"

// Client is a minimal Lemon Squeezy JSON:API client covering the two
// calls this service makes: checkout creation and subscription lookup.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultAPIBase,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SubscriptionAttributes is the subset of subscription fields the
// reconciler and portal endpoint care about.
type SubscriptionAttributes struct {
	Status      string     `json:"status"`
	VariantName string     `json:"variant_name"`
	CustomerID  int64      `json:"customer_id"`
	RenewsAt    *time.Time `json:"renews_at"`
	URLs        struct {
		CustomerPortal string `json:"customer_portal"`
	} `json:"urls"`
}

type Subscription struct {
	ID         string                 `json:"id"`
	Attributes SubscriptionAttributes `json:"attributes"`
}

type checkoutRequest struct {
	Data struct {
		Type       string `json:"type"`
		Attributes struct {
			CheckoutData struct {
				Email  string            `json:"email,omitempty"`
				Custom map[string]string `json:"custom"`
			} `json:"checkout_data"`
		} `json:"attributes"`
		Relationships struct {
			Store   relationship `json:"store"`
			Variant relationship `json:"variant"`
		} `json:"relationships"`
	} `json:"data"`
}

type relationship struct {
	Data struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	} `json:"data"`
}

// CreateCheckout creates a hosted checkout for variantID and returns its
// URL. customData is round-tripped into webhook events (it carries the
// base id that ties a purchase back to a tenant).
func (c *Client) CreateCheckout(ctx context.Context, storeID, variantID, email string, customData map[string]string) (string, error) {
	var req checkoutRequest
	req.Data.Type = "checkouts"
	req.Data.Attributes.CheckoutData.Email = email
	req.Data.Attributes.CheckoutData.Custom = customData
	req.Data.Relationships.Store.Data.Type = "stores"
	req.Data.Relationships.Store.Data.ID = storeID
	req.Data.Relationships.Variant.Data.Type = "variants"
	req.Data.Relationships.Variant.Data.ID = variantID

	var res struct {
		Data struct {
			Attributes struct {
				URL string `json:"url"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/checkouts", &req, &res); err != nil {
		return "", err
	}
	if res.Data.Attributes.URL == "" {
		return "", fmt.Errorf("checkout response missing url")
	}
	return res.Data.Attributes.URL, nil
}

// GetSubscription fetches a subscription by provider id.
func (c *Client) GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	var res struct {
		Data Subscription `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/subscriptions/"+subscriptionID, nil, &res); err != nil {
		return nil, err
	}
	return &res.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.api+json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/vnd.api+json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("lemonsqueezy request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("lemonsqueezy error: status=%d body=%s", resp.StatusCode, detail)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
