// Package client talks to the subscription service on behalf of the public
// gateway. Upstream failures are logged with full detail and surfaced as
// ErrUnavailable so no internal error text reaches external callers.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Mutter0815/NewsletterHub/internal/subscription"
	"github.com/Mutter0815/NewsletterHub/pkg/httpx"
)

const maxRedirects = 3

type Client struct {
	base  string
	token string
	http  *httpx.Client
	log   *zap.SugaredLogger
}

func New(baseURL, token string, timeout time.Duration, maxRetries int, log *zap.SugaredLogger) *Client {
	return &Client{
		base:  baseURL,
		token: token,
		http: httpx.New(httpx.Options{
			Timeout:      timeout,
			MaxRetries:   maxRetries,
			MaxRedirects: maxRedirects,
		}),
		log: log,
	}
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.token,
		"Content-Type":  "application/json",
	}
}

func (c *Client) Create(ctx context.Context, req subscription.CreateReq) (subscription.Subscription, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return subscription.Subscription{}, err
	}

	resp, err := c.http.Do(ctx, &httpx.Request{
		Method:  http.MethodPost,
		URL:     c.base + "/subscription",
		Headers: c.headers(),
		Body:    body,
	})
	if err != nil {
		c.log.Errorw("create_subscription_error", "error", err)
		return subscription.Subscription{}, subscription.ErrUnavailable
	}

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusOK:
		var sub subscription.Subscription
		if err := json.Unmarshal(resp.Body, &sub); err != nil {
			c.log.Errorw("create_subscription_decode_error", "error", err)
			return subscription.Subscription{}, subscription.ErrUnavailable
		}
		return sub, nil
	case http.StatusBadRequest:
		return subscription.Subscription{}, &subscription.ValidationError{Message: errorMessage(resp.Body)}
	case http.StatusConflict:
		return subscription.Subscription{}, subscription.ErrConflict
	default:
		c.log.Errorw("create_subscription_status", "status", resp.StatusCode)
		return subscription.Subscription{}, subscription.ErrUnavailable
	}
}

func (c *Client) Get(ctx context.Context, f subscription.Filter) ([]subscription.Subscription, error) {
	resp, err := c.http.Do(ctx, &httpx.Request{
		Method:  http.MethodGet,
		URL:     c.base + "/subscription" + filterQuery(f),
		Headers: c.headers(),
	})
	if err != nil {
		c.log.Errorw("get_subscriptions_error", "error", err)
		return nil, subscription.ErrUnavailable
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var subs []subscription.Subscription
		if err := json.Unmarshal(resp.Body, &subs); err != nil {
			c.log.Errorw("get_subscriptions_decode_error", "error", err)
			return nil, subscription.ErrUnavailable
		}
		return subs, nil
	case http.StatusNoContent:
		return nil, subscription.ErrNotFound
	case http.StatusBadRequest:
		return nil, &subscription.ValidationError{Message: errorMessage(resp.Body)}
	default:
		c.log.Errorw("get_subscriptions_status", "status", resp.StatusCode)
		return nil, subscription.ErrUnavailable
	}
}

func (c *Client) GetOne(ctx context.Context, id int64) (subscription.Subscription, error) {
	resp, err := c.http.Do(ctx, &httpx.Request{
		Method:  http.MethodGet,
		URL:     fmt.Sprintf("%s/subscription/%d", c.base, id),
		Headers: c.headers(),
	})
	if err != nil {
		c.log.Errorw("get_subscription_error", "id", id, "error", err)
		return subscription.Subscription{}, subscription.ErrUnavailable
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var sub subscription.Subscription
		if err := json.Unmarshal(resp.Body, &sub); err != nil {
			c.log.Errorw("get_subscription_decode_error", "id", id, "error", err)
			return subscription.Subscription{}, subscription.ErrUnavailable
		}
		return sub, nil
	case http.StatusNoContent:
		return subscription.Subscription{}, subscription.ErrNotFound
	default:
		c.log.Errorw("get_subscription_status", "id", id, "status", resp.StatusCode)
		return subscription.Subscription{}, subscription.ErrUnavailable
	}
}

func (c *Client) Delete(ctx context.Context, id int64) (subscription.DeletionResult, error) {
	resp, err := c.http.Do(ctx, &httpx.Request{
		Method:  http.MethodDelete,
		URL:     fmt.Sprintf("%s/subscription/%d", c.base, id),
		Headers: c.headers(),
	})
	if err != nil {
		c.log.Errorw("delete_subscription_error", "id", id, "error", err)
		return subscription.DeletionResult{}, subscription.ErrUnavailable
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var res subscription.DeletionResult
		if err := json.Unmarshal(resp.Body, &res); err != nil {
			c.log.Errorw("delete_subscription_decode_error", "id", id, "error", err)
			return subscription.DeletionResult{}, subscription.ErrUnavailable
		}
		return res, nil
	case http.StatusNoContent:
		return subscription.DeletionResult{}, subscription.ErrNotFound
	default:
		c.log.Errorw("delete_subscription_status", "id", id, "status", resp.StatusCode)
		return subscription.DeletionResult{}, subscription.ErrUnavailable
	}
}

func filterQuery(f subscription.Filter) string {
	q := url.Values{}
	if f.Gender != 0 {
		q.Set("gender", strconv.Itoa(int(f.Gender)))
	}
	if !f.Birth.IsZero() {
		q.Set("birth", f.Birth.Format(subscription.DateFormat))
	}
	if f.NewsletterCampaign != 0 {
		q.Set("newsletterCampaign", strconv.FormatInt(f.NewsletterCampaign, 10))
	}
	if f.Skip != 0 {
		q.Set("skip", strconv.Itoa(f.Skip))
	}
	if f.Take != 0 {
		q.Set("take", strconv.Itoa(f.Take))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return "invalid request"
}
