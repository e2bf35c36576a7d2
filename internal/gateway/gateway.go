package gateway

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/Mutter0815/NewsletterHub/internal/cache"
	"github.com/Mutter0815/NewsletterHub/internal/subscription"
	"github.com/Mutter0815/NewsletterHub/pkg/metrics"
)

type storeAPI interface {
	Insert(ctx context.Context, sub subscription.Subscription) (subscription.Subscription, error)
	Select(ctx context.Context, f subscription.Filter) ([]subscription.Subscription, error)
	GetByID(ctx context.Context, id int64) (subscription.Subscription, error)
	Delete(ctx context.Context, id int64) (subscription.DeletionResult, error)
}

type cacheAPI interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	InvalidateAll(ctx context.Context) error
}

type producerAPI interface {
	Enqueue(ctx context.Context, jobName string, payload any)
}

// Gateway owns subscription reads and writes. Reads go through the result
// cache; every successful write clears the cache before returning, so no
// reader can be served pre-write state from it afterwards.
type Gateway struct {
	store storeAPI
	cache cacheAPI
	prod  producerAPI
	token string
	log   *zap.SugaredLogger
}

func New(st storeAPI, c cacheAPI, prod producerAPI, token string, log *zap.SugaredLogger) *Gateway {
	return &Gateway{store: st, cache: c, prod: prod, token: token, log: log}
}

// Create persists a new subscription. On conflict nothing is enqueued and
// the cache is untouched. On success the cache is invalidated and a
// confirmation email job is enqueued best-effort; the record write never
// depends on the queue.
func (g *Gateway) Create(ctx context.Context, req subscription.CreateReq) (subscription.Subscription, error) {
	sub, err := g.store.Insert(ctx, req.Subscription())
	if err != nil {
		if errors.Is(err, subscription.ErrConflict) {
			g.log.Warnw("subscription_conflict", "email", req.Email, "campaign", req.NewsletterCampaign)
			return subscription.Subscription{}, err
		}
		g.log.Errorw("subscription_insert_error", "error", err)
		return subscription.Subscription{}, err
	}

	g.invalidate(ctx)

	g.prod.Enqueue(ctx, subscription.JobEmail, subscription.EmailJob{
		To:      sub.Email,
		Token:   g.token,
		Subject: "Confirm subscription",
		HTML:    "<h1>Welcome aboard !</h1>",
		Text:    "Welcome aboard !",
	})

	return sub, nil
}

// Get lists subscriptions matching the filter, cache-aside keyed by the
// filter fingerprint. An empty result is ErrNotFound, by contract.
func (g *Gateway) Get(ctx context.Context, f subscription.Filter) ([]subscription.Subscription, error) {
	key := cache.FilterKey(f)

	var cached []subscription.Subscription
	if g.lookup(ctx, key, &cached) {
		return cached, nil
	}

	subs, err := g.store.Select(ctx, f)
	if err != nil {
		g.log.Errorw("subscription_select_error", "error", err)
		return nil, err
	}
	if len(subs) == 0 {
		return nil, subscription.ErrNotFound
	}

	g.fill(ctx, key, subs)
	return subs, nil
}

// GetOne fetches a subscription by id, cached under the literal id.
func (g *Gateway) GetOne(ctx context.Context, id int64) (subscription.Subscription, error) {
	key := cache.IDKey(id)

	var cached subscription.Subscription
	if g.lookup(ctx, key, &cached) {
		return cached, nil
	}

	sub, err := g.store.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, subscription.ErrNotFound) {
			g.log.Errorw("subscription_get_error", "id", id, "error", err)
		}
		return subscription.Subscription{}, err
	}

	g.fill(ctx, key, sub)
	return sub, nil
}

// Delete removes a subscription by id and invalidates the cache. The
// upstream system skipped invalidation on this path; here a delete is a
// write like any other and clears the cache too.
func (g *Gateway) Delete(ctx context.Context, id int64) (subscription.DeletionResult, error) {
	res, err := g.store.Delete(ctx, id)
	if err != nil {
		if !errors.Is(err, subscription.ErrNotFound) {
			g.log.Errorw("subscription_delete_error", "id", id, "error", err)
		}
		return subscription.DeletionResult{}, err
	}

	g.invalidate(ctx)
	return res, nil
}

// lookup reads key into dst and reports whether it hit. Cache failures are
// logged and treated as misses; entries are advisory and the store is the
// source of truth.
func (g *Gateway) lookup(ctx context.Context, key string, dst any) bool {
	raw, ok, err := g.cache.Get(ctx, key)
	if err != nil {
		g.log.Warnw("cache_get_error", "key", key, "error", err)
		metrics.CacheMissesTotal.Inc()
		return false
	}
	if !ok {
		metrics.CacheMissesTotal.Inc()
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		g.log.Warnw("cache_decode_error", "key", key, "error", err)
		metrics.CacheMissesTotal.Inc()
		return false
	}
	metrics.CacheHitsTotal.Inc()
	return true
}

func (g *Gateway) fill(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		g.log.Warnw("cache_encode_error", "key", key, "error", err)
		return
	}
	if err := g.cache.Put(ctx, key, raw); err != nil {
		g.log.Warnw("cache_put_error", "key", key, "error", err)
	}
}

func (g *Gateway) invalidate(ctx context.Context) {
	if err := g.cache.InvalidateAll(ctx); err != nil {
		g.log.Errorw("cache_invalidate_error", "error", err)
		return
	}
	metrics.CacheInvalidationsTotal.Inc()
}
