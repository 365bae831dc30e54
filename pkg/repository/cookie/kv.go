package cookie

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/shaped-ai/relay/pkg/domain/interfaces"
)

// TTL is the lifetime of persisted client state
const TTL = 365 * 24 * time.Hour

// KV is a key/value store backed by request cookies. It is scoped to a
// single request/response pair: reads come from the incoming Cookie
// header, writes become Set-Cookie headers on the response. Values are
// URL-escaped so JSON payloads survive the cookie value grammar.
type KV struct {
	r *http.Request
	w http.ResponseWriter

	// overlay makes writes visible to later reads within one request
	overlay map[string]*string
}

var _ interfaces.KV = &KV{}

// New binds a cookie store to one request/response pair
func New(w http.ResponseWriter, r *http.Request) *KV {
	return &KV{
		r:       r,
		w:       w,
		overlay: make(map[string]*string),
	}
}

func (kv *KV) Get(ctx context.Context, key string) (string, bool, error) {
	if v, ok := kv.overlay[key]; ok {
		if v == nil {
			return "", false, nil
		}
		return *v, true, nil
	}

	c, err := kv.r.Cookie(key)
	if err != nil {
		// http.ErrNoCookie is the only error Cookie returns
		return "", false, nil
	}

	value, err := url.QueryUnescape(c.Value)
	if err != nil {
		return "", false, goerr.Wrap(err, "malformed cookie value", goerr.V("name", key))
	}
	return value, true, nil
}

func (kv *KV) Set(ctx context.Context, key, value string) error {
	http.SetCookie(kv.w, &http.Cookie{
		Name:     key,
		Value:    url.QueryEscape(value),
		Path:     "/",
		Expires:  time.Now().Add(TTL),
		SameSite: http.SameSiteLaxMode,
		Secure:   kv.r.TLS != nil,
	})

	v := value
	kv.overlay[key] = &v
	return nil
}

func (kv *KV) Delete(ctx context.Context, key string) error {
	http.SetCookie(kv.w, &http.Cookie{
		Name:     key,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
		Secure:   kv.r.TLS != nil,
	})

	kv.overlay[key] = nil
	return nil
}
