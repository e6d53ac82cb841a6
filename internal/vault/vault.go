// internal/vault/vault.go
//
// Vault secret resolver for layoutd.
//
// Context
// -------
//   - Wraps the HashiCorp Vault Go SDK for the one thing layoutd needs:
//     reading a KV-v2 value referenced from configuration.
//   - References use the form `vault:<mount>/<path>#<key>`, e.g.
//     `vault:secret/layoutd/db#password`.
//   - Values are cached per reference with a TTL so repeated lookups do
//     not hit the server.
//
// Public workflow
// ---------------
//  1. cli, err := vault.New()                         // during boot.
//  2. pw,  err := cli.Resolve(ctx, cfg.Database.Password)
//
// Environment: VAULT_ADDR and VAULT_TOKEN, read by the SDK.
package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
)

// Prefix marks a configuration value as a Vault reference.
const Prefix = "vault:"

// DefaultTTL is how long a resolved value stays cached.
const DefaultTTL = 5 * time.Minute

// ErrBadRef is returned for references that do not parse.
var ErrBadRef = errors.New("vault: malformed reference")

// kvReader is the slice of the SDK the client uses.
type kvReader interface {
	Get(ctx context.Context, mount, path string) (map[string]any, error)
}

type sdkReader struct{ api *vault.Client }

func (r sdkReader) Get(ctx context.Context, mount, path string) (map[string]any, error) {
	sec, err := r.api.KVv2(mount).Get(ctx, path)
	if err != nil {
		return nil, err
	}
	return sec.Data, nil
}

// Client is safe for concurrent use.  Zero value is invalid.
type Client struct {
	kv  kvReader
	ttl time.Duration
	now func() time.Time

	cacheMu sync.RWMutex
	cache   map[string]cached
}

type cached struct {
	val string
	exp time.Time
}

// New constructs a client from the standard VAULT_* environment.
func New() (*Client, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}
	api, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	return newClient(sdkReader{api: api}), nil
}

func newClient(kv kvReader) *Client {
	return &Client{kv: kv, ttl: DefaultTTL, now: time.Now, cache: make(map[string]cached)}
}

// IsRef reports whether s is a Vault reference.
func IsRef(s string) bool { return strings.HasPrefix(s, Prefix) }

// Resolve returns s unchanged unless it is a Vault reference, in which
// case the referenced value is fetched (or served from cache).
func (c *Client) Resolve(ctx context.Context, s string) (string, error) {
	if !IsRef(s) {
		return s, nil
	}
	mount, path, key, err := parseRef(s)
	if err != nil {
		return "", err
	}

	canonical := mount + "/" + path + "#" + key
	c.cacheMu.RLock()
	if cv, ok := c.cache[canonical]; ok && c.now().Before(cv.exp) {
		c.cacheMu.RUnlock()
		return cv.val, nil
	}
	c.cacheMu.RUnlock()

	data, err := c.kv.Get(ctx, mount, path)
	if err != nil {
		return "", fmt.Errorf("vault get %s/%s: %w", mount, path, err)
	}
	raw, ok := data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %s/%s", key, mount, path)
	}
	sval, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value at %s is not a string", canonical)
	}

	c.cacheMu.Lock()
	c.cache[canonical] = cached{val: sval, exp: c.now().Add(c.ttl)}
	c.cacheMu.Unlock()
	return sval, nil
}

// parseRef splits `vault:mount/path#key`.
func parseRef(ref string) (mount, path, key string, err error) {
	body := strings.TrimPrefix(ref, Prefix)
	loc, key, ok := strings.Cut(body, "#")
	if !ok || key == "" {
		return "", "", "", fmt.Errorf("%w: %q has no #key", ErrBadRef, ref)
	}
	mount, path, ok = strings.Cut(loc, "/")
	if !ok || mount == "" || path == "" {
		return "", "", "", fmt.Errorf("%w: %q needs mount/path", ErrBadRef, ref)
	}
	return mount, path, key, nil
}
