package vault

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeKV struct {
	data  map[string]map[string]any
	calls int
}

func (f *fakeKV) Get(_ context.Context, mount, path string) (map[string]any, error) {
	f.calls++
	d, ok := f.data[mount+"/"+path]
	if !ok {
		return nil, errors.New("secret not found")
	}
	return d, nil
}

func TestResolve_PlainValuePassesThrough(t *testing.T) {
	c := newClient(&fakeKV{})
	got, err := c.Resolve(context.Background(), "hunter2")
	if err != nil || got != "hunter2" {
		t.Fatalf("Resolve = %q, %v", got, err)
	}
}

func TestResolve_CachesWithinTTL(t *testing.T) {
	kv := &fakeKV{data: map[string]map[string]any{
		"secret/layoutd/db": {"password": "s3cret", "port": 3306},
	}}
	c := newClient(kv)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		got, err := c.Resolve(context.Background(), "vault:secret/layoutd/db#password")
		if err != nil || got != "s3cret" {
			t.Fatalf("Resolve = %q, %v", got, err)
		}
	}
	if kv.calls != 1 {
		t.Fatalf("calls = %d, want 1 (cached)", kv.calls)
	}

	now = now.Add(DefaultTTL + time.Second)
	_, _ = c.Resolve(context.Background(), "vault:secret/layoutd/db#password")
	if kv.calls != 2 {
		t.Fatalf("calls = %d, want 2 after expiry", kv.calls)
	}
}

func TestResolve_Errors(t *testing.T) {
	kv := &fakeKV{data: map[string]map[string]any{
		"secret/db": {"port": 3306},
	}}
	c := newClient(kv)
	ctx := context.Background()

	if _, err := c.Resolve(ctx, "vault:secret/db"); !errors.Is(err, ErrBadRef) {
		t.Errorf("missing key: err = %v", err)
	}
	if _, err := c.Resolve(ctx, "vault:secret#k"); !errors.Is(err, ErrBadRef) {
		t.Errorf("missing path: err = %v", err)
	}
	if _, err := c.Resolve(ctx, "vault:secret/db#password"); err == nil {
		t.Errorf("absent key should fail")
	}
	if _, err := c.Resolve(ctx, "vault:secret/db#port"); err == nil {
		t.Errorf("non-string value should fail")
	}
	if _, err := c.Resolve(ctx, "vault:secret/other#k"); err == nil {
		t.Errorf("unknown secret should fail")
	}
}
