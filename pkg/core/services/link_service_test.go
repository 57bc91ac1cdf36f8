package services_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/wadjakorntonsri/shortlinks/pkg/adapters/repository/sqlstore"
	"github.com/wadjakorntonsri/shortlinks/pkg/core/domain"
	"github.com/wadjakorntonsri/shortlinks/pkg/core/services"
	"github.com/wadjakorntonsri/shortlinks/pkg/core/shortcode"
)

func newStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	store, err := sqlstore.Open(context.Background(), sqlstore.Options{
		DatabaseURL: filepath.Join(t.TempDir(), "links.db"),
		MaxConns:    6,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func drain(t *testing.T, svc *services.LinkService) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, svc.Drain(ctx))
}

func TestCreate_RoundTrip(t *testing.T) {
	svc := services.NewLinkService(newStore(t))
	ctx := context.Background()

	link, err := svc.Create(ctx, "https://example.com/x", "")
	require.NoError(t, err)
	assert.Len(t, link.Code, 6)
	assert.True(t, shortcode.Valid(link.Code))
	assert.Equal(t, "https://example.com/x", link.URL)

	target, err := svc.Redirect(ctx, link.Code)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/x", target)
	drain(t, svc)
}

func TestCreate_ExplicitCode(t *testing.T) {
	clock := domain.NewMockClock(time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))
	svc := services.NewLinkService(newStore(t), services.WithClock(clock))
	ctx := context.Background()

	link, err := svc.Create(ctx, "https://example.com", " MyCode1 ")
	require.NoError(t, err)
	assert.Equal(t, "MyCode1", link.Code)

	got, err := svc.Get(ctx, "MyCode1")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", got.URL)
	assert.Equal(t, int64(0), got.Clicks)
	assert.Nil(t, got.LastClicked)
	assert.True(t, clock.Now().Equal(got.CreatedAt))
}

func TestCreate_Validation(t *testing.T) {
	svc := services.NewLinkService(newStore(t))

	tests := []struct {
		name    string
		url     string
		code    string
		wantErr error
	}{
		{"code too short", "https://a.com", "ab", domain.ErrInvalidCode},
		{"code too long", "https://a.com", "abcdefghi", domain.ErrInvalidCode},
		{"code with symbols", "https://a.com", "abc-123", domain.ErrInvalidCode},
		{"ftp scheme", "ftp://a.com", "", domain.ErrInvalidURL},
		{"no scheme", "a.com/path", "", domain.ErrInvalidURL},
		{"javascript scheme", "javascript:alert(1)", "", domain.ErrInvalidURL},
		{"no host", "https://", "", domain.ErrInvalidURL},
		{"unparseable", "http://[::1", "", domain.ErrInvalidURL},
		{"missing url", "   ", "", domain.ErrMissingURL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.url, tt.code)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreate_DuplicateExplicitCode(t *testing.T) {
	svc := services.NewLinkService(newStore(t))
	ctx := context.Background()

	_, err := svc.Create(ctx, "https://a.com", "taken1")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "https://b.com", "taken1")
	assert.ErrorIs(t, err, domain.ErrDuplicateCode)

	target, err := svc.Redirect(ctx, "taken1")
	require.NoError(t, err)
	assert.Equal(t, "https://a.com", target)
	drain(t, svc)
}

func TestCreate_ConcurrentSameCode(t *testing.T) {
	svc := services.NewLinkService(newStore(t))
	ctx := context.Background()

	const n = 20
	errs := make([]error, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, errs[i] = svc.Create(ctx, fmt.Sprintf("https://example.com/%d", i), "same01")
			return nil
		})
	}
	require.NoError(t, g.Wait())

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrDuplicateCode)
	}
	assert.Equal(t, 1, succeeded)
}

func TestRedirect_ConcurrentClicksAreNotLost(t *testing.T) {
	store := newStore(t)
	svc := services.NewLinkService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, "https://example.com", "busy01")
	require.NoError(t, err)

	const n = 40
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			target, err := svc.Redirect(ctx, "busy01")
			if err != nil {
				return err
			}
			if target != "https://example.com" {
				return fmt.Errorf("unexpected target %q", target)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	drain(t, svc)

	link, err := svc.Get(ctx, "busy01")
	require.NoError(t, err)
	assert.Equal(t, int64(n), link.Clicks)
	assert.NotNil(t, link.LastClicked)
}

func TestRedirect_UnknownAndMalformed(t *testing.T) {
	svc := services.NewLinkService(newStore(t))
	ctx := context.Background()

	_, err := svc.Redirect(ctx, "nope00")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Redirect(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_ThenReuse(t *testing.T) {
	svc := services.NewLinkService(newStore(t))
	ctx := context.Background()

	_, err := svc.Create(ctx, "https://old.com", "reuse1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "reuse1"))

	_, err = svc.Redirect(ctx, "reuse1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, "reuse1"), domain.ErrNotFound)

	link, err := svc.Create(ctx, "https://new.com", "reuse1")
	require.NoError(t, err)
	assert.Equal(t, "https://new.com", link.URL)

	target, err := svc.Redirect(ctx, "reuse1")
	require.NoError(t, err)
	assert.Equal(t, "https://new.com", target)
	drain(t, svc)
}

func TestList_NewestFirst(t *testing.T) {
	clock := domain.NewMockClock(time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))
	svc := services.NewLinkService(newStore(t), services.WithClock(clock))
	ctx := context.Background()

	empty, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, code := range []string{"older1", "middle", "newer1"} {
		_, err := svc.Create(ctx, "https://example.com/"+code, code)
		require.NoError(t, err)
		clock.Advance(time.Second)
	}

	links, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, []string{"newer1", "middle", "older1"}, []string{links[0].Code, links[1].Code, links[2].Code})
}

func TestCreate_EscalatesLength(t *testing.T) {
	store := newStore(t)
	gen := shortcode.NewGenerator(shortcode.WithAlphabet("a"))
	svc := services.NewLinkService(store, services.WithGenerator(gen))
	ctx := context.Background()

	first, err := svc.Create(ctx, "https://a.com", "")
	require.NoError(t, err)
	assert.Equal(t, "aaaaaa", first.Code)

	second, err := svc.Create(ctx, "https://b.com", "")
	require.NoError(t, err)
	assert.Equal(t, "aaaaaaa", second.Code)

	third, err := svc.Create(ctx, "https://c.com", "")
	require.NoError(t, err)
	assert.Equal(t, "aaaaaaaa", third.Code)
}

func TestCreate_GenerationExhausted(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	for _, code := range []string{"zzzzzz", "zzzzzzz", "zzzzzzzz"} {
		_, err := store.Insert(ctx, code, "https://taken.com", time.Now().UTC())
		require.NoError(t, err)
	}

	gen := shortcode.NewGenerator(shortcode.WithAlphabet("z"))
	svc := services.NewLinkService(store, services.WithGenerator(gen))

	done := make(chan error, 1)
	go func() {
		_, err := svc.Create(ctx, "https://a.com", "")
		done <- err
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, domain.ErrGenerationExhausted)
	case <-time.After(10 * time.Second):
		t.Fatal("create did not terminate")
	}
}
