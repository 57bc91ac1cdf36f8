package services

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/wadjakorntonsri/shortlinks/pkg/core/domain"
	"github.com/wadjakorntonsri/shortlinks/pkg/core/shortcode"
	"github.com/wadjakorntonsri/shortlinks/pkg/ports"
)

const defaultClickTimeout = 5 * time.Second

// LinkService composes code allocation, resolution and click recording.
type LinkService struct {
	repo     ports.LinkRepository
	gen      shortcode.Generator
	clock    domain.Clock
	resolver *Resolver
	recorder *ClickRecorder
}

type config struct {
	gen          shortcode.Generator
	clock        domain.Clock
	cache        ports.LinkCache
	clickTimeout time.Duration
}

// Option configures a LinkService.
type Option func(*config)

func WithGenerator(gen shortcode.Generator) Option {
	return func(c *config) { c.gen = gen }
}

func WithClock(clock domain.Clock) Option {
	return func(c *config) { c.clock = clock }
}

// WithCache puts a read-through cache in front of redirect lookups.
func WithCache(cache ports.LinkCache) Option {
	return func(c *config) { c.cache = cache }
}

// WithClickTimeout bounds a single detached click update.
func WithClickTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.clickTimeout = d
		}
	}
}

func NewLinkService(repo ports.LinkRepository, opts ...Option) *LinkService {
	cfg := config{
		gen:          shortcode.NewGenerator(),
		clock:        domain.RealClock{},
		clickTimeout: defaultClickTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &LinkService{
		repo:     repo,
		gen:      cfg.gen,
		clock:    cfg.clock,
		resolver: NewResolver(repo, cfg.cache),
		recorder: NewClickRecorder(repo, cfg.clock, cfg.clickTimeout),
	}
}

// Create validates the target and stores a link under code, or under a
// generated code when code is empty. An explicit code is inserted once.
func (s *LinkService) Create(ctx context.Context, rawURL, code string) (*domain.Link, error) {
	target, err := validateURL(rawURL)
	if err != nil {
		return nil, err
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return s.allocate(ctx, target)
	}
	if !shortcode.Valid(code) {
		return nil, domain.ErrInvalidCode
	}

	return s.repo.Insert(ctx, code, target, s.clock.Now())
}

func (s *LinkService) Get(ctx context.Context, code string) (*domain.Link, error) {
	if !shortcode.Valid(code) {
		return nil, domain.ErrNotFound
	}
	return s.repo.FindByCode(ctx, code)
}

func (s *LinkService) List(ctx context.Context) ([]domain.Link, error) {
	return s.repo.ListAll(ctx)
}

func (s *LinkService) Delete(ctx context.Context, code string) error {
	if !shortcode.Valid(code) {
		return domain.ErrNotFound
	}

	removed, err := s.repo.DeleteByCode(ctx, code)
	if err != nil {
		return err
	}
	s.resolver.Forget(ctx, removed)
	glog.Infof("deleted link %s", removed)
	return nil
}

// Redirect returns the target for code and records the click in the
// background. The click update never delays or fails the redirect.
func (s *LinkService) Redirect(ctx context.Context, code string) (string, error) {
	target, err := s.resolver.Resolve(ctx, code)
	if err != nil {
		return "", err
	}
	s.recorder.Record(code)
	return target, nil
}

// Drain waits for in-flight click updates, or until ctx is done.
func (s *LinkService) Drain(ctx context.Context) error {
	return s.recorder.Wait(ctx)
}

func validateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", domain.ErrMissingURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", domain.ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", domain.ErrInvalidURL
	}
	if u.Host == "" {
		return "", domain.ErrInvalidURL
	}

	// stored verbatim so the redirect returns exactly what was submitted
	return raw, nil
}

var _ ports.LinkService = (*LinkService)(nil)
