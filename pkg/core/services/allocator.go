package services

import (
	"context"
	"errors"

	"github.com/golang/glog"

	"github.com/wadjakorntonsri/shortlinks/pkg/core/domain"
)

// Generated codes start at six characters and grow when a length keeps colliding.
var codeLengths = []int{6, 7, 8}

const attemptsPerLength = 6

// allocate inserts target under a fresh random code. The insert itself is
// the uniqueness check; a duplicate only means "draw again".
func (s *LinkService) allocate(ctx context.Context, target string) (*domain.Link, error) {
	for _, length := range codeLengths {
		for attempt := 1; attempt <= attemptsPerLength; attempt++ {
			code := s.gen.Generate(length)

			link, err := s.repo.Insert(ctx, code, target, s.clock.Now())
			if err == nil {
				return link, nil
			}
			if !errors.Is(err, domain.ErrDuplicateCode) {
				return nil, err
			}
			glog.V(1).Infof("code collision %s (length=%d attempt=%d)", code, length, attempt)
		}
		glog.Warningf("no free code of length %d after %d attempts", length, attemptsPerLength)
	}

	glog.Errorf("allocate(%s) %+v", target, domain.ErrGenerationExhausted)
	return nil, domain.ErrGenerationExhausted
}
