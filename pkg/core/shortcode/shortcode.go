// Package shortcode generates and validates short link codes.
package shortcode

import (
	"math/rand/v2"
	"regexp"
)

const (
	// Alphabet is the 62-character set codes are drawn from.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	MinLength = 6
	MaxLength = 8
)

var codeRe = regexp.MustCompile(`^[A-Za-z0-9]{6,8}$`)

// Valid reports whether code is 6-8 alphanumeric characters.
func Valid(code string) bool {
	return codeRe.MatchString(code)
}

// Generator produces random candidate codes of a requested length.
type Generator interface {
	Generate(length int) string
}

// RandomGenerator draws each character uniformly from its alphabet.
// Codes are identifiers, not secrets, so a non-cryptographic source is used.
type RandomGenerator struct {
	alphabet string
}

// Option configures a RandomGenerator.
type Option func(*RandomGenerator)

// WithAlphabet restricts the characters codes are drawn from.
func WithAlphabet(alphabet string) Option {
	return func(g *RandomGenerator) {
		if alphabet != "" {
			g.alphabet = alphabet
		}
	}
}

func NewGenerator(opts ...Option) *RandomGenerator {
	g := &RandomGenerator{alphabet: Alphabet}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *RandomGenerator) Generate(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = g.alphabet[rand.IntN(len(g.alphabet))]
	}
	return string(b)
}

var _ Generator = (*RandomGenerator)(nil)
