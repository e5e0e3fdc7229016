package qf

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp/syntax"
	"strings"
)

// DefaultRepeatLimit caps how many times an unbounded repetition is expanded.
const DefaultRepeatLimit = 20

var ErrInvalidPattern = errors.New("invalid program pattern")

const (
	printableLo = 0x20
	printableHi = 0x7e
)

/*
Sampler draws one string from the language of a regular expression. It is how
a pattern such as `[+>]{4}\[:\]` becomes a concrete program.
*/
type Sampler struct {
	rng   *rand.Rand
	limit int
}

func NewSampler(rng *rand.Rand, limit int) *Sampler {
	if limit <= 0 {
		limit = DefaultRepeatLimit
	}
	return &Sampler{rng: rng, limit: limit}
}

func (s *Sampler) Sample(pattern string) (string, error) {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}

	var sb strings.Builder
	if err := s.generate(&sb, re.Simplify()); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func (s *Sampler) generate(sb *strings.Builder, re *syntax.Regexp) error {
	switch re.Op {
	case syntax.OpNoMatch:
		return fmt.Errorf("%w: %s matches nothing", ErrInvalidPattern, re)
	case syntax.OpLiteral:
		for _, r := range re.Rune {
			sb.WriteRune(r)
		}
	case syntax.OpCharClass:
		if len(re.Rune) == 0 {
			return fmt.Errorf("%w: empty character class", ErrInvalidPattern)
		}
		sb.WriteRune(s.pickRune(re.Rune))
	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		sb.WriteRune(rune(printableLo + s.rng.IntN(printableHi-printableLo+1)))
	case syntax.OpCapture:
		return s.generate(sb, re.Sub[0])
	case syntax.OpStar:
		return s.repeat(sb, re.Sub[0], 0, s.limit)
	case syntax.OpPlus:
		return s.repeat(sb, re.Sub[0], 1, s.limit)
	case syntax.OpQuest:
		return s.repeat(sb, re.Sub[0], 0, 1)
	case syntax.OpRepeat:
		hi := re.Max
		if hi < 0 {
			hi = re.Min + s.limit
		}
		return s.repeat(sb, re.Sub[0], re.Min, hi)
	case syntax.OpConcat:
		for _, sub := range re.Sub {
			if err := s.generate(sb, sub); err != nil {
				return err
			}
		}
	case syntax.OpAlternate:
		return s.generate(sb, re.Sub[s.rng.IntN(len(re.Sub))])
	}

	// Anchors and empty matches contribute nothing.
	return nil
}

func (s *Sampler) repeat(sb *strings.Builder, re *syntax.Regexp, lo, hi int) error {
	count := lo
	if hi > lo {
		count += s.rng.IntN(hi - lo + 1)
	}

	for range count {
		if err := s.generate(sb, re); err != nil {
			return err
		}
	}
	return nil
}

/*
pickRune draws uniformly from a class given as [lo, hi] pairs. When the class
overlaps printable ASCII the draw is restricted to that overlap, so negated
classes do not produce arbitrary code points.
*/
func (s *Sampler) pickRune(ranges []rune) rune {
	if printable := clipRanges(ranges, printableLo, printableHi); len(printable) > 0 {
		ranges = printable
	}

	var total int
	for i := 0; i < len(ranges); i += 2 {
		total += int(ranges[i+1]-ranges[i]) + 1
	}

	pick := s.rng.IntN(total)
	for i := 0; i < len(ranges); i += 2 {
		width := int(ranges[i+1]-ranges[i]) + 1
		if pick < width {
			return ranges[i] + rune(pick)
		}
		pick -= width
	}

	return ranges[0]
}

func clipRanges(ranges []rune, lo, hi rune) []rune {
	var out []rune
	for i := 0; i < len(ranges); i += 2 {
		a, b := max(ranges[i], lo), min(ranges[i+1], hi)
		if a <= b {
			out = append(out, a, b)
		}
	}
	return out
}
