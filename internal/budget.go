package internal

import (
	"fmt"
	"strings"
)

// Length is the user-selected output length category. The four categories
// are ordered shortest to longest and map to a target word count for the
// prompts and a single output-token ceiling applied uniformly to every
// stage's generation call in a run.
type Length int

const (
	LengthShort Length = iota
	LengthMedium
	LengthLong
	LengthEpic
)

// ParseLength resolves a length flag/config value.
func ParseLength(s string) (Length, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "short":
		return LengthShort, nil
	case "medium", "":
		return LengthMedium, nil
	case "long":
		return LengthLong, nil
	case "epic":
		return LengthEpic, nil
	default:
		return LengthMedium, fmt.Errorf("unknown length %q (supported: short, medium, long, epic)", s)
	}
}

func (l Length) String() string {
	switch l {
	case LengthShort:
		return "short"
	case LengthLong:
		return "long"
	case LengthEpic:
		return "epic"
	default:
		return "medium"
	}
}

// TargetWords is the approximate word count the writer stage aims for.
func (l Length) TargetWords() int {
	switch l {
	case LengthShort:
		return 800
	case LengthLong:
		return 2500
	case LengthEpic:
		return 4000
	default:
		return 1500
	}
}

// TokenBudgetPolicy maps a length category to the per-call output-token
// ceiling. Injected into the orchestrator so tests can swap budgets.
type TokenBudgetPolicy struct {
	ceilings map[Length]int
}

// DefaultTokenBudgetPolicy returns the production budget mapping.
func DefaultTokenBudgetPolicy() *TokenBudgetPolicy {
	return &TokenBudgetPolicy{ceilings: map[Length]int{
		LengthShort:  1500,
		LengthMedium: 2500,
		LengthLong:   4000,
		LengthEpic:   6000,
	}}
}

// NewTokenBudgetPolicy builds a policy from an explicit mapping.
func NewTokenBudgetPolicy(ceilings map[Length]int) *TokenBudgetPolicy {
	return &TokenBudgetPolicy{ceilings: ceilings}
}

// MaxTokens returns the output ceiling for a run of the given length.
func (p *TokenBudgetPolicy) MaxTokens(l Length) int {
	if ceiling, ok := p.ceilings[l]; ok {
		return ceiling
	}
	return p.ceilings[LengthMedium]
}
