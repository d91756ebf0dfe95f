// Package planner breaks a to-do list title into concrete steps using a
// text generation model. Every failure degrades to a fixed fallback plan,
// so callers always receive steps to store.
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
)

// MaxSteps is the number of steps requested from the model and the upper
// bound on what is kept from its answer.
const MaxSteps = 5

var (
	ErrNoGenerator       = errors.New("no text generator configured")
	ErrMalformedResponse = errors.New("model response is not a JSON array of strings")
	ErrEmptyPlan         = errors.New("model returned no steps")
)

var fallbackSteps = []string{
	"Define requirements",
	"Research options",
	"Draft initial version",
	"Review and refine",
	"Finalize execution",
}

// FallbackSteps returns a fresh copy of the generic plan used whenever the
// model cannot be used.
func FallbackSteps() []string {
	steps := make([]string, len(fallbackSteps))
	copy(steps, fallbackSteps)
	return steps
}

// Generator produces raw text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type PlanSource string

const (
	SourceModel    PlanSource = "model"
	SourceFallback PlanSource = "fallback"
)

// Plan is the outcome of a decomposition. Err is set only when Source is
// SourceFallback and records why the model output was not used.
type Plan struct {
	Steps  []string
	Source PlanSource
	Err    error
}

func (p Plan) IsFallback() bool {
	return p.Source == SourceFallback
}

type Decomposer struct {
	generator Generator
	breaker   *Breaker
}

// NewDecomposer builds a Decomposer. A nil generator makes every call use
// the fallback; a nil breaker disables short-circuiting.
func NewDecomposer(generator Generator, breaker *Breaker) *Decomposer {
	return &Decomposer{generator: generator, breaker: breaker}
}

func BuildPrompt(title string) string {
	return fmt.Sprintf(
		"I have a to-do list item titled: '%s'. "+
			"Please break this down into exactly %d actionable, concrete sub-tasks. "+
			"Return the response ONLY as a raw JSON array of strings. "+
			"Example format: [\"Step 1\", \"Step 2\", ...]",
		title, MaxSteps,
	)
}

// ParseSteps strips markdown code fences from a model answer and decodes
// it as a JSON array of strings. Answers longer than MaxSteps are cut;
// shorter ones are returned as they are.
func ParseSteps(raw string) ([]string, error) {
	clean := strings.ReplaceAll(raw, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)

	var steps []string
	if err := json.Unmarshal([]byte(clean), &steps); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if len(steps) == 0 {
		return nil, ErrEmptyPlan
	}

	if len(steps) > MaxSteps {
		steps = steps[:MaxSteps]
	}

	return steps, nil
}

// Decompose asks the model for steps and falls back to FallbackSteps on
// any failure. It never returns an empty plan.
func (d *Decomposer) Decompose(ctx context.Context, title string) Plan {
	steps, err := d.generate(ctx, title)
	if err != nil {
		log.Printf("Plan generation failed, using fallback: %v", err)
		return Plan{Steps: FallbackSteps(), Source: SourceFallback, Err: err}
	}

	return Plan{Steps: steps, Source: SourceModel}
}

func (d *Decomposer) generate(ctx context.Context, title string) ([]string, error) {
	if d.generator == nil {
		return nil, ErrNoGenerator
	}

	var steps []string
	call := func() error {
		raw, err := d.generator.Generate(ctx, BuildPrompt(title))
		if err != nil {
			return err
		}
		steps, err = ParseSteps(raw)
		return err
	}

	var err error
	if d.breaker != nil {
		err = d.breaker.Execute(call)
	} else {
		err = call()
	}
	if err != nil {
		return nil, err
	}

	return steps, nil
}
