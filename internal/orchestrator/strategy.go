package orchestrator

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidStrategy = errors.New("invalid generation strategy")
)

// Strategy is one way of asking the model for posts. Each strategy maps to
// exactly one completion request for SampleCount samples.
type Strategy struct {
	// Name labels the strategy in logs and errors
	Name string `yaml:"name"`

	// Instruction is sent ahead of the source content
	Instruction string `yaml:"instruction"`

	// SampleCount is the number of independent samples requested (>= 1)
	SampleCount int `yaml:"samples"`

	// Temperature controls sampling randomness
	Temperature float64 `yaml:"temperature"`
}

const (
	shortPostInstruction = `Generate a Twitter post from the content without emojis in the following JSON format: { "post": string } put it in an array with one element`
	threadInstruction    = `Generate a thread for social media in the following JSON format: Array<{ "post": string }> without emojis`
	articleInstruction   = `You take a full website text, and extract only the article content`
)

// ShortPostStrategy asks for a single post per sample.
func ShortPostStrategy() Strategy {
	return Strategy{
		Name:        "post",
		Instruction: shortPostInstruction,
		SampleCount: 5,
		Temperature: 1,
	}
}

// ThreadStrategy asks for a whole thread (an array of posts) per sample.
func ThreadStrategy() Strategy {
	return Strategy{
		Name:        "thread",
		Instruction: threadInstruction,
		SampleCount: 5,
		Temperature: 1,
	}
}

// DefaultStrategies returns the strategies used by GeneratePosts.
func DefaultStrategies() []Strategy {
	return []Strategy{ShortPostStrategy(), ThreadStrategy()}
}

// Validate checks that the strategy can be turned into a request.
func (s Strategy) Validate() error {
	if strings.TrimSpace(s.Instruction) == "" {
		return fmt.Errorf("%w: %q has an empty instruction", ErrInvalidStrategy, s.Name)
	}
	if s.SampleCount < 1 {
		return fmt.Errorf("%w: %q must request at least one sample, got %d", ErrInvalidStrategy, s.Name, s.SampleCount)
	}
	if s.Temperature < 0 || s.Temperature > 2 {
		return fmt.Errorf("%w: %q temperature %.2f outside [0, 2]", ErrInvalidStrategy, s.Name, s.Temperature)
	}
	return nil
}

// LoadStrategies decodes a YAML list of strategies, e.g.
//
//	- name: hook
//	  instruction: Write a one-line hook ... as [{"post": string}]
//	  samples: 3
//	  temperature: 0.9
func LoadStrategies(r io.Reader) ([]Strategy, error) {
	var strategies []Strategy
	if err := yaml.NewDecoder(r).Decode(&strategies); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: no strategies defined", ErrInvalidStrategy)
		}
		return nil, fmt.Errorf("failed to decode strategies: %w", err)
	}
	if len(strategies) == 0 {
		return nil, fmt.Errorf("%w: no strategies defined", ErrInvalidStrategy)
	}

	for i := range strategies {
		if strategies[i].Name == "" {
			strategies[i].Name = fmt.Sprintf("strategy-%d", i+1)
		}
		if err := strategies[i].Validate(); err != nil {
			return nil, err
		}
	}
	return strategies, nil
}
