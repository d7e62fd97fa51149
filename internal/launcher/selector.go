package launcher

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/manifoldco/promptui"
)

// ErrSelectionCancelled is returned when the user aborts the model prompt.
var ErrSelectionCancelled = errors.New("model selection cancelled")

// Choice is one entry of a selection prompt.
type Choice struct {
	Label string
	Value string
}

// Selector asks the user to pick one of choices.
type Selector interface {
	Select(label string, choices []Choice) (string, error)
}

// PromptSelector is a terminal single-select menu.
type PromptSelector struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
	Size   int
}

// Select implements Selector.
func (p PromptSelector) Select(label string, choices []Choice) (string, error) {
	if len(choices) == 0 {
		return "", errors.New("nothing to select")
	}
	labels := make([]string, len(choices))
	for i, c := range choices {
		labels[i] = c.Label
	}

	size := p.Size
	if size <= 0 {
		size = 10
	}
	prompt := promptui.Select{
		Label:  label,
		Items:  labels,
		Size:   size,
		Stdin:  p.Stdin,
		Stdout: p.Stdout,
		Searcher: func(input string, index int) bool {
			return containsFold(labels[index], input)
		},
	}
	idx, _, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
			return "", ErrSelectionCancelled
		}
		return "", fmt.Errorf("select model: %w", err)
	}
	return choices[idx].Value, nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.Map(unicode.ToLower, s), strings.Map(unicode.ToLower, substr))
}
