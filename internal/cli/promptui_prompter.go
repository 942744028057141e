package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
)

const (
	// defaultMenuSize is the number of items visible in selection menus.
	// Longer menus, such as a library listing, become searchable.
	defaultMenuSize = 10
)

// choice is one menu entry. Default marks the entry the form preselects,
// e.g. slot 8.
type choice struct {
	Name    string
	Default bool
}

var choiceTemplates = &promptui.SelectTemplates{
	Label:    "{{ . }}:",
	Active:   `{{ "▸" | cyan }} {{ .Name | cyan }}{{ if .Default }} {{ "(default)" | faint }}{{ end }}`,
	Inactive: `  {{ .Name }}{{ if .Default }} {{ "(default)" | faint }}{{ end }}`,
	Selected: `{{ "✔" | green }} {{ .Name }}`,
}

// PromptUI is the terminal Prompter used by the kvm form and the library
// and prune-backups commands.
type PromptUI struct {
	stdin  io.ReadCloser
	stdout io.WriteCloser
}

func NewPromptUI() *PromptUI {
	return &PromptUI{stdin: os.Stdin, stdout: os.Stdout}
}

// NewPromptUIWithIO reads answers from stdin and draws menus on stdout.
// A nil stream falls back to the process terminal.
func NewPromptUIWithIO(stdin io.Reader, stdout io.Writer) *PromptUI {
	pu := NewPromptUI()
	if stdin != nil {
		pu.stdin = toReadCloser(stdin)
	}
	if stdout != nil {
		pu.stdout = toWriteCloser(stdout)
	}
	return pu
}

// Select shows items with the cursor on defaultValue and returns the chosen
// index and item.
func (p *PromptUI) Select(label string, items []string, defaultValue string) (int, string, error) {
	choices, cursor := selectChoices(items, defaultValue)

	menu := promptui.Select{
		Label:     label,
		Items:     choices,
		Templates: choiceTemplates,
		Size:      defaultMenuSize,
		HideHelp:  len(choices) <= defaultMenuSize,
		CursorPos: cursor,
		Stdin:     p.stdin,
		Stdout:    p.stdout,
	}
	if len(choices) > defaultMenuSize {
		menu.Searcher = choiceSearcher(choices)
	}

	idx, _, err := menu.Run()
	if err != nil {
		return 0, "", fmt.Errorf("%w: %v", ErrPromptCancelled, err)
	}
	if idx < 0 || idx >= len(items) {
		return 0, "", fmt.Errorf("%w: no item selected", ErrPromptCancelled)
	}
	return idx, items[idx], nil
}

// Prompt asks for free text such as a version label. The default is
// editable in place.
func (p *PromptUI) Prompt(label string, defaultValue string) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   defaultValue,
		AllowEdit: defaultValue != "",
		Stdin:     p.stdin,
		Stdout:    p.stdout,
	}
	value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPromptCancelled, err)
	}
	return value, nil
}

// Confirm asks a yes/no question, e.g. whether to include the VST plugin.
// Answering no is not a cancellation.
func (p *PromptUI) Confirm(label string, defaultYes bool) (bool, error) {
	def := "N"
	if defaultYes {
		def = "Y"
	}
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Default:   def,
		Stdin:     p.stdin,
		Stdout:    p.stdout,
	}
	return confirmResult(prompt.Run())
}

func selectChoices(items []string, defaultValue string) ([]choice, int) {
	choices := make([]choice, len(items))
	cursor := 0
	for i, item := range items {
		choices[i] = choice{Name: item}
		if defaultValue != "" && item == defaultValue {
			choices[i].Default = true
			cursor = i
		}
	}
	return choices, cursor
}

func choiceSearcher(choices []choice) func(input string, index int) bool {
	return func(input string, index int) bool {
		name := strings.ToLower(choices[index].Name)
		return strings.Contains(name, strings.ToLower(strings.TrimSpace(input)))
	}
}

// confirmResult maps promptui's confirm outcome. promptui reports a "no"
// answer as ErrAbort.
func confirmResult(_ string, err error) (bool, error) {
	if errors.Is(err, promptui.ErrAbort) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrPromptCancelled, err)
	}
	return true, nil
}

// promptui closes neither stream but requires both to be closers.
func toReadCloser(r io.Reader) io.ReadCloser {
	if rc, ok := r.(io.ReadCloser); ok {
		return rc
	}
	return io.NopCloser(r)
}

func toWriteCloser(w io.Writer) io.WriteCloser {
	if wc, ok := w.(io.WriteCloser); ok {
		return wc
	}
	return nopWriteCloser{Writer: w}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}
