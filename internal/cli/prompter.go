package cli

import "os"

// NonInteractiveEnv disables every prompt when set to "1".
const NonInteractiveEnv = "KVM_NON_INTERACTIVE"

type Prompter interface {
	Select(label string, items []string, defaultValue string) (int, string, error)
	Prompt(label string, defaultValue string) (string, error)
	Confirm(label string, defaultYes bool) (bool, error)
}

func interactive(p Prompter) bool {
	return p != nil && os.Getenv(NonInteractiveEnv) != "1"
}
