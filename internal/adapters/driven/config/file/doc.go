// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under ~/.dishsafe.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: user-editable classifier prompts
package file
