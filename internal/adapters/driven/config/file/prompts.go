package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/dishsafe/internal/core/ports/driven"
	"github.com/custodia-labs/dishsafe/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore serves the safety classifier prompts from editable text files.
// The first Load seeds the directory with the built-in prompts and a README;
// files the user already has are left alone.
type PromptStore struct {
	dir string

	seedOnce sync.Once
	seedErr  error

	mu     sync.Mutex
	loaded map[string]string
}

// builtinPrompts are written to disk on first use and served whenever a
// file is missing or unusable.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var builtinPrompts = map[string]string{
	driven.PromptSafetySystem: `You analyse comments about a dish together with the dietary restrictions and allergens the dish is known to contain.
You decide which of the given restrictions the comment shows the dish to be safe for.

Possible categories: %s

Step 1: Extract the ingredients mentioned or implied in the comment.
Step 2: Using those ingredients, work out which categories the dish is not friendly to. Remember what people with each restriction cannot eat.
Step 3: From the known restrictions listed by the user, keep only those the dish is friendly to.
Step 4: Reply with the result of Step 3 as a comma-separated list and nothing else. Reply with an empty line when none apply.`,

	driven.PromptSafetyUser: `Comment about the dish: %s
Known restrictions/allergens in the dish: %s

Please respond ONLY with a comma-separated list of safe categories taken from the known restrictions.`,
}

const promptReadme = `# Dishsafe Prompts

This directory contains the prompts used by the OpenAI safety classifier.

- safety_system.txt: system prompt. Its single %s receives the category list.
- safety_user.txt: user prompt. The first %s receives the review comment and
  the second the comma-separated tags of the dish.

Edits take effect on the next command. A file whose %s placeholders do not
match the built-in prompt is ignored in favour of the built-in one. The reply
is always filtered to the dish's own tags.
`

// NewPromptStore creates a prompt store rooted at dir.
// An empty dir means ~/.dishsafe/prompts. Nothing touches the disk until
// the first Load.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".dishsafe", "prompts")
	}
	return &PromptStore{dir: dir, loaded: map[string]string{}}, nil
}

// Load returns the named prompt template. The user's file wins when it
// keeps the built-in placeholder count; otherwise the built-in prompt is
// returned. A name with neither a file nor a built-in prompt is an error.
// Each prompt is read from disk once per store.
func (s *PromptStore) Load(name string) (string, error) {
	s.seedOnce.Do(s.seed)
	if s.seedErr != nil {
		logger.Debug("Prompt directory unavailable: %v", s.seedErr)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if prompt, ok := s.loaded[name]; ok {
		return prompt, nil
	}

	builtin, known := builtinPrompts[name]
	data, err := os.ReadFile(s.path(name))
	switch {
	case err == nil:
		prompt := strings.TrimSpace(string(data))
		if known && strings.Count(prompt, "%s") != strings.Count(builtin, "%s") {
			logger.Warn("Prompt %s does not keep the %%s placeholders; using the built-in prompt", s.path(name))
			prompt = builtin
		}
		s.loaded[name] = prompt
		return prompt, nil
	case known:
		s.loaded[name] = builtin
		return builtin, nil
	default:
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

// seed writes the built-in prompts and README where no file exists yet.
func (s *PromptStore) seed() {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		s.seedErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}
	files := map[string]string{filepath.Join(s.dir, "README.md"): promptReadme}
	for name, content := range builtinPrompts {
		files[s.path(name)] = content
	}
	for path, content := range files {
		if err := writeIfAbsent(path, content); err != nil {
			s.seedErr = err
			return
		}
	}
}

func writeIfAbsent(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
