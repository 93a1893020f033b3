package username

import (
	"errors"
	"regexp"
	"strings"
	"testing"
)

var usernamePattern = regexp.MustCompile(`^[A-Z][a-z]+[A-Z][a-z]+\d{1,4}$`)

func TestGenerateFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		name := Generate()
		if !usernamePattern.MatchString(name) {
			t.Errorf("Generated username %q does not match AdjectiveNounNumber form", name)
		}
	}
}

func TestGenerateUniqueNoCollision(t *testing.T) {
	name, err := GenerateUnique(func(string) (bool, error) { return false, nil })
	if err != nil {
		t.Fatalf("GenerateUnique failed: %v", err)
	}
	if !usernamePattern.MatchString(name) {
		t.Errorf("Expected plain username, got %q", name)
	}
}

func TestGenerateUniqueRetriesOnCollision(t *testing.T) {
	taken := map[string]bool{}
	calls := 0
	exists := func(candidate string) (bool, error) {
		calls++
		// First three candidates are taken
		if calls <= 3 {
			taken[candidate] = true
			return true, nil
		}
		return taken[candidate], nil
	}

	name, err := GenerateUnique(exists)
	if err != nil {
		t.Fatalf("GenerateUnique failed: %v", err)
	}
	if taken[name] {
		t.Errorf("GenerateUnique returned a taken username %q", name)
	}
	if calls < 4 {
		t.Errorf("Expected at least 4 existence checks, got %d", calls)
	}
}

func TestGenerateUniqueFallbackSuffix(t *testing.T) {
	// Every candidate reported taken: generation must still terminate with a
	// suffixed name rather than loop forever.
	name, err := GenerateUnique(func(string) (bool, error) { return true, nil })
	if err != nil {
		t.Fatalf("GenerateUnique failed: %v", err)
	}
	if !strings.Contains(name, "-") {
		t.Errorf("Expected suffixed fallback username, got %q", name)
	}
}

func TestGenerateUniquePropagatesError(t *testing.T) {
	boom := errors.New("db down")
	_, err := GenerateUnique(func(string) (bool, error) { return false, boom })
	if !errors.Is(err, boom) {
		t.Errorf("Expected lookup error to propagate, got %v", err)
	}
}
