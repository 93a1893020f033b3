package username

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// Word lists for pseudorandom username generation. Loaded once, read-only.
var adjectives = []string{
	"colorful", "bright", "swift", "silent", "bold", "calm", "eager", "fancy",
	"gentle", "happy", "idle", "jolly", "keen", "lively", "mighty", "noble",
	"quick", "radiant", "smart", "true", "vague", "vital", "warm", "young",
	"zesty", "azure", "bronze", "cosmic", "digital", "elegant", "fiery", "golden",
	"honest", "icy", "jazzy", "kind", "lunar", "mystic", "nimble", "orange",
	"prismatic", "quarky", "rosy", "serene", "swift", "timely", "urban", "vivid",
}

var nouns = []string{
	"flower", "river", "mountain", "forest", "ocean", "sky", "star", "moon",
	"sun", "wind", "thunder", "crystal", "diamond", "pearl", "butterfly", "eagle",
	"lion", "wolf", "fox", "owl", "panda", "tiger", "dolphin", "whale",
	"rainbow", "cloud", "storm", "sunrise", "sunset", "dawn", "dusk", "flame",
	"frost", "snow", "tree", "garden", "meadow", "canyon", "island", "volcano",
	"glacier", "waterfall", "phoenix", "dragon", "unicorn", "griffin", "shadow",
	"light", "breeze", "wave", "horizon", "zenith", "nebula", "comet", "asteroid",
}

// maxAttempts bounds collision retries before falling back to a random suffix
const maxAttempts = 100

// ExistsFunc reports whether a candidate username is already taken.
type ExistsFunc func(username string) (bool, error)

func randIndex(n int) int {
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}
	return int(idx.Int64())
}

// Generate returns a pseudorandom anonymous username in the form
// AdjectiveNounNumber, e.g. SwiftEagle123.
func Generate() string {
	adjective := capitalize(adjectives[randIndex(len(adjectives))])
	noun := capitalize(nouns[randIndex(len(nouns))])
	number := randIndex(10000)
	return fmt.Sprintf("%s%s%d", adjective, noun, number)
}

// GenerateUnique returns a username for which exists reports false, retrying
// a bounded number of times before appending a random suffix that is unique
// for all practical purposes.
func GenerateUnique(exists ExistsFunc) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		candidate := Generate()
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	// Fallback: random suffix after exhausting retries
	suffix := strings.Split(uuid.New().String(), "-")[0]
	return fmt.Sprintf("%s-%s", Generate(), suffix), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
