// internal/words/words.go
//
// WordStore: the fixed vocabulary of target words.
//
// Responsibilities:
//   - Load the vocabulary from a file (WORDS_FILE / --words-file) or fall back
//     to the embedded default list in assets/words.txt.
//   - Normalize to uppercase and keep only 5-letter A–Z entries.
//   - Seed the words table once at startup.
//   - Pick a target uniformly at random.

package words

import (
	"bufio"
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"os"
	"strings"

	"github.com/samber/lo"

	"github.com/robalobadob/guessword/assets"
	"github.com/robalobadob/guessword/internal/game"
	"github.com/robalobadob/guessword/internal/store"
)

// ErrEmpty is returned when no words are available to pick from.
var ErrEmpty = errors.New("words: vocabulary is empty")

// Repository is the part of store.Store the word store needs.
type Repository interface {
	SeedWords(ctx context.Context, words []string) error
	Words(ctx context.Context) ([]store.Word, error)
	WordByID(ctx context.Context, id int64) (*store.Word, error)
}

// Store serves target words out of the words table.
type Store struct {
	repo Repository
	pick func(n int) (int, error)
}

// New wraps repo. Random picks use crypto/rand.
func New(repo Repository) *Store {
	return &Store{repo: repo, pick: cryptoIntn}
}

// Load returns the vocabulary from path, or the embedded defaults when path
// is empty.
func Load(path string) ([]string, error) {
	var raw []string
	if path == "" {
		list, err := assets.WordList()
		if err != nil {
			return nil, err
		}
		raw = list
	} else {
		list, err := readWordFile(path)
		if err != nil {
			return nil, err
		}
		raw = list
	}
	out := Normalize(raw)
	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}

// Normalize uppercases, drops anything that is not a playable word, and
// removes duplicates while keeping order.
func Normalize(list []string) []string {
	upper := lo.Map(list, func(w string, _ int) string {
		return strings.ToUpper(strings.TrimSpace(w))
	})
	valid := lo.Filter(upper, func(w string, _ int) bool {
		_, err := game.NormalizeGuess(w)
		return err == nil
	})
	return lo.Uniq(valid)
}

// Seed inserts list into the words table; existing words are left alone.
func (s *Store) Seed(ctx context.Context, list []string) error {
	return s.repo.SeedWords(ctx, Normalize(list))
}

// Random returns one word chosen uniformly at random.
func (s *Store) Random(ctx context.Context) (store.Word, error) {
	all, err := s.repo.Words(ctx)
	if err != nil {
		return store.Word{}, err
	}
	if len(all) == 0 {
		return store.Word{}, ErrEmpty
	}
	i, err := s.pick(len(all))
	if err != nil {
		return store.Word{}, err
	}
	return all[i], nil
}

// Get looks a word up by id.
func (s *Store) Get(ctx context.Context, id int64) (*store.Word, error) {
	return s.repo.WordByID(ctx, id)
}

// readWordFile loads one word per line; blank lines and # comments are skipped.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		out = append(out, w)
	}
	return out, sc.Err()
}

func cryptoIntn(n int) (int, error) {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(nBig.Int64()), nil
}
