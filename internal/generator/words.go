package generator

import (
	"context"
	"sync"

	"imposterartist/internal/domain"
)

// DrawableWords is a curated list of nouns that can be sketched in a few
// strokes without letters or numbers.
var DrawableWords = []string{
	// Animals
	"cat", "dog", "fish", "snail", "giraffe",
	"octopus", "penguin", "spider", "turtle", "elephant",
	"rabbit", "snake", "owl", "crab", "butterfly",

	// Food
	"pizza", "banana", "ice cream", "carrot", "cherry",
	"burger", "donut", "pineapple", "cupcake", "egg",

	// Objects
	"umbrella", "glasses", "key", "ladder", "scissors",
	"candle", "anchor", "hammer", "guitar", "lamp",
	"clock", "kite", "balloon", "crown", "chair",

	// Places and things outside
	"house", "castle", "tent", "bridge", "lighthouse",
	"volcano", "island", "tree", "mountain", "rainbow",
	"cloud", "sun", "moon", "star", "snowman",

	// Vehicles
	"bicycle", "rocket", "boat", "train", "helicopter",
	"car", "submarine", "skateboard", "tractor", "airplane",
}

// WordList suggests words from a fixed list, avoiding repeats until the
// list runs out.
type WordList struct {
	words  []string
	rng    domain.Randomizer
	mu     sync.Mutex
	recent map[string]bool
}

// NewWordList creates a WordList. A nil or empty list uses DrawableWords;
// a nil rng uses domain.DefaultRandomizer.
func NewWordList(words []string, rng domain.Randomizer) *WordList {
	if len(words) == 0 {
		words = DrawableWords
	}
	if rng == nil {
		rng = domain.DefaultRandomizer
	}
	return &WordList{
		words:  words,
		rng:    rng,
		recent: make(map[string]bool),
	}
}

// SuggestWord returns a word not handed out since the list was last exhausted
func (l *WordList) SuggestWord(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fresh := make([]string, 0, len(l.words))
	for _, w := range l.words {
		if !l.recent[w] {
			fresh = append(fresh, w)
		}
	}
	if len(fresh) == 0 {
		l.recent = make(map[string]bool)
		fresh = l.words
	}

	word := fresh[l.rng.Intn(len(fresh))]
	l.recent[word] = true
	return word, nil
}
