package words

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tamazightdev/tamazight-multi-lingual-word-game/domain"
)

//go:embed words.json
var bankRawJSON []byte

var (
	ErrEmptyBank = errors.New("empty-word-bank")
	ErrEmptyWord = errors.New("empty-word")
)

// Word is a Tamazight vocabulary entry with its translations.
type Word struct {
	Text         string                     `json:"word"`
	Translations map[domain.Language]string `json:"translation"`
}

func (w Word) Translation(lang domain.Language) (string, bool) {
	t, ok := w.Translations[lang]
	return t, ok && t != ""
}

// DefaultBank returns the word bank shipped with the binary.
func DefaultBank() ([]Word, error) {
	return Parse(bankRawJSON)
}

// LoadFile reads a word bank from a JSON file with the same layout as the embedded one.
func LoadFile(path string) ([]Word, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

func Parse(raw []byte) ([]Word, error) {
	var bank []Word
	if err := json.Unmarshal(raw, &bank); err != nil {
		return nil, fmt.Errorf("decode word bank: %w", err)
	}
	if len(bank) == 0 {
		return nil, ErrEmptyBank
	}
	for i := range bank {
		bank[i].Text = strings.TrimSpace(bank[i].Text)
		if bank[i].Text == "" {
			return nil, fmt.Errorf("%w: entry %d", ErrEmptyWord, i)
		}
	}
	return bank, nil
}
