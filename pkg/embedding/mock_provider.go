package embedding

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"
)

// MockProvider is a deterministic, offline embedder: a hashed bag-of-words
// projected into a fixed-dimension unit vector. Token overlap maps to cosine
// similarity, which is enough for development mode and tests.
type MockProvider struct {
	Dim int
}

func NewMockProvider(dim int) Provider {
	if dim <= 0 {
		dim = 768
	}
	return &MockProvider{Dim: dim}
}

func (p *MockProvider) Generate(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, p.Dim)
	for _, token := range tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(token))
		vec[h.Sum32()%uint32(p.Dim)] += 1
	}
	return normalizeVector(vec), nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
