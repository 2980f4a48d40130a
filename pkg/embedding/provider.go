package embedding

import "context"

// Provider generates a fixed-length vector for a piece of text. Output must be
// deterministic for identical input.
type Provider interface {
	Generate(ctx context.Context, text string) ([]float32, error)
}
