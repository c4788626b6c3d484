package core

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/commitcritic/commitcritic/internal/contract"
	"github.com/commitcritic/commitcritic/schema"
)

// EmbeddingGenerator wraps the embedding oracle with batching.
type EmbeddingGenerator struct {
	client contract.EmbeddingClient
}

// NewEmbeddingGenerator creates a generator backed by the given oracle.
func NewEmbeddingGenerator(client contract.EmbeddingClient) *EmbeddingGenerator {
	return &EmbeddingGenerator{client: client}
}

// Generate produces an embedding for a single text.
func (g *EmbeddingGenerator) Generate(ctx context.Context, text string) ([]float32, error) {
	vecs, err := g.GenerateBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// GenerateBatch produces embeddings for multiple texts, issuing one oracle
// call per chunk of up to the batch limit. Each chunk's results are reordered
// by the oracle-returned index before concatenation, since response order is
// not guaranteed.
func (g *EmbeddingGenerator) GenerateBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	all := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += contract.EmbedBatchLimit {
		end := min(start+contract.EmbedBatchLimit, len(texts))

		chunk, err := g.client.Embed(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embedding batch at offset %d: %w", start, err)
		}

		sort.Slice(chunk, func(i, j int) bool { return chunk[i].Index < chunk[j].Index })
		for _, item := range chunk {
			all = append(all, item.Vector)
		}
	}
	return all, nil
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Either vector having zero norm yields 0.0 rather than a division by zero.
func CosineSimilarity(a, b []float32) float64 {
	n := min(len(a), len(b))
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// VectorToBytes encodes a vector as little-endian float32 bytes, the storage
// representation for embeddings.
func VectorToBytes(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, f := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// BytesToVector decodes little-endian float32 bytes back into a vector.
// Trailing partial values are dropped.
func BytesToVector(buf []byte) []float32 {
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec
}

// FormatCommitForEmbedding combines commit metadata into a text
// representation that captures semantic meaning for similarity search.
func FormatCommitForEmbedding(message string, commitType, scope *string, filesChanged []string) string {
	var parts []string

	if commitType != nil {
		parts = append(parts, "Type: "+*commitType)
	}
	if scope != nil {
		parts = append(parts, "Scope: "+*scope)
	}
	parts = append(parts, "Message: "+message)

	if len(filesChanged) > 0 {
		names := make([]string, 0, 5)
		for i, f := range filesChanged {
			if i == 5 {
				break
			}
			if idx := strings.LastIndex(f, "/"); idx >= 0 {
				f = f[idx+1:]
			}
			names = append(names, f)
		}
		parts = append(parts, "Files: "+strings.Join(names, ", "))
	}
	return strings.Join(parts, " | ")
}

// FormatDiffForEmbedding creates a text representation of staged changes for
// finding similar exemplars in writer mode.
func FormatDiffForEmbedding(diff schema.DiffInfo) string {
	var parts []string

	if len(diff.Files) > 0 {
		files := diff.Files
		if len(files) > 10 {
			files = files[:10]
		}
		parts = append(parts, "Files changed: "+strings.Join(files, ", "))
	}
	parts = append(parts, fmt.Sprintf("Changes: +%d -%d", diff.Additions, diff.Deletions))

	if key := extractKeyChanges(diff.DiffText); key != "" {
		parts = append(parts, "Key changes: "+key)
	}
	return strings.Join(parts, " | ")
}

// extractKeyChanges pulls declaration-level signal out of a unified diff.
func extractKeyChanges(diffText string) string {
	declPrefixes := []string{"def ", "async def ", "function ", "const ", "class ", "func "}

	seen := make(map[string]struct{})
	var items []string
	add := func(item string) {
		if _, ok := seen[item]; !ok && len(items) < 10 {
			seen[item] = struct{}{}
			items = append(items, item)
		}
	}

	for _, line := range strings.Split(diffText, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---") ||
			strings.HasPrefix(line, "@@") || strings.HasPrefix(line, "diff --git") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "+"):
			content := strings.TrimSpace(line[1:])
			if name := declName(content, declPrefixes); name != "" {
				add("added " + name)
			} else if strings.HasPrefix(content, "import ") || strings.HasPrefix(content, "from ") || strings.HasPrefix(content, "require(") {
				add("modified imports")
			}
		case strings.HasPrefix(line, "-"):
			content := strings.TrimSpace(line[1:])
			if name := declName(content, declPrefixes); name != "" {
				add("removed " + name)
			}
		}
	}
	return strings.Join(items, ", ")
}

// declName extracts the declared identifier when a line starts with one of
// the declaration prefixes.
func declName(content string, prefixes []string) string {
	for _, p := range prefixes {
		if strings.HasPrefix(content, p) {
			head, _, _ := strings.Cut(content, "(")
			fields := strings.Fields(head)
			if len(fields) > 0 {
				return fields[len(fields)-1]
			}
		}
	}
	return ""
}
