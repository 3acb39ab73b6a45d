package resolve

import (
	"context"
	"fmt"
	"log/slog"
)

// Source identifies one supported upstream repository.
type Source string

// ErrUnknownSource reports a source id with no registered adapter. This is a
// caller mistake, not an upstream condition, so unlike everything else it
// surfaces as an error instead of a degraded Result.
var ErrUnknownSource = fmt.Errorf("unknown source")

// Resolver dispatches accessions to registered adapters. It holds no mutable
// state after construction and is safe for concurrent use.
type Resolver struct {
	adapters map[Source]Adapter
}

func NewResolver() *Resolver {
	return &Resolver{adapters: map[Source]Adapter{}}
}

// Register binds an adapter to a source id, replacing any previous binding.
func (r *Resolver) Register(src Source, a Adapter) {
	r.adapters[src] = a
}

// Sources reports the registered source ids, unordered.
func (r *Resolver) Sources() []Source {
	out := make([]Source, 0, len(r.adapters))
	for src := range r.adapters {
		out = append(out, src)
	}
	return out
}

// Resolve runs one full resolution. An empty accession is never sent
// upstream; it resolves to not_found immediately.
func (r *Resolver) Resolve(ctx context.Context, src Source, accession string) (Result, error) {
	adapter, ok := r.adapters[src]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownSource, src)
	}
	if accession == "" {
		return Result{Access: AccessNotFound}, nil
	}

	slog.DebugContext(ctx, "resolving accession", "source", src, "accession", accession)
	return Process(ctx, adapter, accession), nil
}
