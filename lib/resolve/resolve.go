// Package resolve defines the common contract every repository adapter
// translates into: a canonical access vocabulary, a file listing shape,
// and the dispatcher that picks an adapter for a source.
package resolve

import (
	"context"
)

// AccessState is the canonical access vocabulary. Every source-specific
// status code maps onto exactly one of these.
type AccessState string

const (
	AccessPublic      AccessState = "public"
	AccessRestricted  AccessState = "restricted"
	AccessPending     AccessState = "pending"
	AccessWithdrawn   AccessState = "withdrawn"
	AccessNotFound    AccessState = "not_found"
	AccessUnreachable AccessState = "unreachable"
	AccessUnknown     AccessState = "unknown"
)

// FileEntry is one file discovered in a listing. Path may be empty for flat
// listings. Size, LastModified and DownloadUrl are best-effort metadata,
// empty when the upstream does not report them.
type FileEntry struct {
	Name         string `json:"name"`
	Path         string `json:"path,omitempty"`
	Size         string `json:"size,omitempty"`
	LastModified string `json:"last_modified,omitempty"`
	DownloadUrl  string `json:"download_url,omitempty"`
}

// Result is the unified outcome of one resolution.
//
// Files == nil means the listing step was never reached or failed
// structurally; an empty non-nil slice means the listing step succeeded and
// found zero entries. Files carries no omitempty so the distinction survives
// serialization: nil renders as `"files": null`, empty as `"files": []`.
type Result struct {
	Access  AccessState `json:"access"`
	RawCode string      `json:"raw_access_code,omitempty"`
	Files   []FileEntry `json:"files"`
}

// Adapter is the capability set a repository adapter implements.
//
// Neither method returns an error: transport and parse failures are absorbed
// at this boundary. ResolveAccess reports (AccessUnreachable, "") on any
// transport failure, ResolveFiles reports nil.
type Adapter interface {
	ResolveAccess(ctx context.Context, accession string) (AccessState, string)
	ResolveFiles(ctx context.Context, accession string) []FileEntry
}

// Process runs the two-step resolution against one adapter. The listing step
// is skipped entirely when the access step already reported a terminal
// "no data" state, so no listing network call is wasted.
func Process(ctx context.Context, a Adapter, accession string) Result {
	access, raw := a.ResolveAccess(ctx, accession)
	if access == AccessNotFound || access == AccessUnreachable {
		return Result{Access: access, RawCode: raw}
	}
	return Result{
		Access:  access,
		RawCode: raw,
		Files:   a.ResolveFiles(ctx, accession),
	}
}

// StatusTable maps one source's status codes onto the canonical vocabulary.
type StatusTable map[string]AccessState

// Normalize looks a raw code up. A code with no entry maps to AccessUnknown
// with the raw code passed through so it is never silently dropped.
func (t StatusTable) Normalize(code string) (AccessState, string) {
	if state, ok := t[code]; ok {
		return state, code
	}
	return AccessUnknown, code
}
