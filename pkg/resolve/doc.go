// Package resolve implements the resilient field resolution and
// interaction engine: it maps a semantic field role (recipient input,
// compose trigger, send button) to a concrete, interactable element on
// an unknown or drifting page layout, with bounded latency and a
// truthful report when no match exists.
//
// # Resolution waterfall
//
// A Waterfall owns one resolution session over one Surface. Before any
// search, the AuthGate checks for a login wall; a blocked session stays
// blocked and never touches the page again. Otherwise four strategy
// tiers run in fixed order, short-circuiting on the first live, visible
// match:
//
//  1. ProfileRegistry: curated per-service selector catalogs
//  2. SemanticLocator: provider-agnostic ARIA/placeholder conventions
//  3. HeuristicScorer: keyword-scored ranking of a batch DOM snapshot
//  4. VisualTextLocator: visible-text patterns with descendant search
//
// Strategy order is the primary tie-break: an earlier tier's first hit
// always beats a later tier's higher score. Scores only rank candidates
// within the heuristic tier's own set.
//
// # Interaction
//
// A Resolution carries a selector, never an element handle. The Executor
// re-acquires the live element before every attempt and runs the
// fill/verify/retry protocol: bounded retries with fixed backoff, an
// ordered list of write methods, and loose substring read-back
// verification.
//
// # Errors
//
// Individual probe misses are expected and swallowed. Exhausting every
// tier is the normal NotFound outcome, not an error. Only a SurfaceError
// (closed context, crashed page) is fatal to the session and propagates.
//
// The engine holds no state across sessions and learns nothing: the same
// page and role always walk the same search order.
package resolve
