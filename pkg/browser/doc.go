// Package browser provides the Playwright-backed automation surface
// consumed by the resolution engine.
//
// A Manager owns the Playwright driver and a set of named sessions. Each
// Session wraps one browser, context, and page; Session.Surface exposes
// the page as the narrow resolve.Surface capability set, translating
// Playwright's error shapes into the engine's contract (timeouts are
// misses, closed targets are session-fatal surface faults).
//
// No two concurrent resolution sessions share a Session. Screenshots and
// page digests exist for failure diagnostics only.
package browser
