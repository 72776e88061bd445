// Package server provides HTTP routing, middleware, and the REST API for the playlist service.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method-qualified patterns.
//
// # API Handlers
//
// [OwnerHandler] registers owner identities and resolves tokens; the owner id is the token,
// presented in the X-Devlist-Token header or a "token" cookie.
//
// [PlaylistHandler] serves the playlist collection and the nested video-entry routes.
// Handlers decode JSON bodies, validate them, call the [store.Store], and map the
// store's sentinel errors onto status codes: validation 400, missing or bad token 401,
// not found 404, duplicate entry and stale version 409.
//
// Playlist reads are public. The owner id is stripped from the response unless the
// request's token matches.
//
// # Middleware
//
// [Logging] records each request with the shared logger, [Recover] turns handler
// panics into 500 responses, and [RateLimit] throttles the whole API surface.
package server
