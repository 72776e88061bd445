// Package models defines domain entities and mutation rules for the devlist playlist manager.
//
// The package contains three entity groups:
//
// 1. The playlist aggregate:
//   - [Playlist] : named, owned collection of video entries; the unit of
//     persistence, authorization, and optimistic concurrency
//   - [Video] : one watchable reference embedded in a playlist, tagged as
//     [KindYouTube] or [KindLink], carrying a watch [Status] and a note
//
// 2. Mutation inputs:
//   - [NewVideo] : input for adding an entry; validated per kind
//   - [VideoPatch] : partial title/note patch where nil means "not provided"
//     (distinct from an explicitly empty string)
//
// 3. Identity:
//   - [Owner] : the opaque actor identity that owns playlists; compared for
//     equality only
//
// All mutation rules (non-empty trimmed names, kind-specific payloads, the
// duplicate-entry check, status literals) live on the aggregate so every
// store implementation applies identical semantics.
package models
