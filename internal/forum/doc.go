// Package forum extracts structured tag metadata from the forum's rendered
// post pages.
//
// The package is organized around four concerns:
//   - scanner: streaming tokenizer isolating the primary post's tag pills
//     from visually similar sidebar tag lists
//   - fetcher: allow-listed retrieval with a two-attempt fallback (first-page
//     "/0" suffix, then the bare URL)
//   - title: ordered title extraction strategies with markup stripping
//   - process: tag filtering, substitution and merge policies
//
// Built on specialized libraries:
//   - x/net/html: token-level HTML scanning
//   - goquery: CSS selectors for title strategies
//   - chardet: character encoding detection
//   - bluemonday: markup stripping
//   - resty + retryablehttp: pooled, timeout-bounded HTTP
//
// The structural class markers of the forum's HTML are generated by its
// front-end build and injected via configuration; see Markers.
package forum
