// Package sitecrawl provides an AI-assisted, single-site web crawler.
// It walks a site breadth-first from a seed URL, scores each page against
// user instructions, extracts structured content from relevant pages, and
// turns the result into documents ready for retrieval-augmented generation.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, sqlite/).
package sitecrawl
