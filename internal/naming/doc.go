// Package naming extracts season/episode/quality metadata from captions and
// filenames via ordered first-match-wins rule tables, resolves user naming
// templates, and builds the target upload filename.
package naming
