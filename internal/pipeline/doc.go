// Package pipeline drives one inbound media event through the rename
// pipeline: dedup check, target-name resolution, download, best-effort
// metadata rewrite and thumbnail preparation, upload with retry, and
// guaranteed cleanup of every transient artifact.
package pipeline
