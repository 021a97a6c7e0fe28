// Package catalogs provides embedded showcase catalogs.
package catalogs

import _ "embed"

// ShowcaseYAML is the bundled showcase catalog, embedded at build time.
// It is used when no catalog path or directory is configured.
//
//go:embed showcase/catalog.yaml
var ShowcaseYAML []byte
