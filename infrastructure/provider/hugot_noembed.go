//go:build !embed_model

package provider

import "embed"

// embeddedModelFS is empty without the embed_model build tag; the model must
// be present on disk instead.
var embeddedModelFS embed.FS

const hasEmbeddedModel = false
