// Package openapi embeds the OpenAPI document of the sighting registry API.
// The serve command hands it to the handler package, which serves it at
// /openapi.yaml.
package openapi

import _ "embed"

// Document is openapi.yaml, embedded at compile time.
//
//go:embed openapi.yaml
var Document []byte
