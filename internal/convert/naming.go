// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"github.com/draphael123/conversions/pkg/types"
)

// OutputName derives the artifact name for an input converted with kind.
// A recognised source extension (case-insensitive) is replaced by the
// target extension; otherwise the target extension is appended.
func OutputName(name string, spec types.KindSpec, kind types.ConversionKind) string {
	if ext := spec.MatchExtension(name); ext != "" {
		name = name[:len(name)-len(ext)]
	}
	return name + kind.TargetExtension()
}
