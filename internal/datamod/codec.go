// SPDX-License-Identifier: MPL-2.0

package datamod

import (
	"maps"
	"slices"
	"strings"
)

type (
	// Codec decodes the content of a data module into the neutral tree
	// understood by varmap (see varmap.Object).
	Codec interface {
		Decode(data []byte, filename string) (any, error)
	}

	// CodecFunc adapts an ordinary function to the Codec interface.
	CodecFunc func(data []byte, filename string) (any, error)
)

// Decode implements Codec.
func (f CodecFunc) Decode(data []byte, filename string) (any, error) {
	return f(data, filename)
}

// defaultCodecs returns the built-in codecs keyed by lower-case extension.
func defaultCodecs(maxFileSize int64) map[string]Codec {
	js := jsCodec{maxFileSize: maxFileSize}
	cue := cueCodec{maxFileSize: maxFileSize}
	yml := CodecFunc(decodeYAML)
	return map[string]Codec{
		".js":   js,
		".cjs":  js,
		".mjs":  js,
		".json": cue,
		".cue":  cue,
		".yaml": yml,
		".yml":  yml,
		".toml": CodecFunc(decodeTOML),
		".hcl":  CodecFunc(decodeHCL),
		".env":  CodecFunc(decodeEnv),
	}
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func sortedExtensions(codecs map[string]Codec) []string {
	return slices.Sorted(maps.Keys(codecs))
}
