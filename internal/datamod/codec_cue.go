// SPDX-License-Identifier: MPL-2.0

package datamod

import (
	"github.com/stylevars/stylevars/pkg/cueutil"
)

// cueCodec decodes .cue and .json modules; the whole file is the export.
type cueCodec struct {
	maxFileSize int64
}

func (c cueCodec) Decode(data []byte, filename string) (any, error) {
	v, err := cueutil.Compile(data,
		cueutil.WithFilename(filename),
		cueutil.WithMaxFileSize(c.maxFileSize))
	if err != nil {
		return nil, err
	}
	return cueutil.ToTree(v)
}
