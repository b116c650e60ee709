// SPDX-License-Identifier: MPL-2.0

package datamod

import (
	"maps"
	"regexp"
	"slices"

	"github.com/joho/godotenv"

	"github.com/stylevars/stylevars/pkg/varmap"
)

// envKeyPattern finds assignment keys to recover declaration order.
var envKeyPattern = regexp.MustCompile(`(?m)^[ \t]*(?:export[ \t]+)?([A-Za-z_][A-Za-z0-9_.\-]*)[ \t]*[=:]`)

// decodeEnv decodes dotenv pairs. Every value is a string.
func decodeEnv(data []byte, _ string) (any, error) {
	values, err := godotenv.UnmarshalBytes(data)
	if err != nil {
		return nil, err
	}

	obj := varmap.NewObject()
	for _, m := range envKeyPattern.FindAllSubmatch(data, -1) {
		key := string(m[1])
		if v, ok := values[key]; ok {
			obj.Set(key, v)
		}
	}
	for _, key := range slices.Sorted(maps.Keys(values)) {
		if _, seen := obj.Get(key); !seen {
			obj.Set(key, values[key])
		}
	}
	return obj, nil
}
