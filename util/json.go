// util/json.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DuplicateJSONKey represents a duplicate key found in JSON.
type DuplicateJSONKey struct {
	Path string // JSON path to the object holding the duplicate, e.g. "drawing.stroke"
	Key  string
}

func (d DuplicateJSONKey) String() string {
	if d.Path == "" {
		return d.Key
	}
	return d.Path + "." + d.Key
}

// FindDuplicateJSONKeys returns all keys that appear more than once in
// the same object. encoding/json silently keeps the last value for a
// repeated key, which hides typos in hand-edited config files.
func FindDuplicateJSONKeys(data []byte) []DuplicateJSONKey {
	dec := json.NewDecoder(bytes.NewReader(data))
	var dups []DuplicateJSONKey
	_ = walkJSONValue(dec, nil, &dups)
	return dups
}

func walkJSONValue(dec *json.Decoder, path []string, dups *[]DuplicateJSONKey) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch tok {
	case json.Delim('{'):
		seen := make(map[string]bool)
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return err
			}
			key, ok := kt.(string)
			if !ok {
				return errors.New("object key is not a string")
			}
			if seen[key] {
				*dups = append(*dups, DuplicateJSONKey{Path: strings.Join(path, "."), Key: key})
			}
			seen[key] = true
			if err := walkJSONValue(dec, append(path, key), dups); err != nil {
				return err
			}
		}
		_, err = dec.Token() // '}'
		return err
	case json.Delim('['):
		for i := 0; dec.More(); i++ {
			if err := walkJSONValue(dec, append(path, fmt.Sprintf("[%d]", i)), dups); err != nil {
				return err
			}
		}
		_, err = dec.Token() // ']'
		return err
	default:
		return nil
	}
}

// CheckJSON reports malformed JSON or duplicate keys in data.
func CheckJSON(data []byte) error {
	if !json.Valid(data) {
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		return errors.New("invalid JSON")
	}
	if dups := FindDuplicateJSONKeys(data); len(dups) > 0 {
		var s []string
		for _, d := range dups {
			s = append(s, d.String())
		}
		return fmt.Errorf("duplicate JSON keys: %s", strings.Join(s, ", "))
	}
	return nil
}
