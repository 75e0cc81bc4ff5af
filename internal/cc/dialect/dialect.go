// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package dialect holds the C standard enum shared by the lexer, the macro
// table (predefined macro values depend on it), and the engine
// configuration, kept dependency-free so none of those packages need to
// import each other just to agree on what "c_standard" means.
package dialect

import "fmt"

// Dialect selects the C standard revision the engine parses against. It
// gates the keyword set (C9) and the value of __STDC_VERSION__ (C4).
type Dialect int

const (
	C89 Dialect = iota
	C99
	C11
	C17
	C23
)

func (d Dialect) String() string {
	switch d {
	case C89:
		return "c89"
	case C99:
		return "c99"
	case C11:
		return "c11"
	case C17:
		return "c17"
	case C23:
		return "c23"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// ParseDialect parses the canonical lowercase spellings ("c89".."c23"),
// accepted case-insensitively.
func ParseDialect(s string) (Dialect, error) {
	switch s {
	case "c89", "C89":
		return C89, nil
	case "c99", "C99":
		return C99, nil
	case "c11", "C11":
		return C11, nil
	case "c17", "C17":
		return C17, nil
	case "c23", "C23":
		return C23, nil
	default:
		return 0, fmt.Errorf("dialect: unrecognized c_standard %q", s)
	}
}

// StdcVersion returns the value __STDC_VERSION__ expands to under this
// dialect. C89 predates the macro in the standard but compilers
// conventionally report 199409L for it.
func (d Dialect) StdcVersion() string {
	switch d {
	case C89:
		return "199409L"
	case C99:
		return "199901L"
	case C11:
		return "201112L"
	case C17:
		return "201710L"
	case C23:
		return "202311L"
	default:
		return "0L"
	}
}

// AtLeast reports whether d is the same as or newer than other.
func (d Dialect) AtLeast(other Dialect) bool {
	return d >= other
}

// MarshalYAML renders d as its canonical lowercase spelling, so
// Configuration files read naturally (c_standard: c17) instead of
// carrying a raw integer tag.
func (d Dialect) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML parses the canonical spelling back into a Dialect.
func (d *Dialect) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseDialect(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
