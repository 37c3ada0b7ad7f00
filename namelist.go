/*
Copyright © 2026 the GyroKit authors.
This file is part of GyroKit.

GyroKit is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

GyroKit is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with GyroKit.  If not, see <http://www.gnu.org/licenses/>.
*/

package gyrokit

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// parseFortranValue interprets a scalar token the way a Fortran namelist
// reader would: logicals (.true./.t./T), integers, reals (with d or e
// exponent markers), falling back to an unquoted string.
func parseFortranValue(tok string) interface{} {
	tok = strings.TrimSpace(tok)
	if n := len(tok); n >= 2 && (tok[0] == '\'' || tok[0] == '"') && tok[n-1] == tok[0] {
		return tok[1 : n-1]
	}
	switch strings.ToLower(tok) {
	case ".true.", ".t.", "t", "true":
		return true
	case ".false.", ".f.", "f", "false":
		return false
	}
	if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return int(i)
	}
	ftok := strings.NewReplacer("d", "e", "D", "E").Replace(tok)
	if f, err := strconv.ParseFloat(ftok, 64); err == nil {
		return f
	}
	return tok
}

// formatFortranValue renders a value in the notation Fortran namelist
// readers accept.
func formatFortranValue(v interface{}) string {
	switch x := v.(type) {
	case bool:
		if x {
			return ".true."
		}
		return ".false."
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	}
	return fmt.Sprint(v)
}

// Namelist is a parsed Fortran namelist file: named &group ... / blocks
// holding key = value assignments. Groups may repeat (GENE writes one
// &species block per species); instances are kept in file order.
type Namelist struct {
	groups map[string][]map[string]interface{}
	order  []string
}

// ParseNamelist reads a Fortran namelist. Lines outside &group.../ blocks
// and comments introduced by ! are ignored. Array-valued assignments keep
// only the first element, which is all the adapters here need.
func ParseNamelist(r io.Reader) (*Namelist, error) {
	nl := &Namelist{groups: make(map[string][]map[string]interface{})}
	var current map[string]interface{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '!'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "&"):
			name := strings.ToLower(strings.TrimSpace(line[1:]))
			current = make(map[string]interface{})
			if _, seen := nl.groups[name]; !seen {
				nl.order = append(nl.order, name)
			}
			nl.groups[name] = append(nl.groups[name], current)
		case line == "/":
			current = nil
		default:
			if current == nil {
				continue
			}
			eq := strings.IndexByte(line, '=')
			if eq < 0 {
				continue
			}
			key := strings.ToLower(strings.TrimSpace(line[:eq]))
			val := strings.TrimSpace(line[eq+1:])
			if !strings.ContainsAny(val, "'\"") {
				// arrays: keep the first element
				if cut := strings.IndexAny(val, ", \t"); cut >= 0 {
					val = val[:cut]
				}
			}
			current[key] = parseFortranValue(val)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("gyrokit: reading namelist: %w", err)
	}
	return nl, nil
}

// Group returns the first instance of the named group, or nil.
func (nl *Namelist) Group(name string) map[string]interface{} {
	gs := nl.groups[strings.ToLower(name)]
	if len(gs) == 0 {
		return nil
	}
	return gs[0]
}

// Groups returns all instances of the named group in file order.
func (nl *Namelist) Groups(name string) []map[string]interface{} {
	return nl.groups[strings.ToLower(name)]
}

// GroupNames returns the distinct group names in first-appearance order.
func (nl *Namelist) GroupNames() []string { return nl.order }

// Typed accessors with defaults. Namelist values are whatever
// parseFortranValue produced; ints promote to floats where a float is
// asked for.

func nlFloat(g map[string]interface{}, key string, def float64) float64 {
	switch v := g[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

func nlInt(g map[string]interface{}, key string, def int) int {
	switch v := g[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

func nlBool(g map[string]interface{}, key string, def bool) bool {
	if v, ok := g[key].(bool); ok {
		return v
	}
	return def
}

func nlString(g map[string]interface{}, key, def string) string {
	if v, ok := g[key].(string); ok {
		return v
	}
	return def
}
