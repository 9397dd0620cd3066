// Package arff parses the ARFF wire format and exposes a file-backed
// instance stream over its data rows.
package arff

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/gustavo-munhoz/rivu/core"
)

func isCommentOrEmpty(s string) bool {
	t := strings.TrimSpace(s)
	return t == "" || strings.HasPrefix(t, "%")
}

func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// splitCSVPreservingQuotes splits a data line on commas, but treats
// quoted segments (single or double quotes) as atomic so a quoted
// nominal value may itself contain a comma.
func splitCSVPreservingQuotes(line string) []string {
	var fields []string
	var cur strings.Builder
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			cur.WriteByte(c)
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
			cur.WriteByte(c)
		case c == ',':
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	fields = append(fields, cur.String())
	return fields
}

// ParseHeader reads ARFF header directives (@relation, @attribute) from r
// up to and including the @data line, returning the resolved header.
// classIndex selects which attribute position is the class; pass -1 to
// default to the last attribute.
func ParseHeader(r *bufio.Reader, classIndex int) (*core.InstanceHeader, error) {
	var relation string
	var attrs []*core.Attribute
	var pending string
	havePending := false

	for {
		var line string
		if havePending {
			line, havePending = pending, false
		} else {
			l, err := r.ReadString('\n')
			if l == "" && err != nil {
				return nil, errors.New("ARFF file ended before @relation")
			}
			line = l
		}
		if isCommentOrEmpty(line) {
			continue
		}
		low := strings.ToLower(strings.TrimSpace(line))
		if strings.HasPrefix(low, "@relation") {
			raw := strings.TrimSpace(line)[len("@relation"):]
			relation = stripQuotes(strings.TrimSpace(raw))
			break
		}
		return nil, errors.Errorf("expected @relation, got: %s", strings.TrimSpace(line))
	}

	for {
		line, err := r.ReadString('\n')
		if line == "" && err != nil {
			return nil, errors.New("ARFF file ended before @data")
		}
		if isCommentOrEmpty(line) {
			continue
		}
		low := strings.ToLower(strings.TrimSpace(line))
		if strings.HasPrefix(low, "@attribute") {
			name, attr, err := parseAttributeLine(line)
			if err != nil {
				return nil, err
			}
			_ = name
			attrs = append(attrs, attr)
			continue
		}
		if strings.HasPrefix(low, "@data") {
			break
		}
		return nil, errors.Errorf("unsupported header directive: %s", strings.TrimSpace(line))
	}

	if len(attrs) == 0 {
		return nil, errors.New("ARFF header declares no attributes")
	}

	ci := classIndex
	if ci < 0 {
		ci = len(attrs) - 1
	}
	if ci < 0 || ci >= len(attrs) {
		return nil, errors.Errorf("class index %d out of range for %d attributes", ci, len(attrs))
	}

	return core.NewInstanceHeader(relation, attrs, ci), nil
}

func parseAttributeLine(line string) (string, *core.Attribute, error) {
	rest := strings.TrimSpace(line)
	low := strings.ToLower(rest)
	if !strings.HasPrefix(low, "@attribute") {
		return "", nil, errors.New("line is not @attribute")
	}
	rest = strings.TrimSpace(rest[len("@attribute"):])

	var name, afterName string
	if len(rest) > 0 && (rest[0] == '\'' || rest[0] == '"') {
		quote := rest[0]
		end := strings.IndexByte(rest[1:], quote)
		if end < 0 {
			return "", nil, errors.New("attribute name without closing quote")
		}
		end++
		name = rest[1:end]
		afterName = strings.TrimSpace(rest[end+1:])
	} else {
		parts := strings.SplitN(rest, " ", 2)
		if len(parts) < 2 {
			fields := strings.Fields(rest)
			if len(fields) < 2 {
				return "", nil, errors.New("attribute type is missing")
			}
			name = fields[0]
			afterName = strings.TrimSpace(strings.TrimPrefix(rest, name))
		} else {
			name = parts[0]
			afterName = strings.TrimSpace(parts[1])
		}
	}

	lowType := strings.ToLower(afterName)
	switch {
	case strings.HasPrefix(lowType, "numeric"), strings.HasPrefix(lowType, "real"), strings.HasPrefix(lowType, "integer"):
		return name, &core.Attribute{Name: name, Kind: core.AttributeKindNumeric}, nil
	case strings.HasPrefix(afterName, "{"):
		close := strings.LastIndex(afterName, "}")
		if close < 0 {
			return "", nil, errors.New("nominal set without closing '}'")
		}
		inside := afterName[1:close]
		var values []string
		for _, v := range strings.Split(inside, ",") {
			v = stripQuotes(strings.TrimSpace(v))
			if v != "" {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			return "", nil, errors.New("empty nominal domain")
		}
		return name, &core.Attribute{Name: name, Kind: core.AttributeKindNominal, Values: core.NewAttributeValues(values...)}, nil
	default:
		return "", nil, errors.Errorf("attribute kind not supported: %s", afterName)
	}
}

// ParseInstanceValues parses one ARFF data row into the positional
// float64 vector a core.VectorInstance holds, resolving nominal tokens to
// their domain index and "?" to NaN (missing).
func ParseInstanceValues(header *core.InstanceHeader, line string, log zerolog.Logger) ([]float64, error) {
	tokens := splitCSVPreservingQuotes(line)
	if len(tokens) != len(header.Attributes) {
		return nil, errors.Errorf("row has %d columns, header declares %d", len(tokens), len(header.Attributes))
	}

	values := make([]float64, len(tokens))
	for i, raw := range tokens {
		raw = strings.TrimSpace(raw)
		if raw == "?" {
			values[i] = nanValue()
			continue
		}

		attr := header.Attributes[i]
		if attr.IsNumeric() {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid numeric value %q for attribute #%d", raw, i)
			}
			values[i] = v
			continue
		}

		key := stripQuotes(raw)
		idx, ok := attr.Values.Lookup(key)
		if !ok {
			return nil, errors.Errorf("nominal value %q not found in domain of attribute #%d (%s)", key, i, attr.Name)
		}
		values[i] = float64(idx)
	}
	return values, nil
}

func nanValue() float64 { return core.MissingValue().Value() }
