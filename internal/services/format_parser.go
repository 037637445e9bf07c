package services

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"infinite-experiment/quartermaster/internal/constants"
)

// ParseResult carries the decoded candidate rows of one document together
// with everything that went wrong while decoding them. Valid is false only
// when the document as a whole is unusable: undecodable, over the size
// limit, or left with zero usable rows.
type ParseResult struct {
	Valid    bool
	Data     []CandidateRecord
	Warnings []string
	Errors   []string
}

// FormatParser decodes uploaded documents into CandidateRecords. It is
// stateless and safe for concurrent use.
type FormatParser struct {
	maxBytes int
}

func NewFormatParser(maxBytes int) *FormatParser {
	return &FormatParser{maxBytes: maxBytes}
}

// ParseDocument decodes content according to the declared format. Row-level
// problems are accumulated, never returned as an error; the only error-like
// outcome is Valid=false.
func (p *FormatParser) ParseDocument(content string, format constants.DocumentFormat, entity constants.EntityKind) ParseResult {
	if p.maxBytes > 0 && len(content) > p.maxBytes {
		return ParseResult{
			Valid:  false,
			Errors: []string{fmt.Sprintf("%s (%d bytes, limit %d)", constants.MsgDocumentTooLarge, len(content), p.maxBytes)},
		}
	}

	switch format {
	case constants.FormatDelimitedText:
		return p.parseDelimited(content, entity)
	case constants.FormatStructuredList:
		return p.parseStructured(content, entity)
	default:
		return ParseResult{
			Valid:  false,
			Errors: []string{fmt.Sprintf("%s: %q", constants.MsgUnknownFormat, format)},
		}
	}
}

func (p *FormatParser) parseDelimited(content string, entity constants.EntityKind) ParseResult {
	var res ParseResult

	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("malformed CSV: %v", err))
		return res
	}
	if len(rows) == 0 {
		res.Errors = append(res.Errors, constants.MsgEmptyDocument)
		return res
	}

	// First row is the header. Columns map onto the canonical field set by
	// name, case-insensitively; unrecognized columns are tolerated.
	header := rows[0]
	columns := make([]string, len(header))
	seen := map[string]bool{}
	for i, h := range header {
		field, ok := canonicalFieldName(entity, h)
		if !ok {
			columns[i] = ""
			res.Warnings = append(res.Warnings, fmt.Sprintf("unrecognized column %q ignored", strings.TrimSpace(h)))
			continue
		}
		if seen[field] {
			res.Warnings = append(res.Warnings, fmt.Sprintf("duplicate column %q ignored", strings.TrimSpace(h)))
			columns[i] = ""
			continue
		}
		seen[field] = true
		columns[i] = field
	}

	for _, required := range RequiredFields(entity) {
		if !seen[required] {
			res.Errors = append(res.Errors, fmt.Sprintf("required column %q missing from header", required))
			return res
		}
	}

	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, header is row 1

		empty := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}

		record := CandidateRecord{
			Entity: entity,
			Row:    rowNum,
			Fields: map[string]string{},
		}
		for col, cell := range row {
			if col >= len(columns) {
				res.Warnings = append(res.Warnings, fmt.Sprintf("row %d: extra value ignored", rowNum))
				break
			}
			if columns[col] == "" {
				continue
			}
			record.Fields[columns[col]] = strings.TrimSpace(cell)
		}
		res.Data = append(res.Data, record)
	}

	if len(res.Data) == 0 {
		res.Errors = append(res.Errors, constants.MsgEmptyDocument)
		return res
	}

	res.Valid = true
	return res
}

func (p *FormatParser) parseStructured(content string, entity constants.EntityKind) ParseResult {
	var res ParseResult

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(content), &entries); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("document is not a JSON array: %v", err))
		return res
	}

	for i, raw := range entries {
		rowNum := i + 1

		var obj map[string]any
		if err := json.Unmarshal(raw, &obj); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("entry %d is not an object", rowNum))
			continue
		}

		record := CandidateRecord{
			Entity: entity,
			Row:    rowNum,
			Fields: map[string]string{},
		}
		for key, val := range obj {
			field, ok := canonicalFieldName(entity, key)
			if !ok {
				continue
			}
			record.Fields[field] = stringifyValue(val)
		}

		missing := false
		for _, required := range RequiredFields(entity) {
			if strings.TrimSpace(record.Fields[required]) == "" {
				res.Errors = append(res.Errors, fmt.Sprintf("entry %d: required key %q absent or empty", rowNum, required))
				missing = true
			}
		}
		if missing {
			continue
		}

		res.Data = append(res.Data, record)
	}

	if len(res.Data) == 0 {
		if len(res.Errors) == 0 {
			res.Errors = append(res.Errors, constants.MsgEmptyDocument)
		}
		return res
	}

	res.Valid = true
	return res
}

func stringifyValue(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		b, _ := json.Marshal(val)
		return string(b)
	}
}
