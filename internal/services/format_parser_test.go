package services

import (
	"strings"
	"testing"

	"infinite-experiment/quartermaster/internal/constants"
)

func TestFormatParser_Delimited_HappyPath(t *testing.T) {
	parser := NewFormatParser(1 << 20)

	content := "registration,rawType,operator\nN12345,B737-800 WL,AirCo\nG-ABCD,A320neo,BlueJet\n"
	res := parser.ParseDocument(content, constants.FormatDelimitedText, constants.EntityAircraft)

	if !res.Valid {
		t.Fatalf("Expected valid parse, errors: %v", res.Errors)
	}
	if len(res.Data) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(res.Data))
	}

	first := res.Data[0]
	if first.Fields[FieldRegistration] != "N12345" {
		t.Errorf("Expected registration N12345, got %q", first.Fields[FieldRegistration])
	}
	if first.Fields[FieldRawType] != "B737-800 WL" {
		t.Errorf("Expected raw type preserved, got %q", first.Fields[FieldRawType])
	}
	if first.Row != 2 {
		t.Errorf("Expected first data row to be row 2, got %d", first.Row)
	}
}

func TestFormatParser_Delimited_QuotedFields(t *testing.T) {
	parser := NewFormatParser(1 << 20)

	content := "registration,rawType,operator\nN12345,\"B737-800, WL\",\"Air \"\"Co\"\"\"\n"
	res := parser.ParseDocument(content, constants.FormatDelimitedText, constants.EntityAircraft)

	if !res.Valid {
		t.Fatalf("Expected valid parse, errors: %v", res.Errors)
	}
	if got := res.Data[0].Fields[FieldRawType]; got != "B737-800, WL" {
		t.Errorf("Expected embedded comma preserved, got %q", got)
	}
	if got := res.Data[0].Fields[FieldOperator]; got != `Air "Co"` {
		t.Errorf("Expected doubled quotes unescaped, got %q", got)
	}
}

func TestFormatParser_Delimited_HeaderCaseInsensitive(t *testing.T) {
	parser := NewFormatParser(1 << 20)

	content := "REGISTRATION,Type,Operator\nN12345,B738,AirCo\n"
	res := parser.ParseDocument(content, constants.FormatDelimitedText, constants.EntityAircraft)

	if !res.Valid {
		t.Fatalf("Expected valid parse, errors: %v", res.Errors)
	}
	if got := res.Data[0].Fields[FieldRawType]; got != "B738" {
		t.Errorf("Expected 'Type' header mapped to rawType, got %q", got)
	}
}

func TestFormatParser_Delimited_UnrecognizedColumnWarns(t *testing.T) {
	parser := NewFormatParser(1 << 20)

	content := "registration,rawType,operator,notes\nN12345,B738,AirCo,brand new\n"
	res := parser.ParseDocument(content, constants.FormatDelimitedText, constants.EntityAircraft)

	if !res.Valid {
		t.Fatalf("Expected valid parse, errors: %v", res.Errors)
	}
	if len(res.Warnings) == 0 {
		t.Error("Expected a warning for the unrecognized column")
	}
	if _, ok := res.Data[0].Fields["notes"]; ok {
		t.Error("Unrecognized column leaked into the record fields")
	}
}

func TestFormatParser_Delimited_MissingRequiredColumn(t *testing.T) {
	parser := NewFormatParser(1 << 20)

	content := "rawType,operator\nB738,AirCo\n"
	res := parser.ParseDocument(content, constants.FormatDelimitedText, constants.EntityAircraft)

	if res.Valid {
		t.Error("Expected invalid parse when the registration column is missing")
	}
	if len(res.Errors) == 0 {
		t.Error("Expected an error naming the missing column")
	}
}

func TestFormatParser_Delimited_EmptyDocument(t *testing.T) {
	parser := NewFormatParser(1 << 20)

	res := parser.ParseDocument("registration,rawType,operator\n", constants.FormatDelimitedText, constants.EntityAircraft)
	if res.Valid {
		t.Error("Expected invalid parse for a header-only document")
	}
}

func TestFormatParser_SizeLimit(t *testing.T) {
	parser := NewFormatParser(16)

	res := parser.ParseDocument("registration,rawType,operator\nN12345,B738,AirCo\n", constants.FormatDelimitedText, constants.EntityAircraft)
	if res.Valid {
		t.Error("Expected invalid parse for an over-limit document")
	}
	if len(res.Errors) == 0 || !strings.Contains(res.Errors[0], constants.MsgDocumentTooLarge) {
		t.Errorf("Expected size limit error, got %v", res.Errors)
	}
	if len(res.Data) != 0 {
		t.Error("Size limit must short-circuit before any rows are parsed")
	}
}

func TestFormatParser_Structured_HappyPath(t *testing.T) {
	parser := NewFormatParser(1 << 20)

	content := `[{"registration":"N12345","rawType":"B737-800 WL","operator":"AirCo"}]`
	res := parser.ParseDocument(content, constants.FormatStructuredList, constants.EntityAircraft)

	if !res.Valid {
		t.Fatalf("Expected valid parse, errors: %v", res.Errors)
	}
	if len(res.Data) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(res.Data))
	}
	if got := res.Data[0].Fields[FieldOperator]; got != "AirCo" {
		t.Errorf("Expected operator AirCo, got %q", got)
	}
}

func TestFormatParser_Structured_NonObjectEntryExcluded(t *testing.T) {
	parser := NewFormatParser(1 << 20)

	content := `[{"registration":"N12345","rawType":"B738"}, "not an object", {"rawType":"A320"}]`
	res := parser.ParseDocument(content, constants.FormatStructuredList, constants.EntityAircraft)

	if !res.Valid {
		t.Fatalf("Expected valid parse with one usable row, errors: %v", res.Errors)
	}
	if len(res.Data) != 1 {
		t.Fatalf("Expected 1 usable record, got %d", len(res.Data))
	}
	// One error for the non-object entry, one for the entry missing its key
	if len(res.Errors) != 2 {
		t.Errorf("Expected 2 row errors, got %v", res.Errors)
	}
}

func TestFormatParser_Structured_NotAnArray(t *testing.T) {
	parser := NewFormatParser(1 << 20)

	res := parser.ParseDocument(`{"registration":"N12345"}`, constants.FormatStructuredList, constants.EntityAircraft)
	if res.Valid {
		t.Error("Expected invalid parse for a non-array document")
	}
}

func TestFormatParser_UnknownFormat(t *testing.T) {
	parser := NewFormatParser(1 << 20)

	res := parser.ParseDocument("anything", constants.DocumentFormat("xml"), constants.EntityAircraft)
	if res.Valid {
		t.Error("Expected invalid parse for an unknown format")
	}
}
