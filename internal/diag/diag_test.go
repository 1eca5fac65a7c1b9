package diag

import (
	"strings"
	"testing"

	"github.com/cwbudde/clc/internal/token"
)

func TestDedupCollapsesSameLocation(t *testing.T) {
	c := NewCollector("int8 x;\n")
	pos := token.Position{File: "t.src", Line: 1, Col: 1}
	c.Add(UserError, pos, "undeclared variable %q", "x")
	c.Add(UserError, pos, "undeclared variable %q", "x")

	if len(c.Messages()) != 1 {
		t.Fatalf("expected 1 deduplicated message, got %d", len(c.Messages()))
	}
	if len(c.Messages()[0].Occurrences) != 2 {
		t.Fatalf("expected 2 occurrences, got %d", len(c.Messages()[0].Occurrences))
	}
}

func TestDedupAcrossDifferentLocations(t *testing.T) {
	c := NewCollector("")
	c.Add(Warning, token.Position{Line: 1, Col: 1}, "unused variable %q", "y")
	c.Add(Warning, token.Position{Line: 5, Col: 3}, "unused variable %q", "y")

	if len(c.Messages()) != 1 {
		t.Fatalf("expected 1 message, got %d", len(c.Messages()))
	}
	if len(c.Messages()[0].Occurrences) != 2 {
		t.Fatalf("expected 2 occurrences, got %d", len(c.Messages()[0].Occurrences))
	}
}

func TestHasErrorsIgnoresWarningsAndInfo(t *testing.T) {
	c := NewCollector("")
	c.Add(Info, token.Position{}, "recovery point")
	c.Add(Warning, token.Position{}, "uninitialized read")
	if c.HasErrors() {
		t.Fatal("expected no errors from info/warning alone")
	}
	c.Add(UserError, token.Position{}, "boom")
	if !c.HasErrors() {
		t.Fatal("expected HasErrors true after a UserError")
	}
}

func TestShouldHaltAtErrorLimit(t *testing.T) {
	c := NewCollector("")
	c.SetErrorLimit(2)
	c.Add(UserError, token.Position{Line: 1}, "e1")
	if c.ShouldHalt() {
		t.Fatal("should not halt at 1 of 2")
	}
	c.Add(UserError, token.Position{Line: 2}, "e2")
	if !c.ShouldHalt() {
		t.Fatal("should halt once the limit is reached")
	}
}

func TestGroupedReportOrdersBySeverity(t *testing.T) {
	c := NewCollector("")
	c.Add(Info, token.Position{Line: 1}, "info msg")
	c.Add(InternalError, token.Position{Line: 2}, "internal msg")
	c.Add(UserError, token.Position{Line: 3}, "user msg")

	report := c.GroupedReport()
	internalIdx := strings.Index(report, "internal msg")
	userIdx := strings.Index(report, "user msg")
	infoIdx := strings.Index(report, "info msg")
	if !(internalIdx < userIdx && userIdx < infoIdx) {
		t.Fatalf("expected internal < user < info ordering, got positions %d %d %d", internalIdx, userIdx, infoIdx)
	}
}

func TestChronologicalReportPreservesInsertionOrder(t *testing.T) {
	c := NewCollector("")
	c.Add(UserError, token.Position{Line: 1}, "first")
	c.Add(Warning, token.Position{Line: 2}, "second")

	report := c.ChronologicalReport()
	if strings.Index(report, "first") > strings.Index(report, "second") {
		t.Fatal("expected chronological order")
	}
}

func TestFormatIncludesCaretAtColumn(t *testing.T) {
	c := NewCollector("int8 x = y;\n")
	c.Add(UserError, token.Position{File: "t.src", Line: 1, Col: 10}, "undeclared variable")
	out := c.ChronologicalReport()
	if !strings.Contains(out, "^") {
		t.Fatal("expected a caret in the formatted output")
	}
}
