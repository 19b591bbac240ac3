package render

import "testing"

func TestHexDumpSingleRow(t *testing.T) {
	buf := []byte{0x00, 0x01, 0x02, 0xff}
	out := HexDump(buf, nil, false)
	if out == "" {
		t.Fatal("expected non-empty output")
	}
	if !contains(out, "00000000") {
		t.Fatalf("expected row offset header, got %q", out)
	}
	if !contains(out, "ff") {
		t.Fatalf("expected hex byte ff in output, got %q", out)
	}
}

func TestHexDumpMultipleRows(t *testing.T) {
	buf := make([]byte, 20)
	out := HexDump(buf, nil, false)
	if !contains(out, "00000010") {
		t.Fatalf("expected second row offset 00000010, got %q", out)
	}
}

func TestHexDumpNonPrintableAsDot(t *testing.T) {
	buf := []byte{0x41, 0x00, 0x7f}
	out := HexDump(buf, nil, false)
	if !contains(out, "A..") {
		t.Fatalf("expected ASCII column 'A..', got %q", out)
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
