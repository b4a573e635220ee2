package alphabetize

import "testing"

func TestContentHashFingerprint(t *testing.T) {
	document := []byte("<root>\n    <data name=\"a\">\n</root>\n")
	first, err := contentHash(document)
	if err != nil {
		t.Fatalf("contentHash: %v", err)
	}
	second, err := contentHash(document)
	if err != nil {
		t.Fatalf("contentHash: %v", err)
	}
	if first != second {
		t.Fatalf("fingerprint not stable: %x vs %x", first, second)
	}
	changed, err := contentHash(append([]byte(nil), append(document, '\n')...))
	if err != nil {
		t.Fatalf("contentHash: %v", err)
	}
	if changed == first {
		t.Fatalf("distinct documents share fingerprint %x", first)
	}
}
