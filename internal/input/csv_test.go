package input

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "product_ids.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadIDsFromCSV(t *testing.T) {
	path := writeCSV(t, "id\n100\n200\n300\n")

	ids, err := LoadIDsFromCSV(path)
	if err != nil {
		t.Fatalf("LoadIDsFromCSV: %v", err)
	}
	if len(ids) != 3 || ids[0] != 100 || ids[1] != 200 || ids[2] != 300 {
		t.Fatalf("ids = %v", ids)
	}
}

func TestLoadIDsFindsColumnAmongOthers(t *testing.T) {
	path := writeCSV(t, "name,ID,category\nfoo,7,home\nbar,9,kitchen\n")

	ids, err := LoadIDsFromCSV(path)
	if err != nil {
		t.Fatalf("LoadIDsFromCSV: %v", err)
	}
	if len(ids) != 2 || ids[0] != 7 || ids[1] != 9 {
		t.Fatalf("ids = %v", ids)
	}
}

func TestLoadIDsRejectsMissingColumn(t *testing.T) {
	path := writeCSV(t, "sku\nABC\n")
	if _, err := LoadIDsFromCSV(path); err == nil {
		t.Fatalf("expected error for missing id column")
	}
}

func TestLoadIDsRejectsInvalidValues(t *testing.T) {
	for _, content := range []string{"id\nabc\n", "id\n-3\n", "id\n0\n"} {
		path := writeCSV(t, content)
		if _, err := LoadIDsFromCSV(path); err == nil {
			t.Fatalf("expected error for %q", content)
		}
	}
}

func TestLoadIDsMissingFile(t *testing.T) {
	if _, err := LoadIDsFromCSV(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
