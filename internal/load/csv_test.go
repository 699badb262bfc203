package load_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edgewise-analytics/martgen/internal/extract"
	"github.com/edgewise-analytics/martgen/internal/load"
	"github.com/edgewise-analytics/martgen/internal/seed"
	"github.com/edgewise-analytics/martgen/internal/table"
	"github.com/edgewise-analytics/martgen/internal/warehouse"
)

func TestWriteCSVFormatting(t *testing.T) {
	tbl := table.New("id", "amount", "note", "flag", "when")
	tbl.AppendRow(
		table.Int(1),
		table.Decimal(decimal.RequireFromString("19.90")),
		table.Null(),
		table.Bool(true),
		table.Date(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)),
	)
	tbl.AppendRow(
		table.Int(2),
		table.Decimal(decimal.RequireFromString("-0.5")),
		table.String("hola, che"),
		table.Bool(false),
		table.Null(),
	)

	var buf bytes.Buffer
	if err := load.WriteCSV(&buf, tbl); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}

	want := "id,amount,note,flag,when\n" +
		"1,19.9,,true,2024-03-15\n" +
		"2,-0.5,\"hola, che\",false,\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteCSV() =\n%q\nwant\n%q", got, want)
	}
}

func TestWriteCSVDir(t *testing.T) {
	tbl := table.New("id")
	tbl.AppendRow(table.Int(1))

	dir := filepath.Join(t.TempDir(), "dw")
	outputs := []warehouse.Output{{Name: "dim_channel", Table: tbl}}

	if err := load.WriteCSVDir(dir, outputs); err != nil {
		t.Fatalf("WriteCSVDir() error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "dim_channel.csv"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if got := string(data); got != "id\n1\n" {
		t.Errorf("file content = %q, want %q", got, "id\n1\n")
	}
}

// TestPipelineIsDeterministic runs the whole pipeline twice over the same
// generated extract and compares persisted bytes. Surrogate keys must not
// depend on map iteration or any other per-run state.
func TestPipelineIsDeterministic(t *testing.T) {
	sourceDir := filepath.Join(t.TempDir(), "raw")
	if err := seed.Write(sourceDir, seed.Config{Orders: 60, Seed: 42}); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	snap, err := extract.Extract(sourceDir)
	if err != nil {
		t.Fatalf("extracting: %v", err)
	}

	first, err := warehouse.Transform(snap)
	if err != nil {
		t.Fatalf("first transform: %v", err)
	}
	second, err := warehouse.Transform(snap)
	if err != nil {
		t.Fatalf("second transform: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("output counts differ: %d vs %d", len(first), len(second))
	}

	for i := range first {
		var a, b bytes.Buffer
		if err := load.WriteCSV(&a, first[i].Table); err != nil {
			t.Fatalf("writing %s: %v", first[i].Name, err)
		}
		if err := load.WriteCSV(&b, second[i].Table); err != nil {
			t.Fatalf("writing %s: %v", second[i].Name, err)
		}
		if !bytes.Equal(a.Bytes(), b.Bytes()) {
			t.Errorf("table %s differs between runs", first[i].Name)
		}
	}
}

// TestPipelineDateKeysResolve checks that every generated timestamp lands
// inside the calendar span, so the date foreign keys of orders and
// payments are never null end to end.
func TestPipelineDateKeysResolve(t *testing.T) {
	sourceDir := filepath.Join(t.TempDir(), "raw")
	if err := seed.Write(sourceDir, seed.Config{Orders: 40, Seed: 7}); err != nil {
		t.Fatalf("seeding: %v", err)
	}
	snap, err := extract.Extract(sourceDir)
	if err != nil {
		t.Fatalf("extracting: %v", err)
	}
	outputs, err := warehouse.Transform(snap)
	if err != nil {
		t.Fatalf("transforming: %v", err)
	}

	byName := make(map[string]*table.Table, len(outputs))
	for _, out := range outputs {
		byName[out.Name] = out.Table
	}

	checks := map[string]string{
		"fact_sales_order":  "order_date_id",
		"fact_payment":      "paid_at_date_id",
		"fact_shipment":     "shipped_at_date_id",
		"fact_web_session":  "started_at_date_id",
		"fact_nps_response": "responded_at_date_id",
	}
	for name, col := range checks {
		tbl := byName[name]
		if tbl == nil {
			t.Fatalf("missing output %q", name)
		}
		if tbl.NumRows() == 0 {
			t.Fatalf("output %q is empty", name)
		}
		for r := 0; r < tbl.NumRows(); r++ {
			if tbl.Value(r, col).IsNull() {
				t.Errorf("%s row %d has a null %s", name, r, col)
			}
		}
	}
}
