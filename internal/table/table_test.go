package table

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestValueFormat(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null", Null(), ""},
		{"string", String("hello"), "hello"},
		{"int", Int(-42), "-42"},
		{"decimal", Decimal(decimal.RequireFromString("19.90")), "19.9"},
		{"decimal integral", Decimal(decimal.NewFromInt(7)), "7"},
		{"bool", Bool(true), "true"},
		{"date", Date(time.Date(2024, 3, 15, 13, 45, 0, 0, time.UTC)), "2024-03-15"},
		{"time", Time(time.Date(2024, 3, 15, 13, 45, 9, 0, time.UTC)), "2024-03-15 13:45:09"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Format(); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValueKeyCanonicalizesAcrossKinds(t *testing.T) {
	intKey, ok := Int(7).Key()
	if !ok {
		t.Fatal("Int key should be present")
	}
	strKey, ok := String("7").Key()
	if !ok {
		t.Fatal("String key should be present")
	}
	decKey, ok := Decimal(decimal.NewFromInt(7)).Key()
	if !ok {
		t.Fatal("Decimal key should be present")
	}
	if intKey != strKey || strKey != decKey {
		t.Errorf("canonical keys differ: int=%q string=%q decimal=%q", intKey, strKey, decKey)
	}

	if _, ok := Null().Key(); ok {
		t.Error("null must not produce a join key")
	}
}

func TestValueAsTime(t *testing.T) {
	tests := []struct {
		name  string
		v     Value
		want  string
		valid bool
	}{
		{"iso datetime", String("2024-01-04T09:30:00"), "2024-01-04 09:30:00", true},
		{"space datetime", String("2024-01-04 09:30:00"), "2024-01-04 09:30:00", true},
		{"date only", String("2024-01-04"), "2024-01-04 00:00:00", true},
		{"rfc3339", String("2024-01-04T09:30:00Z"), "2024-01-04 09:30:00", true},
		{"garbage", String("not-a-date"), "", false},
		{"empty", String(""), "", false},
		{"null", Null(), "", false},
		{"int", Int(20240104), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.v.AsTime()
			if ok != tt.valid {
				t.Fatalf("AsTime() ok = %v, want %v", ok, tt.valid)
			}
			if ok && got.Format("2006-01-02 15:04:05") != tt.want {
				t.Errorf("AsTime() = %v, want %s", got, tt.want)
			}
		})
	}
}

func TestValueAsInt(t *testing.T) {
	tests := []struct {
		name  string
		v     Value
		want  int64
		valid bool
	}{
		{"int", Int(5), 5, true},
		{"decimal truncates", Decimal(decimal.RequireFromString("9.75")), 9, true},
		{"numeric string", String("12"), 12, true},
		{"decimal string", String("12.0"), 12, true},
		{"null", Null(), 0, false},
		{"word", String("twelve"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.v.AsInt()
			if ok != tt.valid {
				t.Fatalf("AsInt() ok = %v, want %v", ok, tt.valid)
			}
			if got != tt.want {
				t.Errorf("AsInt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	src := New("a", "b")
	src.AppendRow(Int(1), String("x"))

	cp := src.Clone()
	cp.Set(0, "b", String("mutated"))

	if got := src.Value(0, "b").Str(); got != "x" {
		t.Errorf("source mutated through clone: %q", got)
	}
}

func TestRenameAndSelect(t *testing.T) {
	tbl := New("customer_id", "email", "status")
	tbl.AppendRow(String("C1"), String("a@example.com"), String("active"))

	tbl.Rename("customer_id", "customer_key")
	out := tbl.Select("status", "customer_key")

	wantCols := []string{"status", "customer_key"}
	gotCols := out.Columns()
	if len(gotCols) != len(wantCols) {
		t.Fatalf("Columns() = %v, want %v", gotCols, wantCols)
	}
	for i := range wantCols {
		if gotCols[i] != wantCols[i] {
			t.Errorf("column %d = %q, want %q", i, gotCols[i], wantCols[i])
		}
	}
	if got := out.Value(0, "customer_key").Str(); got != "C1" {
		t.Errorf("customer_key = %q, want C1", got)
	}
}

func TestSortByIsStable(t *testing.T) {
	tbl := New("key", "seq")
	tbl.AppendRow(String("b"), Int(1))
	tbl.AppendRow(String("a"), Int(2))
	tbl.AppendRow(String("b"), Int(3))
	tbl.AppendRow(String("a"), Int(4))

	tbl.SortBy("key")

	wantSeq := []int64{2, 4, 1, 3}
	for r, want := range wantSeq {
		if got := tbl.Value(r, "seq").Int64(); got != want {
			t.Errorf("row %d seq = %d, want %d", r, got, want)
		}
	}
}

func TestSortByNullsFirst(t *testing.T) {
	tbl := New("key")
	tbl.AppendRow(String("z"))
	tbl.AppendRow(Null())
	tbl.AppendRow(String("a"))

	tbl.SortBy("key")

	if !tbl.Value(0, "key").IsNull() {
		t.Error("null should sort first")
	}
	if got := tbl.Value(1, "key").Str(); got != "a" {
		t.Errorf("row 1 = %q, want a", got)
	}
}

func TestLeftJoinPreservesUnmatchedRows(t *testing.T) {
	left := New("id", "province_id")
	left.AppendRow(Int(1), Int(10))
	left.AppendRow(Int(2), Null())
	left.AppendRow(Int(3), Int(99))

	right := New("province_id", "name")
	right.AppendRow(Int(10), String("Buenos Aires"))

	out := left.LeftJoin(right, "province_id", "province_id", []Alias{{From: "name", As: "province_name"}})

	if out.NumRows() != 3 {
		t.Fatalf("NumRows() = %d, want 3", out.NumRows())
	}
	if got := out.Value(0, "province_name").Str(); got != "Buenos Aires" {
		t.Errorf("row 0 province_name = %q", got)
	}
	if !out.Value(1, "province_name").IsNull() {
		t.Error("null key row should not match")
	}
	if !out.Value(2, "province_name").IsNull() {
		t.Error("unmatched key row should receive null")
	}
}

func TestLeftJoinMatchesMixedKeyTypes(t *testing.T) {
	// An integer key on one side must match the same key read as text on
	// the other, as happens with the category hierarchy self-join.
	left := New("category_id")
	left.AppendRow(String("3"))

	right := New("category_id", "name")
	right.AppendRow(Int(3), String("Hogar"))

	out := left.LeftJoin(right, "category_id", "category_id", []Alias{{From: "name", As: "category_name"}})

	if got := out.Value(0, "category_name").Str(); got != "Hogar" {
		t.Errorf("category_name = %q, want Hogar", got)
	}
}

func TestLeftJoinExpandsMultipleMatches(t *testing.T) {
	left := New("order_id")
	left.AppendRow(Int(1))

	right := New("order_id", "line")
	right.AppendRow(Int(1), Int(1))
	right.AppendRow(Int(1), Int(2))

	out := left.LeftJoin(right, "order_id", "order_id", []Alias{{From: "line", As: "line"}})

	if out.NumRows() != 2 {
		t.Fatalf("NumRows() = %d, want 2", out.NumRows())
	}
	if got := out.Value(1, "line").Int64(); got != 2 {
		t.Errorf("second match line = %d, want 2", got)
	}
}

func TestSetColumnAppendsAndReplaces(t *testing.T) {
	tbl := New("a")
	tbl.AppendRow(Int(1))
	tbl.AppendRow(Int(2))

	tbl.SetColumn("b", []Value{String("x"), String("y")})
	if !tbl.HasColumn("b") {
		t.Fatal("column b should exist")
	}
	tbl.SetColumn("b", []Value{String("z"), String("w")})
	if got := tbl.Value(0, "b").Str(); got != "z" {
		t.Errorf("b[0] = %q, want z", got)
	}
}
