package aggregate

import (
	"errors"
	"strings"
	"testing"

	"github.com/umbralabs/gstring"
	gserrors "github.com/umbralabs/gstring/errors"
)

func TestTable_AddGet(t *testing.T) {
	table := NewTable()
	add := func(key string, v float64) {
		t.Helper()
		k, err := gstring.New([]byte(key), gstring.Persistent)
		if err != nil {
			t.Fatalf("New(%q) failed: %v", key, err)
		}
		table.Add(k, v)
	}

	add("oslo", -3.5)
	add("oslo", 10.0)
	add("oslo", 2.5)
	add("lisbon", 18.0)

	if got := table.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}

	key, _ := gstring.FromString("oslo")
	rec, ok := table.Get(&key)
	if !ok {
		t.Fatalf("Get(oslo) missed")
	}
	if rec.Count != 3 {
		t.Errorf("Count = %d, want 3", rec.Count)
	}
	if rec.Min != -3.5 {
		t.Errorf("Min = %v, want -3.5", rec.Min)
	}
	if rec.Max != 10.0 {
		t.Errorf("Max = %v, want 10.0", rec.Max)
	}
	if got := rec.Mean(); got != 3.0 {
		t.Errorf("Mean() = %v, want 3.0", got)
	}

	missing, _ := gstring.FromString("reykjavik")
	if _, ok := table.Get(&missing); ok {
		t.Errorf("Get on absent key reported present")
	}
}

func TestRecord_MeanEmpty(t *testing.T) {
	var r Record
	if got := r.Mean(); got != 0 {
		t.Errorf("Mean() of empty record = %v, want 0", got)
	}
}

func TestTable_SortedKeys(t *testing.T) {
	table := NewTable()
	for _, key := range []string{"tokyo", "accra", "lima", "accra"} {
		k, err := gstring.New([]byte(key), gstring.Persistent)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		table.Add(k, 1.0)
	}

	keys := table.SortedKeys()
	want := []string{"accra", "lima", "tokyo"}
	if len(keys) != len(want) {
		t.Fatalf("got %d keys, want %d", len(keys), len(want))
	}
	for i := range want {
		if got := keys[i].String(); got != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, got, want[i])
		}
	}
}

func TestProcess(t *testing.T) {
	input := []byte("oslo;-3.5\nlisbon;18.0\noslo;10.0\n\nlisbon;20.0\noslo;2.5")

	table, err := Process(input)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if got := table.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}

	key, _ := gstring.FromString("lisbon")
	rec, ok := table.Get(&key)
	if !ok {
		t.Fatalf("Get(lisbon) missed")
	}
	if rec.Count != 2 || rec.Min != 18.0 || rec.Max != 20.0 {
		t.Errorf("lisbon record = %+v, want count 2, min 18, max 20", rec)
	}
}

func TestProcess_KeysAliasInput(t *testing.T) {
	input := []byte("a station name longer than the inline limit;1.0\n")
	table, err := Process(input)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	keys := table.SortedKeys()
	if len(keys) != 1 {
		t.Fatalf("got %d keys, want 1", len(keys))
	}
	if &keys[0].View()[0] != &input[0] {
		t.Errorf("group key does not alias the input buffer")
	}
}

func TestProcess_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no delimiter", "oslo;1.0\njust-a-station\n"},
		{"bad measurement", "oslo;not-a-number\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Process([]byte(tt.input))
			if !errors.Is(err, &gserrors.Error{Phase: gserrors.PhaseIngest, Kind: gserrors.KindInvalidInput}) {
				t.Errorf("got %v, want invalid_input error", err)
			}
		})
	}
}

func TestWriteReport(t *testing.T) {
	input := []byte("oslo;-3.5\nlisbon;18.0\noslo;10.0\nlisbon;20.0\noslo;2.5\n")
	table, err := Process(input)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	var b strings.Builder
	if err := WriteReport(&b, table, 0); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}
	want := "{lisbon=18.0/19.0/20.0, oslo=-3.5/3.0/10.0}\n"
	if got := b.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriteReport_Limit(t *testing.T) {
	table, err := Process([]byte("b;1\na;2\nc;3\n"))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	var b strings.Builder
	if err := WriteReport(&b, table, 2); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}
	want := "{a=2.0/2.0/2.0, b=1.0/1.0/1.0}\n"
	if got := b.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
