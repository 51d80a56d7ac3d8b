package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseStore,
				Kind:   KindCorruptRecord,
				Path:   []string{"sstable_3.dat"},
				Detail: "truncated record",
			},
			contains: []string{"[store]", "corrupt_record", "sstable_3.dat", "truncated record"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDerive,
				Kind:  KindOutOfRange,
			},
			contains: []string{"[derive]", "out_of_range"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseConstruct,
				Kind:   KindAllocation,
				Detail: "arena exhausted",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[construct]", "allocation", "arena exhausted", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseStore,
		Kind:  KindIO,
		Cause: cause,
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestError_Is(t *testing.T) {
	err := LengthOverflow(PhaseConstruct, 1<<33)

	if !errors.Is(err, &Error{Phase: PhaseConstruct, Kind: KindLengthOverflow}) {
		t.Error("should match same phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhaseDerive, Kind: KindLengthOverflow}) {
		t.Error("should not match different phase")
	}
	if errors.Is(err, &Error{Phase: PhaseConstruct, Kind: KindAllocation}) {
		t.Error("should not match different kind")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("disk full")
	err := New(PhaseStore, KindIO).
		Path("lsm_data", "sstable_0.dat").
		Detail("flush %d entries", 42).
		Cause(cause).
		Build()

	if err.Phase != PhaseStore {
		t.Errorf("phase: got %q, want %q", err.Phase, PhaseStore)
	}
	if err.Kind != KindIO {
		t.Errorf("kind: got %q, want %q", err.Kind, KindIO)
	}
	if err.Detail != "flush 42 entries" {
		t.Errorf("detail: got %q", err.Detail)
	}
	if !errors.Is(err, cause) {
		t.Error("cause should unwrap")
	}
	msg := err.Error()
	if !strings.Contains(msg, "lsm_data.sstable_0.dat") {
		t.Errorf("message %q missing joined path", msg)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind Kind
	}{
		{"length overflow", LengthOverflow(PhaseConstruct, 5_000_000_000), KindLengthOverflow},
		{"allocation", AllocationFailed(PhaseConstruct, 64, nil), KindAllocation},
		{"out of range", OutOfRange(PhaseDerive, 10, 20, 16), KindOutOfRange},
		{"invalid input", InvalidInput(PhaseIngest, "missing delimiter"), KindInvalidInput},
		{"corrupt record", CorruptRecord(PhaseStore, "t.dat", 128, "short value"), KindCorruptRecord},
		{"not found", NotFound(PhaseQuery, "key", "apple"), KindNotFound},
		{"io", IO(PhaseStore, "mmap failed", errors.New("EACCES")), KindIO},
		{"wrap", Wrap(PhaseIngest, KindIO, errors.New("eof"), "read line"), KindIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("kind: got %q, want %q", tt.err.Kind, tt.kind)
			}
			if tt.err.Error() == "" {
				t.Error("message should not be empty")
			}
		})
	}
}
