package diag

import (
	"bytes"
	"testing"

	"github.com/averagestudentdontfail/Ourochronos/timeloop"
	"github.com/averagestudentdontfail/Ourochronos/value"
)

func TestRenderOutputMixesCharsAndNumbers(t *testing.T) {
	var buf bytes.Buffer
	RenderOutput(&buf, []value.Value{value.New('H'), value.New('i'), value.New(0), value.New(255)})
	got := buf.String()
	want := "Hi[0][255]"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestReportConsistent(t *testing.T) {
	var buf bytes.Buffer
	Report(&buf, timeloop.ConvergenceStatus{
		Kind:   timeloop.KindConsistent,
		Epochs: 3,
		Output: []value.Value{value.New('O'), value.New('K')},
	}, false)
	got := buf.String()
	if got != "consistent after 3 epoch(s)\nOK\n" {
		t.Fatalf("unexpected report: %q", got)
	}
}

func TestReportConsistentVerboseSuppressesOutput(t *testing.T) {
	var buf bytes.Buffer
	Report(&buf, timeloop.ConvergenceStatus{
		Kind:   timeloop.KindConsistent,
		Epochs: 3,
		Output: []value.Value{value.New('O'), value.New('K')},
	}, true)
	got := buf.String()
	if got != "consistent after 3 epoch(s)\n" {
		t.Fatalf("expected verbose mode to omit the buffered output, got %q", got)
	}
}

func TestReportOscillationVerbose(t *testing.T) {
	var buf bytes.Buffer
	Report(&buf, timeloop.ConvergenceStatus{
		Kind:         timeloop.KindOscillation,
		Period:       2,
		Diagnosis:    timeloop.DiagnosisNegativeLoop,
		NegativeCell: 7,
	}, true)
	if buf.Len() == 0 {
		t.Fatal("expected non-empty report")
	}
}
