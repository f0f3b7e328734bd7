package events

import (
	"errors"
	"testing"

	rerrors "github.com/matzehuels/radiant/pkg/errors"
)

type recorder struct {
	NopListener
	selections []SelectionChange
	errs       []ErrorEvent
}

func (r *recorder) OnSelectionChanged(e SelectionChange) { r.selections = append(r.selections, e) }
func (r *recorder) OnError(e ErrorEvent)                 { r.errs = append(r.errs, e) }

func TestBusFanOut(t *testing.T) {
	bus := NewBus()
	a, b := &recorder{}, &recorder{}
	unsubA := bus.Subscribe(a)
	bus.Subscribe(b)

	if bus.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", bus.Len())
	}

	bus.OnSelectionChanged(SelectionChange{Previous: "", Current: "ocean"})
	unsubA()
	unsubA()
	bus.OnSelectionChanged(SelectionChange{Previous: "ocean", Current: "tides"})

	if len(a.selections) != 1 {
		t.Errorf("a got %d events, want 1", len(a.selections))
	}
	if len(b.selections) != 2 || b.selections[1].Current != "tides" {
		t.Errorf("b got %+v", b.selections)
	}
	if bus.Len() != 1 {
		t.Errorf("Len() after unsubscribe = %d, want 1", bus.Len())
	}
}

func TestNewErrorEvent(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantKind  rerrors.Code
		wantFatal bool
	}{
		{"data fetch", rerrors.New(rerrors.ErrCodeDataFetch, "load topics"), rerrors.ErrCodeDataFetch, true},
		{"content fetch", rerrors.New(rerrors.ErrCodeContentFetch, "ocean"), rerrors.ErrCodeContentFetch, false},
		{"preload", rerrors.New(rerrors.ErrCodePreload, "batch"), rerrors.ErrCodePreload, false},
		{"config", rerrors.New(rerrors.ErrCodeConfigValidation, "colors"), rerrors.ErrCodeConfigValidation, true},
		{"plain", errors.New("boom"), rerrors.ErrCodeInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewErrorEvent(tt.err)
			if e.Kind != tt.wantKind || e.Fatal != tt.wantFatal {
				t.Errorf("NewErrorEvent() = %+v, want kind %s fatal %v", e, tt.wantKind, tt.wantFatal)
			}
			if e.Err != tt.err {
				t.Error("Err not preserved")
			}
		})
	}
}

func TestChannel(t *testing.T) {
	l, ch := Channel(2)
	bus := NewBus()
	bus.Subscribe(l)

	bus.OnDataChanged(DataChange{Root: "earth", Nodes: 8})
	bus.OnTransitionStarted(Transition{ID: "t1", Target: "ocean"})
	// Buffer is full: dropped, not blocking.
	bus.OnTransitionEnded(Transition{ID: "t1"})

	e := <-ch
	if e.Kind != KindDataChanged || e.Data.Nodes != 8 {
		t.Errorf("first event = %+v", e)
	}
	e = <-ch
	if e.Kind != KindTransitionStarted || e.Transition.Target != "ocean" {
		t.Errorf("second event = %+v", e)
	}
	select {
	case e := <-ch:
		t.Errorf("unexpected event %+v", e)
	default:
	}
}
