package viewer

import (
	"errors"
	"testing"

	"github.com/Faultbox/levelview/internal/checkpoint"
)

func TestLevelBar(t *testing.T) {
	var requested []int
	bar := NewLevelBar(checkpoint.Default(), func(level int) error {
		requested = append(requested, level)
		return nil
	})

	if bar.Enabled() {
		t.Fatal("bar should start disabled")
	}
	if n, got := activeCount(bar.Buttons()); n != 1 || got != 0 {
		t.Errorf("initial: %d active at %d, want 1 at 0", n, got)
	}
	if err := bar.Click("level3"); !errors.Is(err, ErrDisabled) {
		t.Errorf("Click while disabled = %v, want ErrDisabled", err)
	}

	bar.Enable()
	tests := []struct {
		id      string
		want    int
		wantErr error
	}{
		{"level3", 3, nil},
		{"level0", 0, nil},
		{"level9", -1, ErrUnknownButton},
		{"", -1, ErrUnknownButton},
	}
	for _, tt := range tests {
		requested = nil
		err := bar.Click(tt.id)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("Click(%q) = %v, want %v", tt.id, err, tt.wantErr)
		}
		if tt.want >= 0 && (len(requested) != 1 || requested[0] != tt.want) {
			t.Errorf("Click(%q) requested %v, want [%d]", tt.id, requested, tt.want)
		}
	}
}

func TestLevelBarSync(t *testing.T) {
	bar := NewLevelBar(checkpoint.Default(), func(int) error { return nil })

	for level := 0; level < 5; level++ {
		bar.Sync(level)
		if n, got := activeCount(bar.Buttons()); n != 1 || got != level {
			t.Errorf("Sync(%d): %d active at %d", level, n, got)
		}
	}
}

func TestLevelBarButtonsIsSnapshot(t *testing.T) {
	bar := NewLevelBar(checkpoint.Default(), func(int) error { return nil })
	b := bar.Buttons()
	b[0].Enabled = true
	if bar.Enabled() {
		t.Error("mutating the snapshot changed the bar")
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{Status{Kind: StatusLoading}, "Loading model..."},
		{Status{Kind: StatusReady}, "Ready"},
		{Status{Kind: StatusNoAnimation}, "Model has no animation"},
		{Status{Kind: StatusFailed, Err: errors.New("eof")}, "Load failed: eof"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
