package render

import (
	"testing"

	"github.com/sinshu/go-meltysynth/meltysynth"
)

func TestConfig_SampleRate(t *testing.T) {
	var empty Config
	if got := empty.sampleRate(); got != 0 {
		t.Fatalf("got %d, want 0 for a zero-valued Config", got)
	}

	withSettings := Config{Settings: meltysynth.NewSynthesizerSettings(44100)}
	if got := withSettings.sampleRate(); got != 44100 {
		t.Fatalf("got %d, want 44100", got)
	}
}
