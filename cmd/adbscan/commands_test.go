package main

import (
	"testing"

	"github.com/muurk/adbscan/internal/config"
)

func TestMDNSBrowseTimeout(t *testing.T) {
	tests := []struct {
		name        string
		flagChanged bool
		flagValue   int
		prefs       *config.ScanPrefs
		want        int
	}{
		{name: "preference wins over flag default", flagValue: 10, prefs: &config.ScanPrefs{MDNSTimeout: 5}, want: 5},
		{name: "explicit flag wins over preference", flagChanged: true, flagValue: 3, prefs: &config.ScanPrefs{MDNSTimeout: 5}, want: 3},
		{name: "nil preferences", flagValue: 10, want: 10},
		{name: "zero preference ignored", flagValue: 10, prefs: &config.ScanPrefs{}, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mdnsBrowseTimeout(tt.flagChanged, tt.flagValue, tt.prefs)
			if got != tt.want {
				t.Errorf("mdnsBrowseTimeout(%v, %d, %+v) = %d, want %d", tt.flagChanged, tt.flagValue, tt.prefs, got, tt.want)
			}
		})
	}
}
