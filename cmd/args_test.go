package cmd

import (
	"reflect"
	"testing"
)

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "two token pair",
			in:   []string{"--modify-time", "hours", "-1", "photos"},
			want: []string{"--modify-time=hours=-1", "photos"},
		},
		{
			name: "key value filter with spaces",
			in:   []string{"--filter-meta", "Model", "Pixel 7", "-r", "photos"},
			want: []string{"--filter-meta=Model=Pixel 7", "-r", "photos"},
		},
		{
			name: "already joined",
			in:   []string{"--filter-meta", "Model=Pixel", "photos"},
			want: []string{"--filter-meta=Model=Pixel", "photos"},
		},
		{
			name: "equals form untouched",
			in:   []string{"--modify-time=days=2", "photos"},
			want: []string{"--modify-time=days=2", "photos"},
		},
		{
			name: "repeated filters",
			in:   []string{"--filter-meta", "Make", "Canon", "--filter-meta", "Model", "R5", "x"},
			want: []string{"--filter-meta=Make=Canon", "--filter-meta=Model=R5", "x"},
		},
		{
			name: "single trailing token",
			in:   []string{"--modify-time", "hours"},
			want: []string{"--modify-time=hours"},
		},
		{
			name: "flag without value",
			in:   []string{"--filter-meta"},
			want: []string{"--filter-meta"},
		},
		{
			name: "after double dash",
			in:   []string{"--dry", "--", "--modify-time", "hours", "1"},
			want: []string{"--dry", "--", "--modify-time", "hours", "1"},
		},
		{
			name: "other flags",
			in:   []string{"--prefix", "trip", "--suffix", "_x", "dir"},
			want: []string{"--prefix", "trip", "--suffix", "_x", "dir"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeArgs(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
