package common

import (
	"testing"

	"sleuth/internal/core/domain"
)

func TestMarkerDecoder_Decode(t *testing.T) {
	trailing := MarkerDecoder{Source: domain.ToolSherlock, Marker: FoundMarker, TrimTrailing: 1}
	both := MarkerDecoder{Source: domain.ToolNaminter, Marker: FoundMarker, TrimLeading: 1, TrimTrailing: 1}

	tests := []struct {
		name    string
		decoder MarkerDecoder
		line    string
		want    domain.FoundEvent
		ok      bool
	}{
		{
			name:    "trailing colon stripped",
			decoder: trailing,
			line:    "[+] GitHub: https://github.com/x",
			want:    domain.FoundEvent{Source: domain.ToolSherlock, Name: "GitHub", URL: "https://github.com/x"},
			ok:      true,
		},
		{
			name:    "brackets stripped",
			decoder: both,
			line:    "[+] [GitHub] https://github.com/x",
			want:    domain.FoundEvent{Source: domain.ToolNaminter, Name: "GitHub", URL: "https://github.com/x"},
			ok:      true,
		},
		{
			name:    "surrounding whitespace tolerated",
			decoder: trailing,
			line:    "  [+]\tReddit:   https://reddit.com/user/x \r",
			want:    domain.FoundEvent{Source: domain.ToolSherlock, Name: "Reddit", URL: "https://reddit.com/user/x"},
			ok:      true,
		},
		{
			name:    "url kept verbatim",
			decoder: trailing,
			line:    "[+] Site: https://example.com/a?b=c&d=%20",
			want:    domain.FoundEvent{Source: domain.ToolSherlock, Name: "Site", URL: "https://example.com/a?b=c&d=%20"},
			ok:      true,
		},
		{
			name:    "multibyte name",
			decoder: both,
			line:    "[+] [Вконтакте] https://vk.com/x",
			want:    domain.FoundEvent{Source: domain.ToolNaminter, Name: "Вконтакте", URL: "https://vk.com/x"},
			ok:      true,
		},
		{name: "noise", decoder: trailing, line: "noise"},
		{name: "empty line", decoder: trailing, line: ""},
		{name: "wrong marker", decoder: trailing, line: "[-] GitHub: Not Found!"},
		{name: "four tokens", decoder: trailing, line: "[+] Git Hub: https://github.com/x"},
		{name: "two tokens", decoder: trailing, line: "[+] https://github.com/x"},
		{
			name:    "name shorter than strip width decodes empty",
			decoder: both,
			line:    "[+] ] https://x",
			want:    domain.FoundEvent{Source: domain.ToolNaminter, Name: "", URL: "https://x"},
			ok:      true,
		},
		{
			name:    "bare colon decodes empty",
			decoder: trailing,
			line:    "[+] : https://x",
			want:    domain.FoundEvent{Source: domain.ToolSherlock, Name: "", URL: "https://x"},
			ok:      true,
		},
		{name: "marker must be first token", decoder: trailing, line: "GitHub: [+] https://github.com/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.decoder.Decode(tt.line)
			if ok != tt.ok {
				t.Fatalf("Decode(%q) ok = %v, want %v", tt.line, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("Decode(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestMarkerDecoder_MixedLines(t *testing.T) {
	d := MarkerDecoder{Source: domain.ToolSherlock, Marker: FoundMarker, TrimTrailing: 1}
	lines := []string{"[+] GitHub: https://github.com/x", "noise", "[+] Twitter] https://t.co/y"}

	var names []string
	for _, l := range lines {
		if ev, ok := d.Decode(l); ok {
			names = append(names, ev.Name)
		}
	}

	if len(names) != 2 || names[0] != "GitHub" || names[1] != "Twitter" {
		t.Errorf("unexpected names: %v", names)
	}
}
