package audio

import "testing"

func TestProbePath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ffmpeg", "ffprobe"},
		{"/usr/bin/ffmpeg", "/usr/bin/ffprobe"},
		{"/opt/ffmpeg/bin/ffmpeg", "/opt/ffmpeg/bin/ffprobe"},
		{"./ffmpeg", "./ffprobe"},
		{"/opt/tools/avconv", "/opt/tools/ffprobe"},
	}
	for _, tc := range tests {
		if got := probePath(tc.in); got != tc.want {
			t.Errorf("probePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
