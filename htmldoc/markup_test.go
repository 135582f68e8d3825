package htmldoc

import "testing"

func TestLimitDepth(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		depth  int64
		want   string
	}{
		{
			name:   "depth one keeps own text and child tags",
			markup: "text <p>inner</p> tail",
			depth:  1,
			want:   "text <p></p> tail",
		},
		{
			name:   "depth two keeps one nested level",
			markup: "<p>a <b>deep</b></p>",
			depth:  2,
			want:   "<p>a <b></b></p>",
		},
		{
			name:   "deep enough keeps everything",
			markup: "<p>a <b>deep</b></p>",
			depth:  10,
			want:   "<p>a <b>deep</b></p>",
		},
		{
			name:   "zero depth drops everything",
			markup: "<p>a</p>",
			depth:  0,
			want:   "",
		},
		{
			name:   "void elements do not open a level",
			markup: "a<br>b<img src='x.png'>c",
			depth:  1,
			want:   "a<br>b<img src='x.png'>c",
		},
		{
			name:   "self-closing tag does not open a level",
			markup: "a<hr/>b",
			depth:  1,
			want:   "a<hr/>b",
		},
		{
			name:   "angle bracket inside quoted attribute",
			markup: `<a title="1 > 0">x</a><span>y</span>`,
			depth:  1,
			want:   `<a title="1 > 0"></a><span></span>`,
		},
		{
			name:   "comment passes through at visible depth",
			markup: "<!-- note --><p>x</p>",
			depth:  1,
			want:   "<!-- note --><p></p>",
		},
		{
			name:   "comment hidden below depth",
			markup: "<p><!-- note -->x</p>",
			depth:  1,
			want:   "<p></p>",
		},
		{
			name:   "unterminated tag kept verbatim",
			markup: "text <p",
			depth:  1,
			want:   "text <p",
		},
		{
			name:   "empty input",
			markup: "",
			depth:  1,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LimitDepth(tt.markup, tt.depth); got != tt.want {
				t.Errorf("LimitDepth(%q, %d) = %q, want %q", tt.markup, tt.depth, got, tt.want)
			}
		})
	}
}
