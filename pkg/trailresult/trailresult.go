// Package trailresult formats and persists differential trails found by
// pkg/trail, independently of the search engine itself so a trail can be
// saved, loaded and rendered without importing the search machinery.
package trailresult

import (
	"fmt"
	"io"
	"strings"

	"github.com/cryptolu/sparkle/pkg/trail"
)

// Format renders a trail the way the reference tool's fprintTrail does:
// one line per round, "# i: 0x<dx> 0x<dy> -> 0x<dz> <p> <cp>", followed by
// a summary line with the total trail probability.
func Format(t []trail.Differential) string {
	var b strings.Builder
	total := 0
	for i, d := range t {
		fmt.Fprintf(&b, "# %2d: 0x%08x 0x%08x -> 0x%08x %+d <%+d>\n", i, d.DX, d.DY, d.DZ, d.P, d.CP)
		total += d.P
	}
	fmt.Fprintf(&b, "# p_trail %d\n", total)
	return b.String()
}

// Fprint writes Format's rendering of t to w.
func Fprint(w io.Writer, t []trail.Differential) error {
	_, err := io.WriteString(w, Format(t))
	return err
}
