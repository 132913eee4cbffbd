package graphfs

import (
	"github.com/kuitang/outliner-e2e/internal/randutil"
)

// Seed creates a graph in dir holding n random pages of one to four blocks
// each, some with a nested child. It returns the pages written.
func Seed(dir string, rnd *randutil.Rand, n int) (*Graph, []Page, error) {
	g, err := Create(dir)
	if err != nil {
		return nil, nil, err
	}
	pages := make([]Page, 0, n)
	for i := 0; i < n; i++ {
		p := Page{Title: "page " + rnd.String(12)}
		for j := rnd.Int(1, 4); j > 0; j-- {
			b := NewBlock("block " + rnd.String(rnd.Int(4, 24)))
			if rnd.Bool() {
				b.Children = append(b.Children, NewBlock("child "+rnd.String(8)))
			}
			p.Blocks = append(p.Blocks, b)
		}
		if err := g.WritePage(p); err != nil {
			return nil, nil, err
		}
		pages = append(pages, p)
	}
	return g, pages, nil
}
