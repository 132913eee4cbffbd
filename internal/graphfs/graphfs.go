// Package graphfs builds and reads graph folders: the on-disk layout an
// outliner app loads when the user picks a folder. Pages are markdown
// outlines, one block per list item, with "key:: value" property lines.
package graphfs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/kuitang/outliner-e2e/internal/errs"
)

const (
	PagesDir    = "pages"
	JournalsDir = "journals"
	ConfigDir   = "logseq"
	ConfigFile  = "config.edn"

	idProperty = "id"

	defaultConfig = "{:meta/version 1\n :file/name-format :triple-lowbar}\n"
)

// Block is one outline entry.
type Block struct {
	UUID       string
	Content    string
	Properties map[string]string
	Children   []Block
}

// Page is a titled outline.
type Page struct {
	Title  string
	Blocks []Block
}

// Graph is a graph folder on disk.
type Graph struct {
	Dir string
}

// NewBlock returns a block with a fresh UUID.
func NewBlock(content string, children ...Block) Block {
	return Block{
		UUID:     uuid.NewString(),
		Content:  content,
		Children: children,
	}
}

// Create lays out an empty graph in dir, creating it if needed.
// Existing files are kept.
func Create(dir string) (*Graph, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errs.New(errs.InvalidArgument, "graph dir is empty")
	}
	for _, sub := range []string{PagesDir, JournalsDir, ConfigDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, errs.Wrap(errs.Internal, "create graph dir", err)
		}
	}
	cfgPath := filepath.Join(dir, ConfigDir, ConfigFile)
	if _, err := os.Stat(cfgPath); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(cfgPath, []byte(defaultConfig), 0o644); err != nil {
			return nil, errs.Wrap(errs.Internal, "write graph config", err)
		}
	}
	return &Graph{Dir: dir}, nil
}

// Open returns the graph in dir. The pages folder must exist.
func Open(dir string) (*Graph, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errs.New(errs.InvalidArgument, "graph dir is empty")
	}
	info, err := os.Stat(filepath.Join(dir, PagesDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(errs.NotFound, fmt.Sprintf("no graph at %s", dir), err)
		}
		return nil, errs.Wrap(errs.Internal, "stat graph", err)
	}
	if !info.IsDir() {
		return nil, errs.New(errs.NotFound, fmt.Sprintf("no graph at %s", dir))
	}
	return &Graph{Dir: dir}, nil
}

// Name is the folder's base name, which the app shows as the graph name.
func (g *Graph) Name() string {
	return filepath.Base(filepath.Clean(g.Dir))
}

// PagePath returns the markdown file path for title.
func (g *Graph) PagePath(title string) string {
	return filepath.Join(g.Dir, PagesDir, FileName(title)+".md")
}

// WritePage writes p, replacing any existing file for the same title.
func (g *Graph) WritePage(p Page) error {
	if strings.TrimSpace(p.Title) == "" {
		return errs.New(errs.InvalidArgument, "page title is empty")
	}
	if err := os.WriteFile(g.PagePath(p.Title), []byte(FormatOutline(p.Blocks)), 0o644); err != nil {
		return errs.Wrap(errs.Internal, fmt.Sprintf("write page %q", p.Title), err)
	}
	return nil
}

// ReadPage reads the page with the given title.
func (g *Graph) ReadPage(title string) (Page, error) {
	data, err := os.ReadFile(g.PagePath(title))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Page{}, errs.Wrap(errs.NotFound, fmt.Sprintf("page %q not found", title), err)
		}
		return Page{}, errs.Wrap(errs.Internal, fmt.Sprintf("read page %q", title), err)
	}
	return Page{Title: title, Blocks: ParseOutline(data)}, nil
}

// Pages returns every page in the graph sorted by title.
func (g *Graph) Pages() ([]Page, error) {
	entries, err := os.ReadDir(filepath.Join(g.Dir, PagesDir))
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "list pages", err)
	}
	var pages []Page
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		title, err := TitleFromFileName(strings.TrimSuffix(entry.Name(), ".md"))
		if err != nil {
			continue
		}
		p, err := g.ReadPage(title)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Title < pages[j].Title })
	return pages, nil
}

// FormatOutline renders blocks as a markdown outline.
func FormatOutline(blocks []Block) string {
	var sb strings.Builder
	writeBlocks(&sb, blocks, 0)
	return sb.String()
}

func writeBlocks(sb *strings.Builder, blocks []Block, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, b := range blocks {
		lines := strings.Split(strings.TrimRight(b.Content, "\n"), "\n")
		sb.WriteString(indent + "- " + lines[0] + "\n")
		for _, line := range lines[1:] {
			sb.WriteString(indent + "  " + line + "\n")
		}
		keys := make([]string, 0, len(b.Properties))
		for k := range b.Properties {
			if k != idProperty {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(indent + "  " + k + ":: " + b.Properties[k] + "\n")
		}
		if b.UUID != "" {
			sb.WriteString(indent + "  " + idProperty + ":: " + b.UUID + "\n")
		}
		writeBlocks(sb, b.Children, depth+1)
	}
}
