package outliner

import (
	"fmt"
	"strings"
)

// Selectors for the app's DOM. They use Playwright selector syntax,
// including ">>" chaining, nth= and text= engines.
const (
	SearchButton    = "#search-button"
	SearchInput     = `[placeholder="Search or create page"]`
	NewPageResult   = `text=/.*New page: ".*/`
	FirstTextarea   = "textarea >> nth=0"
	ClickHereToEdit = `text="Click here to edit..."`

	InnerBlocks         = ".page-blocks-inner .ls-block"
	LastInnerBlock      = InnerBlocks + " >> nth=-1"
	FirstBlock          = ".ls-block >> nth=0"
	FirstBlockContent   = ".ls-block .block-content >> nth=0"
	BlockEditorTextarea = ".block-editor textarea"

	CodeMirrorPre      = ".CodeMirror pre"
	CodeMirrorTextarea = ".CodeMirror textarea"

	LeftSidebar           = "#left-sidebar"
	LeftMenuButton        = "#left-menu.button"
	RepoSwitch            = "#left-sidebar #repo-switch"
	AddNewGraphInDropdown = `#left-sidebar .dropdown-wrapper >> text="Add new graph"`
	AddNewGraph           = "text=Add new graph"
	ChooseFolder          = `strong:has-text("Choose a folder")`
	SkipLink              = `a:has-text("Skip")`
	ParsingFiles          = `:has-text("Parsing files")`
	SkipButton            = "a.button >> text=Skip"

	SidebarOpenClass = "is-open"

	// MockedOpenDirGlobal is the window property the app reads instead of
	// showing a native folder picker when running under test.
	MockedOpenDirGlobal = "__MOCKED_OPEN_DIR_PATH__"
)

// DefaultExpectedTitle is the document title once a graph is loaded.
const DefaultExpectedTitle = "Logseq"

// ImportTitles are document titles of the dialogs that may follow adding a graph.
var ImportTitles = []string{"Import data into Logseq", "Add another repo"}

// PageRef matches the search result linking to the page titled title.
func PageRef(title string) string {
	return `[data-page-ref="` + cssString(title) + `"]`
}

// InnerBlockTextarea is the editor textarea of the n-th block of the main page body.
func InnerBlockTextarea(n int) string {
	return fmt.Sprintf("%s >> nth=%d >> textarea", InnerBlocks, n)
}

// BlockTextarea is the editor textarea of the n-th block anywhere on the page.
func BlockTextarea(n int) string {
	return fmt.Sprintf(".ls-block >> nth=%d >> textarea", n)
}

// InnerBlockContent is the rendered content of the n-th block of the main page body.
func InnerBlockContent(n int) string {
	return fmt.Sprintf("%s >> nth=%d >> .block-content >> nth=0", InnerBlocks, n)
}

func cssString(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
