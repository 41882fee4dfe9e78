// Package doc holds the help pages shipped with the text-manipulation binary.
package doc

import (
	"embed"

	"github.com/go-go-golems/glazed/pkg/help"
)

//go:embed *.md
var pages embed.FS

// AddDocToHelpSystem registers the pipeline help pages, such as
// "pipeline-config", with the help system.
func AddDocToHelpSystem(hs *help.HelpSystem) error {
	return hs.LoadSectionsFromFS(pages, ".")
}
