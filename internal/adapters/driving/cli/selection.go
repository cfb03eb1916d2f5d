package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/grimorium/internal/core/domain"
	"github.com/custodia-labs/grimorium/internal/core/services"
)

// selectionFlags picks the range an annotation is anchored to, either by
// explicit offsets or by the Nth occurrence of a term.
type selectionFlags struct {
	start         int
	end           int
	find          string
	occurrence    int
	caseSensitive bool
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.start, "start", -1, "first rune offset of the selection")
	cmd.Flags().IntVar(&f.end, "end", -1, "rune offset one past the selection")
	cmd.Flags().StringVar(&f.find, "find", "", "select an occurrence of this text instead of offsets")
	cmd.Flags().IntVar(&f.occurrence, "occurrence", 1, "which occurrence of --find to select (1-based)")
	cmd.Flags().BoolVar(&f.caseSensitive, "case-sensitive", false, "match --find case-sensitively")
}

func (f *selectionFlags) reset() {
	*f = selectionFlags{start: -1, end: -1, occurrence: 1}
}

// resolve turns the flags into a range of the open chapter.
//
// Offsets go through the rendered view the same way a front-end selection
// does, so a selection that only covers badges is rejected as empty.
func (f *selectionFlags) resolve() (domain.Range, error) {
	start, end := f.start, f.end
	if f.find != "" {
		hit, err := services.Occurrence(chapterService.Content(), f.find, f.occurrence,
			services.FindOptions{CaseSensitive: f.caseSensitive})
		if err != nil {
			return domain.Range{}, err
		}
		start, end = hit.Start, hit.End
	}
	if start < 0 || end < 0 {
		return domain.Range{}, errors.New("either --find or both --start and --end are required")
	}

	tree, err := chapterService.Render()
	if err != nil {
		return domain.Range{}, err
	}
	return services.SelectOffsets(services.BuildView(tree), start, end)
}
