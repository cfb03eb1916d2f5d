package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/grimorium/internal/core/services"
)

var (
	findCaseSensitive bool
	findWholeWord     bool
)

// findContext is how many runes of surrounding text a match shows.
const findContext = 20

var findCmd = &cobra.Command{
	Use:   "find [chapter-id] [term]",
	Short: "Find every occurrence of a term",
	Long: `Lists every occurrence of a term with its rune offsets, ready to use with
"comment add --start/--end" or "--find --occurrence".`,
	Args: cobra.ExactArgs(2),
	RunE: runFind,
}

func init() {
	findCmd.Flags().BoolVarP(&findCaseSensitive, "case-sensitive", "c", false, "match case")
	findCmd.Flags().BoolVar(&findWholeWord, "whole-word", false, "only match whole words")
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	term := args[1]
	return withChapter(cmd.Context(), args[0], false, func() error {
		content := chapterService.Content()
		hits := services.Find(content, term, services.FindOptions{
			CaseSensitive: findCaseSensitive,
			WholeWord:     findWholeWord,
		})
		if len(hits) == 0 {
			cmd.Printf("No occurrences of %q.\n", term)
			return nil
		}

		runes := []rune(content)
		cmd.Printf("%d occurrence(s) of %q:\n", len(hits), term)
		for i, hit := range hits {
			from := max(hit.Start-findContext, 0)
			to := min(hit.End+findContext, len(runes))
			snippet := string(runes[from:hit.Start]) + "[" + string(runes[hit.Start:hit.End]) + "]" + string(runes[hit.End:to])
			snippet = strings.ReplaceAll(snippet, "\n", " ")
			cmd.Printf("  %d. [%d, %d)  %s\n", i+1, hit.Start, hit.End, snippet)
		}
		return nil
	})
}
