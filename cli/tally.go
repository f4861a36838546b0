package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"text2phenotype.com/ner/corpus"
)

func newTallyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tally",
		Short: "Print raw entity type counts of the corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			train, test, err := a.loadCorpus(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			counts := corpus.Tally(append(train, test...))

			entityTypes := make([]string, 0, len(counts))
			for entityType := range counts {
				entityTypes = append(entityTypes, entityType)
			}
			sort.Slice(entityTypes, func(i, j int) bool {
				ci, cj := counts[entityTypes[i]], counts[entityTypes[j]]
				if ci != cj {
					return ci > cj
				}
				return entityTypes[i] < entityTypes[j]
			})
			for _, entityType := range entityTypes {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", entityType, counts[entityType])
			}
			return nil
		},
	}
}
