package cli

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/spf13/cobra"

	"text2phenotype.com/ner/pipeline"
)

func newParseCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse [text...]",
		Short: "Tokenize, tag and chunk text given as arguments or on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := a.loadBundle(cmd.Context())
			if err != nil {
				return err
			}
			stem, err := a.stemmer()
			if err != nil {
				return err
			}
			ppln, err := pipeline.FromBundle(bundle, stem, a.cfg.POSBeam)
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			if len(args) == 0 {
				b, err := ioutil.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				text = string(b)
			}

			resp, ok := <-ppln(pipeline.Request{Tid: "cli", Text: text})
			if !ok {
				return fmt.Errorf("pipeline returned no response")
			}
			if asJSON {
				fmt.Fprintln(cmd.OutOrStdout(), resp)
				return nil
			}
			return printTrees(cmd, resp)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full JSON response")
	return cmd
}

func printTrees(cmd *cobra.Command, resp string) error {
	var response pipeline.Response
	if err := json.Unmarshal([]byte(resp), &response); err != nil {
		return err
	}
	for _, sent := range response.Sentences {
		if sent.Error != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "error: %s\n", sent.Error)
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), sent.Tree)
	}
	return nil
}
