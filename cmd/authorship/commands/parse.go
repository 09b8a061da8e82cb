package commands

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/authorship/annotation"
	"github.com/teranos/authorship/display"
	"github.com/teranos/authorship/errors"
)

type parsed struct {
	Input      string `json:"input"`
	Production string `json:"production"`
	ID         string `json:"id,omitempty"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	URL        string `json:"url,omitempty"`
	Valid      bool   `json:"valid"`
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <text>...",
		Short: "Show how annotation text is parsed into an author",
		Long: `Parse each argument with the @author grammar and show the resulting record.

Productions are tried in order: a bare email, "name - token",
"name (token)", "name <token>", and finally the whole text as a name.
The token becomes the email or URL when it validates as one.`,
		Example: `  authorship parse "Jane Doe <jane@example.com>" "jdoe (https://example.com/jdoe)"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]parsed, 0, len(args))
			for _, text := range args {
				a, production := annotation.ParseWithProduction(text)
				results = append(results, parsed{
					Input:      text,
					Production: production,
					ID:         a.ID,
					Name:       a.Name,
					Email:      a.Email,
					URL:        a.URL,
					Valid:      a.IsValid(),
				})
			}

			if display.ShouldOutputJSON(cmd) {
				return display.OutputJSON(cmd.OutOrStdout(), results)
			}

			data := pterm.TableData{{"Input", "Production", "Name", "Email", "URL", "Valid"}}
			for _, r := range results {
				data = append(data, []string{r.Input, r.Production, r.Name, r.Email, r.URL, strconv.FormatBool(r.Valid)})
			}
			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Wrap(err, "failed to render table")
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}
