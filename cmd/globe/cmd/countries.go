package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/dbmrq/globe/internal/country"
	gerrors "github.com/dbmrq/globe/internal/errors"
	"github.com/dbmrq/globe/internal/i18n"
	"github.com/dbmrq/globe/internal/logging"
	"github.com/dbmrq/globe/internal/tui/components"
)

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "Query the country catalogue",
	Long:  "Commands for listing and inspecting countries without the interactive browser.",
}

var countriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List countries",
	Long: `List one page of countries, or every page with --all.

Examples:
  globe countries list
  globe countries list --page 3
  globe countries list --all --search br
  globe countries list --all --output json --file countries.json`,
	Args: cobra.NoArgs,
	RunE: runCountriesList,
}

var countriesShowCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Show one country",
	Args:  cobra.ExactArgs(1),
	RunE:  runCountriesShow,
}

func init() {
	rootCmd.AddCommand(countriesCmd)
	countriesCmd.AddCommand(countriesListCmd, countriesShowCmd)

	countriesListCmd.Flags().Int("page", 1, "Page to fetch")
	countriesListCmd.Flags().StringP("search", "s", "", "Only show countries matching name or ISO code")
	countriesListCmd.Flags().Bool("all", false, "Fetch every page")
	countriesListCmd.Flags().Int("concurrency", country.DefaultConcurrency, "Parallel page fetches with --all")
	countriesListCmd.Flags().StringP("output", "o", "table", "Output format: table or json")
	countriesListCmd.Flags().String("file", "", "Write the output to a file instead of stdout")

	countriesShowCmd.Flags().StringP("output", "o", "pretty", "Output format: pretty, markdown or json")
}

// listOutput is the JSON shape of countries list.
type listOutput struct {
	Data       []country.Summary   `json:"data"`
	Pagination *country.Pagination `json:"pagination,omitempty"`
}

func runCountriesList(cmd *cobra.Command, args []string) error {
	page, _ := cmd.Flags().GetInt("page")
	search, _ := cmd.Flags().GetString("search")
	all, _ := cmd.Flags().GetBool("all")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	output, _ := cmd.Flags().GetString("output")
	file, _ := cmd.Flags().GetString("file")

	if output != "table" && output != "json" {
		return gerrors.Validation("output", fmt.Sprintf("unknown output format %q (valid: table, json)", output))
	}
	if page < 1 {
		return gerrors.Validation("page", "page must be 1 or greater")
	}

	e, err := setup(cmd, false, true)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.requireSession(); err != nil {
		return err
	}

	var out listOutput
	if all {
		out.Data, err = country.FetchAll(cmd.Context(), e.client, concurrency)
	} else {
		var p *country.Page
		p, err = e.client.ListCountries(cmd.Context(), page)
		if p != nil {
			out.Data = p.Data
			out.Pagination = &p.Pagination
		}
	}
	if err != nil {
		return e.checkUnauthorized(err)
	}
	out.Data = country.Filter(out.Data, search)
	logging.Debug("listed countries", "count", len(out.Data), "all", all, "search", search)

	w := cmd.OutOrStdout()
	if file != "" {
		f, err := os.Create(file)
		if err != nil {
			return gerrors.StorageFailure(file, err)
		}
		defer f.Close()
		w = f
	}

	if output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	} else {
		writeCountryTable(w, e.tr, out)
	}

	if file != "" {
		cmd.Println(e.tr.T("app.exported", i18n.Params{"count": len(out.Data)}))
	}
	return nil
}

func writeCountryTable(w io.Writer, tr *i18n.Translator, out listOutput) {
	if len(out.Data) == 0 {
		fmt.Fprintln(w, tr.T("countries.noCountriesFound", nil))
		return
	}

	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		Headers("ID", "", tr.T("countries.alpha2Code", nil), tr.T("countries.alpha3Code", nil), "Name", tr.T("countries.capital", nil))
	for _, c := range out.Data {
		t.Row(string(c.ID), components.FlagEmoji(c.Alpha2Code), c.Alpha2Code, c.Alpha3Code, c.Name, c.Capital)
	}
	fmt.Fprintln(w, t.String())

	if out.Pagination != nil {
		fmt.Fprintln(w, tr.T("app.page", i18n.Params{"page": out.Pagination.Page, "last": out.Pagination.Last}))
	}
}

func runCountriesShow(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	switch output {
	case "pretty", "markdown", "json":
	default:
		return gerrors.Validation("output", fmt.Sprintf("unknown output format %q (valid: pretty, markdown, json)", output))
	}

	e, err := setup(cmd, false, true)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.requireSession(); err != nil {
		return err
	}

	detail, err := e.client.GetCountry(cmd.Context(), args[0])
	if err != nil {
		return e.checkUnauthorized(err)
	}

	w := cmd.OutOrStdout()
	if output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(detail)
	}

	md := components.DetailMarkdown(detail, e.tr)
	if output == "markdown" {
		_, err := fmt.Fprint(w, md)
		return err
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(string(e.cfg.UI.Theme)),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return err
	}
	rendered, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, rendered)
	return err
}
