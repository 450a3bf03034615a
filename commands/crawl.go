package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"phonespecs-scraper/fetch"
	"phonespecs-scraper/scraper/gsmarena"
	"phonespecs-scraper/services"
	"phonespecs-scraper/storage"
)

var (
	crawlOutput  string
	crawlSummary string
)

func init() {
	crawlCmd.Flags().StringVarP(&crawlOutput, "output", "o", "", "entries JSON file (default from the vendor rule)")
	crawlCmd.Flags().StringVar(&crawlSummary, "summary", "", "summary JSON file (default from the vendor rule)")
	rootCmd.AddCommand(crawlCmd)
}

var crawlCmd = &cobra.Command{
	Use:   "crawl <vendor>",
	Short: "Crawl a vendor's catalog listing and save every kept device.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.ToLower(args[0])
		rule, err := vendors.Lookup(name)
		if err != nil {
			return err
		}
		policy, err := gsmarena.PolicyFor(rule)
		if err != nil {
			return fmt.Errorf("vendor %s: %w", name, err)
		}
		startURL, err := gsmarena.StartURL(rule)
		if err != nil {
			return fmt.Errorf("vendor %s: %w", name, err)
		}

		f, release, err := newFetcher(fetch.StaticUserAgent(cfg.ListingUserAgent))
		if err != nil {
			return err
		}
		defer release()

		logger.Info("[crawl] Scraping %s from %s", rule.Description, startURL)
		result, err := gsmarena.NewSession(f, logger).Crawl(cmd.Context(), startURL, policy)
		if err != nil {
			return fmt.Errorf("crawl %s: %w", name, err)
		}

		output := firstNonEmpty(crawlOutput, rule.Output, name+"_phones.json")
		if err := storage.WriteJSON(output, result.Entries); err != nil {
			return err
		}
		summary := result.Summary()
		summaryPath := firstNonEmpty(crawlSummary, rule.Summary, name+"_phones_summary.json")
		if err := storage.WriteJSON(summaryPath, summary); err != nil {
			return err
		}

		services.NewInsightService(logger, cmd.OutOrStdout()).PrintListing(name, summary)
		logger.Info("[crawl] Saved %s and %s", output, summaryPath)
		return nil
	},
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
