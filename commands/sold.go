package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"phonespecs-scraper/scraper/ebay"
	"phonespecs-scraper/services"
	"phonespecs-scraper/storage"
)

var soldOutput string

func init() {
	soldCmd.Flags().StringVarP(&soldOutput, "output", "o", "", "CSV file (default ebay_sold_data_<keywords>.csv)")
	rootCmd.AddCommand(soldCmd)
}

var soldCmd = &cobra.Command{
	Use:   "sold <keywords...>",
	Short: "Look up recently sold eBay listings and save their prices as CSV.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keywords := strings.Join(args, " ")

		client := ebay.NewClient(ebay.Options{
			AppID:          cfg.EbayAppID,
			Endpoint:       cfg.EbayFindingURL,
			EntriesPerPage: cfg.EbayEntriesPerPage,
			Timeout:        cfg.RequestTimeout,
		}, logger)

		raw, err := client.FindCompletedItems(cmd.Context(), keywords)
		if err != nil {
			return err
		}

		items := services.NewCleaner(logger).Clean(raw)
		if len(items) == 0 {
			logger.Warn("[ebay] No sold listings with a price for %q, nothing written", keywords)
			return nil
		}

		path := soldOutput
		if path == "" {
			path = storage.SoldItemsFilename(keywords)
		}
		w, err := storage.NewCSVWriter(path)
		if err != nil {
			return err
		}
		if err := w.WriteSold(items); err != nil {
			_ = w.Close()
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
		logger.Info("[ebay] Data saved to %s", path)

		insights := services.NewInsightService(logger, cmd.OutOrStdout())
		insights.PrintSold(insights.Generate(keywords, items))
		return nil
	},
}
