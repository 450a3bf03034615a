package commands

import (
	"github.com/spf13/cobra"

	"phonespecs-scraper/scraper/gsmarena"
	"phonespecs-scraper/services"
	"phonespecs-scraper/storage"
	"phonespecs-scraper/utils"
)

const defaultDetailsOutput = "scraped_output.json"

var detailsFailed string

func init() {
	detailsCmd.Flags().StringVar(&detailsFailed, "failed", "", "also write the entries that failed to this file")
	rootCmd.AddCommand(detailsCmd)
}

var detailsCmd = &cobra.Command{
	Use:     "details <input_json_file> [output_json_file]",
	Short:   "Fetch the spec sheet of every device in a listing file.",
	Example: "  phonespecs details google_pixel_phones.json scraped_data.json",
	Args:    cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		output := defaultDetailsOutput
		if len(args) > 1 {
			output = args[1]
		}

		entries, err := storage.LoadListingEntries(args[0])
		if err != nil {
			return err
		}

		f, release, err := newFetcher(detailUserAgent())
		if err != nil {
			return err
		}
		defer release()

		extractor := gsmarena.NewExtractor(f, logger, gsmarena.ExtractorOptions{
			RateLimitRetries: cfg.RateLimitRetries,
			RateLimitBackoff: cfg.RateLimitBackoff,
		})
		driver := services.NewBatchDriver(extractor, utils.NewPacer(cfg.DetailDelayMin, cfg.DetailDelayMax), logger)

		result, err := driver.Run(cmd.Context(), entries)
		if err != nil {
			return err
		}

		if err := storage.WriteJSON(output, result.Succeeded); err != nil {
			return err
		}
		if detailsFailed != "" {
			if err := storage.WriteJSON(detailsFailed, result.FailedEntries()); err != nil {
				return err
			}
		}

		services.NewInsightService(logger, cmd.OutOrStdout()).PrintBatch(result)
		logger.Info("[batch] Saved %d records to %s", len(result.Succeeded), output)
		return nil
	},
}
