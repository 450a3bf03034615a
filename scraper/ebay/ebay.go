// Package ebay queries the eBay Finding API for completed (sold) listings.
package ebay

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"phonespecs-scraper/fetch"
	"phonespecs-scraper/models"
	"phonespecs-scraper/utils"
)

// DefaultEndpoint is the production Finding API.
const DefaultEndpoint = "https://svcs.ebay.com/services/search/FindingService/v1"

// ErrMissingAppID is returned when no application ID is configured.
var ErrMissingAppID = errors.New("ebay: EBAY_APP_ID is not set")

// AckError is returned when the API answers with a non-Success acknowledgment.
type AckError struct {
	Ack     string
	Message string
}

func (e *AckError) Error() string {
	return fmt.Sprintf("ebay: ack %s: %s", e.Ack, e.Message)
}

// Options configures a Client.
type Options struct {
	AppID          string
	Endpoint       string
	EntriesPerPage int
	Timeout        time.Duration
}

// Client calls findCompletedItems.
type Client struct {
	http   *resty.Client
	opts   Options
	logger *utils.Logger
}

// NewClient returns a Client; empty options fall back to the production
// endpoint and 100 entries per page.
func NewClient(opts Options, logger *utils.Logger) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.EntriesPerPage <= 0 {
		opts.EntriesPerPage = 100
	}
	client := resty.New()
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	return &Client{http: client, opts: opts, logger: logger}
}

// The Finding API JSON format wraps every value in a single-element array.
type findCompletedItemsEnvelope struct {
	Response []struct {
		Ack          []string `json:"ack"`
		SearchResult []struct {
			Count string `json:"@count"`
			Item  []item `json:"item"`
		} `json:"searchResult"`
		ErrorMessage []struct {
			Error []struct {
				Message []string `json:"message"`
			} `json:"error"`
		} `json:"errorMessage"`
	} `json:"findCompletedItemsResponse"`
}

type item struct {
	Title         []string `json:"title"`
	SellingStatus []struct {
		CurrentPrice []struct {
			CurrencyID string `json:"@currencyId"`
			Value      string `json:"__value__"`
		} `json:"currentPrice"`
	} `json:"sellingStatus"`
	ListingInfo []struct {
		EndTime []string `json:"endTime"`
	} `json:"listingInfo"`
}

func first[T any](s []T) (T, bool) {
	var zero T
	if len(s) == 0 {
		return zero, false
	}
	return s[0], true
}

func firstOr(s []string, fallback string) string {
	if v, ok := first(s); ok {
		return v
	}
	return fallback
}

// FindCompletedItems returns the sold listings matching keywords, most
// recently ended first.
func (c *Client) FindCompletedItems(ctx context.Context, keywords string) ([]models.RawSoldItem, error) {
	if c.opts.AppID == "" {
		return nil, ErrMissingAppID
	}

	var env findCompletedItemsEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"OPERATION-NAME":                 "findCompletedItems",
			"SERVICE-VERSION":                "1.0.0",
			"SECURITY-APPNAME":               c.opts.AppID,
			"RESPONSE-DATA-FORMAT":           "JSON",
			"REST-PAYLOAD":                   "",
			"keywords":                       keywords,
			"itemFilter(0).name":             "SoldItemsOnly",
			"itemFilter(0).value":            "true",
			"sortOrder":                      "EndTimeSoonest",
			"paginationInput.entriesPerPage": strconv.Itoa(c.opts.EntriesPerPage),
		}).
		ForceContentType("application/json").
		SetResult(&env).
		SetError(&env).
		Get(c.opts.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("ebay: findCompletedItems: %w", err)
	}
	c.logger.Debug("[ebay] HTTP %d, %d bytes", resp.StatusCode(), len(resp.Body()))

	body, ok := first(env.Response)
	if !ok {
		if resp.IsError() {
			return nil, &fetch.StatusError{URL: c.opts.Endpoint, StatusCode: resp.StatusCode()}
		}
		return nil, errors.New("ebay: response has no findCompletedItemsResponse")
	}

	if ack := firstOr(body.Ack, "Failure"); ack != "Success" {
		msg := "Unknown error"
		if em, ok := first(body.ErrorMessage); ok {
			if e, ok := first(em.Error); ok {
				msg = firstOr(e.Message, msg)
			}
		}
		return nil, &AckError{Ack: ack, Message: msg}
	}

	var items []item
	if sr, ok := first(body.SearchResult); ok {
		items = sr.Item
	}

	out := make([]models.RawSoldItem, 0, len(items))
	for _, it := range items {
		raw := models.RawSoldItem{
			Title:    firstOr(it.Title, "N/A"),
			RawPrice: "N/A",
			EndTime:  "N/A",
		}
		if ss, ok := first(it.SellingStatus); ok {
			if price, ok := first(ss.CurrentPrice); ok {
				if price.Value != "" {
					raw.RawPrice = price.Value
				}
				raw.Currency = price.CurrencyID
			}
		}
		if li, ok := first(it.ListingInfo); ok {
			raw.EndTime = firstOr(li.EndTime, "N/A")
		}
		out = append(out, raw)
	}

	c.logger.Info("[ebay] Found %d sold listings for %q", len(out), keywords)
	return out, nil
}
