package eci

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"salesdash/analytics"
	"salesdash/logging"
	"salesdash/models"
	"salesdash/utils"
)

const (
	DefaultNamespace = "http://tempuri.org/"
	DefaultTimeout   = 30 * time.Second
	pageSize         = 999

	// maxPages bounds a single paged listing.
	maxPages = 1000
)

// ErrPaging is returned when a paged listing does not advance.
var ErrPaging = errors.New("eci paging did not advance")

// Ticket, Invoice and Installed Sale.
var saleInvoiceTypes = []int{0, 1, 5}

// Config configures the vendor API client.
type Config struct {
	Endpoint  string
	APIKey    string
	Namespace string
	Branch    string
	Timeout   time.Duration
	Location  *time.Location
}

// Client reads sales and inventory from the vendor SOAP API and returns them
// as normalized records.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	namespace  string
	branch     string
	loc        *time.Location
	pageSize   int
	now        func() time.Time
	logger     *logging.Logger
}

func NewClient(cfg Config, logger *logging.Logger) *Client {
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		namespace:  cfg.Namespace,
		branch:     cfg.Branch,
		loc:        cfg.Location,
		pageSize:   pageSize,
		now:        time.Now,
		logger:     logger.WithComponent("eci"),
	}
}

// Configured reports whether an endpoint has been set.
func (c *Client) Configured() bool {
	return c.endpoint != ""
}

type invoiceFilter struct {
	AccountNumber  string `xml:"AccountNumber,omitempty"`
	DateRangeStart string `xml:"DateRangeStart"`
	DateRangeEnd   string `xml:"DateRangeEnd"`
	InvoiceTypes   []int  `xml:"InvoiceTypes>int"`
	RowMaxCount    int    `xml:"RowMaxCount"`
	RowStart       int    `xml:"RowStart"`
	SearchText     string `xml:"SearchText,omitempty"`
}

type getInvoicesRequest struct {
	XMLName xml.Name
	APIKey  string        `xml:"apikey"`
	Filter  invoiceFilter `xml:"invoicefilter"`
}

type invoice struct {
	DocID         string `xml:"DocID"`
	IssueDate     string `xml:"IssueDate"`
	AccountNumber string `xml:"AccountNumber"`
	Branch        string `xml:"Branch"`
}

type invoicesResult struct {
	ResultStatus
	Invoices []invoice `xml:"Invoices>Invoice"`
}

type getInvoiceDetailRequest struct {
	XMLName xml.Name
	APIKey  string `xml:"apikey"`
	DocID   string `xml:"docID"`
}

type invoiceLine struct {
	ItemNumber    string  `xml:"ItemNumber"`
	Description   string  `xml:"Description"`
	QuantitySold  float64 `xml:"QuantitySold"`
	UnitPrice     float64 `xml:"UnitPrice"`
	ExtendedPrice float64 `xml:"ExtendedPrice"`
	VendorCode    string  `xml:"VendorCode"`
}

type invoiceDetailResult struct {
	ResultStatus
	Items []invoiceLine `xml:"Items>Item"`
}

type itemFilter struct {
	Branch      string `xml:"Branch"`
	RowMaxCount int    `xml:"RowMaxCount"`
	RowStart    int    `xml:"RowStart"`
}

type getItemsRequest struct {
	XMLName xml.Name
	APIKey  string     `xml:"apikey"`
	Filter  itemFilter `xml:"itemFilter"`
}

type item struct {
	ItemNumber           string  `xml:"ItemNumber"`
	Description          string  `xml:"Description"`
	QtyAvailable         float64 `xml:"QtyAvailable"`
	QtyOnHand            float64 `xml:"QtyOnHand"`
	OnOrder              float64 `xml:"OnOrder"`
	CustomerPrice        float64 `xml:"CustomerPrice"`
	SOAverageCost        float64 `xml:"SOAverageCost"`
	TrackOnHand          bool    `xml:"TrackOnHand"`
	LeadTime             int     `xml:"LeadTime"`
	LastModifiedDateTime string  `xml:"LastModifiedDateTime"`
}

type itemsResult struct {
	ResultStatus
	Items []item `xml:"Items>Item"`
}

func (c *Client) opName(op string) xml.Name {
	return xml.Name{Space: c.namespace, Local: op}
}

// invoices pages through GetInvoices until a short page is returned.
func (c *Client) invoices(ctx context.Context, filter invoiceFilter) ([]invoice, error) {
	filter.InvoiceTypes = saleInvoiceTypes
	filter.RowMaxCount = c.pageSize
	filter.RowStart = 0

	var all []invoice
	prevFirst := ""
	for page := 0; ; page++ {
		if page == maxPages {
			return nil, fmt.Errorf("%w: GetInvoices exceeded %d pages", ErrPaging, maxPages)
		}
		var res invoicesResult
		req := getInvoicesRequest{XMLName: c.opName("GetInvoices"), APIKey: c.apiKey, Filter: filter}
		if err := c.call(ctx, "GetInvoices", req, &res); err != nil {
			return nil, err
		}
		if err := res.check("GetInvoices"); err != nil {
			return nil, err
		}
		if len(res.Invoices) > 0 && page > 0 && res.Invoices[0].DocID == prevFirst {
			return nil, fmt.Errorf("%w: GetInvoices repeated page at row %d", ErrPaging, filter.RowStart)
		}
		all = append(all, res.Invoices...)
		if len(res.Invoices) < c.pageSize {
			return all, nil
		}
		prevFirst = res.Invoices[0].DocID
		filter.RowStart += c.pageSize
	}
}

func (c *Client) invoiceLines(ctx context.Context, docID string) ([]invoiceLine, error) {
	var res invoiceDetailResult
	req := getInvoiceDetailRequest{XMLName: c.opName("GetInvoiceDetail"), APIKey: c.apiKey, DocID: docID}
	if err := c.call(ctx, "GetInvoiceDetail", req, &res); err != nil {
		return nil, err
	}
	if err := res.check("GetInvoiceDetail"); err != nil {
		return nil, err
	}
	return res.Items, nil
}

// items pages through GetItems for the configured branch.
func (c *Client) items(ctx context.Context) ([]item, error) {
	filter := itemFilter{Branch: c.branch, RowMaxCount: c.pageSize}

	var all []item
	prevFirst := ""
	for page := 0; ; page++ {
		if page == maxPages {
			return nil, fmt.Errorf("%w: GetItems exceeded %d pages", ErrPaging, maxPages)
		}
		var res itemsResult
		req := getItemsRequest{XMLName: c.opName("GetItems"), APIKey: c.apiKey, Filter: filter}
		if err := c.call(ctx, "GetItems", req, &res); err != nil {
			return nil, err
		}
		if err := res.check("GetItems"); err != nil {
			return nil, err
		}
		if len(res.Items) > 0 && page > 0 && res.Items[0].ItemNumber == prevFirst {
			return nil, fmt.Errorf("%w: GetItems repeated page at row %d", ErrPaging, filter.RowStart)
		}
		all = append(all, res.Items...)
		if len(res.Items) < c.pageSize {
			return all, nil
		}
		prevFirst = res.Items[0].ItemNumber
		filter.RowStart += c.pageSize
	}
}

// saleLines fetches the invoices matching filter and expands them into line
// items. An invoice whose detail the API refuses is logged and skipped.
func (c *Client) saleLines(ctx context.Context, filter invoiceFilter, keep func(invoiceLine) bool) ([]models.SaleRecord, error) {
	invoices, err := c.invoices(ctx, filter)
	if err != nil {
		return nil, err
	}

	var records []models.SaleRecord
	for _, inv := range invoices {
		issued, err := utils.ParseTimestamp(inv.IssueDate, c.loc)
		if err != nil {
			return nil, fmt.Errorf("invoice %s has bad issue date %q: %w", inv.DocID, inv.IssueDate, err)
		}

		lines, err := c.invoiceLines(ctx, inv.DocID)
		if errors.Is(err, ErrAPI) {
			c.logger.WithError(err).Warn("Skipping invoice detail", "docId", inv.DocID)
			continue
		}
		if err != nil {
			return nil, err
		}

		for _, l := range lines {
			if keep != nil && !keep(l) {
				continue
			}
			records = append(records, models.SaleRecord{
				InvoiceID:     inv.DocID,
				InvoiceDate:   issued,
				AccountNumber: inv.AccountNumber,
				ItemNumber:    l.ItemNumber,
				Description:   l.Description,
				Quantity:      l.QuantitySold,
				UnitPrice:     l.UnitPrice,
				ExtendedPrice: l.ExtendedPrice,
				Branch:        inv.Branch,
				VendorCode:    l.VendorCode,
			})
		}
	}
	return records, nil
}

// DailySales returns every sold line item invoiced between start and end, both inclusive.
func (c *Client) DailySales(ctx context.Context, start, end time.Time) ([]models.SaleRecord, error) {
	records, err := c.saleLines(ctx, invoiceFilter{
		DateRangeStart: start.Format(time.DateOnly),
		DateRangeEnd:   end.Format(time.DateOnly),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("daily sales %s..%s: %w", start.Format(time.DateOnly), end.Format(time.DateOnly), err)
	}
	return records, nil
}

// CustomerSales summarizes one customer's purchases between start and end.
func (c *Client) CustomerSales(ctx context.Context, accountNumber string, start, end time.Time) (models.CustomerSales, error) {
	records, err := c.saleLines(ctx, invoiceFilter{
		AccountNumber:  accountNumber,
		DateRangeStart: start.Format(time.DateOnly),
		DateRangeEnd:   end.Format(time.DateOnly),
	}, nil)
	if err != nil {
		return models.CustomerSales{}, fmt.Errorf("customer sales for %s: %w", accountNumber, err)
	}
	return analytics.CustomerSales(accountNumber, start, end, records), nil
}

// ItemSalesHistory returns the item's sales over the last days days, oldest first.
func (c *Client) ItemSalesHistory(ctx context.Context, itemNumber string, days int) ([]models.SalePoint, error) {
	end := c.now().In(c.loc)
	start := end.AddDate(0, 0, -days)

	records, err := c.saleLines(ctx, invoiceFilter{
		DateRangeStart: start.Format(time.DateOnly),
		DateRangeEnd:   end.Format(time.DateOnly),
		SearchText:     itemNumber,
	}, func(l invoiceLine) bool { return l.ItemNumber == itemNumber })
	if err != nil {
		return nil, fmt.Errorf("item sales history for %s: %w", itemNumber, err)
	}

	points := make([]models.SalePoint, 0, len(records))
	for _, r := range records {
		points = append(points, models.SalePoint{
			Date:          r.InvoiceDate,
			Quantity:      r.Quantity,
			UnitPrice:     r.UnitPrice,
			ExtendedPrice: r.ExtendedPrice,
			AccountNumber: r.AccountNumber,
		})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}

func availability(qty float64) float64 {
	if qty < 0 {
		return 0
	}
	return qty
}

// AllInventory returns the current stock level of every item in the branch.
func (c *Client) AllInventory(ctx context.Context) ([]models.InventoryLevel, error) {
	items, err := c.items(ctx)
	if err != nil {
		return nil, fmt.Errorf("all inventory: %w", err)
	}

	now := c.now()
	levels := make([]models.InventoryLevel, 0, len(items))
	for _, it := range items {
		levels = append(levels, models.InventoryLevel{
			ItemNumber:   it.ItemNumber,
			Description:  it.Description,
			QtyAvailable: availability(it.QtyAvailable),
			QtyOnHand:    it.QtyOnHand,
			OnOrder:      it.OnOrder,
			LeadTime:     it.LeadTime,
			LastCost:     it.SOAverageCost,
			Price:        it.CustomerPrice,
			LastUpdated:  now,
		})
	}
	return levels, nil
}

// InventoryAlerts returns tracked items with less than threshold available,
// lowest availability first.
func (c *Client) InventoryAlerts(ctx context.Context, threshold float64) ([]models.InventoryAlert, error) {
	items, err := c.items(ctx)
	if err != nil {
		return nil, fmt.Errorf("inventory alerts: %w", err)
	}

	alerts := []models.InventoryAlert{}
	for _, it := range items {
		available := availability(it.QtyAvailable)
		if !it.TrackOnHand || available >= threshold {
			continue
		}
		alert := models.InventoryAlert{
			ItemNumber:   it.ItemNumber,
			Description:  it.Description,
			QtyAvailable: available,
			QtyOnHand:    it.QtyOnHand,
			OnOrder:      it.OnOrder,
			LeadTime:     it.LeadTime,
		}
		if it.LastModifiedDateTime != "" {
			if t, err := utils.ParseTimestamp(it.LastModifiedDateTime, c.loc); err == nil {
				alert.LastModified = &t
			}
		}
		alerts = append(alerts, alert)
	}
	sort.SliceStable(alerts, func(i, j int) bool { return alerts[i].QtyAvailable < alerts[j].QtyAvailable })
	return alerts, nil
}
