package eci

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/logging"
)

const envelopeTemplate = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <%[1]sResponse xmlns="http://tempuri.org/">
      <%[1]sResult>%[2]s</%[1]sResult>
    </%[1]sResponse>
  </soap:Body>
</soap:Envelope>`

type fakeECI struct {
	mu       sync.Mutex
	calls    []string
	bodies   []string
	invoices map[string]string // RowStart -> Invoices inner xml
	details  map[string]string // DocID -> result inner xml
	items    map[string]string // RowStart -> Items inner xml
	failAll  string
	// stuck serves the first page for every RowStart.
	stuck    bool
}

func (f *fakeECI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	action := strings.Trim(r.Header.Get("SOAPAction"), `"`)
	op := action[strings.LastIndex(action, "/")+1:]

	f.mu.Lock()
	f.calls = append(f.calls, op)
	f.bodies = append(f.bodies, string(body))
	f.mu.Unlock()

	if f.failAll != "" {
		fmt.Fprintf(w, envelopeTemplate, op, `<Success>false</Success><ErrorMessages><string>`+f.failAll+`</string></ErrorMessages>`)
		return
	}

	rowStart := elementText(body, "RowStart")
	if f.stuck {
		rowStart = "0"
	}

	switch op {
	case "GetInvoices":
		fmt.Fprintf(w, envelopeTemplate, op, `<Success>true</Success><Invoices>`+f.invoices[rowStart]+`</Invoices>`)
	case "GetInvoiceDetail":
		fmt.Fprintf(w, envelopeTemplate, op, f.details[elementText(body, "docID")])
	case "GetItems":
		fmt.Fprintf(w, envelopeTemplate, op, `<Success>true</Success><Items>`+f.items[rowStart]+`</Items>`)
	default:
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body><soap:Fault><faultcode>soap:Client</faultcode><faultstring>unknown action</faultstring></soap:Fault></soap:Body></soap:Envelope>`)
	}
}

func elementText(body []byte, name string) string {
	dec := xml.NewDecoder(bytes.NewReader(body))
	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		if start, ok := tok.(xml.StartElement); ok && start.Name.Local == name {
			var v string
			if err := dec.DecodeElement(&v, &start); err != nil {
				return ""
			}
			return v
		}
	}
}

func invoiceXML(docID, issued, account string) string {
	return fmt.Sprintf(`<Invoice><DocID>%s</DocID><IssueDate>%s</IssueDate><AccountNumber>%s</AccountNumber><Branch>MAIN</Branch></Invoice>`, docID, issued, account)
}

func lineXML(item, desc string, qty, unit, extended float64, vendor string) string {
	return fmt.Sprintf(`<Item><ItemNumber>%s</ItemNumber><Description>%s</Description><QuantitySold>%g</QuantitySold><UnitPrice>%g</UnitPrice><ExtendedPrice>%g</ExtendedPrice><VendorCode>%s</VendorCode></Item>`,
		item, desc, qty, unit, extended, vendor)
}

func detailXML(lines ...string) string {
	return `<Success>true</Success><Items>` + strings.Join(lines, "") + `</Items>`
}

func itemXML(number string, available, onHand float64, tracked bool, lastModified string) string {
	return fmt.Sprintf(`<Item><ItemNumber>%s</ItemNumber><Description>Item %s</Description><QtyAvailable>%g</QtyAvailable><QtyOnHand>%g</QtyOnHand><OnOrder>1</OnOrder><CustomerPrice>9.99</CustomerPrice><SOAverageCost>4.5</SOAverageCost><TrackOnHand>%t</TrackOnHand><LeadTime>5</LeadTime><LastModifiedDateTime>%s</LastModifiedDateTime></Item>`,
		number, number, available, onHand, tracked, lastModified)
}

func newTestClient(t *testing.T, fake *fakeECI) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c := NewClient(Config{Endpoint: srv.URL, APIKey: "secret", Branch: "MAIN"}, logging.Discard())
	c.pageSize = 2
	c.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestDailySales_PagesAndExpandsLines(t *testing.T) {
	fake := &fakeECI{
		invoices: map[string]string{
			"0": invoiceXML("D1", "2024-03-14T09:15:00", "ACC-1") + invoiceXML("D2", "2024-03-14T10:00:00", "ACC-2"),
			"2": invoiceXML("D3", "2024-03-15T08:00:00Z", "ACC-1"),
		},
		details: map[string]string{
			"D1": detailXML(lineXML("A", "Widget", 2, 5, 10, "ACME"), lineXML("B", "Gadget", 1, 7.5, 7.5, "")),
			"D2": `<Success>false</Success><ErrorMessages><string>voided</string></ErrorMessages>`,
			"D3": detailXML(lineXML("A", "Widget", 1, 5, 5, "ACME")),
		},
	}
	c := newTestClient(t, fake)

	start := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	records, err := c.DailySales(context.Background(), start, start.AddDate(0, 0, 1))
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, "D1", records[0].InvoiceID)
	assert.Equal(t, "ACC-1", records[0].AccountNumber)
	assert.Equal(t, "ACME", records[0].VendorCode)
	assert.Equal(t, "MAIN", records[0].Branch)
	assert.Equal(t, 10.0, records[0].ExtendedPrice)
	assert.True(t, records[0].InvoiceDate.Equal(time.Date(2024, 3, 14, 9, 15, 0, 0, time.UTC)))
	assert.Equal(t, "B", records[1].ItemNumber)
	assert.Equal(t, "D3", records[2].InvoiceID)

	assert.Equal(t, []string{"GetInvoices", "GetInvoices", "GetInvoiceDetail", "GetInvoiceDetail", "GetInvoiceDetail"}, fake.calls)
	assert.Contains(t, fake.bodies[0], "<apikey>secret</apikey>")
	assert.Contains(t, fake.bodies[0], "<DateRangeStart>2024-03-14</DateRangeStart>")
	assert.Contains(t, fake.bodies[0], "<InvoiceTypes><int>0</int><int>1</int><int>5</int></InvoiceTypes>")
	assert.Contains(t, fake.bodies[1], "<RowStart>2</RowStart>")
}

func TestDailySales_APIFailure(t *testing.T) {
	c := newTestClient(t, &fakeECI{failAll: "invalid api key"})

	_, err := c.DailySales(context.Background(), time.Now(), time.Now())
	require.ErrorIs(t, err, ErrAPI)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestCall_SOAPFault(t *testing.T) {
	c := newTestClient(t, &fakeECI{})

	var res itemsResult
	err := c.call(context.Background(), "DeleteEverything", getItemsRequest{XMLName: c.opName("DeleteEverything")}, &res)
	require.ErrorIs(t, err, ErrAPI)
	assert.Contains(t, err.Error(), "unknown action")
}

func TestItemSalesHistory_FiltersItemAndSorts(t *testing.T) {
	fake := &fakeECI{
		invoices: map[string]string{
			"0": invoiceXML("D2", "2024-03-10T10:00:00", "ACC-2") + invoiceXML("D1", "2024-02-01T10:00:00", "ACC-1"),
			"2": "",
		},
		details: map[string]string{
			"D1": detailXML(lineXML("A", "Widget", 3, 5, 15, ""), lineXML("AB", "Other", 9, 1, 9, "")),
			"D2": detailXML(lineXML("A", "Widget", 1, 5, 5, "")),
		},
	}
	c := newTestClient(t, fake)

	points, err := c.ItemSalesHistory(context.Background(), "A", 365)
	require.NoError(t, err)

	require.Len(t, points, 2)
	assert.Equal(t, 3.0, points[0].Quantity)
	assert.Equal(t, "ACC-1", points[0].AccountNumber)
	assert.Equal(t, 1.0, points[1].Quantity)
	assert.Contains(t, fake.bodies[0], "<SearchText>A</SearchText>")
	assert.Contains(t, fake.bodies[0], "<DateRangeStart>2023-03-16</DateRangeStart>")
}

func TestCustomerSales_RollsUpLines(t *testing.T) {
	fake := &fakeECI{
		invoices: map[string]string{"0": invoiceXML("D1", "2024-03-10T10:00:00", "ACC-1")},
		details: map[string]string{
			"D1": detailXML(lineXML("A", "Widget", 2, 5, 10, ""), lineXML("B", "Gadget", 1, 30, 30, "")),
		},
	}
	c := newTestClient(t, fake)

	start := time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	got, err := c.CustomerSales(context.Background(), "ACC-1", start, end)
	require.NoError(t, err)

	assert.Equal(t, 40.0, got.TotalRevenue)
	assert.Equal(t, 2, got.TotalItems)
	assert.Equal(t, "B", got.TopItems[0].ItemNumber)
	assert.Contains(t, fake.bodies[0], "<AccountNumber>ACC-1</AccountNumber>")
}

func TestInventory(t *testing.T) {
	fake := &fakeECI{
		items: map[string]string{
			"0": itemXML("A", 5, 5, true, "2024-03-14T08:00:00") + itemXML("B", -3, 0, true, ""),
			"2": itemXML("C", 2, 2, false, "") + itemXML("D", 40, 40, true, ""),
			"4": "",
		},
	}
	c := newTestClient(t, fake)

	levels, err := c.AllInventory(context.Background())
	require.NoError(t, err)
	require.Len(t, levels, 4)
	assert.Equal(t, 0.0, levels[1].QtyAvailable)
	assert.Equal(t, 4.5, levels[0].LastCost)
	assert.Equal(t, 9.99, levels[0].Price)
	assert.Contains(t, fake.bodies[0], "<Branch>MAIN</Branch>")

	alerts, err := c.InventoryAlerts(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, "B", alerts[0].ItemNumber)
	assert.Equal(t, 0.0, alerts[0].QtyAvailable)
	assert.Equal(t, "A", alerts[1].ItemNumber)
	assert.Equal(t, 5, alerts[1].LeadTime)
	require.NotNil(t, alerts[1].LastModified)
	assert.Nil(t, alerts[0].LastModified)
}

func TestPaging_StopsWhenVendorIgnoresRowStart(t *testing.T) {
	fake := &fakeECI{
		stuck: true,
		invoices: map[string]string{
			"0": invoiceXML("D1", "2024-03-14T09:15:00", "ACC-1") + invoiceXML("D2", "2024-03-14T10:00:00", "ACC-2"),
		},
		items: map[string]string{
			"0": itemXML("A", 5, 5, true, "") + itemXML("B", 1, 1, true, ""),
		},
	}
	c := newTestClient(t, fake)

	_, err := c.DailySales(context.Background(), time.Now(), time.Now())
	require.ErrorIs(t, err, ErrPaging)
	assert.Equal(t, []string{"GetInvoices", "GetInvoices"}, fake.calls)

	_, err = c.AllInventory(context.Background())
	require.ErrorIs(t, err, ErrPaging)
	assert.Len(t, fake.calls, 4)
}
