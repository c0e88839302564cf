package label

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Product carries the catalog fields printed on a product label, each
// in the primary and Albanian variants.
type Product struct {
	Name        string
	NameAlb     string
	Importer    string
	ImporterAlb string
	Location    string
	LocationAlb string
}

// Lines returns the text lines of a product label in print order.
func (p Product) Lines() []string {
	return []string{
		"Артикл:  " + p.Name,
		"Увозник:  " + p.Importer,
		"Седиште:  " + p.Location,
		"Потекло: Кина   Origjina: Kina",
		"Artikulli:  " + p.NameAlb,
		"Importues:  " + p.ImporterAlb,
		"Shtabi:  " + p.LocationAlb,
	}
}

// Catalog looks up product metadata for a barcode on the remote
// purchase-order API.
type Catalog struct {
	// Domain is the API host, reached over https.
	Domain string
	// BaseURL overrides the https://Domain base when set. Mostly for
	// tests.
	BaseURL string
	// Client defaults to http.DefaultClient.
	Client *http.Client
}

func (c *Catalog) base() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return "https://" + c.Domain
}

func (c *Catalog) httpClient() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	return http.DefaultClient
}

// Lookup fetches the product behind a barcode.
func (c *Catalog) Lookup(ctx context.Context, barcodeText string) (_ Product, err error) {
	defer deferWrap(&err)

	u := c.base() + "/api/purchase-order?" + url.Values{"barcode": {barcodeText}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("catalog returned %s", resp.Status)
		return
	}

	var body struct {
		PurchaseOrder struct {
			Name       string `json:"name"`
			NameAlb    string `json:"nameAlb"`
			PltCompany struct {
				Name        string `json:"name"`
				NameAlb     string `json:"nameAlb"`
				Location    string `json:"location"`
				LocationAlb string `json:"locationAlb"`
			} `json:"pltCompany"`
		} `json:"purchaseOrder"`
	}
	err = json.NewDecoder(resp.Body).Decode(&body)
	if err != nil {
		return
	}

	po := body.PurchaseOrder
	return Product{
		Name:        po.Name,
		NameAlb:     po.NameAlb,
		Importer:    po.PltCompany.Name,
		ImporterAlb: po.PltCompany.NameAlb,
		Location:    po.PltCompany.Location,
		LocationAlb: po.PltCompany.LocationAlb,
	}, nil
}
