package payment

// Item is one checkout line.
type Item struct {
	ID          string  `json:"id,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	CurrencyID  string  `json:"currency_id,omitempty"`
}

type Payer struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
}

// BackURLs are the routes the checkout returns the payer to.
type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type PreferenceRequest struct {
	Items             []Item   `json:"items"`
	Payer             Payer    `json:"payer"`
	BackURLs          BackURLs `json:"back_urls"`
	AutoReturn        string   `json:"auto_return,omitempty"`
	ExternalReference string   `json:"external_reference,omitempty"`
}

// Preference is the pending checkout created upstream.
type Preference struct {
	ID                 string `json:"id"`
	CheckoutURL        string `json:"init_point"`
	SandboxCheckoutURL string `json:"sandbox_init_point"`
}

// URL picks the sandbox or production checkout link.
func (p *Preference) URL(sandbox bool) string {
	if sandbox && p.SandboxCheckoutURL != "" {
		return p.SandboxCheckoutURL
	}
	return p.CheckoutURL
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Status  int    `json:"status"`
}
