// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/shopfront/storefront-api/internal/config"
	"github.com/shopfront/storefront-api/internal/domain/order"
)

// Service renders order invoices with wkhtmltopdf
type Service struct {
	company CompanyInfo
	tmpl    *template.Template
	now     func() time.Time
}

// NewService creates a new PDF service
func NewService(app config.AppConfig) *Service {
	return &Service{
		company: CompanyInfo{
			Name:    app.CompanyName,
			Address: app.CompanyAddress,
			Email:   app.CompanyEmail,
		},
		tmpl: template.Must(template.New("invoice").Parse(invoiceTemplate)),
		now:  time.Now,
	}
}

// GenerateInvoice generates a PDF invoice for an order
func (s *Service) GenerateInvoice(o *order.Order) (*bytes.Buffer, error) {
	htmlContent, err := s.RenderHTML(o)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}
	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(htmlContent))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}
	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// RenderHTML renders the invoice markup fed to wkhtmltopdf
func (s *Service) RenderHTML(o *order.Order) ([]byte, error) {
	now := s.now()
	data := InvoiceData{
		InvoiceNumber: "INV-" + o.OrderNumber,
		InvoiceDate:   now.Format("January 2, 2006"),
		Order:         o,
		Company:       s.company,
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// InvoiceData represents the data passed to the invoice template
type InvoiceData struct {
	InvoiceNumber string
	InvoiceDate   string
	Order         *order.Order
	Company       CompanyInfo
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name    string
	Address string
	Email   string
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Invoice {{.InvoiceNumber}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
.header { margin-bottom: 30px; border-bottom: 2px solid #eee; padding-bottom: 20px; }
.invoice-title { font-size: 28px; font-weight: bold; color: #2563eb; }
table.items { width: 100%; border-collapse: collapse; margin-top: 20px; }
table.items th { background: #f8fafc; text-align: left; padding: 10px; border-bottom: 2px solid #e2e8f0; }
table.items td { padding: 10px; border-bottom: 1px solid #e2e8f0; }
.num { text-align: right; }
.total { font-size: 18px; font-weight: bold; }
.status-paid { color: #16a34a; }
.status-pending { color: #ca8a04; }
.footer { margin-top: 40px; font-size: 12px; color: #666; }
</style>
</head>
<body>
<div class="header">
  <div class="invoice-title">INVOICE</div>
  <h1>{{.Company.Name}}</h1>
  <p>{{.Company.Address}}</p>
  <p>Email: {{.Company.Email}}</p>
  <p><strong>Invoice #:</strong> {{.InvoiceNumber}}</p>
  <p><strong>Invoice Date:</strong> {{.InvoiceDate}}</p>
  <p><strong>Order #:</strong> {{.Order.OrderNumber}}</p>
  <p><strong>Order Date:</strong> {{.Order.CreatedAt.Format "January 2, 2006"}}</p>
  <p><strong>Payment:</strong> <span class="{{if .Order.IsPaid}}status-paid{{else}}status-pending{{end}}">{{.Order.PaymentStatus}}</span></p>
  <p><strong>Status:</strong> {{.Order.OrderStatus}}</p>
</div>
<div>
  <h3>Ship To</h3>
  <p>{{.Order.ShippingAddress.Street}}</p>
  <p>{{.Order.ShippingAddress.City}}{{if .Order.ShippingAddress.State}}, {{.Order.ShippingAddress.State}}{{end}} {{.Order.ShippingAddress.ZipCode}}</p>
  <p>{{.Order.ShippingAddress.Country}}</p>
  {{if .Order.PhoneNumber}}<p>Phone: {{.Order.PhoneNumber}}</p>{{end}}
  <p>Email: {{.Order.Email}}</p>
</div>
<table class="items">
  <thead><tr><th>Item</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Total</th></tr></thead>
  <tbody>
  {{range .Order.Items}}
  <tr>
    <td>{{.ProductName}}</td>
    <td class="num">{{.Quantity}}</td>
    <td class="num">${{.Price.StringFixed 2}}</td>
    <td class="num">${{.TotalPrice.StringFixed 2}}</td>
  </tr>
  {{end}}
  </tbody>
</table>
<p class="num total">Total ({{.Order.TotalItems}} items): ${{.Order.TotalAmount.StringFixed 2}}</p>
{{if .Order.Notes}}<p>Notes: {{.Order.Notes}}</p>{{end}}
<div class="footer">
  <p>Thank you for your business.</p>
  <p>If you have any questions about this invoice, please contact us at {{.Company.Email}}</p>
</div>
</body>
</html>`
