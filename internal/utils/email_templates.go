package utils

import (
	"bytes"
	"fmt"
	"html/template"

	"lorve_back_end/internal/cart"
	"lorve_back_end/internal/models"
)

const emailLayout = `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>{{.Title}}</title>
</head>
<body style="margin: 0; padding: 20px; font-family: Georgia, 'Times New Roman', serif; background-color: #f7f3ee;">
	<div style="max-width: 600px; margin: auto; background-color: #ffffff; padding: 32px; border-radius: 10px;">
		<h1 style="margin: 0 0 24px 0; letter-spacing: 6px; color: #1c1917;">LORVÉ</h1>
		{{template "content" .}}
		<p style="margin-top: 32px; color: #78716c; font-size: 13px;">With love,<br><strong>The LORVÉ team</strong></p>
	</div>
</body>
</html>`

const signupContent = `{{define "content"}}
<h2 style="color: #1c1917;">Complete your sign-up</h2>
<p style="color: #44403c; line-height: 1.6;">Click the button below to finish creating your LORVÉ account.
This link expires in one hour and can only be used once.</p>
<p style="text-align: center; margin: 32px 0;">
	<a href="{{.Link}}" style="display: inline-block; padding: 14px 36px; background-color: #1c1917; color: #ffffff; text-decoration: none; border-radius: 6px;">Finish signing up</a>
</p>
<p style="color: #a8a29e; font-size: 12px;">If you did not ask for this email you can safely ignore it.</p>
{{end}}`

const orderContent = `{{define "content"}}
<h2 style="color: #1c1917;">Thank you for your order</h2>
<p style="color: #44403c;">Order <strong>{{.Order.ID}}</strong> is confirmed and will ship to {{.Order.Address.FullName}}, {{.Order.Address.City}}.</p>
<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
	<thead>
		<tr style="background-color: #f5f5f4;">
			<th style="padding: 10px; text-align: left; border: 1px solid #e7e5e4;">Product</th>
			<th style="padding: 10px; text-align: left; border: 1px solid #e7e5e4;">Quantity</th>
			<th style="padding: 10px; text-align: right; border: 1px solid #e7e5e4;">Total</th>
		</tr>
	</thead>
	<tbody>
		{{range .Lines}}
		<tr>
			<td style="padding: 10px; border: 1px solid #e7e5e4;">{{.Name}}</td>
			<td style="padding: 10px; border: 1px solid #e7e5e4;">{{.Quantity}}</td>
			<td style="padding: 10px; text-align: right; border: 1px solid #e7e5e4;">{{.Total}}</td>
		</tr>
		{{end}}
	</tbody>
	<tfoot>
		<tr>
			<td colspan="2" style="padding: 10px; text-align: right; font-weight: bold;">Total:</td>
			<td style="padding: 10px; text-align: right; font-weight: bold;">{{.Total}}</td>
		</tr>
	</tfoot>
</table>
{{end}}`

var (
	signupTemplate = template.Must(template.Must(template.New("signup").Parse(emailLayout)).Parse(signupContent))
	orderTemplate  = template.Must(template.Must(template.New("order").Parse(emailLayout)).Parse(orderContent))
)

type orderLine struct {
	Name     string
	Quantity string
	Total    string
}

// SignupLinkHTML renders the passwordless sign-up email.
func SignupLinkHTML(link string) (string, error) {
	return render(signupTemplate, map[string]any{"Title": "Complete your LORVÉ sign-up", "Link": link})
}

// OrderConfirmationHTML renders the order receipt. Oil lines show their
// quantity in millilitres.
func OrderConfirmationHTML(order models.Order) (string, error) {
	lines := make([]orderLine, 0, len(order.Items))
	for _, item := range order.Items {
		qty := fmt.Sprintf("%d", item.Quantity)
		if cart.IsOil(item.Category) {
			qty += " ml"
		}
		lines = append(lines, orderLine{
			Name:     item.Name,
			Quantity: qty,
			Total:    "$" + cart.LineTotal(item).StringFixed(2),
		})
	}

	return render(orderTemplate, map[string]any{
		"Title": "Your LORVÉ order",
		"Order": order,
		"Lines": lines,
		"Total": fmt.Sprintf("$%.2f", order.Total),
	})
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
