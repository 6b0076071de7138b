package utils

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"storefront_back_end/internal/config"
	"storefront_back_end/internal/models"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/wneessen/go-mail"
)

// Mailer envoie les e-mails transactionnels via SMTP.
type Mailer struct {
	cfg config.SMTPConfig
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) SendOrderConfirmation(ctx context.Context, order models.Order, to string) error {
	body, err := GenerateOrderConfirmationHTML(order)
	if err != nil {
		return err
	}
	return m.send(ctx, to, fmt.Sprintf("Confirmation de votre commande %s", order.OrderNumber), body)
}

func (m *Mailer) send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return err
	}

	log.Ctx(ctx).Info().Str("to", to).Msg("📤 Envoi de l'e-mail")
	return client.DialAndSendWithContext(ctx, msg)
}

var templateFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) + " €" },
	"lineTotal": func(item models.OrderItem) string {
		return item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).StringFixed(2) + " €"
	},
}

var orderConfirmationTmpl = template.Must(template.New("order").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<title>Confirmation de commande</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Merci pour votre commande {{.OrderNumber}}</h2>
		<p>Bonjour {{.ShippingName}},</p>
		<p>Votre commande a bien été enregistrée.</p>
		<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 10px; text-align: left;">Produit</th>
					<th style="padding: 10px; text-align: left;">Quantité</th>
					<th style="padding: 10px; text-align: left;">Prix unitaire</th>
					<th style="padding: 10px; text-align: left;">Total</th>
				</tr>
			</thead>
			<tbody>
			{{- range .Items}}
				<tr>
					<td style="padding: 10px;">{{.ProductName}}{{if .Size}} ({{.Size}}){{end}}{{if .Color}} {{.Color}}{{end}}</td>
					<td style="padding: 10px;">{{.Quantity}}</td>
					<td style="padding: 10px;">{{money .Price}}</td>
					<td style="padding: 10px;">{{lineTotal .}}</td>
				</tr>
			{{- end}}
			</tbody>
			<tfoot>
				<tr><td colspan="3" style="text-align: right;">Sous-total :</td><td>{{money .Subtotal}}</td></tr>
				<tr><td colspan="3" style="text-align: right;">Taxe :</td><td>{{money .Tax}}</td></tr>
				<tr><td colspan="3" style="text-align: right;">Livraison :</td><td>{{money .Shipping}}</td></tr>
				<tr><td colspan="3" style="text-align: right; font-weight: bold;">Total :</td><td style="font-weight: bold;">{{money .Total}}</td></tr>
			</tfoot>
		</table>
		<p>Livraison : {{.ShippingAddress}}, {{.ShippingZip}} {{.ShippingCity}}, {{.ShippingCountry}}</p>
	</div>
</body>
</html>`))

// GenerateOrderConfirmationHTML rend le récapitulatif de commande.
func GenerateOrderConfirmationHTML(order models.Order) (string, error) {
	var buf bytes.Buffer
	if err := orderConfirmationTmpl.Execute(&buf, order); err != nil {
		return "", err
	}
	return buf.String(), nil
}
