package mail

import (
	"strings"
	"text/template"
)

// Templates are rendered with text/template: values are embedded as
// received, without HTML escaping.

const confirmationSubject = "Booking Confirmed - Friendly Voice"

const adminSubject = "🔔 New Booking Received"

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #ec4899;">✅ Booking Confirmed!</h2>
  <p>Dear {{.UserName}},</p>
  <p>Thank you for booking with Friendly Voice. Your payment has been received successfully.</p>

  <div style="background: #f3f4f6; padding: 20px; border-radius: 10px; margin: 20px 0;">
    <h3 style="color: #6b21a8;">Booking Details:</h3>
    <p><strong>Payment ID:</strong> {{.PaymentID}}</p>
    <p><strong>Amount Paid:</strong> ₹{{.AmountText}}</p>
    <p><strong>Call Duration:</strong> {{.Duration}} minutes</p>
    <p><strong>Phone Number:</strong> {{.UserPhone}}</p>
  </div>

  <p><strong>What's Next?</strong></p>
  <p>We will call you within 24 hours on your registered phone number. Please ensure your phone is reachable.</p>

  <p style="color: #dc2626;"><strong>Important:</strong> If we are unable to reach you due to incorrect contact details, no refund will be provided.</p>

  <p>If you have any questions, reply to this email or contact us at support@friendlyvoice.com</p>

  <p>Warm regards,<br><strong>Friendly Voice Team</strong></p>
</div>
`))

var adminTmpl = template.Must(template.New("admin").Parse(`
<h2>New Booking Alert</h2>
<p><strong>Name:</strong> {{.UserName}}</p>
<p><strong>Email:</strong> {{.UserEmail}}</p>
<p><strong>Phone:</strong> {{.UserPhone}}</p>
<p><strong>Amount:</strong> ₹{{.AmountText}}</p>
<p><strong>Duration:</strong> {{.Duration}} minutes</p>
<p><strong>Payment ID:</strong> {{.PaymentID}}</p>
<p><strong>Booking Time:</strong> {{.BookedAtText}}</p>
`))

func render(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
