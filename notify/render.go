package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

type mailData struct {
	Greeting string
	Note     string
	Event
}

const htmlBody = `<!doctype html>
<html lang="en">
<head><meta charset="UTF-8"><title>Booking Confirmed</title></head>
<body style="margin:0;padding:24px;background-color:#0a0f1e;font-family:Georgia,serif;color:#cbd5e1;">
  <h1 style="font-size:12px;letter-spacing:4px;text-transform:uppercase;color:#34d399;">Booking Confirmed</h1>
  <p>Hello, <strong>{{.Greeting}}</strong></p>
  <p>{{.Note}}</p>
  <table role="presentation" cellpadding="6" cellspacing="0">
    <tr><td>Booking ID</td><td>{{.ReservationID}}</td></tr>
    <tr><td>Date</td><td>{{.Date}}</td></tr>
    {{- if .SlotLabel}}
    <tr><td>Time Slot</td><td>{{.SlotLabel}}</td></tr>
    {{- end}}
    <tr><td>Phone</td><td>{{.Phone}}</td></tr>
    <tr><td>Country</td><td>{{.Country}}</td></tr>
  </table>
  <p style="font-size:12px;">If you need to reschedule or cancel, please contact us at least 24 hours in advance.</p>
</body>
</html>
`

const textBody = `Hello {{.Greeting}}

{{.Note}}

Booking ID: {{.ReservationID}}
Date: {{.Date}}
{{if .SlotLabel}}Slot: {{.SlotLabel}}
{{end}}Phone: {{.Phone}}
Country: {{.Country}}
`

var (
	htmlTmpl = htmltemplate.Must(htmltemplate.New("html").Parse(htmlBody))
	textTmpl = texttemplate.Must(texttemplate.New("text").Parse(textBody))
)

// ConfirmationMail is sent to the requester.
func ConfirmationMail(ev Event) (Mail, error) {
	greeting := ev.FullName
	if greeting == "" {
		greeting = "there"
	}
	return render(ev.Email, "Your booking is confirmed", mailData{
		Greeting: greeting,
		Note:     fmt.Sprintf("Your booking has been confirmed for %s at %s.", ev.Date, ev.SlotLabel),
		Event:    ev,
	})
}

// OperatorMail is the copy sent to the operator inbox.
func OperatorMail(to string, ev Event) (Mail, error) {
	return render(to, fmt.Sprintf("New booking: %s (%s %s)", ev.FullName, ev.Date, ev.SlotLabel), mailData{
		Greeting: "Admin",
		Note:     "New booking received. Please check the dashboard.",
		Event:    ev,
	})
}

func render(to, subject string, data mailData) (Mail, error) {
	var html, text bytes.Buffer
	if err := htmlTmpl.Execute(&html, data); err != nil {
		return Mail{}, fmt.Errorf("render html: %w", err)
	}
	if err := textTmpl.Execute(&text, data); err != nil {
		return Mail{}, fmt.Errorf("render text: %w", err)
	}
	return Mail{To: to, Subject: subject, HTML: html.String(), Text: text.String()}, nil
}
