package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// Builders de e-mail: cada evento de negócio tem corpo texto + HTML.
// O layout é deliberadamente simples, tabela única, para render estável
// em qualquer cliente de e-mail.

// AdoptionEmailData alimenta os e-mails do fluxo de adoção.
type AdoptionEmailData struct {
	AdopterName string
	AnimalName  string
	Status      string
}

// BuildAdoptionReceived confirma ao interessado que o pedido entrou.
func BuildAdoptionReceived(to string, data AdoptionEmailData) Email {
	return Email{
		To:       to,
		Subject:  fmt.Sprintf("Recebemos seu pedido de adoção de %s", data.AnimalName),
		TextBody: fmt.Sprintf("Olá %s,\n\nRecebemos seu pedido de adoção de %s. Nossa equipe vai analisar e entraremos em contato em breve.\n\nObrigado por escolher adotar!\n", data.AdopterName, data.AnimalName),
		HTMLBody: renderHTML(adoptionReceivedHTML, data),
	}
}

// BuildAdoptionAlert avisa a equipe do abrigo sobre um novo pedido.
func BuildAdoptionAlert(to string, data AdoptionEmailData) Email {
	return Email{
		To:       to,
		Subject:  fmt.Sprintf("Novo pedido de adoção: %s", data.AnimalName),
		TextBody: fmt.Sprintf("Novo pedido de adoção de %s por %s. Acesse o painel para avaliar.\n", data.AnimalName, data.AdopterName),
		HTMLBody: renderHTML(adoptionAlertHTML, data),
	}
}

// BuildAdoptionStatusChanged comunica o novo status ao interessado.
func BuildAdoptionStatusChanged(to string, data AdoptionEmailData) Email {
	return Email{
		To:       to,
		Subject:  fmt.Sprintf("Atualização do seu pedido de adoção de %s", data.AnimalName),
		TextBody: fmt.Sprintf("Olá %s,\n\nSeu pedido de adoção de %s foi atualizado para: %s.\n", data.AdopterName, data.AnimalName, statusLabel(data.Status)),
		HTMLBody: renderHTML(adoptionStatusHTML, data),
	}
}

// DonationEmailData alimenta o e-mail de confirmação de doação.
type DonationEmailData struct {
	DonorName    string
	DonationType string
	Amount       float64
}

func BuildDonationReceived(to string, data DonationEmailData) Email {
	return Email{
		To:       to,
		Subject:  "Obrigado pela sua doação!",
		TextBody: fmt.Sprintf("Olá %s,\n\nRegistramos sua doação (%s). Muito obrigado pelo apoio aos nossos animais!\n", data.DonorName, data.DonationType),
		HTMLBody: renderHTML(donationReceivedHTML, data),
	}
}

// ContactResponseData alimenta a resposta de uma mensagem de contato.
type ContactResponseData struct {
	Name     string
	Subject  string
	Response string
}

func BuildContactResponse(to string, data ContactResponseData) Email {
	return Email{
		To:       to,
		Subject:  "Re: " + data.Subject,
		TextBody: fmt.Sprintf("Olá %s,\n\n%s\n", data.Name, data.Response),
		HTMLBody: renderHTML(contactResponseHTML, data),
	}
}

// EventReminderData alimenta o lembrete de evento.
type EventReminderData struct {
	Name       string
	EventTitle string
	StartsAt   time.Time
	Location   string
}

func BuildEventReminder(to string, data EventReminderData) Email {
	return Email{
		To:      to,
		Subject: fmt.Sprintf("Lembrete: %s", data.EventTitle),
		TextBody: fmt.Sprintf("Olá %s,\n\nLembrete do evento %s em %s, local: %s. Esperamos você!\n",
			data.Name, data.EventTitle, data.StartsAt.Format("02/01/2006 15:04"), data.Location),
		HTMLBody: renderHTML(eventReminderHTML, data),
	}
}

// BuildTestEmail é usado pela rota de diagnóstico de SMTP.
func BuildTestEmail(to string) Email {
	return Email{
		To:       to,
		Subject:  "Teste de envio — abrigo-animais",
		TextBody: "Se você recebeu este e-mail, o envio está configurado corretamente.\n",
		HTMLBody: "<p>Se você recebeu este e-mail, o envio está configurado corretamente.</p>",
	}
}

func statusLabel(status string) string {
	switch status {
	case "pending":
		return "aguardando análise"
	case "inReview":
		return "em análise"
	case "approved":
		return "aprovado"
	case "rejected":
		return "não aprovado"
	}
	return status
}

func renderHTML(tmpl *template.Template, data any) string {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return ""
	}
	return buf.String()
}

var emailFuncs = template.FuncMap{
	"statusLabel": statusLabel,
	"datetime": func(t time.Time) string {
		return t.Format("02/01/2006 15:04")
	},
}

var (
	adoptionReceivedHTML = mustTemplate("adoption_received", `
<table width="100%" cellpadding="0" cellspacing="0" style="font-family: Arial, sans-serif; color: #333;">
  <tr><td style="padding: 24px;">
    <h2 style="color: #2f855a;">Pedido recebido!</h2>
    <p>Olá {{.AdopterName}},</p>
    <p>Recebemos seu pedido de adoção de <strong>{{.AnimalName}}</strong>.
    Nossa equipe vai analisar e entraremos em contato em breve.</p>
    <p>Obrigado por escolher adotar!</p>
  </td></tr>
</table>`)

	adoptionAlertHTML = mustTemplate("adoption_alert", `
<table width="100%" cellpadding="0" cellspacing="0" style="font-family: Arial, sans-serif; color: #333;">
  <tr><td style="padding: 24px;">
    <h2>Novo pedido de adoção</h2>
    <p><strong>{{.AdopterName}}</strong> quer adotar <strong>{{.AnimalName}}</strong>.</p>
    <p>Acesse o painel para avaliar o pedido.</p>
  </td></tr>
</table>`)

	adoptionStatusHTML = mustTemplate("adoption_status", `
<table width="100%" cellpadding="0" cellspacing="0" style="font-family: Arial, sans-serif; color: #333;">
  <tr><td style="padding: 24px;">
    <h2>Atualização do seu pedido</h2>
    <p>Olá {{.AdopterName}},</p>
    <p>Seu pedido de adoção de <strong>{{.AnimalName}}</strong> está:
    <strong>{{statusLabel .Status}}</strong>.</p>
  </td></tr>
</table>`)

	donationReceivedHTML = mustTemplate("donation_received", `
<table width="100%" cellpadding="0" cellspacing="0" style="font-family: Arial, sans-serif; color: #333;">
  <tr><td style="padding: 24px;">
    <h2 style="color: #2f855a;">Obrigado, {{.DonorName}}!</h2>
    <p>Registramos sua doação ({{.DonationType}}).</p>
    <p>Cada contribuição faz diferença na vida dos nossos animais.</p>
  </td></tr>
</table>`)

	contactResponseHTML = mustTemplate("contact_response", `
<table width="100%" cellpadding="0" cellspacing="0" style="font-family: Arial, sans-serif; color: #333;">
  <tr><td style="padding: 24px;">
    <p>Olá {{.Name}},</p>
    <p>{{.Response}}</p>
  </td></tr>
</table>`)

	eventReminderHTML = mustTemplate("event_reminder", `
<table width="100%" cellpadding="0" cellspacing="0" style="font-family: Arial, sans-serif; color: #333;">
  <tr><td style="padding: 24px;">
    <h2>{{.EventTitle}}</h2>
    <p>Olá {{.Name}},</p>
    <p>Lembrete: o evento acontece em <strong>{{datetime .StartsAt}}</strong>.</p>
    <p>Local: {{.Location}}</p>
  </td></tr>
</table>`)
)

func mustTemplate(name, body string) *template.Template {
	return template.Must(template.New(name).Funcs(emailFuncs).Parse(body))
}
