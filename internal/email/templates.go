package email

import (
	"bytes"
	"fmt"
	"html/template"
)

type baseEmailData struct {
	Title    string
	Heading  string
	CTALabel string
	CTAURL   string
}

type welcomeEmailData struct {
	baseEmailData
	Name string
}

type approvalEmailData struct {
	baseEmailData
	RequestTitle string
	Deadline     string
}

type decisionEmailData struct {
	baseEmailData
	RequestTitle string
	Status       string
	OptionLabel  string
	Comment      string
}

const layoutTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="font-family: sans-serif; color: #1a1a1a; max-width: 560px; margin: 0 auto; padding: 24px;">
<h2>{{.Heading}}</h2>
{{block "body" .}}{{end}}
{{if .CTAURL}}<p style="margin: 28px 0;"><a href="{{.CTAURL}}" style="background: #2563eb; color: #fff; padding: 12px 20px; border-radius: 6px; text-decoration: none;">{{.CTALabel}}</a></p>{{end}}
<p style="color: #6b7280; font-size: 13px;">Sent by Archject.</p>
</body>
</html>`

var emailBodies = map[string]string{
	"welcome": `{{define "body"}}<p>Hi {{.Name}},</p>
<p>Your workspace is ready. Create a project, add an approval request, and share the link with your client.</p>{{end}}`,

	"approval_request": `{{define "body"}}<p>You have been asked to review and approve <strong>{{.RequestTitle}}</strong>.</p>
<p>Open the link below to compare the options and record your decision.</p>{{end}}`,

	"approval_reminder": `{{define "body"}}<p><strong>{{.RequestTitle}}</strong> is still awaiting your decision{{if .Deadline}} (deadline {{.Deadline}}){{end}}.</p>{{end}}`,

	"decision": `{{define "body"}}<p>The request <strong>{{.RequestTitle}}</strong> was <strong>{{.Status}}</strong>{{if .OptionLabel}} with option &quot;{{.OptionLabel}}&quot;{{end}}.</p>
{{if .Comment}}<p>Client comment: {{.Comment}}</p>{{end}}{{end}}`,
}

func renderEmailTemplate(name string, data interface{}) (string, error) {
	body, ok := emailBodies[name]
	if !ok {
		return "", fmt.Errorf("unknown email template %q", name)
	}

	tmpl, err := template.New("layout").Parse(layoutTemplate)
	if err != nil {
		return "", fmt.Errorf("parse email layout: %w", err)
	}
	if _, err := tmpl.Parse(body); err != nil {
		return "", fmt.Errorf("parse email template %q: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email template %q: %w", name, err)
	}
	return buf.String(), nil
}
