package services

const ownerSubjectTemplate = `New {{.Subject}} from {{.Name}}`

const ownerTextTemplate = `New message from the {{.SiteName}} contact form

Name: {{.Name}}
Email: {{.Email}}
Subject: {{.Subject}}
{{if .Mobile}}Mobile: {{.Mobile}}
{{end}}Received: {{.SubmittedAt}}

{{.Message}}
`

const ownerHTMLTemplate = `<html>
<body style="font-family: Georgia, serif; color: #2C2417;">
	<h2>New message from the {{.SiteName}} contact form</h2>
	<table style="border-collapse: collapse;">
		<tr><td style="padding: 4px 12px 4px 0;"><b>Name</b></td><td>{{.Name}}</td></tr>
		<tr><td style="padding: 4px 12px 4px 0;"><b>Email</b></td><td><a href="mailto:{{.Email}}">{{.Email}}</a></td></tr>
		<tr><td style="padding: 4px 12px 4px 0;"><b>Subject</b></td><td>{{.Subject}}</td></tr>
		{{if .Mobile}}<tr><td style="padding: 4px 12px 4px 0;"><b>Mobile</b></td><td>{{.Mobile}}</td></tr>{{end}}
		<tr><td style="padding: 4px 12px 4px 0;"><b>Received</b></td><td>{{.SubmittedAt}}</td></tr>
	</table>
	{{range .Paragraphs}}<p>{{.}}</p>
	{{end}}
	<p style="color: #888;">Reply to this email to answer {{.Name}} directly.</p>
</body>
</html>`

const replySubjectTemplate = `Thank you for reaching out, {{.Name}}`

const replyTextTemplate = `Hello {{.Name}},

Thank you for contacting {{.SiteName}}. Your message about "{{.Subject}}" has been received and you will hear back soon.

Your message:
{{.Message}}

With gratitude,
{{.SiteName}}
`

const replyHTMLTemplate = `<html>
<body style="font-family: Georgia, serif; color: #2C2417;">
	<h2>Thank you for reaching out 🌸</h2>
	<p>Hello {{.Name}},</p>
	<p>Thank you for contacting {{.SiteName}}. Your message about <b>{{.Subject}}</b> has been received and you will hear back soon.</p>
	<blockquote style="border-left: 3px solid #C9A058; margin: 16px 0; padding-left: 12px; color: #555;">
	{{range .Paragraphs}}<p>{{.}}</p>
	{{end}}
	</blockquote>
	<p>With gratitude,<br>{{.SiteName}}</p>
</body>
</html>`
