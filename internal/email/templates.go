package email

import "html/template"

type invitationView struct {
	Intro     string
	Title     string
	WhenLabel string
	When      string
	WhereLbl  string
	Where     string
	OrgLabel  string
	Organizer string
	Notes     string
	Hint      string
	CheckIn   string
}

var invitationTemplate = template.Must(template.New("invitation").Parse(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background-color: #f4f4f4; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: white; border-radius: 10px; padding: 30px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
        .title { font-size: 24px; font-weight: bold; color: #1a73e8; margin: 16px 0; }
        .details td { padding: 4px 12px 4px 0; vertical-align: top; }
        .label { color: #666; }
        .footer { color: #666; font-size: 12px; margin-top: 30px; }
    </style>
</head>
<body>
    <div class="container">
        <p>{{.Intro}}</p>
        <div class="title">{{.Title}}</div>
        <table class="details">
            <tr><td class="label">{{.WhenLabel}}</td><td>{{.When}}</td></tr>
            {{if .Where}}<tr><td class="label">{{.WhereLbl}}</td><td>{{.Where}}</td></tr>{{end}}
            {{if .Organizer}}<tr><td class="label">{{.OrgLabel}}</td><td>{{.Organizer}}</td></tr>{{end}}
        </table>
        {{if .Notes}}<p>{{.Notes}}</p>{{end}}
        {{if .CheckIn}}<p><a href="{{.CheckIn}}">{{.CheckIn}}</a></p>{{end}}
        <div class="footer">{{.Hint}}</div>
    </div>
</body>
</html>
`))
