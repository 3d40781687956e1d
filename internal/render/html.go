// Package render turns a built report into the HTML document delivered by
// mail. Rendering is a pure function of the report; there is no shared
// template state beyond the parsed template itself.
package render

import (
	"bytes"
	"html/template"

	"github.com/martinaparikova/calendar-asistant/internal/model"
)

var reportTemplate = template.Must(template.New("report").Parse(`<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>{{.Title}}</title>
    <style>
      body { font-family: -apple-system,BlinkMacSystemFont,Segoe UI,Roboto,Helvetica,Arial,sans-serif; line-height: 1.45; }
      h1 { font-size: 20px; margin: 0 0 12px 0; }
      h2 { font-size: 16px; margin: 18px 0 8px 0; border-bottom: 1px solid #ddd; padding-bottom: 4px; }
      .event { margin: 6px 0 10px 0; }
      .time { font-weight: 600; }
      .title { font-weight: 600; }
      .loc { font-style: italic; color: #333; }
      .cal { color: #555; font-size: 12px; }
      .allday { background: #f4f4f4; border-radius: 4px; padding: 2px 6px; font-size: 12px; margin-left: 6px; }
      .footer { margin-top: 18px; font-size: 12px; color: #666; }
    </style>
  </head>
  <body>
    <h1>{{.Title}}</h1>
    {{if .Intro}}<p>{{.Intro}}</p>{{end}}

    {{if .Days}}
      {{range .Days}}
        <h2>{{.Label}}</h2>
        {{range .Events}}
          <div class="event">
            <div class="title">{{.Title}}
              {{if .AllDay}}<span class="allday">celý den</span>{{end}}
            </div>
            <div class="time">
              {{if not .AllDay}}{{.StartStr}}–{{.EndStr}}{{else}}—{{end}}
            </div>
            {{if .Location}}<div class="loc">{{.Location}}</div>{{end}}
            <div class="cal">{{.CalendarName}}</div>
          </div>
        {{end}}
      {{end}}
    {{else}}
      <p>Žádné události v daném období.</p>
    {{end}}

    <div class="footer">
      Vygenerováno automaticky. Časové pásmo: {{.TZName}}.
    </div>
  </body>
</html>
`))

// HTML renders the report document. html/template escapes event titles and
// locations coming from feed data.
func HTML(rep model.Report) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, rep); err != nil {
		return "", err
	}
	return buf.String(), nil
}
